package parser

import (
	"archive/zip"
	"encoding/base64"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/ukaji3/xlgallery-go/pkg/xlgallery/models"
)

// LoadMedia reads every entry under xl/media/ into a data URL keyed by its
// archive path. The MIME subtype is the lowercased file extension.
func LoadMedia(r *zip.Reader, log *slog.Logger, diag *models.Diagnostics) (models.MediaTable, error) {
	media := make(models.MediaTable)
	for _, f := range r.File {
		if !strings.HasPrefix(f.Name, MediaDir) || strings.HasSuffix(f.Name, "/") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, err
		}
		media[f.Name] = DataURL(f.Name, data)
	}

	diag.MediaFiles = len(media)
	log.Info("loaded media files", "count", len(media))
	return media, nil
}

// DataURL encodes data as an image data URL typed after name's extension.
func DataURL(name string, data []byte) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
	return "data:image/" + ext + ";base64," + base64.StdEncoding.EncodeToString(data)
}
