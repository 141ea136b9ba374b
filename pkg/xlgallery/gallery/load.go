package gallery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ukaji3/xlgallery-go/pkg/xlgallery/models"
)

// Load fetches the record array at url and projects each entry defensively:
// missing or non-string fields become "".
func Load(ctx context.Context, client *http.Client, url string) ([]models.Record, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	return Decode(body)
}

// Decode parses a JSON record array with the same defensive projection as Load.
// A null document or a null entry is an error.
func Decode(data []byte) ([]models.Record, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	if raw == nil {
		return nil, errors.New("decode records: not an array")
	}

	records := make([]models.Record, 0, len(raw))
	for i, item := range raw {
		if bytes.Equal(bytes.TrimSpace(item), []byte("null")) {
			return nil, fmt.Errorf("decode records: entry %d is null", i)
		}
		var fields map[string]any
		if err := json.Unmarshal(item, &fields); err != nil {
			fields = nil
		}
		records = append(records, models.Record{
			Name:        stringField(fields, "name"),
			Type:        stringField(fields, "type"),
			Website:     stringField(fields, "website"),
			Description: stringField(fields, "description"),
			Image:       stringField(fields, "image"),
		})
	}
	return records, nil
}

func stringField(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return s
}
