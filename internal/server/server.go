// Package server exposes the extracted records and the gallery page over HTTP.
package server

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ukaji3/xlgallery-go/pkg/xlgallery/gallery"
	"github.com/ukaji3/xlgallery-go/pkg/xlgallery/models"
)

// DataRoute is where the extractor's JSON output is served.
const DataRoute = "/data.json"

// Options configures a Server.
type Options struct {
	// DataPath is the JSON file served at DataRoute.
	DataPath string
	// DataURL is fetched once to populate the gallery. If empty, the gallery
	// reads DataRoute from the same origin as the first page request.
	DataURL string
	// Client fetches DataURL. If nil, http.DefaultClient is used.
	Client *http.Client
	// Logger receives request and load messages. If nil, slog.Default() is used.
	Logger *slog.Logger
}

type Server struct {
	opts Options
	log  *slog.Logger

	once    sync.Once
	records []models.Record
	loadErr error
}

func New(opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Server{opts: opts, log: log}
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	router.GET(DataRoute, s.getData)
	router.GET("/", s.getGallery)
	router.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	return router
}

// Run serves on addr until the listener fails.
func (s *Server) Run(addr string) error {
	s.log.Info("serving gallery", "addr", addr, "data", s.opts.DataPath)
	return s.Router().Run(addr)
}

func (s *Server) getData(c *gin.Context) {
	if s.opts.DataPath == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "no data file configured"})
		return
	}
	c.File(s.opts.DataPath)
}

func (s *Server) getGallery(c *gin.Context) {
	records, loadErr := s.load(c)

	var state *gallery.State
	if loadErr == nil {
		state = gallery.FromQuery(records, c.Request.URL.Query())
	}

	var buf bytes.Buffer
	if err := gallery.Render(&buf, state, loadErr); err != nil {
		s.log.Error("render gallery", "err", err)
		c.String(http.StatusInternalServerError, "render failed")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// load fetches the records on the first call only; the result, error
// included, is kept for the life of the server.
func (s *Server) load(c *gin.Context) ([]models.Record, error) {
	s.once.Do(func() {
		url := s.opts.DataURL
		if url == "" {
			url = "http://" + c.Request.Host + DataRoute
		}
		s.records, s.loadErr = gallery.Load(context.WithoutCancel(c.Request.Context()), s.opts.Client, url)
		if s.loadErr != nil {
			s.log.Error("load gallery data", "url", url, "err", s.loadErr)
			return
		}
		s.log.Info("gallery data loaded", "url", url, "records", len(s.records))
	})
	return s.records, s.loadErr
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
