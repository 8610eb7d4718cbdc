package server

import (
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// NewServer creates the preview server: the JSON API under /api and the
// generated site from outputDir for everything else.
func NewServer(handler *Handler, outputDir string, logger *slog.Logger) *gin.Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	r := gin.New()
	r.Use(requestLogger(logger))
	r.Use(gin.Recovery())
	r.Use(noCache)

	setupRoutes(r, handler, outputDir)
	return r
}

func setupRoutes(r *gin.Engine, handler *Handler, outputDir string) {
	r.GET("/health", handler.HealthCheck)

	api := r.Group("/api")
	{
		api.GET("/posts", handler.ListPosts)
		api.GET("/posts/:id", handler.GetPost)
	}

	r.NoRoute(serveSite(outputDir))
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP())
	}
}

// noCache keeps browsers from holding on to pages between rebuilds.
func noCache(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")
	c.Next()
}

// serveSite maps URL paths onto files in dir. Directories resolve to their
// index.html; anything missing gets the site's 404 page.
func serveSite(dir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.Status(http.StatusMethodNotAllowed)
			return
		}

		urlPath := path.Clean("/" + c.Request.URL.Path)
		file := filepath.Join(dir, filepath.FromSlash(urlPath))

		info, err := os.Stat(file)
		if err == nil && info.IsDir() {
			if !strings.HasSuffix(c.Request.URL.Path, "/") {
				c.Redirect(http.StatusMovedPermanently, urlPath+"/")
				return
			}
			file = filepath.Join(file, "index.html")
			info, err = os.Stat(file)
		}
		if err != nil || info.IsDir() {
			notFound(c, dir)
			return
		}
		c.File(file)
	}
}

func notFound(c *gin.Context, dir string) {
	page, err := os.ReadFile(filepath.Join(dir, "404.html"))
	if err != nil {
		c.String(http.StatusNotFound, "404 page not found")
		return
	}
	c.Data(http.StatusNotFound, "text/html; charset=utf-8", page)
}
