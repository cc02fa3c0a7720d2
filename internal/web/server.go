// Package web serves the portfolio: the page, its HTMX section fragments,
// the clock stream, the particle background and the admin pages.
package web

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vrushalikudande/portfolio/internal/content"
	"github.com/vrushalikudande/portfolio/internal/particles"
	"github.com/vrushalikudande/portfolio/internal/store"
	"github.com/vrushalikudande/portfolio/internal/view"
)

// Options wires the server to its collaborators.
type Options struct {
	Content *content.Content
	Views   *view.Registry
	// Store enables visitor tracking and admin statistics when non-nil.
	Store *store.Store

	ParticleCount  int
	FrameInterval  time.Duration
	VisitRetention time.Duration

	AdminUsername string
	AdminPassword string
}

// Server holds the parsed templates and per-process secrets.
type Server struct {
	opts       Options
	tmpl       *template.Template
	adminToken string
}

// New parses the embedded templates and generates the admin session token.
func New(opts Options) (*Server, error) {
	if opts.Content == nil || opts.Views == nil {
		return nil, fmt.Errorf("web: content and views are required")
	}
	if opts.ParticleCount <= 0 {
		opts.ParticleCount = particles.DefaultCount
	}
	if opts.VisitRetention <= 0 {
		opts.VisitRetention = 365 * 24 * time.Hour
	}
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = 33 * time.Millisecond
	}
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	token, err := generateAdminToken()
	if err != nil {
		return nil, err
	}
	return &Server{opts: opts, tmpl: tmpl, adminToken: token}, nil
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()
	r.SetHTMLTemplate(s.tmpl)

	static, _ := fs.Sub(staticFiles, "static")
	r.StaticFS("/static", http.FS(static))

	if s.opts.Store != nil {
		r.Use(s.visitorTrackingMiddleware())
	}

	r.GET("/", s.handleIndex)
	r.POST("/sections/:id", s.handleSection)
	r.POST("/theme", s.handleTheme)
	r.GET("/loading", s.handleLoading)
	r.GET("/clock", s.handleClock)
	r.GET("/background", s.handleBackground)
	r.GET("/background.svg", s.handleBackgroundSVG)
	r.GET("/go/:name", s.handleLink)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "views": s.opts.Views.Len()})
	})

	s.setupAdminRoutes(r)
	return r
}

func generateAdminToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate admin token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
