package web

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vrushalikudande/portfolio/internal/store"
)

var untrackedPrefixes = []string{
	"/static/",
	"/admin/",
	"/favicon",
	"/privacy",
	"/healthz",
	"/loading",
	"/clock",
	"/background",
	"/go/",
}

// visitorTrackingMiddleware records page and section views with a hashed
// client IP. Requests carrying DNT: 1 are not recorded.
func (s *Server) visitorTrackingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, prefix := range untrackedPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}
		if c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		c.Next()

		section := c.GetString(sectionKey)
		if section == "" {
			return
		}
		visit := store.Visit{
			HashedIP:  s.opts.Store.HashIP(c.ClientIP()),
			UserAgent: c.GetHeader("User-Agent"),
			Path:      path,
			Section:   section,
			Timestamp: time.Now(),
		}
		go s.trackVisit(visit)
	}
}

func (s *Server) trackVisit(v store.Visit) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.opts.Store.RecordVisit(ctx, v); err != nil {
		log.Printf("Error recording visitor: %v", err)
	}
}
