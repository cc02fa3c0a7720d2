package web

import (
	"context"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vrushalikudande/portfolio/internal/view"
)

const (
	viewCookie = "view_id"
	// sectionKey is the gin context key handlers use to report the section
	// a request displayed, for visitor tracking.
	sectionKey = "section"
)

func (s *Server) setViewCookie(c *gin.Context, v *view.View) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(viewCookie, v.ID(), 0, "/", "", false, true)
}

// lookupView returns the view named by the request cookie, if still mounted.
func (s *Server) lookupView(c *gin.Context) (*view.View, bool) {
	id, err := c.Cookie(viewCookie)
	if err != nil || id == "" {
		return nil, false
	}
	return s.opts.Views.Get(id)
}

// currentView returns the request's view, mounting a fresh one when the old
// one has expired.
func (s *Server) currentView(c *gin.Context) *view.View {
	if v, ok := s.lookupView(c); ok {
		return v
	}
	v := s.opts.Views.Mount()
	s.setViewCookie(c, v)
	return v
}

func (s *Server) renderError(c *gin.Context, status int, msg string) {
	c.HTML(status, "error.html", gin.H{"error": msg})
}

// handleIndex mounts a new view for every full page load. The view of a
// previous load from the same browser is torn down: state does not survive
// a reload.
func (s *Server) handleIndex(c *gin.Context) {
	if id, err := c.Cookie(viewCookie); err == nil && id != "" {
		s.opts.Views.Teardown(id)
	}
	v := s.opts.Views.Mount()
	s.setViewCookie(c, v)

	st := v.State()
	p, err := s.page(st)
	if err != nil {
		log.Printf("Error rendering page: %v", err)
		s.renderError(c, http.StatusInternalServerError, "Failed to render page")
		return
	}
	c.Set(sectionKey, st.ActiveSection.String())
	c.HTML(http.StatusOK, "index.html", p)
}

// handleSection switches the visible section and returns its fragment with
// an out-of-band navigation update. Unknown ids leave the state alone and
// render an empty content area.
func (s *Server) handleSection(c *gin.Context) {
	v := s.currentView(c)
	id := c.Param("id")

	st := v.State()
	sec, ok := view.ParseSection(id)
	if ok {
		st = v.SetActiveSection(sec)
		c.Set(sectionKey, sec.String())
	} else {
		log.Printf("Unknown section %q requested", id)
	}

	p := page{Content: s.opts.Content, State: st, Sections: view.Sections()}
	if ok {
		html, err := s.renderSection(p)
		if err != nil {
			log.Printf("Error rendering section: %v", err)
			s.renderError(c, http.StatusInternalServerError, "Failed to render section")
			return
		}
		p.SectionHTML = html
	}
	c.HTML(http.StatusOK, "section-response", p)
}

func (s *Server) handleTheme(c *gin.Context) {
	v := s.currentView(c)
	p, err := s.page(v.ToggleTheme())
	if err != nil {
		log.Printf("Error rendering page: %v", err)
		s.renderError(c, http.StatusInternalServerError, "Failed to render page")
		return
	}
	c.HTML(http.StatusOK, "app", p)
}

// handleLoading returns the overlay while the view is loading and an empty
// body once it has loaded, which removes the overlay.
func (s *Server) handleLoading(c *gin.Context) {
	v, ok := s.lookupView(c)
	if !ok || !v.Loading() {
		c.Status(http.StatusOK)
		return
	}
	c.HTML(http.StatusOK, "loading", nil)
}

// handleClock streams the view's clock as server-sent "clock" events until
// the client goes away or the view is torn down.
func (s *Server) handleClock(c *gin.Context) {
	v, ok := s.lookupView(c)
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}
	ticks, cancel := v.Subscribe()
	defer cancel()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	ctx := c.Request.Context()

	c.SSEvent("clock", clockFragment(v.State().CurrentTime))
	c.Writer.Flush()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case t, ok := <-ticks:
			if !ok {
				return false
			}
			c.SSEvent("clock", clockFragment(t))
			return true
		}
	})
}

func clockFragment(t time.Time) string {
	return `<span class="clock-time">` + view.FormatTime(t) + `</span> <span class="clock-date">` + view.FormatDate(t) + `</span>`
}

// handleLink records a click on an outbound link and redirects to it.
func (s *Server) handleLink(c *gin.Context) {
	name := c.Param("name")
	link, ok := s.opts.Content.Link(name)
	if !ok {
		s.renderError(c, http.StatusNotFound, "Link not found")
		return
	}
	if s.opts.Store != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		if err := s.opts.Store.RecordClick(ctx, name); err != nil {
			log.Printf("Error recording click on %s: %v", name, err)
		}
		cancel()
	}
	c.Redirect(http.StatusFound, link.URL)
}
