package web

import (
	"crypto/subtle"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	adminCookie      = "admin_token"
	visitorListLimit = 200
)

func constantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// adminAuthMiddleware redirects to the login page unless the request carries
// the admin session cookie.
func (s *Server) adminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || !constantTimeEqual(token, s.adminToken) {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// requireStore answers 503 when visitor tracking is disabled.
func (s *Server) requireStore(c *gin.Context) {
	if s.opts.Store == nil {
		s.renderError(c, http.StatusServiceUnavailable, "Visitor tracking is disabled")
		c.Abort()
		return
	}
	c.Next()
}

func (s *Server) setupAdminRoutes(r *gin.Engine) {
	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{
			"title":    "Privacy Policy",
			"tracking": s.opts.Store != nil,
		})
	})

	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{
			"title": "Admin Login",
		})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		username := c.PostForm("username")
		password := c.PostForm("password")

		userOK := constantTimeEqual(username, s.opts.AdminUsername)
		passOK := constantTimeEqual(password, s.opts.AdminPassword)
		if userOK && passOK {
			c.SetSameSite(http.SameSiteStrictMode)
			c.SetCookie(adminCookie, s.adminToken, 3600*24, "/admin", "", false, true)
			log.Printf("Admin login successful from %s", s.clientHash(c))
			c.Redirect(http.StatusFound, "/admin/dashboard")
			return
		}
		log.Printf("Failed admin login attempt from %s", s.clientHash(c))
		c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
			"error": "Invalid credentials",
		})
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", false, true)
		c.Redirect(http.StatusFound, "/admin/login")
	})

	admin := r.Group("/admin")
	admin.Use(s.adminAuthMiddleware())

	admin.GET("/views", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"mounted": s.opts.Views.Len()})
	})

	tracked := admin.Group("", s.requireStore)

	tracked.GET("/dashboard", func(c *gin.Context) {
		stats, err := s.opts.Store.Stats(c.Request.Context())
		if err != nil {
			log.Printf("Error loading admin stats: %v", err)
			s.renderError(c, http.StatusInternalServerError, "Failed to load statistics")
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
			"stats": stats,
			"views": s.opts.Views.Len(),
		})
	})

	tracked.GET("/visitors", func(c *gin.Context) {
		visits, err := s.opts.Store.RecentVisits(c.Request.Context(), visitorListLimit)
		if err != nil {
			log.Printf("Error loading visitors: %v", err)
			s.renderError(c, http.StatusInternalServerError, "Failed to load visitors")
			return
		}
		c.HTML(http.StatusOK, "admin-visitors.html", gin.H{
			"visitors": visits,
		})
	})

	tracked.GET("/api/stats", func(c *gin.Context) {
		stats, err := s.opts.Store.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	tracked.GET("/export/stats", func(c *gin.Context) {
		stats, err := s.opts.Store.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", "attachment; filename=portfolio-stats.json")
		log.Printf("Admin stats exported by %s", s.clientHash(c))
		c.JSON(http.StatusOK, stats)
	})

	tracked.POST("/privacy/cleanup", func(c *gin.Context) {
		n, err := s.opts.Store.Cleanup(c.Request.Context(), s.opts.VisitRetention)
		if err != nil {
			log.Printf("Error cleaning up visitor data: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Cleanup failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"removed": n})
	})
}

// clientHash identifies a client in logs without recording its address.
func (s *Server) clientHash(c *gin.Context) string {
	if s.opts.Store == nil {
		return "unknown client"
	}
	return s.opts.Store.HashIP(c.ClientIP())
}
