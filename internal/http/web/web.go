// Package web serves the HTML site: the public marketing pages and the
// session-gated worker admin area.
package web

import (
	"net/http"

	"github.com/amberstream/webportal/internal/auth"
	"github.com/amberstream/webportal/internal/session"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// sessionCookie is the cookie carrying the worker session token.
const sessionCookie = "amberstream_session"

// loginPath is where unauthenticated admin requests are sent.
const loginPath = "/admin"

// contextWorkerKey is the gin context key holding the loaded worker.
const contextWorkerKey = "worker"

// RegisterWebRoutes registers the marketing pages and the admin area.
func RegisterWebRoutes(r *gin.Engine, conn *gorm.DB, sessions *session.Manager) {
	if r == nil || conn == nil || sessions == nil {
		return
	}

	pages := newPageHandler(conn)
	r.GET("/", pages.Home)
	r.GET("/AmberStream.html", pages.Home)
	r.GET("/about.html", pages.About)
	r.GET("/contact.html", pages.Contact)
	r.GET("/plans.html", pages.Plans)
	r.GET("/news.html", pages.News)
	r.GET("/services.html", pages.Services)
	r.GET("/sustainability.html", pages.Sustainability)

	admin := newAdminHandler(conn, sessions)
	r.GET("/admin", admin.LoginForm)
	r.POST("/admin", admin.Login)
	r.GET("/admin/", admin.LoginForm)
	r.POST("/admin/", admin.Login)

	authed := r.Group("/admin")
	authed.Use(requireSession(conn, sessions))
	authed.GET("/plans", admin.PlansForm)
	authed.POST("/plans", admin.SavePlans)
	authed.GET("/change-password", admin.PasswordForm)
	authed.POST("/change-password", admin.ChangePassword)
	authed.GET("/logout", admin.Logout)
}

// requireSession resolves the session cookie, loads the bound worker, and
// redirects to the login page when either step fails.
func requireSession(conn *gorm.DB, sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, errCookie := c.Cookie(sessionCookie)
		if errCookie != nil {
			c.Redirect(http.StatusFound, loginPath)
			c.Abort()
			return
		}
		workerID, ok := sessions.Resolve(token)
		if !ok {
			c.Redirect(http.StatusFound, loginPath)
			c.Abort()
			return
		}
		worker, errLoad := auth.LoadWorker(conn.WithContext(c.Request.Context()), workerID)
		if errLoad != nil {
			c.Redirect(http.StatusFound, loginPath)
			c.Abort()
			return
		}
		c.Set(contextWorkerKey, worker)
		c.Next()
	}
}
