package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/amberstream/webportal/internal/auth"
	"github.com/amberstream/webportal/internal/catalog"
	"github.com/amberstream/webportal/internal/models"
	"github.com/amberstream/webportal/internal/session"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// User-facing messages for the admin forms.
const (
	msgInvalidCredentials = "Invalid credentials"
	msgPricesSaved        = "Prices saved!"
	msgWrongOldPassword   = "Current password is incorrect!"
	msgEmptyNewPassword   = "New password cannot be empty!"
	msgPasswordTooShort   = "New password must be at least 3 characters!"
	msgPasswordMismatch   = "New passwords do not match!"
	msgPasswordChanged    = "Password changed successfully!"
)

// priceFieldPrefix names the per-plan price inputs on the edit form.
const priceFieldPrefix = "price_"

// adminHandler serves the session-gated admin workflows.
type adminHandler struct {
	db       *gorm.DB
	sessions *session.Manager
}

// newAdminHandler constructs an adminHandler.
func newAdminHandler(db *gorm.DB, sessions *session.Manager) *adminHandler {
	return &adminHandler{db: db, sessions: sessions}
}

// LoginForm renders the worker login page.
func (h *adminHandler) LoginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "admin_login.html", gin.H{})
}

// Login authenticates the posted credentials and starts a session.
func (h *adminHandler) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	worker, errAuth := auth.Authenticate(h.db.WithContext(c.Request.Context()), username, password)
	if errAuth != nil {
		if !errors.Is(errAuth, auth.ErrInvalidCredentials) {
			log.WithError(errAuth).Error("login lookup failed")
		}
		c.HTML(http.StatusOK, "admin_login.html", gin.H{"Msg": msgInvalidCredentials})
		return
	}

	token, errIssue := h.sessions.Issue(worker.ID)
	if errIssue != nil {
		log.WithError(errIssue).Error("session issue failed")
		c.HTML(http.StatusOK, "admin_login.html", gin.H{"Msg": msgInvalidCredentials})
		return
	}
	c.SetCookie(sessionCookie, token, 0, "/", "", false, true)
	c.Redirect(http.StatusFound, "/admin/plans")
}

// PlansForm renders the plan price edit form.
func (h *adminHandler) PlansForm(c *gin.Context) {
	h.renderPlans(c, "")
}

// SavePlans applies the posted price edits and re-renders the form.
func (h *adminHandler) SavePlans(c *gin.Context) {
	edits := priceEdits(c)
	if errApply := catalog.ApplyPriceEdits(h.db.WithContext(c.Request.Context()), edits, time.Now().UTC()); errApply != nil {
		log.WithError(errApply).Error("price edit commit failed")
		c.String(http.StatusInternalServerError, "saving prices failed")
		return
	}
	h.renderPlans(c, msgPricesSaved)
}

// renderPlans renders the current catalog and revision stamp.
func (h *adminHandler) renderPlans(c *gin.Context, msg string) {
	plans, errList := catalog.ListPlans(h.db.WithContext(c.Request.Context()))
	if errList != nil {
		log.WithError(errList).Error("list plans failed")
		c.String(http.StatusInternalServerError, "plans unavailable")
		return
	}
	lastUpdated, errMeta := catalog.RevisionTime(h.db.WithContext(c.Request.Context()))
	if errMeta != nil {
		log.WithError(errMeta).Error("load revision meta failed")
		c.String(http.StatusInternalServerError, "plans unavailable")
		return
	}

	stamp := ""
	if lastUpdated != nil {
		stamp = lastUpdated.UTC().Format("2006-01-02 15:04:05")
	}
	c.HTML(http.StatusOK, "admin_plans.html", gin.H{
		"Plans":       plans,
		"LastUpdated": stamp,
		"Msg":         msg,
	})
}

// priceEdits extracts the price_<planId> form fields into an edits map.
func priceEdits(c *gin.Context) map[uint64]string {
	if errParse := c.Request.ParseForm(); errParse != nil {
		return nil
	}
	edits := make(map[uint64]string)
	for field, values := range c.Request.PostForm {
		if !strings.HasPrefix(field, priceFieldPrefix) || len(values) == 0 {
			continue
		}
		id, errID := strconv.ParseUint(strings.TrimPrefix(field, priceFieldPrefix), 10, 64)
		if errID != nil {
			continue
		}
		edits[id] = values[0]
	}
	return edits
}

// PasswordForm renders the change-password page.
func (h *adminHandler) PasswordForm(c *gin.Context) {
	c.HTML(http.StatusOK, "admin_password.html", gin.H{})
}

// ChangePassword validates and applies the posted password change.
func (h *adminHandler) ChangePassword(c *gin.Context) {
	worker := currentWorker(c)
	if worker == nil {
		c.Redirect(http.StatusFound, loginPath)
		return
	}

	errChange := auth.ChangePassword(
		h.db.WithContext(c.Request.Context()),
		worker,
		c.PostForm("old_password"),
		c.PostForm("new_password"),
		c.PostForm("confirm_password"),
	)

	msg := msgPasswordChanged
	success := true
	switch {
	case errChange == nil:
	case errors.Is(errChange, auth.ErrIncorrectCurrentPassword):
		msg, success = msgWrongOldPassword, false
	case errors.Is(errChange, auth.ErrEmptyNewPassword):
		msg, success = msgEmptyNewPassword, false
	case errors.Is(errChange, auth.ErrPasswordTooShort):
		msg, success = msgPasswordTooShort, false
	case errors.Is(errChange, auth.ErrConfirmationMismatch):
		msg, success = msgPasswordMismatch, false
	default:
		log.WithError(errChange).Error("password change failed")
		c.String(http.StatusInternalServerError, "password change failed")
		return
	}
	c.HTML(http.StatusOK, "admin_password.html", gin.H{"Msg": msg, "Success": success})
}

// Logout destroys the session and returns to the login page.
func (h *adminHandler) Logout(c *gin.Context) {
	if token, errCookie := c.Cookie(sessionCookie); errCookie == nil {
		h.sessions.Revoke(token)
	}
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, loginPath)
}

// currentWorker returns the worker loaded by the session middleware.
func currentWorker(c *gin.Context) *models.Worker {
	value, ok := c.Get(contextWorkerKey)
	if !ok {
		return nil
	}
	worker, ok := value.(*models.Worker)
	if !ok {
		return nil
	}
	return worker
}
