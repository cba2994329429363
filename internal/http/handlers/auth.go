package handlers

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	logger     *slog.Logger
	passcode   string
	cookieName string
}

func NewAuthHandler(logger *slog.Logger, passcode, cookieName string) *AuthHandler {
	return &AuthHandler{
		logger:     logger,
		passcode:   passcode,
		cookieName: cookieName,
	}
}

func (h *AuthHandler) SubmitLogin(c *gin.Context) {
	passcode := strings.TrimSpace(c.PostForm("passcode"))
	if passcode == "" {
		h.logger.Warn("login attempt missing passcode", "ip", c.ClientIP())
		c.String(http.StatusUnauthorized, "passcode is required")
		return
	}

	if subtle.ConstantTimeCompare([]byte(passcode), []byte(h.passcode)) != 1 {
		h.logger.Warn("invalid login attempt", "ip", c.ClientIP())
		c.String(http.StatusUnauthorized, "invalid passcode")
		return
	}

	redirectTo := c.PostForm("next")
	if !strings.HasPrefix(redirectTo, "/") || strings.HasPrefix(redirectTo, "//") {
		redirectTo = "/upload"
	}

	maxAge := int((14 * 24 * time.Hour).Seconds())
	secure := c.Request.TLS != nil
	c.SetCookie(h.cookieName, "1", maxAge, "/", "", secure, true)

	h.logger.Info("admin login successful", "ip", c.ClientIP())
	c.Redirect(http.StatusFound, redirectTo)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(h.cookieName, "", -1, "/", "", c.Request.TLS != nil, true)
	c.Redirect(http.StatusFound, "/")
}
