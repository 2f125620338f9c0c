package handler

import (
	"net/http"

	"wolftactical/internal/apierror"
	"wolftactical/internal/config"
	"wolftactical/internal/dto"
	"wolftactical/internal/middleware"
	"wolftactical/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	svc service.AuthService
	cfg *config.Config
}

func NewAuthHandler(svc service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{svc: svc, cfg: cfg}
}

// Login godoc
// @Summary Login del administrador
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Credenciales"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} apierror.APIError
// @Failure 403 {object} apierror.APIError
// @Router /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	meta := service.ClientMeta{
		IP:          c.ClientIP(),
		Fingerprint: service.Fingerprint(c.GetHeader("User-Agent"), c.GetHeader("Accept-Language")),
	}
	// A cookie from a previous session means the sid must be regenerated.
	if tok := middleware.SessionToken(c); tok != "" {
		if sid, ok := middleware.ParseSID(tok, h.cfg.SessionSecret); ok {
			meta.SesionAnterior = sid
		}
	}

	resp, err := h.svc.Login(c.Request.Context(), req, meta)
	if err != nil {
		respondErr(c, err)
		return
	}

	h.setSessionCookie(c, resp.Token, h.cfg.SessionTTLHours*3600)
	c.JSON(http.StatusOK, resp)
}

// Logout destroys the server-side session and clears the cookie. Idempotent:
// a request without a valid session still clears the cookie and succeeds.
func (h *AuthHandler) Logout(c *gin.Context) {
	sid := middleware.GetSID(c)
	if sid == "" {
		if tok := middleware.SessionToken(c); tok != "" {
			sid, _ = middleware.ParseSID(tok, h.cfg.SessionSecret)
		}
	}
	if sid != "" {
		if err := h.svc.Logout(c.Request.Context(), sid); err != nil {
			respondErr(c, apierror.Internal())
			return
		}
	}
	h.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Sesion cerrada"})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	secure := h.cfg.Env == "production"
	c.SetCookie(middleware.SessionCookie, token, maxAge, "/", "", secure, true)
}
