package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wolftactical/internal/apierror"
	"wolftactical/internal/config"
	"wolftactical/internal/dto"
	"wolftactical/internal/middleware"
	"wolftactical/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_session_secret_32_chars_min!"

// fakeAuthService scripts the outcome per username so the handler can be
// exercised without Redis or the DB.
type fakeAuthService struct {
	lastMeta   service.ClientMeta
	destroyed  []string
	blockUser  string
	denyUser   string
	tokenValue string
}

func (f *fakeAuthService) Login(_ context.Context, req dto.LoginRequest, meta service.ClientMeta) (*dto.LoginResponse, error) {
	f.lastMeta = meta
	switch req.Username {
	case f.blockUser:
		return nil, apierror.Blocked()
	case f.denyUser:
		return nil, apierror.Unauthorized("Usuario o contraseña incorrectos")
	}
	return &dto.LoginResponse{Success: true, Message: "Inicio de sesion exitoso", Redirect: "/admin", Token: f.tokenValue}, nil
}

func (f *fakeAuthService) Logout(_ context.Context, sid string) error {
	f.destroyed = append(f.destroyed, sid)
	return nil
}

func testCfg() *config.Config {
	return &config.Config{Env: "development", SessionSecret: testSecret, SessionTTLHours: 8}
}

func authRouter(svc service.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAuthHandler(svc, testCfg())
	r.POST("/v1/auth/login", h.Login)
	r.POST("/v1/auth/logout", h.Logout)
	return r
}

func postJSON(r *gin.Engine, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.RemoteAddr = "192.0.2.1:1234"
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Accept-Language", "es-CL")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	r.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	res := w.Result()
	for _, c := range res.Cookies() {
		if c.Name == middleware.SessionCookie {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestLoginHandler_SetsCookie(t *testing.T) {
	svc := &fakeAuthService{tokenValue: "tok-abc"}
	r := authRouter(svc)

	w := postJSON(r, "/v1/auth/login", dto.LoginRequest{Username: "admin", Password: "secreto"})
	require.Equal(t, http.StatusOK, w.Code)

	c := sessionCookie(t, w)
	assert.Equal(t, "tok-abc", c.Value)
	assert.True(t, c.HttpOnly)
	assert.False(t, c.Secure) // dev env
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)

	// The token itself never appears in the JSON body.
	assert.NotContains(t, w.Body.String(), "tok-abc")
	assert.Contains(t, w.Body.String(), `"redirect":"/admin"`)
}

func TestLoginHandler_FingerprintDesdeHeaders(t *testing.T) {
	svc := &fakeAuthService{}
	r := authRouter(svc)

	postJSON(r, "/v1/auth/login", dto.LoginRequest{Username: "admin", Password: "x"})
	assert.Equal(t, service.Fingerprint("test-agent", "es-CL"), svc.lastMeta.Fingerprint)
	assert.NotEmpty(t, svc.lastMeta.IP)
}

func TestLoginHandler_CookiePreviaRegeneraSesion(t *testing.T) {
	svc := &fakeAuthService{}
	r := authRouter(svc)

	claims := jwt.MapClaims{"sid": "sid-viejo", "exp": time.Now().Add(time.Hour).Unix()}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	postJSON(r, "/v1/auth/login", dto.LoginRequest{Username: "admin", Password: "x"},
		&http.Cookie{Name: middleware.SessionCookie, Value: tok})
	assert.Equal(t, "sid-viejo", svc.lastMeta.SesionAnterior)
}

func TestLoginHandler_CredencialesInvalidas(t *testing.T) {
	svc := &fakeAuthService{denyUser: "admin"}
	r := authRouter(svc)

	w := postJSON(r, "/v1/auth/login", dto.LoginRequest{Username: "admin", Password: "mal"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginHandler_Bloqueado(t *testing.T) {
	svc := &fakeAuthService{blockUser: "admin"}
	r := authRouter(svc)

	w := postJSON(r, "/v1/auth/login", dto.LoginRequest{Username: "admin", Password: "lo-que-sea"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	// The body gives nothing away beyond the generic denial.
	assert.Contains(t, w.Body.String(), "Acceso denegado")
}

func TestLoginHandler_CamposFaltantes(t *testing.T) {
	r := authRouter(&fakeAuthService{})

	w := postJSON(r, "/v1/auth/login", map[string]string{"username": "admin"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestLoginHandler_JSONInvalido(t *testing.T) {
	r := authRouter(&fakeAuthService{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/v1/auth/login", bytes.NewReader([]byte("{no es json")))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogoutHandler_DestruyeSesionYLimpiaCookie(t *testing.T) {
	svc := &fakeAuthService{}
	r := authRouter(svc)

	claims := jwt.MapClaims{"sid": "sid-activo", "exp": time.Now().Add(time.Hour).Unix()}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	w := postJSON(r, "/v1/auth/logout", nil, &http.Cookie{Name: middleware.SessionCookie, Value: tok})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"sid-activo"}, svc.destroyed)

	c := sessionCookie(t, w)
	assert.Empty(t, c.Value)
	assert.Negative(t, c.MaxAge)
}

func TestLogoutHandler_SinSesionEsIdempotente(t *testing.T) {
	svc := &fakeAuthService{}
	r := authRouter(svc)

	w := postJSON(r, "/v1/auth/logout", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, svc.destroyed)
}
