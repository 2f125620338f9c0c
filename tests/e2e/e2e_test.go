//go:build integration

package e2e

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"wolftactical/internal/config"
	"wolftactical/internal/infra"
	"wolftactical/internal/middleware"
	"wolftactical/internal/router"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token})
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Setup ────────────────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string // signed session cookie value
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("wolftactical_test"),
		tcPostgres.WithUsername("wolftactical"),
		tcPostgres.WithPassword("wolftactical"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:                8000,
		Env:                 "test",
		WorkerPoolSize:      1,
		DatabaseURL:         pgURL,
		RedisURL:            rdURL,
		SessionSecret:       "e2e-session-secret-32-chars-min!!",
		SessionTTLHours:     1,
		LoginMaxAttempts:    3,
		LoginBlockHours:     5,
		LoginWindowHours:    5,
		StoreName:           "Wolf Tactical",
		StoreEmail:          "ventas@wolftactical.cl",
		UploadPath:          t.TempDir(),
		AllowedEmailDomains: "gmail.com",
	}

	// NewDatabase migrates the throwaway container schema.
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	storage, err := infra.NewImageStorage(cfg.UploadPath)
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte("wolf-e2e-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Exec(`
		INSERT INTO usuarios (id, username, password_hash, activo, created_at, updated_at)
		VALUES (gen_random_uuid(), 'admin', ?, true, now(), now())
		ON CONFLICT DO NOTHING`, string(hash)).Error)

	cb := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	r := router.New(cfg, db, rdb, storage, cb)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "admin", "password": "wolf-e2e-pass"}), "")
	require.Equal(t, http.StatusOK, loginResp.StatusCode)

	var token string
	for _, c := range loginResp.Cookies() {
		if c.Name == middleware.SessionCookie {
			token = c.Value
		}
	}
	loginResp.Body.Close()
	require.NotEmpty(t, token)

	return &testEnv{server: srv, token: token}
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_CategoriaConProductos_DeleteReasigna(t *testing.T) {
	env := setupTestEnv(t)

	// Category with a subcategory; the product hangs off the subcategory so
	// the delete also has to clear that pointer before the row goes away.
	catResp := do(t, env.server, "POST", "/v1/categorias",
		jsonBody(t, map[string]string{"nombre": "Chalecos"}), env.token)
	require.Equal(t, http.StatusCreated, catResp.StatusCode)
	var cat struct {
		Categoria struct {
			ID string `json:"id"`
		} `json:"categoria"`
	}
	decodeJSON(t, catResp, &cat)

	subResp := do(t, env.server, "POST", "/v1/categorias/"+cat.Categoria.ID+"/subcategorias",
		jsonBody(t, map[string]string{"nombre": "Porta Placas"}), env.token)
	require.Equal(t, http.StatusCreated, subResp.StatusCode)
	var sub struct {
		Subcategoria struct {
			ID string `json:"id"`
		} `json:"subcategoria"`
	}
	decodeJSON(t, subResp, &sub)

	prodResp := do(t, env.server, "POST", "/v1/productos",
		jsonBody(t, map[string]any{
			"nombre":          "Chaleco Táctico WT",
			"modelo":          "WT-500",
			"categoria_id":    cat.Categoria.ID,
			"subcategoria_id": sub.Subcategoria.ID,
			"stock_option":    "preorder",
			"precio":          "49990",
		}), env.token)
	require.Equal(t, http.StatusCreated, prodResp.StatusCode)
	var prod struct {
		ID string `json:"id"`
	}
	decodeJSON(t, prodResp, &prod)

	// Delete the category: the product must land on the fallback category.
	delResp := do(t, env.server, "DELETE", "/v1/categorias/"+cat.Categoria.ID, nil, env.token)
	require.Equal(t, http.StatusOK, delResp.StatusCode)
	var del struct {
		Reasignados int64 `json:"reasignados"`
	}
	decodeJSON(t, delResp, &del)
	assert.Equal(t, int64(1), del.Reasignados)

	// The product survived; its category changed and the deleted
	// subcategory is no longer referenced.
	getResp := do(t, env.server, "GET", "/v1/productos/"+prod.ID, nil, "")
	require.Equal(t, http.StatusOK, getResp.StatusCode)
	var got struct {
		CategoriaID    string  `json:"categoria_id"`
		SubcategoriaID *string `json:"subcategoria_id"`
	}
	decodeJSON(t, getResp, &got)
	assert.NotEqual(t, cat.Categoria.ID, got.CategoriaID)
	assert.Nil(t, got.SubcategoriaID)

	// The fallback category is hidden from the public tree.
	pubResp := do(t, env.server, "GET", "/v1/categorias", nil, "")
	var publicas []map[string]any
	decodeJSON(t, pubResp, &publicas)
	for _, c := range publicas {
		assert.NotEqual(t, "FALTA CATEGORIA", c["nombre"])
	}

	// And recorded in the notification feed.
	notifResp := do(t, env.server, "GET", "/v1/notificaciones", nil, env.token)
	require.Equal(t, http.StatusOK, notifResp.StatusCode)
	var notifs []struct {
		Mensaje string `json:"mensaje"`
	}
	decodeJSON(t, notifResp, &notifs)
	require.NotEmpty(t, notifs)
	assert.Contains(t, notifs[0].Mensaje, "1 productos reasignados")
}

func TestE2E_SubcategoriaConProducto_DeleteDesvincula(t *testing.T) {
	env := setupTestEnv(t)

	catResp := do(t, env.server, "POST", "/v1/categorias",
		jsonBody(t, map[string]string{"nombre": "Fundas"}), env.token)
	require.Equal(t, http.StatusCreated, catResp.StatusCode)
	var cat struct {
		Categoria struct {
			ID string `json:"id"`
		} `json:"categoria"`
	}
	decodeJSON(t, catResp, &cat)

	subResp := do(t, env.server, "POST", "/v1/categorias/"+cat.Categoria.ID+"/subcategorias",
		jsonBody(t, map[string]string{"nombre": "Rígidas"}), env.token)
	require.Equal(t, http.StatusCreated, subResp.StatusCode)
	var sub struct {
		Subcategoria struct {
			ID string `json:"id"`
		} `json:"subcategoria"`
	}
	decodeJSON(t, subResp, &sub)

	prodResp := do(t, env.server, "POST", "/v1/productos",
		jsonBody(t, map[string]any{
			"nombre":          "Funda Nivel 2",
			"modelo":          "FN-2",
			"categoria_id":    cat.Categoria.ID,
			"subcategoria_id": sub.Subcategoria.ID,
			"stock_option":    "preorder",
			"precio":          "19990",
		}), env.token)
	require.Equal(t, http.StatusCreated, prodResp.StatusCode)
	var prod struct {
		ID string `json:"id"`
	}
	decodeJSON(t, prodResp, &prod)

	delResp := do(t, env.server, "DELETE", "/v1/subcategorias/"+sub.Subcategoria.ID, nil, env.token)
	require.Equal(t, http.StatusOK, delResp.StatusCode)
	delResp.Body.Close()

	// The product keeps its category and loses the subcategory pointer.
	getResp := do(t, env.server, "GET", "/v1/productos/"+prod.ID, nil, "")
	require.Equal(t, http.StatusOK, getResp.StatusCode)
	var got struct {
		CategoriaID    string  `json:"categoria_id"`
		SubcategoriaID *string `json:"subcategoria_id"`
	}
	decodeJSON(t, getResp, &got)
	assert.Equal(t, cat.Categoria.ID, got.CategoriaID)
	assert.Nil(t, got.SubcategoriaID)
}

func TestE2E_LoginBloqueoTrasTresFallos(t *testing.T) {
	env := setupTestEnv(t)

	for i := 0; i < 2; i++ {
		resp := do(t, env.server, "POST", "/v1/auth/login",
			jsonBody(t, map[string]string{"username": "admin", "password": "incorrecta"}), "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		resp.Body.Close()
	}
	resp := do(t, env.server, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "admin", "password": "incorrecta"}), "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// Correct credentials are now also rejected.
	resp = do(t, env.server, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "admin", "password": "wolf-e2e-pass"}), "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestE2E_AdminRutasExigenSesion(t *testing.T) {
	env := setupTestEnv(t)

	resp := do(t, env.server, "POST", "/v1/categorias",
		jsonBody(t, map[string]string{"nombre": "Cascos"}), "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// Logout kills the session server-side; the old cookie stops working.
	logout := do(t, env.server, "POST", "/v1/auth/logout", nil, env.token)
	require.Equal(t, http.StatusOK, logout.StatusCode)
	logout.Body.Close()

	resp = do(t, env.server, "POST", "/v1/categorias",
		jsonBody(t, map[string]string{"nombre": "Cascos"}), env.token)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestE2E_EmailDominioNoPermitido(t *testing.T) {
	env := setupTestEnv(t)

	resp := do(t, env.server, "POST", "/v1/emails/contacto",
		jsonBody(t, map[string]string{
			"email":   "cliente@dominio-raro.xyz",
			"nombre":  "Juan Pérez",
			"mensaje": "Consulta",
		}), "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, env.server, "POST", "/v1/emails/contacto",
		jsonBody(t, map[string]string{
			"email":   "cliente@gmail.com",
			"nombre":  "Juan Pérez",
			"mensaje": "Consulta",
		}), "")
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	resp.Body.Close()
}

func TestE2E_CategoriaDuplicada(t *testing.T) {
	env := setupTestEnv(t)

	resp := do(t, env.server, "POST", "/v1/categorias",
		jsonBody(t, map[string]string{"nombre": "Ópticas"}), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Same slug after normalization → conflict.
	resp = do(t, env.server, "POST", "/v1/categorias",
		jsonBody(t, map[string]string{"nombre": "OPTICAS"}), env.token)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestE2E_Health(t *testing.T) {
	env := setupTestEnv(t)

	resp := do(t, env.server, "GET", "/health", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var h map[string]any
	decodeJSON(t, resp, &h)
	assert.Equal(t, true, h["ok"])
	assert.Equal(t, "connected", h["db"])
	assert.Equal(t, "connected", h["redis"])
	assert.Equal(t, "closed", fmt.Sprint(h["smtp"]))
}
