package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"wolftactical/internal/apierror"
	"wolftactical/internal/dto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCategoriaService struct {
	reasignados int64
	eliminadas  []uuid.UUID
}

func (f *fakeCategoriaService) Crear(_ context.Context, req dto.CrearCategoriaRequest) (*dto.CategoriaResponse, error) {
	return &dto.CategoriaResponse{ID: uuid.New(), Nombre: req.Nombre, Slug: "slug"}, nil
}

func (f *fakeCategoriaService) CrearSubcategoria(_ context.Context, parentID uuid.UUID, req dto.CrearSubcategoriaRequest) (*dto.CategoriaResponse, error) {
	return &dto.CategoriaResponse{ID: uuid.New(), Nombre: req.Nombre, ParentID: &parentID}, nil
}

func (f *fakeCategoriaService) ListarNested(context.Context, bool) ([]dto.CategoriaResponse, error) {
	return []dto.CategoriaResponse{}, nil
}

func (f *fakeCategoriaService) ListarFlat(context.Context) ([]dto.CategoriaResponse, error) {
	return []dto.CategoriaResponse{}, nil
}

func (f *fakeCategoriaService) ListarSubcategorias(context.Context, uuid.UUID) ([]dto.CategoriaResponse, error) {
	return []dto.CategoriaResponse{}, nil
}

func (f *fakeCategoriaService) Eliminar(_ context.Context, id uuid.UUID) (int64, error) {
	if f.reasignados < 0 {
		return 0, apierror.NotFound("Categoria no encontrada")
	}
	f.eliminadas = append(f.eliminadas, id)
	return f.reasignados, nil
}

func (f *fakeCategoriaService) EliminarSubcategoria(_ context.Context, id uuid.UUID) error {
	f.eliminadas = append(f.eliminadas, id)
	return nil
}

func categoriasRouter(svc *fakeCategoriaService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewCategoriasHandler(svc)
	r.POST("/v1/categorias", h.Crear)
	r.DELETE("/v1/categorias/:id", h.Eliminar)
	r.DELETE("/v1/subcategorias/:id", h.EliminarSubcategoria)
	return r
}

func TestCategoriasHandler_CrearValidaNombre(t *testing.T) {
	r := categoriasRouter(&fakeCategoriaService{})

	w := postJSON(r, "/v1/categorias", dto.CrearCategoriaRequest{Nombre: "Ópticas"})
	assert.Equal(t, http.StatusCreated, w.Code)

	// Single-char name fails the min=2 tag.
	w = postJSON(r, "/v1/categorias", dto.CrearCategoriaRequest{Nombre: "X"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCategoriasHandler_EliminarReportaReasignados(t *testing.T) {
	svc := &fakeCategoriaService{reasignados: 4}
	r := categoriasRouter(svc)
	id := uuid.New()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodDelete, "/v1/categorias/"+id.String(), nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"reasignados":4`)
	assert.Equal(t, []uuid.UUID{id}, svc.eliminadas)
}

func TestCategoriasHandler_IDInvalido(t *testing.T) {
	r := categoriasRouter(&fakeCategoriaService{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodDelete, "/v1/categorias/no-es-un-uuid", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodDelete, "/v1/subcategorias/123", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
