package handler

import (
	"fmt"
	"net/http"

	"wolftactical/internal/apierror"
	"wolftactical/internal/dto"
	"wolftactical/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CategoriasHandler struct{ svc service.CategoriaService }

func NewCategoriasHandler(svc service.CategoriaService) *CategoriasHandler {
	return &CategoriasHandler{svc: svc}
}

// Crear POST /v1/categorias
func (h *CategoriasHandler) Crear(c *gin.Context) {
	var req dto.CrearCategoriaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.CrearCategoriaResponse{
		Success:   true,
		Message:   "Categoria creada",
		Categoria: *resp,
	})
}

// CrearSubcategoria POST /v1/categorias/:id/subcategorias
func (h *CategoriasHandler) CrearSubcategoria(c *gin.Context) {
	parentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.CrearSubcategoriaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, svcErr := h.svc.CrearSubcategoria(c.Request.Context(), parentID, req)
	if svcErr != nil {
		respondErr(c, svcErr)
		return
	}
	c.JSON(http.StatusCreated, dto.CrearSubcategoriaResponse{
		Success:      true,
		Message:      "Subcategoria creada",
		Subcategoria: *resp,
	})
}

// Listar GET /v1/categorias — nested tree, fallback hidden.
func (h *CategoriasHandler) Listar(c *gin.Context) {
	resp, err := h.svc.ListarNested(c.Request.Context(), false)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarFlat GET /v1/categorias/flat — legacy flat shape for the SPA menus.
func (h *CategoriasHandler) ListarFlat(c *gin.Context) {
	resp, err := h.svc.ListarFlat(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarSubcategorias GET /v1/categorias/:id/subcategorias
func (h *CategoriasHandler) ListarSubcategorias(c *gin.Context) {
	parentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, svcErr := h.svc.ListarSubcategorias(c.Request.Context(), parentID)
	if svcErr != nil {
		respondErr(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar DELETE /v1/categorias/:id
func (h *CategoriasHandler) Eliminar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	reasignados, svcErr := h.svc.Eliminar(c.Request.Context(), id)
	if svcErr != nil {
		respondErr(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, dto.EliminarCategoriaResponse{
		Success:     true,
		Message:     fmt.Sprintf("Categoria eliminada; %d productos reasignados", reasignados),
		Reasignados: reasignados,
	})
}

// EliminarSubcategoria DELETE /v1/subcategorias/:id
func (h *CategoriasHandler) EliminarSubcategoria(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if svcErr := h.svc.EliminarSubcategoria(c.Request.Context(), id); svcErr != nil {
		respondErr(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, dto.EliminarSubcategoriaResponse{
		Success: true,
		Message: "Subcategoria eliminada",
	})
}
