package handler

import (
	"net/http"
	"path/filepath"

	"wolftactical/internal/apierror"
	"wolftactical/internal/dto"
	"wolftactical/internal/infra"
	"wolftactical/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProductosHandler struct {
	svc     service.ProductoService
	storage *infra.ImageStorage
}

func NewProductosHandler(svc service.ProductoService, storage *infra.ImageStorage) *ProductosHandler {
	return &ProductosHandler{svc: svc, storage: storage}
}

// Listar GET /v1/productos?categoria_id=&subcategoria_id=
func (h *ProductosHandler) Listar(c *gin.Context) {
	filter := dto.ProductoFilter{
		CategoriaID:    c.Query("categoria_id"),
		SubcategoriaID: c.Query("subcategoria_id"),
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerPorID GET /v1/productos/:id
func (h *ProductosHandler) ObtenerPorID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, svcErr := h.svc.ObtenerPorID(c.Request.Context(), id)
	if svcErr != nil {
		respondErr(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Crear POST /v1/productos
func (h *ProductosHandler) Crear(c *gin.Context) {
	var req dto.CrearProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Actualizar PUT /v1/productos/:id
func (h *ProductosHandler) Actualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ActualizarProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, svcErr := h.svc.Actualizar(c.Request.Context(), id, req)
	if svcErr != nil {
		respondErr(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar DELETE /v1/productos/:id
func (h *ProductosHandler) Eliminar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if svcErr := h.svc.Eliminar(c.Request.Context(), id); svcErr != nil {
		respondErr(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, dto.EliminarResponse{Success: true, Message: "Producto eliminado"})
}

// AgregarColor POST /v1/productos/:id/colores
func (h *ProductosHandler) AgregarColor(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.CrearColorRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, svcErr := h.svc.AgregarColor(c.Request.Context(), id, req)
	if svcErr != nil {
		respondErr(c, svcErr)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// EliminarColor DELETE /v1/productos/:id/colores/:colorId
func (h *ProductosHandler) EliminarColor(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	colorID, err := uuid.Parse(c.Param("colorId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if svcErr := h.svc.EliminarColor(c.Request.Context(), id, colorID); svcErr != nil {
		respondErr(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, dto.EliminarResponse{Success: true, Message: "Color eliminado"})
}

// SubirImagen POST /v1/productos/:id/imagenes — multipart upload.
func (h *ProductosHandler) SubirImagen(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}

	file, err := c.FormFile("imagen")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Archivo 'imagen' requerido"))
		return
	}
	esPortada := c.PostForm("es_portada") == "true"

	nombre := h.storage.NombreUnico(file.Filename)
	abs, err := h.storage.Ruta(nombre)
	if err != nil {
		respondErr(c, apierror.Internal())
		return
	}
	if err := c.SaveUploadedFile(file, abs); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, apierror.New("No se pudo guardar la imagen"))
		return
	}

	resp, svcErr := h.svc.AgregarImagen(c.Request.Context(), id, filepath.Base(nombre), esPortada)
	if svcErr != nil {
		respondErr(c, svcErr)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// EliminarImagen DELETE /v1/productos/:id/imagenes/:imgId
func (h *ProductosHandler) EliminarImagen(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	imgID, err := uuid.Parse(c.Param("imgId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if svcErr := h.svc.EliminarImagen(c.Request.Context(), id, imgID); svcErr != nil {
		respondErr(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, dto.EliminarResponse{Success: true, Message: "Imagen eliminada"})
}
