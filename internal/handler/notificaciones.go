package handler

import (
	"net/http"

	"wolftactical/internal/apierror"
	"wolftactical/internal/dto"
	"wolftactical/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type NotificacionesHandler struct {
	svc service.NotificacionService
}

func NewNotificacionesHandler(svc service.NotificacionService) *NotificacionesHandler {
	return &NotificacionesHandler{svc: svc}
}

// Guardar POST /v1/notificaciones
func (h *NotificacionesHandler) Guardar(c *gin.Context) {
	var req dto.GuardarNotificacionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Guardar(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar GET /v1/notificaciones
func (h *NotificacionesHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar DELETE /v1/notificaciones/:id
func (h *NotificacionesHandler) Eliminar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if svcErr := h.svc.Eliminar(c.Request.Context(), id); svcErr != nil {
		respondErr(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, dto.EliminarResponse{Success: true, Message: "Notificacion eliminada"})
}
