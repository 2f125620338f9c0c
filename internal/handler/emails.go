package handler

import (
	"net/http"

	"wolftactical/internal/dto"
	"wolftactical/internal/service"

	"github.com/gin-gonic/gin"
)

type EmailsHandler struct {
	svc service.EmailService
}

func NewEmailsHandler(svc service.EmailService) *EmailsHandler {
	return &EmailsHandler{svc: svc}
}

// EnviarCarrito POST /v1/emails/carrito
func (h *EmailsHandler) EnviarCarrito(c *gin.Context) {
	var req dto.CartEmailRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.EnviarCarrito(c.Request.Context(), req); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusAccepted, dto.EmailResponse{Success: true, Message: "Email encolado"})
}

// EnviarContacto POST /v1/emails/contacto
func (h *EmailsHandler) EnviarContacto(c *gin.Context) {
	var req dto.ContactEmailRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.EnviarContacto(c.Request.Context(), req); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusAccepted, dto.EmailResponse{Success: true, Message: "Email encolado"})
}

// EnviarPedido POST /v1/emails/pedido
func (h *EmailsHandler) EnviarPedido(c *gin.Context) {
	var req dto.OrderEmailRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.EnviarPedido(c.Request.Context(), req); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusAccepted, dto.EmailResponse{Success: true, Message: "Email encolado"})
}
