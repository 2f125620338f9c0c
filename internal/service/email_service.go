package service

import (
	"context"
	"fmt"
	"strings"

	"wolftactical/internal/apierror"
	"wolftactical/internal/config"
	"wolftactical/internal/dto"
	"wolftactical/internal/infra"
	"wolftactical/internal/worker"

	"github.com/rs/zerolog/log"
)

// EmailDispatcher abstracts the async queue so the service can be unit tested
// without Redis. *worker.Dispatcher satisfies it.
type EmailDispatcher interface {
	EnqueueEmail(ctx context.Context, payload interface{}) error
}

// EmailService validates and dispatches the storefront's outbound mails.
// Sending is asynchronous: the request only enqueues a job.
type EmailService interface {
	EnviarCarrito(ctx context.Context, req dto.CartEmailRequest) error
	EnviarContacto(ctx context.Context, req dto.ContactEmailRequest) error
	EnviarPedido(ctx context.Context, req dto.OrderEmailRequest) error
}

type emailService struct {
	dispatcher EmailDispatcher
	cfg        *config.Config
	pdfDir     string
}

func NewEmailService(dispatcher EmailDispatcher, cfg *config.Config) EmailService {
	return &emailService{
		dispatcher: dispatcher,
		cfg:        cfg,
		pdfDir:     cfg.UploadPath + "/pedidos",
	}
}

// validarDominio enforces the sender allow-list: only well-known consumer
// providers may write to the store inbox.
func (s *emailService) validarDominio(email string) error {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return apierror.Invalid("Correo invalido")
	}
	dominio := strings.ToLower(email[at+1:])
	for _, d := range s.cfg.EmailDomains() {
		if dominio == strings.ToLower(d) {
			return nil
		}
	}
	return apierror.Invalid("Dominio de correo no permitido")
}

func itemsTexto(items []dto.EmailItem) string {
	var b strings.Builder
	for _, it := range items {
		linea := fmt.Sprintf("  - %s", it.Nombre)
		if it.Modelo != "" {
			linea += " (" + it.Modelo + ")"
		}
		if it.Color != "" {
			linea += " color " + it.Color
		}
		linea += fmt.Sprintf(" x%d — $%s\n", it.Cantidad, it.Precio)
		b.WriteString(linea)
	}
	return b.String()
}

func (s *emailService) EnviarCarrito(ctx context.Context, req dto.CartEmailRequest) error {
	if err := s.validarDominio(req.Email); err != nil {
		return err
	}

	body := fmt.Sprintf("Carrito enviado desde la tienda por %s:\n\n%s", req.Email, itemsTexto(req.Items))
	return s.dispatcher.EnqueueEmail(ctx, worker.EmailJobPayload{
		To:      s.cfg.StoreEmail,
		ReplyTo: req.Email,
		Subject: fmt.Sprintf("[%s] Carrito de %s", s.cfg.StoreName, req.Email),
		Body:    body,
	})
}

func (s *emailService) EnviarContacto(ctx context.Context, req dto.ContactEmailRequest) error {
	if err := s.validarDominio(req.Email); err != nil {
		return err
	}

	body := fmt.Sprintf("Mensaje de contacto de %s <%s>:\n\n%s", req.Nombre, req.Email, req.Mensaje)
	return s.dispatcher.EnqueueEmail(ctx, worker.EmailJobPayload{
		To:      s.cfg.StoreEmail,
		ReplyTo: req.Email,
		Subject: fmt.Sprintf("[%s] Contacto de %s", s.cfg.StoreName, req.Nombre),
		Body:    body,
	})
}

// EnviarPedido attaches a generated PDF order summary to the store email.
// A PDF failure does not lose the order: the mail goes out without it.
func (s *emailService) EnviarPedido(ctx context.Context, req dto.OrderEmailRequest) error {
	if err := s.validarDominio(req.Email); err != nil {
		return err
	}

	pdfPath, err := infra.GenerarPedidoPDF(req, s.cfg.StoreName, s.pdfDir)
	if err != nil {
		log.Error().Err(err).Msg("no se pudo generar el PDF del pedido")
		pdfPath = ""
	}

	body := fmt.Sprintf(
		"Nuevo pedido de %s <%s>\nTelefono: %s\nDireccion: %s\n\n%s\nTotal: $%s",
		req.Nombre, req.Email, req.Telefono, req.Direccion, itemsTexto(req.Items), req.Total,
	)
	return s.dispatcher.EnqueueEmail(ctx, worker.EmailJobPayload{
		To:         s.cfg.StoreEmail,
		ReplyTo:    req.Email,
		Subject:    fmt.Sprintf("[%s] Pedido de %s", s.cfg.StoreName, req.Nombre),
		Body:       body,
		AttachPath: pdfPath,
	})
}
