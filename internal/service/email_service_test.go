package service

import (
	"context"
	"os"
	"testing"

	"wolftactical/internal/apierror"
	"wolftactical/internal/config"
	"wolftactical/internal/dto"
	"wolftactical/internal/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDispatcher struct {
	encolados []worker.EmailJobPayload
}

func (d *stubDispatcher) EnqueueEmail(_ context.Context, payload interface{}) error {
	d.encolados = append(d.encolados, payload.(worker.EmailJobPayload))
	return nil
}

func emailTestCfg(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		StoreName:           "Wolf Tactical",
		StoreEmail:          "ventas@wolftactical.cl",
		UploadPath:          t.TempDir(),
		AllowedEmailDomains: "gmail.com,hotmail.com,outlook.com",
	}
}

func itemsDemo() []dto.EmailItem {
	return []dto.EmailItem{
		{Nombre: "Chaleco Táctico", Modelo: "WT-500", Color: "Coyote", Cantidad: 2, Precio: "49.990"},
		{Nombre: "Guantes", Cantidad: 1, Precio: "9.990"},
	}
}

func TestEnviarCarrito(t *testing.T) {
	d := &stubDispatcher{}
	svc := NewEmailService(d, emailTestCfg(t))

	err := svc.EnviarCarrito(context.Background(), dto.CartEmailRequest{
		Email: "cliente@gmail.com",
		Items: itemsDemo(),
	})
	require.NoError(t, err)
	require.Len(t, d.encolados, 1)

	job := d.encolados[0]
	assert.Equal(t, "ventas@wolftactical.cl", job.To)
	assert.Equal(t, "cliente@gmail.com", job.ReplyTo)
	assert.Contains(t, job.Subject, "Wolf Tactical")
	assert.Contains(t, job.Body, "Chaleco Táctico")
	assert.Contains(t, job.Body, "x2")
}

func TestEnviarCarrito_DominioNoPermitido(t *testing.T) {
	d := &stubDispatcher{}
	svc := NewEmailService(d, emailTestCfg(t))

	err := svc.EnviarCarrito(context.Background(), dto.CartEmailRequest{
		Email: "cliente@yandex.ru",
		Items: itemsDemo(),
	})
	require.Error(t, err)
	assert.Equal(t, 400, apierror.Status(err))
	assert.Empty(t, d.encolados)
}

func TestValidarDominio_CaseInsensitive(t *testing.T) {
	d := &stubDispatcher{}
	svc := NewEmailService(d, emailTestCfg(t))

	err := svc.EnviarContacto(context.Background(), dto.ContactEmailRequest{
		Email:   "cliente@GMAIL.com",
		Nombre:  "Juan Pérez",
		Mensaje: "Consulta por stock",
	})
	require.NoError(t, err)
	require.Len(t, d.encolados, 1)
	assert.Contains(t, d.encolados[0].Body, "Juan Pérez")
}

func TestEnviarContacto_CorreoSinArroba(t *testing.T) {
	d := &stubDispatcher{}
	svc := NewEmailService(d, emailTestCfg(t))

	err := svc.EnviarContacto(context.Background(), dto.ContactEmailRequest{
		Email:   "no-es-un-correo",
		Nombre:  "X",
		Mensaje: "hola",
	})
	require.Error(t, err)
	assert.Equal(t, 400, apierror.Status(err))
}

func TestEnviarPedido_AdjuntaPDF(t *testing.T) {
	d := &stubDispatcher{}
	svc := NewEmailService(d, emailTestCfg(t))

	err := svc.EnviarPedido(context.Background(), dto.OrderEmailRequest{
		Email:     "cliente@hotmail.com",
		Nombre:    "María Soto",
		Telefono:  "+56911112222",
		Direccion: "Av. Providencia 1234, Santiago",
		Items:     itemsDemo(),
		Total:     "109.970",
	})
	require.NoError(t, err)
	require.Len(t, d.encolados, 1)

	job := d.encolados[0]
	assert.Contains(t, job.Body, "María Soto")
	assert.Contains(t, job.Body, "Total: $109.970")
	require.NotEmpty(t, job.AttachPath)

	// The attachment exists on disk and is a PDF.
	data, err := os.ReadFile(job.AttachPath)
	require.NoError(t, err)
	assert.True(t, len(data) > 4 && string(data[:4]) == "%PDF")
}
