package dto

import (
	"time"

	"github.com/google/uuid"
)

type GuardarNotificacionRequest struct {
	Mensaje  string `json:"mensaje"  validate:"required,min=1,max=500"`
	Tipo     string `json:"tipo"     validate:"required,oneof=info warning error"`
	Duracion int    `json:"duracion" validate:"min=0"`
}

type NotificacionResponse struct {
	ID        uuid.UUID `json:"id"`
	Mensaje   string    `json:"mensaje"`
	Tipo      string    `json:"tipo"`
	Duracion  int       `json:"duracion"`
	CreatedAt time.Time `json:"created_at"`
}
