package model

import (
	"time"

	"github.com/google/uuid"
)

// Notification types, used for styling in the admin panel.
const (
	NotifInfo    = "info"
	NotifWarning = "warning"
	NotifError   = "error"
)

// Notificacion is an append-only audit entry shown in the admin activity feed.
// It carries free text only — no foreign keys to the entities it describes.
type Notificacion struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Mensaje string    `gorm:"not null"`
	Tipo    string    `gorm:"type:varchar(10);not null;default:'info'"`
	// Duracion is the client-side auto-dismiss time in milliseconds; 0 = sticky
	Duracion  int `gorm:"not null;default:0"`
	CreatedAt time.Time
}

func (Notificacion) TableName() string { return "notificaciones" }
