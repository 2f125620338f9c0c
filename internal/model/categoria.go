package model

import (
	"time"

	"github.com/google/uuid"
)

// FallbackCategoria is the reserved category that absorbs products whose
// original category was deleted. Once created it is permanent and is hidden
// from public listings.
const (
	FallbackCategoriaNombre = "FALTA CATEGORIA"
	FallbackCategoriaSlug   = "falta-categoria"
)

// Categoria is a self-referential category row: ParentID nil means top-level,
// non-nil means subcategory of that parent. Nesting deeper than one level is
// not used.
type Categoria struct {
	ID       uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre   string     `gorm:"uniqueIndex;not null"`
	Slug     string     `gorm:"uniqueIndex;not null"`
	ParentID *uuid.UUID `gorm:"type:uuid;index"`

	Parent    *Categoria `gorm:"foreignKey:ParentID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides GORM's default singular → plural logic for Spanish names.
func (Categoria) TableName() string { return "categorias" }

// EsTopLevel reports whether the category can own subcategories.
func (c *Categoria) EsTopLevel() bool { return c.ParentID == nil }
