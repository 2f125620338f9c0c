package dto

import "github.com/google/uuid"

// ── Request DTOs ──────────────────────────────────────────────────────────────

type CrearCategoriaRequest struct {
	Nombre string `json:"nombre" validate:"required,min=2,max=100"`
}

type CrearSubcategoriaRequest struct {
	Nombre string `json:"nombre" validate:"required,min=2,max=100"`
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type CategoriaResponse struct {
	ID       uuid.UUID  `json:"id"`
	Nombre   string     `json:"nombre"`
	Slug     string     `json:"slug"`
	ParentID *uuid.UUID `json:"parent_id,omitempty"`

	// Subcategorias is populated only in the nested listing.
	Subcategorias []CategoriaResponse `json:"subcategorias,omitempty"`
}

type CrearCategoriaResponse struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message"`
	Categoria CategoriaResponse `json:"categoria"`
}

type CrearSubcategoriaResponse struct {
	Success      bool              `json:"success"`
	Message      string            `json:"message"`
	Subcategoria CategoriaResponse `json:"subcategoria"`
}

// EliminarCategoriaResponse reports how many products were moved to the
// fallback category during the delete.
type EliminarCategoriaResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	Reasignados int64  `json:"reasignados"`
}

type EliminarSubcategoriaResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
