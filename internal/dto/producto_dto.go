package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ── Request DTOs ──────────────────────────────────────────────────────────────

type CrearProductoRequest struct {
	Nombre         string          `json:"nombre"          validate:"required,min=2,max=200"`
	Modelo         string          `json:"modelo"          validate:"required,min=1,max=100"`
	CategoriaID    string          `json:"categoria_id"    validate:"required,uuid"`
	SubcategoriaID *string         `json:"subcategoria_id" validate:"omitempty,uuid"`
	StockOption    string          `json:"stock_option"    validate:"required,oneof=preorder instock"`
	StockCantidad  *int            `json:"stock_cantidad"  validate:"omitempty,min=0"`
	Precio         decimal.Decimal `json:"precio"          validate:"required"`
	ImagenPortada  string          `json:"imagen_portada"`
}

type ActualizarProductoRequest struct {
	Nombre         *string          `json:"nombre"          validate:"omitempty,min=2,max=200"`
	Modelo         *string          `json:"modelo"          validate:"omitempty,min=1,max=100"`
	CategoriaID    *string          `json:"categoria_id"    validate:"omitempty,uuid"`
	SubcategoriaID *string          `json:"subcategoria_id" validate:"omitempty,uuid"`
	StockOption    *string          `json:"stock_option"    validate:"omitempty,oneof=preorder instock"`
	StockCantidad  *int             `json:"stock_cantidad"  validate:"omitempty,min=0"`
	Precio         *decimal.Decimal `json:"precio"`
	ImagenPortada  *string          `json:"imagen_portada"`
}

type CrearColorRequest struct {
	NombreColor string  `json:"nombre_color" validate:"required,min=1,max=50"`
	ColorHex    string  `json:"color_hex"    validate:"required,hexcolor"`
	ImagenPath  *string `json:"imagen_path"`
}

type ProductoFilter struct {
	CategoriaID    string
	SubcategoriaID string
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type ColorResponse struct {
	ID          uuid.UUID `json:"id"`
	NombreColor string    `json:"nombre_color"`
	ColorHex    string    `json:"color_hex"`
	ImagenPath  *string   `json:"imagen_path,omitempty"`
}

type ImagenResponse struct {
	ID        uuid.UUID `json:"id"`
	Path      string    `json:"path"`
	EsPortada bool      `json:"es_portada"`
}

type ProductoResponse struct {
	ID             uuid.UUID        `json:"id"`
	Nombre         string           `json:"nombre"`
	Modelo         string           `json:"modelo"`
	CategoriaID    uuid.UUID        `json:"categoria_id"`
	SubcategoriaID *uuid.UUID       `json:"subcategoria_id,omitempty"`
	StockOption    string           `json:"stock_option"`
	StockCantidad  *int             `json:"stock_cantidad,omitempty"`
	Precio         decimal.Decimal  `json:"precio"`
	ImagenPortada  string           `json:"imagen_portada,omitempty"`
	Colores        []ColorResponse  `json:"colores,omitempty"`
	Imagenes       []ImagenResponse `json:"imagenes,omitempty"`
}

type EliminarResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
