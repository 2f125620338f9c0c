package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Stock options: a product is either sold on pre-order or from stock on hand.
const (
	StockPreorder = "preorder"
	StockInStock  = "instock"
)

// Producto is a catalog item. Category ownership is relational (CategoriaID
// must reference a top-level category); the legacy free-text category fields
// of older deployments are not carried.
type Producto struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre         string     `gorm:"index;not null"`
	Modelo         string     `gorm:"not null"`
	CategoriaID    uuid.UUID  `gorm:"type:uuid;index;not null"`
	SubcategoriaID *uuid.UUID `gorm:"type:uuid;index"`
	// StockOption: "preorder" | "instock"; StockCantidad is required iff instock
	StockOption   string          `gorm:"type:varchar(10);not null"`
	StockCantidad *int
	Precio        decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	ImagenPortada string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Categoria    *Categoria       `gorm:"foreignKey:CategoriaID"`
	Subcategoria *Categoria       `gorm:"foreignKey:SubcategoriaID"`
	Colores      []ProductoColor  `gorm:"foreignKey:ProductoID"`
	Imagenes     []ProductoImagen `gorm:"foreignKey:ProductoID"`
}

func (Producto) TableName() string { return "productos" }

// ProductoColor is a color variant of a product, optionally with its own image.
type ProductoColor struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID  uuid.UUID `gorm:"type:uuid;index;not null"`
	NombreColor string    `gorm:"not null"`
	ColorHex    string    `gorm:"type:varchar(7);not null"`
	ImagenPath  *string
	CreatedAt   time.Time
}

func (ProductoColor) TableName() string { return "producto_colores" }

// ProductoImagen is a gallery image; EsPortada marks the cover shot.
type ProductoImagen struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID uuid.UUID `gorm:"type:uuid;index;not null"`
	Path       string    `gorm:"not null"`
	EsPortada  bool      `gorm:"not null;default:false"`
	CreatedAt  time.Time
}

func (ProductoImagen) TableName() string { return "producto_imagenes" }
