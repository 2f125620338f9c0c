package repository

import (
	"context"

	"wolftactical/internal/dto"
	"wolftactical/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductoRepository defines the data access contract for products and their
// color/image associations. Services depend on this interface, not on the
// concrete GORM implementation, enabling clean unit testing via stubs.
type ProductoRepository interface {
	Crear(ctx context.Context, p *model.Producto) error
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, error)
	Actualizar(ctx context.Context, p *model.Producto) error

	CrearColor(ctx context.Context, c *model.ProductoColor) error
	CrearImagen(ctx context.Context, img *model.ProductoImagen) error

	ObtenerColorTx(tx *gorm.DB, id uuid.UUID) (*model.ProductoColor, error)
	ObtenerImagenTx(tx *gorm.DB, id uuid.UUID) (*model.ProductoImagen, error)
	EliminarColorTx(tx *gorm.DB, id uuid.UUID) (int64, error)
	EliminarImagenTx(tx *gorm.DB, id uuid.UUID) (int64, error)
	ListarColoresTx(tx *gorm.DB, productoID uuid.UUID) ([]model.ProductoColor, error)
	ListarImagenesTx(tx *gorm.DB, productoID uuid.UUID) ([]model.ProductoImagen, error)
	EliminarColoresDeProductoTx(tx *gorm.DB, productoID uuid.UUID) error
	EliminarImagenesDeProductoTx(tx *gorm.DB, productoID uuid.UUID) error
	EliminarTx(tx *gorm.DB, id uuid.UUID) (int64, error)

	DB() *gorm.DB
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) Crear(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productoRepo) ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).
		Preload("Colores").
		Preload("Imagenes").
		First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productoRepo) Listar(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, error) {
	var productos []model.Producto
	q := r.db.WithContext(ctx).Model(&model.Producto{}).
		Preload("Colores").
		Preload("Imagenes")

	if filter.CategoriaID != "" {
		q = q.Where("categoria_id = ?", filter.CategoriaID)
	}
	if filter.SubcategoriaID != "" {
		q = q.Where("subcategoria_id = ?", filter.SubcategoriaID)
	}

	err := q.Order("nombre ASC").Find(&productos).Error
	return productos, err
}

func (r *productoRepo) Actualizar(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productoRepo) CrearColor(ctx context.Context, c *model.ProductoColor) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *productoRepo) CrearImagen(ctx context.Context, img *model.ProductoImagen) error {
	return r.db.WithContext(ctx).Create(img).Error
}

func (r *productoRepo) ObtenerColorTx(tx *gorm.DB, id uuid.UUID) (*model.ProductoColor, error) {
	var c model.ProductoColor
	if err := tx.First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *productoRepo) ObtenerImagenTx(tx *gorm.DB, id uuid.UUID) (*model.ProductoImagen, error) {
	var img model.ProductoImagen
	if err := tx.First(&img, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &img, nil
}

func (r *productoRepo) EliminarColorTx(tx *gorm.DB, id uuid.UUID) (int64, error) {
	res := tx.Where("id = ?", id).Delete(&model.ProductoColor{})
	return res.RowsAffected, res.Error
}

func (r *productoRepo) EliminarImagenTx(tx *gorm.DB, id uuid.UUID) (int64, error) {
	res := tx.Where("id = ?", id).Delete(&model.ProductoImagen{})
	return res.RowsAffected, res.Error
}

func (r *productoRepo) ListarColoresTx(tx *gorm.DB, productoID uuid.UUID) ([]model.ProductoColor, error) {
	var list []model.ProductoColor
	err := tx.Where("producto_id = ?", productoID).Find(&list).Error
	return list, err
}

func (r *productoRepo) ListarImagenesTx(tx *gorm.DB, productoID uuid.UUID) ([]model.ProductoImagen, error) {
	var list []model.ProductoImagen
	err := tx.Where("producto_id = ?", productoID).Find(&list).Error
	return list, err
}

func (r *productoRepo) EliminarColoresDeProductoTx(tx *gorm.DB, productoID uuid.UUID) error {
	return tx.Where("producto_id = ?", productoID).Delete(&model.ProductoColor{}).Error
}

func (r *productoRepo) EliminarImagenesDeProductoTx(tx *gorm.DB, productoID uuid.UUID) error {
	return tx.Where("producto_id = ?", productoID).Delete(&model.ProductoImagen{}).Error
}

func (r *productoRepo) EliminarTx(tx *gorm.DB, id uuid.UUID) (int64, error) {
	res := tx.Where("id = ?", id).Delete(&model.Producto{})
	return res.RowsAffected, res.Error
}

func (r *productoRepo) DB() *gorm.DB { return r.db }
