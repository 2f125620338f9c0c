package repository

import (
	"context"

	"wolftactical/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoriaRepository defines data access for the self-referential category
// table. The *Tx methods take an explicit transaction handle so the service
// can run the delete-with-reassignment flow atomically.
type CategoriaRepository interface {
	Crear(ctx context.Context, c *model.Categoria) error
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Categoria, error)
	ObtenerPorNombreOSlug(ctx context.Context, nombre, slug string) (*model.Categoria, error)
	ListarTop(ctx context.Context) ([]model.Categoria, error)
	ListarSubcategorias(ctx context.Context, parentID uuid.UUID) ([]model.Categoria, error)
	ListarTodas(ctx context.Context) ([]model.Categoria, error)

	ContarProductosTx(tx *gorm.DB, categoriaID uuid.UUID) (int64, error)
	ObtenerFallbackTx(tx *gorm.DB) (*model.Categoria, error)
	CrearTx(tx *gorm.DB, c *model.Categoria) error
	ReasignarProductosTx(tx *gorm.DB, desde, hacia uuid.UUID) (int64, error)
	DesvincularSubcategoriaTx(tx *gorm.DB, subcategoriaID uuid.UUID) (int64, error)
	EliminarSubcategoriasTx(tx *gorm.DB, parentID uuid.UUID) error
	EliminarTx(tx *gorm.DB, id uuid.UUID) (int64, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type categoriaRepo struct{ db *gorm.DB }

func NewCategoriaRepository(db *gorm.DB) CategoriaRepository { return &categoriaRepo{db: db} }

func (r *categoriaRepo) Crear(ctx context.Context, c *model.Categoria) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *categoriaRepo) ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Categoria, error) {
	var c model.Categoria
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoriaRepo) ObtenerPorNombreOSlug(ctx context.Context, nombre, slug string) (*model.Categoria, error) {
	var c model.Categoria
	err := r.db.WithContext(ctx).
		Where("lower(nombre) = lower(?) OR slug = ?", nombre, slug).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoriaRepo) ListarTop(ctx context.Context) ([]model.Categoria, error) {
	var list []model.Categoria
	err := r.db.WithContext(ctx).
		Where("parent_id IS NULL").
		Order("nombre asc").
		Find(&list).Error
	return list, err
}

func (r *categoriaRepo) ListarSubcategorias(ctx context.Context, parentID uuid.UUID) ([]model.Categoria, error) {
	var list []model.Categoria
	err := r.db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("nombre asc").
		Find(&list).Error
	return list, err
}

func (r *categoriaRepo) ListarTodas(ctx context.Context) ([]model.Categoria, error) {
	var list []model.Categoria
	err := r.db.WithContext(ctx).Order("nombre asc").Find(&list).Error
	return list, err
}

func (r *categoriaRepo) ContarProductosTx(tx *gorm.DB, categoriaID uuid.UUID) (int64, error) {
	var n int64
	err := tx.Model(&model.Producto{}).Where("categoria_id = ?", categoriaID).Count(&n).Error
	return n, err
}

func (r *categoriaRepo) ObtenerFallbackTx(tx *gorm.DB) (*model.Categoria, error) {
	var c model.Categoria
	// Accent drift exists in old rows ("FALTA CATEGORÍA"), match both spellings.
	err := tx.Where("upper(nombre) IN (?, ?)", "FALTA CATEGORIA", "FALTA CATEGORÍA").
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoriaRepo) CrearTx(tx *gorm.DB, c *model.Categoria) error {
	return tx.Create(c).Error
}

func (r *categoriaRepo) ReasignarProductosTx(tx *gorm.DB, desde, hacia uuid.UUID) (int64, error) {
	// The subcategories of the source category are deleted in the same flow,
	// so the subcategory pointer must be cleared along with the move or the
	// products keep a reference to a deleted row.
	res := tx.Model(&model.Producto{}).
		Where("categoria_id = ?", desde).
		Updates(map[string]interface{}{"categoria_id": hacia, "subcategoria_id": nil})
	return res.RowsAffected, res.Error
}

func (r *categoriaRepo) DesvincularSubcategoriaTx(tx *gorm.DB, subcategoriaID uuid.UUID) (int64, error) {
	res := tx.Model(&model.Producto{}).
		Where("subcategoria_id = ?", subcategoriaID).
		Update("subcategoria_id", nil)
	return res.RowsAffected, res.Error
}

func (r *categoriaRepo) EliminarSubcategoriasTx(tx *gorm.DB, parentID uuid.UUID) error {
	return tx.Where("parent_id = ?", parentID).Delete(&model.Categoria{}).Error
}

func (r *categoriaRepo) EliminarTx(tx *gorm.DB, id uuid.UUID) (int64, error) {
	res := tx.Where("id = ?", id).Delete(&model.Categoria{})
	return res.RowsAffected, res.Error
}

func (r *categoriaRepo) DB() *gorm.DB { return r.db }
