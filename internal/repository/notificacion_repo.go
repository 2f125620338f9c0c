package repository

import (
	"context"

	"wolftactical/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificacionRepository persists the admin activity feed. Entries are
// append-only; the only mutation is deletion by id.
type NotificacionRepository interface {
	Crear(ctx context.Context, n *model.Notificacion) error
	CrearTx(tx *gorm.DB, n *model.Notificacion) error
	Listar(ctx context.Context) ([]model.Notificacion, error)
	Eliminar(ctx context.Context, id uuid.UUID) (int64, error)
}

type notificacionRepo struct{ db *gorm.DB }

func NewNotificacionRepository(db *gorm.DB) NotificacionRepository {
	return &notificacionRepo{db: db}
}

func (r *notificacionRepo) Crear(ctx context.Context, n *model.Notificacion) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *notificacionRepo) CrearTx(tx *gorm.DB, n *model.Notificacion) error {
	return tx.Create(n).Error
}

func (r *notificacionRepo) Listar(ctx context.Context) ([]model.Notificacion, error) {
	var list []model.Notificacion
	err := r.db.WithContext(ctx).Order("created_at desc").Find(&list).Error
	return list, err
}

func (r *notificacionRepo) Eliminar(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Notificacion{})
	return res.RowsAffected, res.Error
}
