package service

import (
	"context"

	"wolftactical/internal/apierror"
	"wolftactical/internal/dto"
	"wolftactical/internal/model"
	"wolftactical/internal/repository"

	"github.com/google/uuid"
)

type NotificacionService interface {
	Guardar(ctx context.Context, req dto.GuardarNotificacionRequest) (*dto.NotificacionResponse, error)
	Listar(ctx context.Context) ([]dto.NotificacionResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type notificacionService struct {
	repo repository.NotificacionRepository
}

func NewNotificacionService(repo repository.NotificacionRepository) NotificacionService {
	return &notificacionService{repo: repo}
}

func mapNotificacion(n model.Notificacion) dto.NotificacionResponse {
	return dto.NotificacionResponse{
		ID:        n.ID,
		Mensaje:   n.Mensaje,
		Tipo:      n.Tipo,
		Duracion:  n.Duracion,
		CreatedAt: n.CreatedAt,
	}
}

func (s *notificacionService) Guardar(ctx context.Context, req dto.GuardarNotificacionRequest) (*dto.NotificacionResponse, error) {
	n := &model.Notificacion{
		Mensaje:  req.Mensaje,
		Tipo:     req.Tipo,
		Duracion: req.Duracion,
	}
	if err := s.repo.Crear(ctx, n); err != nil {
		return nil, err
	}
	resp := mapNotificacion(*n)
	return &resp, nil
}

func (s *notificacionService) Listar(ctx context.Context) ([]dto.NotificacionResponse, error) {
	list, err := s.repo.Listar(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.NotificacionResponse, 0, len(list))
	for _, n := range list {
		result = append(result, mapNotificacion(n))
	}
	return result, nil
}

func (s *notificacionService) Eliminar(ctx context.Context, id uuid.UUID) error {
	rows, err := s.repo.Eliminar(ctx, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return apierror.NotFound("Notificacion no encontrada")
	}
	return nil
}
