package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"wolftactical/internal/apierror"
	"wolftactical/internal/dto"
	"wolftactical/internal/model"
	"wolftactical/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CategoriaService defines business operations for the category tree.
type CategoriaService interface {
	Crear(ctx context.Context, req dto.CrearCategoriaRequest) (*dto.CategoriaResponse, error)
	CrearSubcategoria(ctx context.Context, parentID uuid.UUID, req dto.CrearSubcategoriaRequest) (*dto.CategoriaResponse, error)
	// ListarNested returns top-level categories with their subcategories.
	// Public listings hide the fallback category.
	ListarNested(ctx context.Context, incluirFallback bool) ([]dto.CategoriaResponse, error)
	ListarFlat(ctx context.Context) ([]dto.CategoriaResponse, error)
	ListarSubcategorias(ctx context.Context, parentID uuid.UUID) ([]dto.CategoriaResponse, error)
	// Eliminar removes a top-level category, reassigning its products to the
	// fallback category first. Returns the number of reassigned products.
	Eliminar(ctx context.Context, id uuid.UUID) (int64, error)
	EliminarSubcategoria(ctx context.Context, id uuid.UUID) error
}

type categoriaService struct {
	repo   repository.CategoriaRepository
	notifs repository.NotificacionRepository
}

func NewCategoriaService(repo repository.CategoriaRepository, notifs repository.NotificacionRepository) CategoriaService {
	return &categoriaService{repo: repo, notifs: notifs}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// esFallback matches the reserved category name, tolerating accent drift in
// rows written by older deployments ("FALTA CATEGORÍA").
func esFallback(nombre string) bool {
	return Slugify(nombre) == model.FallbackCategoriaSlug
}

func mapCategoria(c model.Categoria) dto.CategoriaResponse {
	return dto.CategoriaResponse{
		ID:       c.ID,
		Nombre:   c.Nombre,
		Slug:     c.Slug,
		ParentID: c.ParentID,
	}
}

func (s *categoriaService) Crear(ctx context.Context, req dto.CrearCategoriaRequest) (*dto.CategoriaResponse, error) {
	nombre := strings.TrimSpace(req.Nombre)
	slug := Slugify(nombre)
	if nombre == "" || slug == "" {
		return nil, apierror.Invalid("El nombre de la categoria es obligatorio")
	}

	existing, err := s.repo.ObtenerPorNombreOSlug(ctx, nombre, slug)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, apierror.Conflict("Ya existe una categoria con ese nombre")
	}

	c := &model.Categoria{Nombre: nombre, Slug: slug}
	if err := s.repo.Crear(ctx, c); err != nil {
		return nil, err
	}
	resp := mapCategoria(*c)
	return &resp, nil
}

func (s *categoriaService) CrearSubcategoria(ctx context.Context, parentID uuid.UUID, req dto.CrearSubcategoriaRequest) (*dto.CategoriaResponse, error) {
	parent, err := s.repo.ObtenerPorID(ctx, parentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("Categoria padre no encontrada")
		}
		return nil, err
	}
	// Only top-level categories can own subcategories.
	if !parent.EsTopLevel() {
		return nil, apierror.NotFound("Categoria padre no encontrada")
	}

	nombre := strings.TrimSpace(req.Nombre)
	slug := Slugify(nombre)
	if nombre == "" || slug == "" {
		return nil, apierror.Invalid("El nombre de la subcategoria es obligatorio")
	}

	existing, err := s.repo.ObtenerPorNombreOSlug(ctx, nombre, slug)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, apierror.Conflict("Ya existe una categoria con ese nombre")
	}

	pid := parent.ID
	c := &model.Categoria{Nombre: nombre, Slug: slug, ParentID: &pid}
	if err := s.repo.Crear(ctx, c); err != nil {
		return nil, err
	}
	resp := mapCategoria(*c)
	return &resp, nil
}

func (s *categoriaService) ListarNested(ctx context.Context, incluirFallback bool) ([]dto.CategoriaResponse, error) {
	todas, err := s.repo.ListarTodas(ctx)
	if err != nil {
		return nil, err
	}

	subsPorPadre := make(map[uuid.UUID][]dto.CategoriaResponse)
	for _, c := range todas {
		if c.ParentID != nil {
			subsPorPadre[*c.ParentID] = append(subsPorPadre[*c.ParentID], mapCategoria(c))
		}
	}

	result := make([]dto.CategoriaResponse, 0, len(todas))
	for _, c := range todas {
		if c.ParentID != nil {
			continue
		}
		if !incluirFallback && esFallback(c.Nombre) {
			continue
		}
		top := mapCategoria(c)
		top.Subcategorias = subsPorPadre[c.ID]
		result = append(result, top)
	}
	return result, nil
}

func (s *categoriaService) ListarFlat(ctx context.Context) ([]dto.CategoriaResponse, error) {
	todas, err := s.repo.ListarTodas(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.CategoriaResponse, 0, len(todas))
	for _, c := range todas {
		if esFallback(c.Nombre) {
			continue
		}
		result = append(result, mapCategoria(c))
	}
	return result, nil
}

func (s *categoriaService) ListarSubcategorias(ctx context.Context, parentID uuid.UUID) ([]dto.CategoriaResponse, error) {
	subs, err := s.repo.ListarSubcategorias(ctx, parentID)
	if err != nil {
		return nil, err
	}
	result := make([]dto.CategoriaResponse, 0, len(subs))
	for _, c := range subs {
		result = append(result, mapCategoria(c))
	}
	return result, nil
}

// Eliminar is the one genuinely stateful operation of this service:
//  1. the category must exist and be top-level
//  2. products referencing it are reassigned to the fallback category
//     (created lazily) inside the same transaction
//  3. its subcategories are removed, then the row itself
//  4. an audit notification records the reassignment count
func (s *categoriaService) Eliminar(ctx context.Context, id uuid.UUID) (int64, error) {
	c, err := s.repo.ObtenerPorID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, apierror.NotFound("Categoria no encontrada")
		}
		return 0, err
	}
	if c.ParentID != nil {
		return 0, apierror.NotFound("Categoria no encontrada")
	}
	// The fallback category is permanent once created.
	if esFallback(c.Nombre) {
		return 0, apierror.Conflict("La categoria de respaldo no puede eliminarse")
	}

	var reasignados int64
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		n, err := s.repo.ContarProductosTx(tx, c.ID)
		if err != nil {
			return err
		}

		if n > 0 {
			fallback, err := s.repo.ObtenerFallbackTx(tx)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				fallback = &model.Categoria{
					Nombre: model.FallbackCategoriaNombre,
					Slug:   model.FallbackCategoriaSlug,
				}
				if err := s.repo.CrearTx(tx, fallback); err != nil {
					return err
				}
			} else if err != nil {
				return err
			}

			reasignados, err = s.repo.ReasignarProductosTx(tx, c.ID, fallback.ID)
			if err != nil {
				return err
			}
		}

		if err := s.repo.EliminarSubcategoriasTx(tx, c.ID); err != nil {
			return err
		}

		rows, err := s.repo.EliminarTx(tx, c.ID)
		if err != nil {
			return err
		}
		// Existence was verified above: zero rows means a concurrent delete or
		// a constraint conflict. Roll everything back.
		if rows == 0 {
			return apierror.Internal()
		}

		return s.notifs.CrearTx(tx, &model.Notificacion{
			Mensaje: fmt.Sprintf("Categoria %q eliminada: %d productos reasignados a %s",
				c.Nombre, reasignados, model.FallbackCategoriaNombre),
			Tipo: model.NotifWarning,
		})
	})
	if err != nil {
		return 0, err
	}

	log.Info().
		Str("categoria", c.Nombre).
		Int64("reasignados", reasignados).
		Msg("categoria eliminada")
	return reasignados, nil
}

func (s *categoriaService) EliminarSubcategoria(ctx context.Context, id uuid.UUID) error {
	c, err := s.repo.ObtenerPorID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NotFound("Subcategoria no encontrada")
		}
		return err
	}
	// A top-level id is not a subcategory; same 404 as a missing row.
	if c.ParentID == nil {
		return apierror.NotFound("Subcategoria no encontrada")
	}

	// Products keep their top-level category; only the subcategory pointer
	// is cleared before the row goes away.
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if _, err := s.repo.DesvincularSubcategoriaTx(tx, c.ID); err != nil {
			return err
		}
		rows, err := s.repo.EliminarTx(tx, c.ID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return apierror.Internal()
		}
		return nil
	})
}
