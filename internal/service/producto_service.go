package service

import (
	"context"
	"errors"
	"fmt"

	"wolftactical/internal/apierror"
	"wolftactical/internal/dto"
	"wolftactical/internal/infra"
	"wolftactical/internal/model"
	"wolftactical/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ProductoService defines the business logic contract for the catalog.
type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) ([]dto.ProductoResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error

	AgregarColor(ctx context.Context, productoID uuid.UUID, req dto.CrearColorRequest) (*dto.ColorResponse, error)
	EliminarColor(ctx context.Context, productoID, colorID uuid.UUID) error
	AgregarImagen(ctx context.Context, productoID uuid.UUID, path string, esPortada bool) (*dto.ImagenResponse, error)
	EliminarImagen(ctx context.Context, productoID, imagenID uuid.UUID) error
}

type productoService struct {
	repo       repository.ProductoRepository
	categorias repository.CategoriaRepository
	notifs     repository.NotificacionRepository
	storage    *infra.ImageStorage
}

func NewProductoService(
	repo repository.ProductoRepository,
	categorias repository.CategoriaRepository,
	notifs repository.NotificacionRepository,
	storage *infra.ImageStorage,
) ProductoService {
	return &productoService{repo: repo, categorias: categorias, notifs: notifs, storage: storage}
}

func mapProducto(p model.Producto) dto.ProductoResponse {
	resp := dto.ProductoResponse{
		ID:             p.ID,
		Nombre:         p.Nombre,
		Modelo:         p.Modelo,
		CategoriaID:    p.CategoriaID,
		SubcategoriaID: p.SubcategoriaID,
		StockOption:    p.StockOption,
		StockCantidad:  p.StockCantidad,
		Precio:         p.Precio,
		ImagenPortada:  p.ImagenPortada,
	}
	for _, c := range p.Colores {
		resp.Colores = append(resp.Colores, dto.ColorResponse{
			ID: c.ID, NombreColor: c.NombreColor, ColorHex: c.ColorHex, ImagenPath: c.ImagenPath,
		})
	}
	for _, img := range p.Imagenes {
		resp.Imagenes = append(resp.Imagenes, dto.ImagenResponse{
			ID: img.ID, Path: img.Path, EsPortada: img.EsPortada,
		})
	}
	return resp
}

// resolverCategorias validates the category pair: the category must exist and
// be top-level, the optional subcategory must be a child of it.
func (s *productoService) resolverCategorias(ctx context.Context, categoriaID string, subcategoriaID *string) (uuid.UUID, *uuid.UUID, error) {
	cid, err := uuid.Parse(categoriaID)
	if err != nil {
		return uuid.Nil, nil, apierror.Invalid("categoria_id invalido")
	}
	cat, err := s.categorias.ObtenerPorID(ctx, cid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, nil, apierror.NotFound("Categoria no encontrada")
		}
		return uuid.Nil, nil, err
	}
	if !cat.EsTopLevel() {
		return uuid.Nil, nil, apierror.Invalid("El producto debe pertenecer a una categoria de nivel superior")
	}

	if subcategoriaID == nil {
		return cid, nil, nil
	}
	sid, err := uuid.Parse(*subcategoriaID)
	if err != nil {
		return uuid.Nil, nil, apierror.Invalid("subcategoria_id invalido")
	}
	sub, err := s.categorias.ObtenerPorID(ctx, sid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, nil, apierror.NotFound("Subcategoria no encontrada")
		}
		return uuid.Nil, nil, err
	}
	if sub.ParentID == nil || *sub.ParentID != cid {
		return uuid.Nil, nil, apierror.Invalid("La subcategoria no pertenece a la categoria indicada")
	}
	return cid, &sid, nil
}

func validarStock(option string, cantidad *int) error {
	if option == model.StockInStock && cantidad == nil {
		return apierror.Invalid("stock_cantidad es obligatorio cuando stock_option es instock")
	}
	return nil
}

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	if err := validarStock(req.StockOption, req.StockCantidad); err != nil {
		return nil, err
	}
	if req.Precio.IsNegative() {
		return nil, apierror.Invalid("El precio no puede ser negativo")
	}
	cid, sid, err := s.resolverCategorias(ctx, req.CategoriaID, req.SubcategoriaID)
	if err != nil {
		return nil, err
	}

	p := &model.Producto{
		Nombre:         req.Nombre,
		Modelo:         req.Modelo,
		CategoriaID:    cid,
		SubcategoriaID: sid,
		StockOption:    req.StockOption,
		StockCantidad:  req.StockCantidad,
		Precio:         req.Precio,
		ImagenPortada:  req.ImagenPortada,
	}
	if req.StockOption == model.StockPreorder {
		p.StockCantidad = nil
	}
	if err := s.repo.Crear(ctx, p); err != nil {
		return nil, err
	}
	resp := mapProducto(*p)
	return &resp, nil
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.repo.ObtenerPorID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("Producto no encontrado")
		}
		return nil, err
	}
	resp := mapProducto(*p)
	return &resp, nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) ([]dto.ProductoResponse, error) {
	// The filter values land in uuid-typed column comparisons; reject garbage
	// here instead of letting postgres turn it into a 500.
	if filter.CategoriaID != "" {
		if _, err := uuid.Parse(filter.CategoriaID); err != nil {
			return nil, apierror.Invalid("categoria_id invalido")
		}
	}
	if filter.SubcategoriaID != "" {
		if _, err := uuid.Parse(filter.SubcategoriaID); err != nil {
			return nil, apierror.Invalid("subcategoria_id invalido")
		}
	}
	productos, err := s.repo.Listar(ctx, filter)
	if err != nil {
		return nil, err
	}
	result := make([]dto.ProductoResponse, 0, len(productos))
	for _, p := range productos {
		result = append(result, mapProducto(p))
	}
	return result, nil
}

func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.repo.ObtenerPorID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("Producto no encontrado")
		}
		return nil, err
	}

	if req.Nombre != nil {
		p.Nombre = *req.Nombre
	}
	if req.Modelo != nil {
		p.Modelo = *req.Modelo
	}
	if req.CategoriaID != nil {
		cid, sid, err := s.resolverCategorias(ctx, *req.CategoriaID, req.SubcategoriaID)
		if err != nil {
			return nil, err
		}
		p.CategoriaID = cid
		p.SubcategoriaID = sid
	}
	if req.StockOption != nil {
		p.StockOption = *req.StockOption
	}
	if req.StockCantidad != nil {
		p.StockCantidad = req.StockCantidad
	}
	if err := validarStock(p.StockOption, p.StockCantidad); err != nil {
		return nil, err
	}
	if p.StockOption == model.StockPreorder {
		p.StockCantidad = nil
	}
	if req.Precio != nil {
		if req.Precio.IsNegative() {
			return nil, apierror.Invalid("El precio no puede ser negativo")
		}
		p.Precio = *req.Precio
	}
	if req.ImagenPortada != nil {
		p.ImagenPortada = *req.ImagenPortada
	}

	if err := s.repo.Actualizar(ctx, p); err != nil {
		return nil, err
	}
	resp := mapProducto(*p)
	return &resp, nil
}

// Eliminar removes the product together with its colors and images in one
// transaction; the files under the upload dir are unlinked afterwards,
// best effort.
func (s *productoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.ObtenerPorID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NotFound("Producto no encontrado")
		}
		return err
	}

	var archivos []string
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		colores, err := s.repo.ListarColoresTx(tx, p.ID)
		if err != nil {
			return err
		}
		for _, c := range colores {
			if c.ImagenPath != nil {
				archivos = append(archivos, *c.ImagenPath)
			}
		}
		imagenes, err := s.repo.ListarImagenesTx(tx, p.ID)
		if err != nil {
			return err
		}
		for _, img := range imagenes {
			archivos = append(archivos, img.Path)
		}

		if err := s.repo.EliminarColoresDeProductoTx(tx, p.ID); err != nil {
			return err
		}
		if err := s.repo.EliminarImagenesDeProductoTx(tx, p.ID); err != nil {
			return err
		}
		rows, err := s.repo.EliminarTx(tx, p.ID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return apierror.Internal()
		}

		return s.notifs.CrearTx(tx, &model.Notificacion{
			Mensaje: fmt.Sprintf("Producto %q (%s) eliminado", p.Nombre, p.Modelo),
			Tipo:    model.NotifWarning,
		})
	})
	if err != nil {
		return err
	}

	s.eliminarArchivos(archivos)
	return nil
}

func (s *productoService) AgregarColor(ctx context.Context, productoID uuid.UUID, req dto.CrearColorRequest) (*dto.ColorResponse, error) {
	if _, err := s.repo.ObtenerPorID(ctx, productoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("Producto no encontrado")
		}
		return nil, err
	}
	c := &model.ProductoColor{
		ProductoID:  productoID,
		NombreColor: req.NombreColor,
		ColorHex:    req.ColorHex,
		ImagenPath:  req.ImagenPath,
	}
	if err := s.repo.CrearColor(ctx, c); err != nil {
		return nil, err
	}
	return &dto.ColorResponse{
		ID: c.ID, NombreColor: c.NombreColor, ColorHex: c.ColorHex, ImagenPath: c.ImagenPath,
	}, nil
}

// EliminarColor deletes one color variant: the row goes inside a transaction
// together with the audit notification; the image file is removed after
// commit and a missing file is not an error.
func (s *productoService) EliminarColor(ctx context.Context, productoID, colorID uuid.UUID) error {
	p, err := s.repo.ObtenerPorID(ctx, productoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NotFound("Producto no encontrado")
		}
		return err
	}

	var archivo *string
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		c, err := s.repo.ObtenerColorTx(tx, colorID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.NotFound("Color no encontrado")
			}
			return err
		}
		if c.ProductoID != p.ID {
			return apierror.NotFound("Color no encontrado")
		}
		archivo = c.ImagenPath

		rows, err := s.repo.EliminarColorTx(tx, c.ID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return apierror.Internal()
		}

		return s.notifs.CrearTx(tx, &model.Notificacion{
			Mensaje: fmt.Sprintf("Color %q del producto %q eliminado", c.NombreColor, p.Nombre),
			Tipo:    model.NotifInfo,
		})
	})
	if err != nil {
		return err
	}

	if archivo != nil {
		s.eliminarArchivos([]string{*archivo})
	}
	return nil
}

func (s *productoService) AgregarImagen(ctx context.Context, productoID uuid.UUID, path string, esPortada bool) (*dto.ImagenResponse, error) {
	if _, err := s.repo.ObtenerPorID(ctx, productoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("Producto no encontrado")
		}
		return nil, err
	}
	img := &model.ProductoImagen{ProductoID: productoID, Path: path, EsPortada: esPortada}
	if err := s.repo.CrearImagen(ctx, img); err != nil {
		return nil, err
	}
	return &dto.ImagenResponse{ID: img.ID, Path: img.Path, EsPortada: img.EsPortada}, nil
}

func (s *productoService) EliminarImagen(ctx context.Context, productoID, imagenID uuid.UUID) error {
	p, err := s.repo.ObtenerPorID(ctx, productoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NotFound("Producto no encontrado")
		}
		return err
	}

	var archivo string
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		img, err := s.repo.ObtenerImagenTx(tx, imagenID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.NotFound("Imagen no encontrada")
			}
			return err
		}
		if img.ProductoID != p.ID {
			return apierror.NotFound("Imagen no encontrada")
		}
		archivo = img.Path

		rows, err := s.repo.EliminarImagenTx(tx, img.ID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return apierror.Internal()
		}

		return s.notifs.CrearTx(tx, &model.Notificacion{
			Mensaje: fmt.Sprintf("Imagen de galeria del producto %q eliminada", p.Nombre),
			Tipo:    model.NotifInfo,
		})
	})
	if err != nil {
		return err
	}

	s.eliminarArchivos([]string{archivo})
	return nil
}

func (s *productoService) eliminarArchivos(paths []string) {
	if s.storage == nil {
		return
	}
	for _, p := range paths {
		if err := s.storage.Eliminar(p); err != nil {
			log.Warn().Err(err).Str("path", p).Msg("no se pudo eliminar el archivo")
		}
	}
}
