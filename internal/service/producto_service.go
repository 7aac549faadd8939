package service

import (
	"context"
	"fmt"

	"ventapos/internal/dto"
	"ventapos/internal/infra"
	"ventapos/internal/model"
	"ventapos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductoService is the catalog CRUD plus rate-driven repricing.
type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest, usuario string) (*dto.ProductoResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	BuscarPorCodigo(ctx context.Context, codigo string) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, incluirInactivos bool) ([]dto.ProductoResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error

	// Repreciar updates the stored exchange rate and rewrites every BS price
	// from its USD anchor.
	Repreciar(ctx context.Context, tasa decimal.Decimal) error
}

type productoService struct {
	repo       repository.ProductoRepository
	inventario InventarioService
	tasa       *infra.TasaProvider
}

func NewProductoService(repo repository.ProductoRepository, inventario InventarioService, tasa *infra.TasaProvider) ProductoService {
	return &productoService{repo: repo, inventario: inventario, tasa: tasa}
}

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest, usuario string) (*dto.ProductoResponse, error) {
	p := &model.Producto{
		Codigo:    req.Codigo,
		Nombre:    req.Nombre,
		PrecioBs:  req.PrecioBs,
		PrecioUsd: req.PrecioUsd,
		Activo:    true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	// Initial stock enters through the ledger so it shows up in the history.
	if req.Cantidad > 0 {
		if _, err := s.inventario.AjustarStock(ctx, p.ID, req.Cantidad, model.MotivoAgregado, usuario); err != nil {
			return nil, fmt.Errorf("cargar stock inicial: %w", err)
		}
		p.Cantidad = req.Cantidad
	}
	return productoToResponse(p), nil
}

func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Codigo = req.Codigo
	p.Nombre = req.Nombre
	p.PrecioBs = req.PrecioBs
	p.PrecioUsd = req.PrecioUsd
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return productoToResponse(p), nil
}

func (s *productoService) BuscarPorCodigo(ctx context.Context, codigo string) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByCodigo(ctx, codigo)
	if err != nil {
		return nil, err
	}
	return productoToResponse(p), nil
}

func (s *productoService) Listar(ctx context.Context, incluirInactivos bool) ([]dto.ProductoResponse, error) {
	productos, err := s.repo.List(ctx, incluirInactivos)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ProductoResponse, len(productos))
	for i := range productos {
		resp[i] = *productoToResponse(&productos[i])
	}
	return resp, nil
}

func (s *productoService) Desactivar(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}

func (s *productoService) Repreciar(ctx context.Context, tasa decimal.Decimal) error {
	if tasa.Sign() <= 0 {
		return fmt.Errorf("tasa invalida: %s", tasa)
	}
	if err := s.tasa.Actualizar(ctx, tasa); err != nil {
		return fmt.Errorf("actualizar tasa: %w", err)
	}
	return s.repo.RepreciarPorTasa(ctx, tasa)
}

func productoToResponse(p *model.Producto) *dto.ProductoResponse {
	return &dto.ProductoResponse{
		ID:        p.ID.String(),
		Codigo:    p.Codigo,
		Nombre:    p.Nombre,
		PrecioBs:  p.PrecioBs,
		PrecioUsd: p.PrecioUsd,
		Cantidad:  p.Cantidad,
		Activo:    p.Activo,
	}
}
