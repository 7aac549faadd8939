package service

import (
	"context"
	"fmt"
	"time"

	"ventapos/internal/model"
	"ventapos/internal/repository"

	"github.com/google/uuid"
)

// InventarioService owns every stock quantity change. The cart reserves on
// add and releases on remove, so the catalog quantity is always the amount
// still available for sale.
type InventarioService interface {
	// Reservar decrements available stock for a cart line. Fails atomically
	// with repository.ErrStockInsuficiente when not enough remains.
	Reservar(ctx context.Context, productoID uuid.UUID, cantidad int) error

	// Liberar returns the reservations of the given lines to stock, logging
	// each release when the policy flag is on.
	Liberar(ctx context.Context, items []model.LineaFactura, motivo, usuario string) error

	// AjustarStock sets an absolute quantity for a product and records the
	// movement. Restocks (delta > 0) additionally land in the daily
	// additions shard.
	AjustarStock(ctx context.Context, productoID uuid.UUID, cantidadNueva int, motivo, usuario string) (*model.Producto, error)

	ListarHistorial(ctx context.Context) ([]model.RegistroStock, error)
	ListarAgregadosPorFecha(ctx context.Context, fecha string) ([]model.RegistroStock, error)
}

type inventarioService struct {
	productos       repository.ProductoRepository
	historial       repository.HistorialRepository
	logLiberaciones bool
}

func NewInventarioService(
	productos repository.ProductoRepository,
	historial repository.HistorialRepository,
	logLiberaciones bool,
) InventarioService {
	return &inventarioService{
		productos:       productos,
		historial:       historial,
		logLiberaciones: logLiberaciones,
	}
}

func (s *inventarioService) Reservar(ctx context.Context, productoID uuid.UUID, cantidad int) error {
	if cantidad <= 0 {
		return fmt.Errorf("cantidad invalida: %d", cantidad)
	}
	return s.productos.DescontarStock(ctx, productoID, cantidad)
}

func (s *inventarioService) Liberar(ctx context.Context, items []model.LineaFactura, motivo, usuario string) error {
	for _, item := range items {
		if item.Cantidad <= 0 {
			continue
		}
		if err := s.productos.ReponerStock(ctx, item.ProductoID, item.Cantidad); err != nil {
			return fmt.Errorf("liberar %s: %w", item.Codigo, err)
		}
		if !s.logLiberaciones {
			continue
		}
		p, err := s.productos.FindByID(ctx, item.ProductoID)
		if err != nil {
			return err
		}
		reg := model.RegistroStock{
			Timestamp:        time.Now().UTC().Format(time.RFC3339),
			Codigo:           p.Codigo,
			Producto:         p.Nombre,
			CantidadAnterior: p.Cantidad - item.Cantidad,
			CantidadNueva:    p.Cantidad,
			Motivo:           motivo,
			Usuario:          usuario,
		}
		if err := s.historial.Registrar(ctx, reg); err != nil {
			return fmt.Errorf("registrar liberacion: %w", err)
		}
	}
	return nil
}

func (s *inventarioService) AjustarStock(ctx context.Context, productoID uuid.UUID, cantidadNueva int, motivo, usuario string) (*model.Producto, error) {
	if cantidadNueva < 0 {
		return nil, fmt.Errorf("cantidad invalida: %d", cantidadNueva)
	}
	p, err := s.productos.FindByID(ctx, productoID)
	if err != nil {
		return nil, err
	}
	anterior := p.Cantidad
	delta := cantidadNueva - anterior

	switch {
	case delta > 0:
		if err := s.productos.ReponerStock(ctx, productoID, delta); err != nil {
			return nil, err
		}
	case delta < 0:
		if err := s.productos.DescontarStock(ctx, productoID, -delta); err != nil {
			return nil, err
		}
	default:
		return p, nil
	}

	if motivo == "" {
		if delta > 0 {
			motivo = model.MotivoAgregado
		} else {
			motivo = model.MotivoAjusteManual
		}
	}
	reg := model.RegistroStock{
		Timestamp:        time.Now().UTC().Format(time.RFC3339),
		Codigo:           p.Codigo,
		Producto:         p.Nombre,
		CantidadAnterior: anterior,
		CantidadNueva:    cantidadNueva,
		Motivo:           motivo,
		Usuario:          usuario,
	}
	if err := s.historial.Registrar(ctx, reg); err != nil {
		return nil, fmt.Errorf("registrar movimiento: %w", err)
	}

	p.Cantidad = cantidadNueva
	return p, nil
}

func (s *inventarioService) ListarHistorial(ctx context.Context) ([]model.RegistroStock, error) {
	return s.historial.Listar(ctx)
}

func (s *inventarioService) ListarAgregadosPorFecha(ctx context.Context, fecha string) ([]model.RegistroStock, error) {
	return s.historial.ListarAgregadosPorFecha(ctx, fecha)
}
