package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ventapos/internal/dto"
	"ventapos/internal/infra"
	"ventapos/internal/model"
	"ventapos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ErrPagoInsuficiente rejects a finalize whose payments do not cover the
// invoice total.
var ErrPagoInsuficiente = errors.New("el monto pagado no cubre el total")

// FacturaService turns the open cart into a numbered invoice and manages the
// life of stored invoices.
type FacturaService interface {
	// Finalizar closes the open sale: totals, VAT, a gap-free invoice number,
	// one JSON document on disk. The cart reservation becomes the sale.
	Finalizar(ctx context.Context, operador string, req dto.FinalizarRequest) (*model.Factura, error)

	// Anular voids a stored invoice. When a remote service is configured the
	// void must be confirmed there FIRST; any error, timeout included, leaves
	// the local document untouched. Stock is never restored.
	Anular(ctx context.Context, numero string, req dto.AnularRequest) (*model.Factura, error)

	ListarPorFecha(ctx context.Context, fecha string) ([]model.Factura, error)
	BuscarPorNumero(ctx context.Context, fecha, numero string) (*model.Factura, error)
}

type facturaService struct {
	carrito  CarritoService
	facturas repository.FacturaRepository
	contador repository.ContadorRepository
	settings repository.SettingsRepository
	remoto   *infra.RemoteFacturas
	tasa     *infra.TasaProvider

	// ahora is swappable in tests.
	ahora func() time.Time
}

func NewFacturaService(
	carrito CarritoService,
	facturas repository.FacturaRepository,
	contador repository.ContadorRepository,
	settings repository.SettingsRepository,
	remoto *infra.RemoteFacturas,
	tasa *infra.TasaProvider,
) FacturaService {
	return &facturaService{
		carrito:  carrito,
		facturas: facturas,
		contador: contador,
		settings: settings,
		remoto:   remoto,
		tasa:     tasa,
		ahora:    time.Now,
	}
}

func (s *facturaService) Finalizar(ctx context.Context, operador string, req dto.FinalizarRequest) (*model.Factura, error) {
	items := s.carrito.Snapshot()
	if len(items) == 0 {
		return nil, fmt.Errorf("no hay venta abierta para finalizar")
	}

	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.SubtotalBs)
	}

	ivaActivo := s.settings.GetBool(ctx, repository.SettingIvaActivo, false)
	ivaPct := s.settings.GetDecimal(ctx, repository.SettingIvaPorciento, decimal.NewFromInt(16))
	iva := decimal.Zero
	if ivaActivo {
		iva = subtotal.Mul(ivaPct).Div(decimal.NewFromInt(100))
	}
	total := subtotal.Add(iva)

	tasa := s.tasa.Actual(ctx)
	pagos := model.Pagos{
		EfectivoBs:   req.Pagos.EfectivoBs,
		PuntoBs:      req.Pagos.PuntoBs,
		PagoMovilBs:  req.Pagos.PagoMovilBs,
		PagoMovilRef: req.Pagos.PagoMovilRef,
		Usd:          req.Pagos.Usd,
	}
	if pagos.TotalBs(tasa).LessThan(total) {
		return nil, ErrPagoInsuficiente
	}

	ahora := s.ahora()
	fecha := ahora.Format("2006-01-02")

	numero, err := s.contador.Peek(ctx, fecha)
	if err != nil {
		return nil, fmt.Errorf("obtener numero de factura: %w", err)
	}

	f := &model.Factura{
		ID:            uuid.NewString(),
		NumeroFactura: fmt.Sprintf("%s-%d", ahora.Format("20060102"), numero),
		Timestamp:     ahora.Format("20060102_150405"),
		FechaHora:     ahora.Format("2006-01-02 15:04:05"),
		Productos:     items,
		SubtotalBs:    subtotal,
		IvaBs:         iva,
		TotalBs:       total,
		IvaPct:        ivaPct,
		IvaHabilitado: ivaActivo,
		Pagos:         pagos,
		Estado:        model.EstadoFinalizada,
		Operador:      operador,
	}
	if tasa.Sign() > 0 {
		f.SubtotalUsd = subtotal.DivRound(tasa, 2)
		f.IvaUsd = iva.DivRound(tasa, 2)
		f.TotalUsd = total.DivRound(tasa, 2)
	}
	if req.Cliente != nil {
		f.Cliente = &model.ClienteRef{Nombre: req.Cliente.Nombre, Cedula: req.Cliente.Cedula}
	}

	// Document first, counter second. A failed write consumes no number; a
	// failed commit after the write would hand the same number out twice, so
	// it must surface loudly instead of being swallowed.
	if _, err := s.facturas.Guardar(ctx, f); err != nil {
		return nil, fmt.Errorf("persistir factura: %w", err)
	}
	if err := s.contador.Commit(ctx, fecha, numero); err != nil {
		log.Error().Str("numero", f.NumeroFactura).Err(err).
			Msg("factura escrita pero contador no avanzo; revisar antes de la proxima venta")
		return nil, fmt.Errorf("factura %s guardada pero el contador no avanzo: %w", f.NumeroFactura, err)
	}

	if !s.carrito.Limpiar(items) {
		log.Warn().Str("numero", f.NumeroFactura).
			Msg("lineas agregadas durante el cobro permanecen en el carrito")
	}
	return f, nil
}

func (s *facturaService) Anular(ctx context.Context, numero string, req dto.AnularRequest) (*model.Factura, error) {
	f, _, err := s.facturas.BuscarPorNumero(ctx, req.Fecha, numero)
	if err != nil {
		return nil, err
	}
	if f.Anulada() {
		return f, nil
	}

	if s.remoto.Disponible() {
		if err := s.remoto.ConfirmarAnulacion(ctx, numero, req.Motivo); err != nil {
			return nil, fmt.Errorf("anulacion no confirmada por el servicio remoto: %w", err)
		}
	}

	// Deliberate: voiding does NOT return units to stock. The goods already
	// left the counter; only a manual adjustment puts them back.
	return s.facturas.MarcarAnulada(ctx, req.Fecha, numero, req.Motivo)
}

func (s *facturaService) ListarPorFecha(ctx context.Context, fecha string) ([]model.Factura, error) {
	return s.facturas.ListarPorFecha(ctx, fecha)
}

func (s *facturaService) BuscarPorNumero(ctx context.Context, fecha, numero string) (*model.Factura, error) {
	f, _, err := s.facturas.BuscarPorNumero(ctx, fecha, numero)
	return f, err
}
