package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ventapos/internal/dto"
	"ventapos/internal/infra"
	"ventapos/internal/model"
	"ventapos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CarritoService is the open sale of the single register terminal. Lines are
// keyed by product: adding an already-present product grows its quantity.
// Stock is reserved the moment a line enters the cart and released the moment
// it leaves, so two carts can never promise the same unit.
type CarritoService interface {
	Agregar(ctx context.Context, codigo string, cantidad int) (*dto.CarritoResponse, error)
	Quitar(ctx context.Context, codigo string, cantidad int, usuario string) (*dto.CarritoResponse, error)
	Ver(ctx context.Context) (*dto.CarritoResponse, error)

	// Vaciar releases every reservation and empties the cart.
	Vaciar(ctx context.Context, usuario string) error

	// Pausar moves the open sale to the pause registry. Reservations are
	// KEPT: a suspended ticket still owns its units.
	Pausar(ctx context.Context, cliente *model.ClienteRef) (string, error)

	// Retomar loads a suspended sale back into the (empty) cart.
	Retomar(ctx context.Context, id string) (*dto.CarritoResponse, error)

	// EliminarPausada discards a suspended sale and releases its stock.
	EliminarPausada(ctx context.Context, id, usuario string) error

	ListarPausadas(ctx context.Context) ([]dto.PausadaResponse, error)

	// Snapshot returns a copy of the current lines.
	Snapshot() []model.LineaFactura

	// Limpiar removes the charged lines from the cart without touching
	// stock; their reservation moved into the finalized invoice. Lines added
	// while the charge was in flight stay, reservations intact. Returns true
	// when the cart ends empty.
	Limpiar(vendidas []model.LineaFactura) bool
}

type carritoService struct {
	mu    sync.Mutex
	items []model.LineaFactura

	productos  repository.ProductoRepository
	inventario InventarioService
	pausadas   repository.PausadasRepository
	settings   repository.SettingsRepository
	tasa       *infra.TasaProvider
}

func NewCarritoService(
	productos repository.ProductoRepository,
	inventario InventarioService,
	pausadas repository.PausadasRepository,
	settings repository.SettingsRepository,
	tasa *infra.TasaProvider,
) CarritoService {
	return &carritoService{
		productos:  productos,
		inventario: inventario,
		pausadas:   pausadas,
		settings:   settings,
		tasa:       tasa,
	}
}

func (s *carritoService) Agregar(ctx context.Context, codigo string, cantidad int) (*dto.CarritoResponse, error) {
	if cantidad <= 0 {
		return nil, fmt.Errorf("cantidad invalida: %d", cantidad)
	}
	p, err := s.productos.FindByCodigo(ctx, codigo)
	if err != nil {
		return nil, err
	}

	// Reserve before mutating the cart; a failed reservation leaves the cart
	// exactly as it was.
	if err := s.inventario.Reservar(ctx, p.ID, cantidad); err != nil {
		return nil, err
	}

	s.mu.Lock()
	idx := s.indexDe(codigo)
	if idx >= 0 {
		s.items[idx].Cantidad += cantidad
		s.items[idx].SubtotalBs = s.items[idx].PrecioBs.Mul(decimal.NewFromInt(int64(s.items[idx].Cantidad)))
	} else {
		s.items = append(s.items, model.LineaFactura{
			ProductoID: p.ID,
			Codigo:     p.Codigo,
			Nombre:     p.Nombre,
			PrecioBs:   p.PrecioBs,
			Cantidad:   cantidad,
			SubtotalBs: p.PrecioBs.Mul(decimal.NewFromInt(int64(cantidad))),
		})
	}
	items := snapshotDe(s.items)
	s.mu.Unlock()

	return s.totales(ctx, items), nil
}

func (s *carritoService) Quitar(ctx context.Context, codigo string, cantidad int, usuario string) (*dto.CarritoResponse, error) {
	if cantidad <= 0 {
		return nil, fmt.Errorf("cantidad invalida: %d", cantidad)
	}

	s.mu.Lock()
	idx := s.indexDe(codigo)
	if idx < 0 {
		s.mu.Unlock()
		return nil, fmt.Errorf("producto %s no esta en el carrito", codigo)
	}
	linea := s.items[idx]
	if cantidad > linea.Cantidad {
		cantidad = linea.Cantidad
	}

	// Release before touching the line: if the restore fails the cart still
	// shows the claim, so no unit ends up outside both stock and cart.
	liberada := linea
	liberada.Cantidad = cantidad
	if err := s.inventario.Liberar(ctx, []model.LineaFactura{liberada}, model.MotivoDevolucionVenta, usuario); err != nil {
		s.mu.Unlock()
		return nil, err
	}

	if cantidad == linea.Cantidad {
		s.items = append(s.items[:idx], s.items[idx+1:]...)
	} else {
		s.items[idx].Cantidad -= cantidad
		s.items[idx].SubtotalBs = s.items[idx].PrecioBs.Mul(decimal.NewFromInt(int64(s.items[idx].Cantidad)))
	}
	items := snapshotDe(s.items)
	s.mu.Unlock()

	return s.totales(ctx, items), nil
}

func (s *carritoService) Ver(ctx context.Context) (*dto.CarritoResponse, error) {
	s.mu.Lock()
	items := snapshotDe(s.items)
	s.mu.Unlock()
	return s.totales(ctx, items), nil
}

func (s *carritoService) Vaciar(ctx context.Context, usuario string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// One line at a time, and each leaves the cart only after its units are
	// back in stock; a failed release keeps the remaining claims visible.
	for len(s.items) > 0 {
		ultima := s.items[len(s.items)-1]
		if err := s.inventario.Liberar(ctx, []model.LineaFactura{ultima}, model.MotivoDevolucionVenta, usuario); err != nil {
			return err
		}
		s.items = s.items[:len(s.items)-1]
	}
	s.items = nil
	return nil
}

func (s *carritoService) Pausar(ctx context.Context, cliente *model.ClienteRef) (string, error) {
	s.mu.Lock()
	if len(s.items) == 0 {
		s.mu.Unlock()
		return "", fmt.Errorf("no hay venta abierta para pausar")
	}
	items := s.items
	s.items = nil
	s.mu.Unlock()

	ahora := time.Now()
	f := model.Factura{
		ID:        uuid.NewString(),
		Timestamp: ahora.Format("20060102_150405"),
		FechaHora: ahora.Format("2006-01-02 15:04:05"),
		Productos: items,
		Estado:    model.EstadoPausada,
		Cliente:   cliente,
	}
	for _, it := range items {
		f.SubtotalBs = f.SubtotalBs.Add(it.SubtotalBs)
	}
	f.TotalBs = f.SubtotalBs

	if err := s.pausadas.Agregar(ctx, f); err != nil {
		// Put the lines back so the reservation is not orphaned.
		s.mu.Lock()
		s.items = items
		s.mu.Unlock()
		return "", err
	}
	return f.ID, nil
}

func (s *carritoService) Retomar(ctx context.Context, id string) (*dto.CarritoResponse, error) {
	s.mu.Lock()
	if len(s.items) > 0 {
		s.mu.Unlock()
		return nil, fmt.Errorf("hay una venta abierta; finalizela o pausela antes de retomar")
	}
	s.mu.Unlock()

	f, err := s.pausadas.Quitar(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.items = f.Productos
	items := snapshotDe(s.items)
	s.mu.Unlock()

	return s.totales(ctx, items), nil
}

func (s *carritoService) EliminarPausada(ctx context.Context, id, usuario string) error {
	lista, err := s.pausadas.Listar(ctx)
	if err != nil {
		return err
	}
	var f *model.Factura
	for i := range lista {
		if lista[i].ID == id {
			f = &lista[i]
			break
		}
	}
	if f == nil {
		return repository.ErrPausadaNoEncontrada
	}
	// Stock first, registry second: a failed restore keeps the entry around
	// for a retry instead of orphaning the reservation.
	if err := s.inventario.Liberar(ctx, f.Productos, model.MotivoDevolucionVenta, usuario); err != nil {
		return err
	}
	_, err = s.pausadas.Quitar(ctx, id)
	return err
}

func (s *carritoService) ListarPausadas(ctx context.Context) ([]dto.PausadaResponse, error) {
	lista, err := s.pausadas.Listar(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.PausadaResponse, 0, len(lista))
	for _, f := range lista {
		nombre := ""
		if f.Cliente != nil {
			nombre = f.Cliente.Nombre
		}
		resp = append(resp, dto.PausadaResponse{
			ID:        f.ID,
			FechaHora: f.FechaHora,
			Cliente:   nombre,
			TotalBs:   f.TotalBs,
			NumItems:  len(f.Productos),
		})
	}
	return resp, nil
}

func (s *carritoService) Snapshot() []model.LineaFactura {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshotDe(s.items)
}

func (s *carritoService) Limpiar(vendidas []model.LineaFactura) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range vendidas {
		idx := s.indexDe(v.Codigo)
		if idx < 0 {
			continue
		}
		s.items[idx].Cantidad -= v.Cantidad
		if s.items[idx].Cantidad <= 0 {
			s.items = append(s.items[:idx], s.items[idx+1:]...)
			continue
		}
		s.items[idx].SubtotalBs = s.items[idx].PrecioBs.Mul(decimal.NewFromInt(int64(s.items[idx].Cantidad)))
	}
	return len(s.items) == 0
}

// indexDe must be called under s.mu.
func (s *carritoService) indexDe(codigo string) int {
	for i, it := range s.items {
		if it.Codigo == codigo {
			return i
		}
	}
	return -1
}

func snapshotDe(items []model.LineaFactura) []model.LineaFactura {
	out := make([]model.LineaFactura, len(items))
	copy(out, items)
	return out
}

// totales projects the cart lines through the current rate and VAT settings.
func (s *carritoService) totales(ctx context.Context, items []model.LineaFactura) *dto.CarritoResponse {
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
	totalUsd := decimal.Zero
	if tasa.Sign() > 0 {
		totalUsd = total.DivRound(tasa, 2)
	}

	return &dto.CarritoResponse{
		Items:      items,
		SubtotalBs: subtotal,
		IvaBs:      iva,
		TotalBs:    total,
		TotalUsd:   totalUsd,
		TasaCambio: tasa,
		IvaPct:     ivaPct,
		IvaActivo:  ivaActivo,
	}
}
