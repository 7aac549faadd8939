package service

// In-memory doubles shared by the service tests. They mirror the repository
// contracts closely enough to exercise the stock-conservation and closure
// invariants without a database or filesystem.

import (
	"context"
	"sync"

	"ventapos/internal/model"
	"ventapos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ── ProductoRepository stub ──────────────────────────────────────────────────

type stubProductoRepo struct {
	mu        sync.Mutex
	productos map[uuid.UUID]*model.Producto
	porCodigo map[string]uuid.UUID

	// failReponer makes every ReponerStock call fail, simulating a dead
	// catalog store at release time.
	failReponer error
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{
		productos: make(map[uuid.UUID]*model.Producto),
		porCodigo: make(map[string]uuid.UUID),
	}
}

func (r *stubProductoRepo) agregar(codigo, nombre string, precioBs decimal.Decimal, cantidad int) *model.Producto {
	p := &model.Producto{
		ID:       uuid.New(),
		Codigo:   codigo,
		Nombre:   nombre,
		PrecioBs: precioBs,
		Cantidad: cantidad,
		Activo:   true,
	}
	r.productos[p.ID] = p
	r.porCodigo[codigo] = p.ID
	return p
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cloned := *p
	r.productos[p.ID] = &cloned
	r.porCodigo[p.Codigo] = p.ID
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.productos[id]
	if !ok {
		return nil, repository.ErrProductoNoEncontrado
	}
	cloned := *p
	return &cloned, nil
}

func (r *stubProductoRepo) FindByCodigo(_ context.Context, codigo string) (*model.Producto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.porCodigo[codigo]
	if !ok {
		return nil, repository.ErrProductoNoEncontrado
	}
	cloned := *r.productos[id]
	return &cloned, nil
}

func (r *stubProductoRepo) List(_ context.Context, incluirInactivos bool) ([]model.Producto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Producto
	for _, p := range r.productos {
		if p.Activo || incluirInactivos {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductoRepo) Update(_ context.Context, p *model.Producto) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existente, ok := r.productos[p.ID]
	if !ok {
		return repository.ErrProductoNoEncontrado
	}
	existente.Codigo = p.Codigo
	existente.Nombre = p.Nombre
	existente.PrecioBs = p.PrecioBs
	existente.PrecioUsd = p.PrecioUsd
	existente.Activo = p.Activo
	return nil
}

func (r *stubProductoRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.productos[id]
	if !ok {
		return repository.ErrProductoNoEncontrado
	}
	p.Activo = false
	return nil
}

func (r *stubProductoRepo) DescontarStock(_ context.Context, id uuid.UUID, cantidad int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.productos[id]
	if !ok {
		return repository.ErrProductoNoEncontrado
	}
	if p.Cantidad < cantidad {
		return repository.ErrStockInsuficiente
	}
	p.Cantidad -= cantidad
	return nil
}

func (r *stubProductoRepo) ReponerStock(_ context.Context, id uuid.UUID, cantidad int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failReponer != nil {
		return r.failReponer
	}
	p, ok := r.productos[id]
	if !ok {
		return repository.ErrProductoNoEncontrado
	}
	p.Cantidad += cantidad
	return nil
}

func (r *stubProductoRepo) RepreciarPorTasa(_ context.Context, tasa decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.productos {
		if p.Activo {
			p.PrecioBs = p.PrecioUsd.Mul(tasa)
		}
	}
	return nil
}

func (r *stubProductoRepo) cantidadDe(codigo string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.productos[r.porCodigo[codigo]].Cantidad
}

// ── HistorialRepository stub ─────────────────────────────────────────────────

type stubHistorialRepo struct {
	mu        sync.Mutex
	registros []model.RegistroStock
}

func (r *stubHistorialRepo) Registrar(_ context.Context, reg model.RegistroStock) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.registros = append(r.registros, reg)
	return nil
}

func (r *stubHistorialRepo) Listar(_ context.Context) ([]model.RegistroStock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.RegistroStock, len(r.registros))
	copy(out, r.registros)
	return out, nil
}

func (r *stubHistorialRepo) ListarAgregadosPorFecha(_ context.Context, fecha string) ([]model.RegistroStock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.RegistroStock
	for _, reg := range r.registros {
		if reg.Motivo == model.MotivoAgregado && len(reg.Timestamp) >= 10 && reg.Timestamp[:10] == fecha {
			out = append(out, reg)
		}
	}
	return out, nil
}

// ── PausadasRepository stub ──────────────────────────────────────────────────

type stubPausadasRepo struct {
	mu    sync.Mutex
	lista []model.Factura
}

func (r *stubPausadasRepo) Listar(_ context.Context) ([]model.Factura, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Factura, len(r.lista))
	copy(out, r.lista)
	return out, nil
}

func (r *stubPausadasRepo) Agregar(_ context.Context, f model.Factura) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f.Estado = model.EstadoPausada
	r.lista = append(r.lista, f)
	return nil
}

func (r *stubPausadasRepo) Quitar(_ context.Context, id string) (*model.Factura, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, f := range r.lista {
		if f.ID == id {
			quitada := f
			r.lista = append(r.lista[:i], r.lista[i+1:]...)
			return &quitada, nil
		}
	}
	return nil, repository.ErrPausadaNoEncontrada
}

// ── SettingsRepository stub ──────────────────────────────────────────────────

type stubSettingsRepo struct {
	mu      sync.Mutex
	valores map[string]string
}

func newStubSettingsRepo() *stubSettingsRepo {
	return &stubSettingsRepo{valores: make(map[string]string)}
}

func (r *stubSettingsRepo) Get(_ context.Context, clave, fallback string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.valores[clave]; ok {
		return v
	}
	return fallback
}

func (r *stubSettingsRepo) Set(_ context.Context, clave, valor string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.valores[clave] = valor
	return nil
}

func (r *stubSettingsRepo) GetDecimal(ctx context.Context, clave string, fallback decimal.Decimal) decimal.Decimal {
	raw := r.Get(ctx, clave, "")
	if raw == "" {
		return fallback
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return fallback
	}
	return d
}

func (r *stubSettingsRepo) GetBool(ctx context.Context, clave string, fallback bool) bool {
	raw := r.Get(ctx, clave, "")
	switch raw {
	case "1", "true":
		return true
	case "0", "false":
		return false
	}
	return fallback
}

// ── ContadorRepository stub ──────────────────────────────────────────────────

type stubContadorRepo struct {
	mu    sync.Mutex
	fecha string
	next  int

	// failCommit simulates a persistence failure after the invoice document
	// is already on disk.
	failCommit error
}

func (r *stubContadorRepo) Peek(_ context.Context, fecha string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fecha != fecha || r.next < 1 {
		return 1, nil
	}
	return r.next, nil
}

func (r *stubContadorRepo) Commit(_ context.Context, fecha string, numero int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCommit != nil {
		return r.failCommit
	}
	r.fecha = fecha
	r.next = numero + 1
	return nil
}

// ── FacturaRepository stub ───────────────────────────────────────────────────

type stubFacturaRepo struct {
	mu       sync.Mutex
	porFecha map[string][]model.Factura

	// onGuardar runs just before a document is stored, to interleave cart
	// activity with a charge in flight.
	onGuardar func()
}

func newStubFacturaRepo() *stubFacturaRepo {
	return &stubFacturaRepo{porFecha: make(map[string][]model.Factura)}
}

func (r *stubFacturaRepo) Guardar(_ context.Context, f *model.Factura) (string, error) {
	if r.onGuardar != nil {
		r.onGuardar()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	fecha := f.Timestamp[:4] + "-" + f.Timestamp[4:6] + "-" + f.Timestamp[6:8]
	r.porFecha[fecha] = append(r.porFecha[fecha], *f)
	return "factura_" + f.Timestamp + ".json", nil
}

func (r *stubFacturaRepo) ListarPorFecha(_ context.Context, fecha string) ([]model.Factura, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Factura, len(r.porFecha[fecha]))
	copy(out, r.porFecha[fecha])
	return out, nil
}

func (r *stubFacturaRepo) BuscarPorNumero(_ context.Context, fecha, numero string) (*model.Factura, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.porFecha[fecha] {
		if r.porFecha[fecha][i].NumeroFactura == numero {
			cloned := r.porFecha[fecha][i]
			return &cloned, "", nil
		}
	}
	return nil, "", repository.ErrFacturaNoEncontrada
}

func (r *stubFacturaRepo) MarcarAnulada(_ context.Context, fecha, numero, motivo string) (*model.Factura, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.porFecha[fecha] {
		if r.porFecha[fecha][i].NumeroFactura == numero {
			r.porFecha[fecha][i].Estado = model.EstadoAnulada
			r.porFecha[fecha][i].MotivoAnulacion = motivo
			cloned := r.porFecha[fecha][i]
			return &cloned, nil
		}
	}
	return nil, repository.ErrFacturaNoEncontrada
}
