package model

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	// Invoice files written by earlier versions carry plain JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Invoice states.
const (
	EstadoPausada    = "PAUSADA"
	EstadoFinalizada = "FINALIZADA"
	EstadoAnulada    = "ANULADA"
)

// Pagos is the payment breakdown of an invoice. Every amount defaults to
// zero; an invoice may legitimately split across several methods.
type Pagos struct {
	EfectivoBs   decimal.Decimal `json:"efectivo_bs"`
	PuntoBs      decimal.Decimal `json:"punto_bs"`
	PagoMovilBs  decimal.Decimal `json:"pago_movil_bs"`
	PagoMovilRef string          `json:"pago_movil_ref,omitempty"`
	Usd          decimal.Decimal `json:"usd"`
}

// TotalBs returns the BS-equivalent sum of all methods at the given rate.
func (p Pagos) TotalBs(tasa decimal.Decimal) decimal.Decimal {
	return p.EfectivoBs.Add(p.PuntoBs).Add(p.PagoMovilBs).Add(p.Usd.Mul(tasa))
}

// LineaFactura is one cart/invoice line. Lines are keyed by product: adding
// the same product again increments Cantidad instead of appending a row.
type LineaFactura struct {
	ProductoID uuid.UUID       `json:"producto_id"`
	Codigo     string          `json:"codigo,omitempty"`
	Nombre     string          `json:"name"`
	PrecioBs   decimal.Decimal `json:"price"`
	Cantidad   int             `json:"qty"`
	SubtotalBs decimal.Decimal `json:"subtotal"`
}

// ClienteRef is the client snapshot embedded in an invoice file.
type ClienteRef struct {
	ID     string `json:"id,omitempty"`
	Nombre string `json:"name"`
	Cedula string `json:"cedula,omitempty"`
}

// Factura is the persisted invoice document — one JSON file per invoice under
// facturas/<YYYY-MM-DD>/. The same shape is used for entries in the pause
// registry (Estado = PAUSADA) and for invoices fetched from the remote
// service, so a single schema is validated once at load time.
type Factura struct {
	ID              string          `json:"id"`
	NumeroFactura   string          `json:"numero_factura"` // YYYYMMDD-N
	Timestamp       string          `json:"timestamp"`      // YYYYMMDD_HHMMSS
	FechaHora       string          `json:"datetime"`       // YYYY-MM-DD HH:MM:SS
	Productos       []LineaFactura  `json:"productos"`
	SubtotalBs      decimal.Decimal `json:"subtotal_bs"`
	IvaBs           decimal.Decimal `json:"iva_amount_bs"`
	TotalBs         decimal.Decimal `json:"total_bs"`
	SubtotalUsd     decimal.Decimal `json:"subtotal_usd"`
	IvaUsd          decimal.Decimal `json:"iva_amount_usd"`
	TotalUsd        decimal.Decimal `json:"total_usd"`
	IvaPct          decimal.Decimal `json:"global_iva_pct"`
	IvaHabilitado   bool            `json:"iva_enabled"`
	Pagos           Pagos           `json:"payments"`
	Estado          string          `json:"state"`
	MotivoAnulacion string          `json:"anulada_motivo,omitempty"`
	Cliente         *ClienteRef     `json:"client,omitempty"`
	Operador        string          `json:"usuario,omitempty"`
}

// Anulada reports whether the invoice is voided. State comparison is
// case-insensitive because older files carry mixed casing.
func (f *Factura) Anulada() bool {
	return strings.EqualFold(f.Estado, EstadoAnulada)
}
