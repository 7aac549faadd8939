package dto

import "github.com/shopspring/decimal"

type PagosRequest struct {
	EfectivoBs   decimal.Decimal `json:"efectivo_bs"`
	PuntoBs      decimal.Decimal `json:"punto_bs"`
	PagoMovilBs  decimal.Decimal `json:"pago_movil_bs"`
	PagoMovilRef string          `json:"pago_movil_ref"`
	Usd          decimal.Decimal `json:"usd"`
}

type FinalizarRequest struct {
	Pagos   PagosRequest       `json:"payments" validate:"required"`
	Cliente *ClienteRefRequest `json:"client"`
}

type AnularRequest struct {
	Fecha  string `json:"fecha"  validate:"required"` // YYYY-MM-DD
	Motivo string `json:"motivo" validate:"required"`
}
