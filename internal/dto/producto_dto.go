package dto

import "github.com/shopspring/decimal"

type CrearProductoRequest struct {
	Codigo    string          `json:"codigo"     validate:"required"`
	Nombre    string          `json:"nombre"     validate:"required"`
	PrecioBs  decimal.Decimal `json:"precio_bs"  validate:"required"`
	PrecioUsd decimal.Decimal `json:"precio_usd"`
	Cantidad  int             `json:"cantidad"   validate:"min=0"`
}

type ActualizarProductoRequest struct {
	Codigo    string          `json:"codigo"     validate:"required"`
	Nombre    string          `json:"nombre"     validate:"required"`
	PrecioBs  decimal.Decimal `json:"precio_bs"  validate:"required"`
	PrecioUsd decimal.Decimal `json:"precio_usd"`
}

// AjustarStockRequest sets an absolute target quantity; the service derives
// the delta and logs it.
type AjustarStockRequest struct {
	Cantidad int    `json:"cantidad" validate:"min=0"`
	Motivo   string `json:"motivo"`
}

type ProductoResponse struct {
	ID        string          `json:"id"`
	Codigo    string          `json:"codigo"`
	Nombre    string          `json:"nombre"`
	PrecioBs  decimal.Decimal `json:"precio_bs"`
	PrecioUsd decimal.Decimal `json:"precio_usd"`
	Cantidad  int             `json:"cantidad"`
	Activo    bool            `json:"activo"`
}

type RepreciarRequest struct {
	Tasa decimal.Decimal `json:"tasa" validate:"required"`
}
