package dto

import (
	"ventapos/internal/model"

	"github.com/shopspring/decimal"
)

type AgregarItemRequest struct {
	Codigo   string `json:"codigo"   validate:"required"`
	Cantidad int    `json:"cantidad" validate:"required,min=1"`
}

type QuitarItemRequest struct {
	Codigo   string `json:"codigo"   validate:"required"`
	Cantidad int    `json:"cantidad" validate:"required,min=1"`
}

// CarritoResponse mirrors the register screen: lines plus running totals in
// both currencies at the current rate.
type CarritoResponse struct {
	Items      []model.LineaFactura `json:"items"`
	SubtotalBs decimal.Decimal      `json:"subtotal_bs"`
	IvaBs      decimal.Decimal      `json:"iva_amount_bs"`
	TotalBs    decimal.Decimal      `json:"total_bs"`
	TotalUsd   decimal.Decimal      `json:"total_usd"`
	TasaCambio decimal.Decimal      `json:"exchange_rate"`
	IvaPct     decimal.Decimal      `json:"global_iva_pct"`
	IvaActivo  bool                 `json:"iva_enabled"`
}

type PausarRequest struct {
	Cliente *ClienteRefRequest `json:"client"`
}

type ClienteRefRequest struct {
	Nombre string `json:"name"   validate:"required"`
	Cedula string `json:"cedula"`
}

type PausadaResponse struct {
	ID        string          `json:"id"`
	FechaHora string          `json:"datetime"`
	Cliente   string          `json:"client"`
	TotalBs   decimal.Decimal `json:"total_bs"`
	NumItems  int             `json:"num_items"`
}
