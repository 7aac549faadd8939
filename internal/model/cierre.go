package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CierreAnalitica is the closure report for one date: per-method transaction
// counts and BS totals, the foreign-currency module, and grand totals in both
// currencies. It is a pure value — identical invoice sets and rate always
// produce a field-identical report.
type CierreAnalitica struct {
	NumFacturas   int `json:"num_facturas"`
	CountEfectivo int `json:"count_efectivo"`
	CountPV       int `json:"count_pv"`
	CountPM       int `json:"count_pm"`
	CountDolar    int `json:"count_dolar"`

	TotalEfectivo decimal.Decimal `json:"total_efectivo"`
	TotalPV       decimal.Decimal `json:"total_pv"`
	TotalPM       decimal.Decimal `json:"total_pm"`
	// TotalUsdBs is the BS equivalent of USD payments at the supplied rate.
	TotalUsdBs decimal.Decimal `json:"total_usd_bs"`

	// Modulo Divisas: invoices whose PRIMARY method is USD. Totals come from
	// the invoice's own recorded amounts (the rate charged at sale time), not
	// from a recomputation with today's rate.
	DivisaCount        int             `json:"divisa_count"`
	DivisaTotalUsd     decimal.Decimal `json:"divisa_total_usd"`
	DivisaTotalBsEquiv decimal.Decimal `json:"divisa_total_bs_equiv"`

	TotalGralBs decimal.Decimal `json:"total_gral_bs"`
	// TotalGralUsd sums every invoice's recorded total_usd regardless of how
	// it was paid — a display total, distinct from the divisa module.
	TotalGralUsd decimal.Decimal `json:"total_gral_usd"`

	TasaCambio decimal.Decimal `json:"exchange_rate"`
}

// RegistroCierre is one closure run. closures.json keeps every run for a
// date, re-runs included.
type RegistroCierre struct {
	Fecha      string          `json:"fecha"` // YYYY-MM-DD
	GeneradoEn time.Time       `json:"generado_en"`
	Analitica  CierreAnalitica `json:"analitica"`
	Operador   string          `json:"operador"`
}
