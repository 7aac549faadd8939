package dto

// EjecutarCierreRequest runs the closure for a date (default today). When
// IncluirRemotas is set the analytics also merge invoices fetched from the
// central service, deduplicated by invoice number.
type EjecutarCierreRequest struct {
	Fecha          string `json:"fecha"` // YYYY-MM-DD; empty = today
	IncluirRemotas bool   `json:"incluir_remotas"`
}
