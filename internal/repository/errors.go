package repository

import "errors"

var (
	// ErrStockInsuficiente: a conditional decrement was rejected. The row was
	// not touched; the caller shows the message and moves on.
	ErrStockInsuficiente = errors.New("stock insuficiente")

	ErrProductoNoEncontrado = errors.New("producto no encontrado")
	ErrFacturaNoEncontrada  = errors.New("factura no encontrada")
	ErrPausadaNoEncontrada  = errors.New("factura pausada no encontrada")

	// ErrRegistroCorrupto marks a single unreadable JSON document. Scans skip
	// the file with a warning instead of aborting.
	ErrRegistroCorrupto = errors.New("registro corrupto")
)
