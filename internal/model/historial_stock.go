package model

// RegistroStock is one immutable stock-history entry. Readers must derive the
// delta from the before/after quantities; the "added" field some older files
// carry is a display cache only.
type RegistroStock struct {
	Timestamp        string `json:"timestamp"` // RFC3339 UTC
	Codigo           string `json:"codigo"`
	Producto         string `json:"producto"`
	CantidadAnterior int    `json:"cantidad_anterior"`
	CantidadNueva    int    `json:"cantidad_nueva"`
	Motivo           string `json:"motivo"`
	Usuario          string `json:"usuario"`
}

// Delta recomputes the quantity change; never trust a stored delta.
func (r RegistroStock) Delta() int { return r.CantidadNueva - r.CantidadAnterior }

// Well-known motivo tags.
const (
	MotivoAgregado        = "added"
	MotivoDevolucionVenta = "devolucion_venta"
	MotivoAjusteManual    = "ajuste_manual"
)
