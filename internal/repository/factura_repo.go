package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"ventapos/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// FacturaRepository persists finalized invoices as one JSON document each,
// sharded by day: <facturasDir>/<YYYY-MM-DD>/factura_<timestamp>.json. The
// day directory is the unit every per-date read scans.
type FacturaRepository interface {
	// Guardar writes the invoice under the day derived from its Timestamp.
	// If the natural filename is already taken it disambiguates with a short
	// unique suffix instead of overwriting.
	Guardar(ctx context.Context, f *model.Factura) (string, error)

	// ListarPorFecha loads every invoice of the day, sorted by filename.
	// Unreadable documents are skipped with a warning, never fatal.
	ListarPorFecha(ctx context.Context, fecha string) ([]model.Factura, error)

	BuscarPorNumero(ctx context.Context, fecha, numero string) (*model.Factura, string, error)

	// MarcarAnulada rewrites the stored document in place with state ANULADA
	// and the given reason. Stock is not touched here or anywhere else on
	// void.
	MarcarAnulada(ctx context.Context, fecha, numero, motivo string) (*model.Factura, error)
}

type facturaRepo struct {
	dir string
}

func NewFacturaRepository(dir string) FacturaRepository { return &facturaRepo{dir: dir} }

func (r *facturaRepo) diaDir(fecha string) string { return filepath.Join(r.dir, fecha) }

// fechaDeTimestamp converts YYYYMMDD_HHMMSS into the YYYY-MM-DD shard name.
func fechaDeTimestamp(ts string) (string, error) {
	if len(ts) < 8 {
		return "", fmt.Errorf("timestamp invalido: %q", ts)
	}
	d := ts[:8]
	return d[:4] + "-" + d[4:6] + "-" + d[6:8], nil
}

func (r *facturaRepo) Guardar(_ context.Context, f *model.Factura) (string, error) {
	fecha, err := fechaDeTimestamp(f.Timestamp)
	if err != nil {
		return "", err
	}
	dir := r.diaDir(fecha)
	path := filepath.Join(dir, "factura_"+f.Timestamp+".json")
	if _, err := os.Stat(path); err == nil {
		// Two invoices inside the same second. Keep both.
		sufijo := strings.Split(uuid.NewString(), "-")[0]
		path = filepath.Join(dir, "factura_"+f.Timestamp+"_"+sufijo+".json")
	}
	if err := writeJSONAtomic(path, f); err != nil {
		return "", err
	}
	return path, nil
}

func (r *facturaRepo) ListarPorFecha(_ context.Context, fecha string) ([]model.Factura, error) {
	dir := r.diaDir(fecha)
	entradas, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("leer directorio %s: %w", fecha, err)
	}

	nombres := make([]string, 0, len(entradas))
	for _, e := range entradas {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		nombres = append(nombres, e.Name())
	}
	sort.Strings(nombres)

	facturas := make([]model.Factura, 0, len(nombres))
	omitidas := 0
	for _, nombre := range nombres {
		var f model.Factura
		if err := readJSON(filepath.Join(dir, nombre), &f); err != nil {
			omitidas++
			log.Warn().Str("archivo", nombre).Str("fecha", fecha).Err(err).
				Msg("factura ilegible omitida")
			continue
		}
		facturas = append(facturas, f)
	}
	if omitidas > 0 {
		log.Warn().Int("omitidas", omitidas).Str("fecha", fecha).
			Msg("facturas omitidas en el escaneo del dia")
	}
	return facturas, nil
}

func (r *facturaRepo) BuscarPorNumero(ctx context.Context, fecha, numero string) (*model.Factura, string, error) {
	dir := r.diaDir(fecha)
	entradas, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", ErrFacturaNoEncontrada
		}
		return nil, "", fmt.Errorf("leer directorio %s: %w", fecha, err)
	}
	for _, e := range entradas {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		var f model.Factura
		if err := readJSON(path, &f); err != nil {
			continue
		}
		if f.NumeroFactura == numero {
			return &f, path, nil
		}
	}
	return nil, "", ErrFacturaNoEncontrada
}

func (r *facturaRepo) MarcarAnulada(ctx context.Context, fecha, numero, motivo string) (*model.Factura, error) {
	f, path, err := r.BuscarPorNumero(ctx, fecha, numero)
	if err != nil {
		return nil, err
	}
	if f.Anulada() {
		return f, nil
	}
	f.Estado = model.EstadoAnulada
	f.MotivoAnulacion = motivo
	if err := writeJSONAtomic(path, f); err != nil {
		return nil, err
	}
	return f, nil
}
