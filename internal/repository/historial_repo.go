package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"ventapos/internal/model"

	"github.com/rs/zerolog/log"
)

// HistorialRepository is the append-only stock movement log. Everything lands
// in stock_history.json; entries with motivo "added" are additionally copied
// into a per-day shard (stock_additions_<YYYY-MM-DD>.json) that feeds the
// restock review screen.
type HistorialRepository interface {
	Registrar(ctx context.Context, reg model.RegistroStock) error
	Listar(ctx context.Context) ([]model.RegistroStock, error)
	ListarAgregadosPorFecha(ctx context.Context, fecha string) ([]model.RegistroStock, error)
}

type historialRepo struct {
	dir string
	mu  sync.Mutex
}

func NewHistorialRepository(dataDir string) HistorialRepository {
	return &historialRepo{dir: dataDir}
}

func (r *historialRepo) principal() string {
	return filepath.Join(r.dir, "stock_history.json")
}

func (r *historialRepo) shardAgregados(fecha string) string {
	return filepath.Join(r.dir, "stock_additions_"+fecha+".json")
}

// leerLista loads a log file. On corrupt content the file is moved aside to
// <name>.corrupt-<ts> and an empty log is returned so the operation that
// triggered the read can still be recorded.
func (r *historialRepo) leerLista(path string) ([]model.RegistroStock, error) {
	var lista []model.RegistroStock
	err := readJSON(path, &lista)
	if err == nil {
		return lista, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if errors.Is(err, ErrRegistroCorrupto) {
		respaldo := path + ".corrupt-" + time.Now().UTC().Format("20060102T150405Z")
		if renErr := os.Rename(path, respaldo); renErr != nil {
			return nil, fmt.Errorf("respaldar historial corrupto: %w", renErr)
		}
		log.Warn().Str("archivo", filepath.Base(path)).Str("respaldo", filepath.Base(respaldo)).
			Msg("historial de stock corrupto; respaldado y reiniciado")
		return nil, nil
	}
	return nil, err
}

func (r *historialRepo) Registrar(_ context.Context, reg model.RegistroStock) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	lista, err := r.leerLista(r.principal())
	if err != nil {
		return fmt.Errorf("leer historial: %w", err)
	}
	lista = append(lista, reg)
	if err := writeJSONAtomic(r.principal(), lista); err != nil {
		return fmt.Errorf("persistir historial: %w", err)
	}

	if reg.Motivo != model.MotivoAgregado {
		return nil
	}
	fecha, err := fechaDeTimestampRFC(reg.Timestamp)
	if err != nil {
		log.Warn().Str("timestamp", reg.Timestamp).Err(err).
			Msg("timestamp ilegible; omitiendo shard diario")
		return nil
	}
	// The shard is a convenience copy; the mutation is already recorded in
	// the main log, so shard trouble never fails the operation.
	shard := r.shardAgregados(fecha)
	diarios, err := r.leerLista(shard)
	if err != nil {
		log.Warn().Str("archivo", filepath.Base(shard)).Err(err).
			Msg("shard diario ilegible; la entrada queda solo en el log principal")
		return nil
	}
	diarios = append(diarios, reg)
	if err := writeJSONAtomic(shard, diarios); err != nil {
		log.Warn().Str("archivo", filepath.Base(shard)).Err(err).
			Msg("no se pudo escribir el shard diario; la entrada queda en el log principal")
	}
	return nil
}

func (r *historialRepo) Listar(_ context.Context) ([]model.RegistroStock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.leerLista(r.principal())
}

func (r *historialRepo) ListarAgregadosPorFecha(_ context.Context, fecha string) ([]model.RegistroStock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.leerLista(r.shardAgregados(fecha))
}

// fechaDeTimestampRFC extracts the YYYY-MM-DD shard name from an RFC3339
// timestamp.
func fechaDeTimestampRFC(ts string) (string, error) {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return "", err
	}
	return t.UTC().Format("2006-01-02"), nil
}
