package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"ventapos/internal/model"
)

// CierreRepository keeps every closure run in closures.json. Records are
// append-only: re-running a closure for the same date adds a new entry
// instead of replacing the earlier one.
type CierreRepository interface {
	Registrar(ctx context.Context, rc model.RegistroCierre) error
	Listar(ctx context.Context) ([]model.RegistroCierre, error)
	ListarPorFecha(ctx context.Context, fecha string) ([]model.RegistroCierre, error)
}

type cierreRepo struct {
	path string
	mu   sync.Mutex
}

func NewCierreRepository(dataDir string) CierreRepository {
	return &cierreRepo{path: filepath.Join(dataDir, "closures.json")}
}

func (r *cierreRepo) leer() ([]model.RegistroCierre, error) {
	var lista []model.RegistroCierre
	err := readJSON(r.path, &lista)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return lista, nil
}

func (r *cierreRepo) Registrar(_ context.Context, rc model.RegistroCierre) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	lista, err := r.leer()
	if err != nil {
		return fmt.Errorf("leer registro de cierres: %w", err)
	}
	lista = append(lista, rc)
	return writeJSONAtomic(r.path, lista)
}

func (r *cierreRepo) Listar(_ context.Context) ([]model.RegistroCierre, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.leer()
}

func (r *cierreRepo) ListarPorFecha(_ context.Context, fecha string) ([]model.RegistroCierre, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lista, err := r.leer()
	if err != nil {
		return nil, err
	}
	var filtrada []model.RegistroCierre
	for _, rc := range lista {
		if rc.Fecha == fecha {
			filtrada = append(filtrada, rc)
		}
	}
	return filtrada, nil
}
