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

// PausadasRepository is the pause registry: the full list of suspended sales
// lives in one paused.json document and every mutation rewrites the whole
// file. Volume is tiny (an operator rarely holds more than a handful of
// suspended tickets), so wholesale rewrite keeps it trivially consistent.
type PausadasRepository interface {
	Listar(ctx context.Context) ([]model.Factura, error)
	Agregar(ctx context.Context, f model.Factura) error
	// Quitar removes the entry by its registry ID and returns it.
	Quitar(ctx context.Context, id string) (*model.Factura, error)
}

type pausadasRepo struct {
	path string
	mu   sync.Mutex
}

func NewPausadasRepository(dataDir string) PausadasRepository {
	return &pausadasRepo{path: filepath.Join(dataDir, "paused.json")}
}

func (r *pausadasRepo) leer() ([]model.Factura, error) {
	var lista []model.Factura
	err := readJSON(r.path, &lista)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return lista, nil
}

func (r *pausadasRepo) Listar(_ context.Context) ([]model.Factura, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.leer()
}

func (r *pausadasRepo) Agregar(_ context.Context, f model.Factura) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	lista, err := r.leer()
	if err != nil {
		return fmt.Errorf("leer registro de pausadas: %w", err)
	}
	f.Estado = model.EstadoPausada
	lista = append(lista, f)
	return writeJSONAtomic(r.path, lista)
}

func (r *pausadasRepo) Quitar(_ context.Context, id string) (*model.Factura, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lista, err := r.leer()
	if err != nil {
		return nil, fmt.Errorf("leer registro de pausadas: %w", err)
	}
	for i, f := range lista {
		if f.ID == id {
			quitada := f
			lista = append(lista[:i], lista[i+1:]...)
			if err := writeJSONAtomic(r.path, lista); err != nil {
				return nil, err
			}
			return &quitada, nil
		}
	}
	return nil, ErrPausadaNoEncontrada
}
