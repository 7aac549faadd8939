package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// contadorEstado is the on-disk shape of invoice_counter.json.
type contadorEstado struct {
	Fecha string `json:"date"` // YYYY-MM-DD
	Next  int    `json:"next"`
}

// ContadorRepository hands out per-day invoice sequence numbers. Peek is pure;
// Commit advances the counter only after the invoice document is safely on
// disk, so a crash between the two costs nothing and a crash after Commit
// simply skips no number.
type ContadorRepository interface {
	// Peek returns the number the next invoice of the given date will take,
	// without consuming it. A new date always starts at 1.
	Peek(ctx context.Context, fecha string) (int, error)

	// Commit records that numero was used for fecha, making numero+1 the next
	// Peek result. Peek and Commit for the same invoice must see the same
	// date string.
	Commit(ctx context.Context, fecha string, numero int) error
}

type contadorRepo struct {
	path string
	mu   sync.Mutex
}

func NewContadorRepository(dataDir string) ContadorRepository {
	return &contadorRepo{path: filepath.Join(dataDir, "invoice_counter.json")}
}

func (r *contadorRepo) leer() (contadorEstado, error) {
	var est contadorEstado
	err := readJSON(r.path, &est)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return contadorEstado{}, nil
		}
		return contadorEstado{}, err
	}
	return est, nil
}

func (r *contadorRepo) Peek(_ context.Context, fecha string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	est, err := r.leer()
	if err != nil {
		return 0, fmt.Errorf("leer contador: %w", err)
	}
	if est.Fecha != fecha || est.Next < 1 {
		return 1, nil
	}
	return est.Next, nil
}

func (r *contadorRepo) Commit(_ context.Context, fecha string, numero int) error {
	if numero < 1 {
		return fmt.Errorf("numero de factura invalido: %d", numero)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	est := contadorEstado{Fecha: fecha, Next: numero + 1}
	if err := writeJSONAtomic(r.path, est); err != nil {
		return fmt.Errorf("persistir contador: %w", err)
	}
	return nil
}
