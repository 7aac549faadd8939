package service

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"

	"ventapos/internal/infra"
	"ventapos/internal/model"
	"ventapos/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCarritoFixture(t *testing.T) (*stubProductoRepo, CarritoService, *stubPausadasRepo, *stubHistorialRepo) {
	t.Helper()
	productos := newStubProductoRepo()
	historial := &stubHistorialRepo{}
	pausadas := &stubPausadasRepo{}
	settings := newStubSettingsRepo()
	tasa := infra.NewTasaProvider(settings)

	inventario := NewInventarioService(productos, historial, true)
	carrito := NewCarritoService(productos, inventario, pausadas, settings, tasa)
	return productos, carrito, pausadas, historial
}

func TestCarrito_AgregarReservaStock(t *testing.T) {
	productos, carrito, _, _ := newCarritoFixture(t)
	productos.agregar("A1", "Harina", d("50"), 10)

	resp, err := carrito.Agregar(context.Background(), "A1", 3)
	require.NoError(t, err)

	assert.Equal(t, 7, productos.cantidadDe("A1"))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 3, resp.Items[0].Cantidad)
	assert.True(t, resp.SubtotalBs.Equal(d("150")))
}

func TestCarrito_AgregarMismoProductoFusionaLinea(t *testing.T) {
	productos, carrito, _, _ := newCarritoFixture(t)
	productos.agregar("A1", "Harina", d("50"), 10)

	_, err := carrito.Agregar(context.Background(), "A1", 2)
	require.NoError(t, err)
	resp, err := carrito.Agregar(context.Background(), "A1", 3)
	require.NoError(t, err)

	require.Len(t, resp.Items, 1, "misma clave de producto no duplica lineas")
	assert.Equal(t, 5, resp.Items[0].Cantidad)
	assert.Equal(t, 5, productos.cantidadDe("A1"))
}

func TestCarrito_AgregarSinStockNoMutaNada(t *testing.T) {
	productos, carrito, _, _ := newCarritoFixture(t)
	productos.agregar("A1", "Harina", d("50"), 2)

	_, err := carrito.Agregar(context.Background(), "A1", 5)
	require.ErrorIs(t, err, repository.ErrStockInsuficiente)

	assert.Equal(t, 2, productos.cantidadDe("A1"), "el rechazo no toca el stock")
	resp, err := carrito.Ver(context.Background())
	require.NoError(t, err)
	assert.Empty(t, resp.Items, "el rechazo no toca el carrito")
}

func TestCarrito_QuitarDevuelveStock(t *testing.T) {
	productos, carrito, _, historial := newCarritoFixture(t)
	productos.agregar("A1", "Harina", d("50"), 10)

	_, err := carrito.Agregar(context.Background(), "A1", 4)
	require.NoError(t, err)
	resp, err := carrito.Quitar(context.Background(), "A1", 1, "cajero1")
	require.NoError(t, err)

	assert.Equal(t, 7, productos.cantidadDe("A1"))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 3, resp.Items[0].Cantidad)

	regs, _ := historial.Listar(context.Background())
	require.Len(t, regs, 1)
	assert.Equal(t, model.MotivoDevolucionVenta, regs[0].Motivo)
	assert.Equal(t, 1, regs[0].Delta())
}

func TestCarrito_VaciarLiberaTodo(t *testing.T) {
	productos, carrito, _, _ := newCarritoFixture(t)
	productos.agregar("A1", "Harina", d("50"), 10)
	productos.agregar("B2", "Azucar", d("30"), 8)

	_, err := carrito.Agregar(context.Background(), "A1", 4)
	require.NoError(t, err)
	_, err = carrito.Agregar(context.Background(), "B2", 2)
	require.NoError(t, err)

	require.NoError(t, carrito.Vaciar(context.Background(), "cajero1"))

	assert.Equal(t, 10, productos.cantidadDe("A1"))
	assert.Equal(t, 8, productos.cantidadDe("B2"))
}

func TestCarrito_PausarMantieneReserva(t *testing.T) {
	productos, carrito, pausadas, _ := newCarritoFixture(t)
	productos.agregar("A1", "Harina", d("50"), 10)

	_, err := carrito.Agregar(context.Background(), "A1", 4)
	require.NoError(t, err)

	id, err := carrito.Pausar(context.Background(), &model.ClienteRef{Nombre: "Maria"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	// The suspended ticket still owns its 4 units.
	assert.Equal(t, 6, productos.cantidadDe("A1"))

	resp, err := carrito.Ver(context.Background())
	require.NoError(t, err)
	assert.Empty(t, resp.Items)

	lista, err := pausadas.Listar(context.Background())
	require.NoError(t, err)
	require.Len(t, lista, 1)
	assert.Equal(t, model.EstadoPausada, lista[0].Estado)
}

func TestCarrito_RetomarRecuperaLineas(t *testing.T) {
	productos, carrito, _, _ := newCarritoFixture(t)
	productos.agregar("A1", "Harina", d("50"), 10)

	_, err := carrito.Agregar(context.Background(), "A1", 4)
	require.NoError(t, err)
	id, err := carrito.Pausar(context.Background(), nil)
	require.NoError(t, err)

	resp, err := carrito.Retomar(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 4, resp.Items[0].Cantidad)
	// Stock unchanged: the reservation traveled with the ticket.
	assert.Equal(t, 6, productos.cantidadDe("A1"))
}

func TestCarrito_RetomarConVentaAbiertaFalla(t *testing.T) {
	productos, carrito, _, _ := newCarritoFixture(t)
	productos.agregar("A1", "Harina", d("50"), 10)

	_, err := carrito.Agregar(context.Background(), "A1", 1)
	require.NoError(t, err)
	id, err := carrito.Pausar(context.Background(), nil)
	require.NoError(t, err)

	_, err = carrito.Agregar(context.Background(), "A1", 2)
	require.NoError(t, err)

	_, err = carrito.Retomar(context.Background(), id)
	require.Error(t, err)
}

func TestCarrito_EliminarPausadaDevuelveStock(t *testing.T) {
	productos, carrito, pausadas, _ := newCarritoFixture(t)
	productos.agregar("A1", "Harina", d("50"), 10)

	_, err := carrito.Agregar(context.Background(), "A1", 4)
	require.NoError(t, err)
	id, err := carrito.Pausar(context.Background(), nil)
	require.NoError(t, err)

	require.NoError(t, carrito.EliminarPausada(context.Background(), id, "admin"))

	assert.Equal(t, 10, productos.cantidadDe("A1"))
	lista, _ := pausadas.Listar(context.Background())
	assert.Empty(t, lista)
}

func TestCarrito_QuitarConservaLineaSiLiberarFalla(t *testing.T) {
	productos, carrito, _, _ := newCarritoFixture(t)
	productos.agregar("A1", "Harina", d("50"), 10)

	_, err := carrito.Agregar(context.Background(), "A1", 2)
	require.NoError(t, err)

	productos.failReponer = errors.New("catalogo caido")
	_, err = carrito.Quitar(context.Background(), "A1", 1, "cajero1")
	require.Error(t, err)

	resp, err := carrito.Ver(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.Items, 1, "la linea sigue reclamando sus unidades")
	assert.Equal(t, 2, resp.Items[0].Cantidad)
	assert.Equal(t, 10, productos.cantidadDe("A1")+resp.Items[0].Cantidad, "ninguna unidad queda fuera de stock y carrito")
}

func TestCarrito_VaciarConservaLineasSiLiberarFalla(t *testing.T) {
	productos, carrito, _, _ := newCarritoFixture(t)
	productos.agregar("A1", "Harina", d("50"), 10)

	_, err := carrito.Agregar(context.Background(), "A1", 3)
	require.NoError(t, err)

	productos.failReponer = errors.New("catalogo caido")
	require.Error(t, carrito.Vaciar(context.Background(), "cajero1"))

	resp, err := carrito.Ver(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 10, productos.cantidadDe("A1")+resp.Items[0].Cantidad)

	// With the store back, the retry drains the cart.
	productos.failReponer = nil
	require.NoError(t, carrito.Vaciar(context.Background(), "cajero1"))
	assert.Equal(t, 10, productos.cantidadDe("A1"))
}

func TestCarrito_EliminarPausadaConservaEntradaSiLiberarFalla(t *testing.T) {
	productos, carrito, pausadas, _ := newCarritoFixture(t)
	productos.agregar("A1", "Harina", d("50"), 10)

	_, err := carrito.Agregar(context.Background(), "A1", 4)
	require.NoError(t, err)
	id, err := carrito.Pausar(context.Background(), nil)
	require.NoError(t, err)

	productos.failReponer = errors.New("catalogo caido")
	require.Error(t, carrito.EliminarPausada(context.Background(), id, "admin"))

	lista, err := pausadas.Listar(context.Background())
	require.NoError(t, err)
	require.Len(t, lista, 1, "la pausada queda para reintentar")
	assert.Equal(t, 6, productos.cantidadDe("A1"), "sus unidades siguen reservadas")
}

func TestCarrito_EliminarPausadaInexistente(t *testing.T) {
	_, carrito, _, _ := newCarritoFixture(t)
	err := carrito.EliminarPausada(context.Background(), "no-existe", "admin")
	assert.ErrorIs(t, err, repository.ErrPausadaNoEncontrada)
}

// Hammer one product from many goroutines: units reserved plus units left in
// stock must always equal the initial quantity, and stock must never go
// negative.
func TestCarrito_ConcurrenciaConservaStock(t *testing.T) {
	const inicial = 50

	productos, carrito, _, _ := newCarritoFixture(t)
	productos.agregar("A1", "Harina", d("50"), inicial)

	var wg sync.WaitGroup
	for g := 0; g < 10; g++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rnd := rand.New(rand.NewSource(seed))
			for i := 0; i < 30; i++ {
				cant := 1 + rnd.Intn(4)
				if rnd.Intn(2) == 0 {
					_, err := carrito.Agregar(context.Background(), "A1", cant)
					if err != nil && !errors.Is(err, repository.ErrStockInsuficiente) {
						t.Errorf("agregar: %v", err)
					}
				} else {
					_, _ = carrito.Quitar(context.Background(), "A1", cant, "cajero1")
				}
			}
		}(int64(g))
	}
	wg.Wait()

	enStock := productos.cantidadDe("A1")
	assert.GreaterOrEqual(t, enStock, 0, "el stock nunca baja de cero")

	enCarrito := 0
	for _, it := range carrito.Snapshot() {
		enCarrito += it.Cantidad
	}
	assert.Equal(t, inicial, enStock+enCarrito, "reservado + disponible = inicial")
}
