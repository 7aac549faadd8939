package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ventapos/internal/dto"
	"ventapos/internal/infra"
	"ventapos/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type facturaFixture struct {
	productos *stubProductoRepo
	carrito   CarritoService
	facturas  *stubFacturaRepo
	contador  *stubContadorRepo
	svc       FacturaService
}

func newFacturaFixture(t *testing.T, remoto *infra.RemoteFacturas) *facturaFixture {
	t.Helper()
	productos := newStubProductoRepo()
	historial := &stubHistorialRepo{}
	pausadas := &stubPausadasRepo{}
	settings := newStubSettingsRepo()
	tasa := infra.NewTasaProvider(settings)

	inventario := NewInventarioService(productos, historial, true)
	carrito := NewCarritoService(productos, inventario, pausadas, settings, tasa)

	facturas := newStubFacturaRepo()
	contador := &stubContadorRepo{}
	if remoto == nil {
		remoto = infra.NewRemoteFacturas("", time.Second, infra.NewCircuitBreaker(infra.DefaultCBConfig()))
	}
	svc := NewFacturaService(carrito, facturas, contador, settings, remoto, tasa)
	svc.(*facturaService).ahora = func() time.Time {
		return time.Date(2026, 9, 1, 14, 30, 0, 0, time.Local)
	}
	return &facturaFixture{
		productos: productos,
		carrito:   carrito,
		facturas:  facturas,
		contador:  contador,
		svc:       svc,
	}
}

func TestFinalizar_GeneraFacturaNumerada(t *testing.T) {
	fx := newFacturaFixture(t, nil)
	fx.productos.agregar("A1", "Harina", d("50"), 10)

	_, err := fx.carrito.Agregar(context.Background(), "A1", 2)
	require.NoError(t, err)

	f, err := fx.svc.Finalizar(context.Background(), "cajero1", dto.FinalizarRequest{
		Pagos: dto.PagosRequest{EfectivoBs: d("100")},
	})
	require.NoError(t, err)

	assert.Equal(t, "20260901-1", f.NumeroFactura)
	assert.Equal(t, model.EstadoFinalizada, f.Estado)
	assert.Equal(t, "20260901_143000", f.Timestamp)
	assert.Equal(t, "2026-09-01 14:30:00", f.FechaHora)
	assert.Equal(t, "cajero1", f.Operador)
	assert.True(t, f.TotalBs.Equal(d("100")))

	assert.Empty(t, fx.carrito.Snapshot(), "finalizar limpia el carrito")
	assert.Equal(t, 8, fx.productos.cantidadDe("A1"), "la venta consume la reserva, no repone")

	guardadas, _ := fx.facturas.ListarPorFecha(context.Background(), "2026-09-01")
	require.Len(t, guardadas, 1)
}

func TestFinalizar_NumeracionConsecutiva(t *testing.T) {
	fx := newFacturaFixture(t, nil)
	fx.productos.agregar("A1", "Harina", d("50"), 100)

	for i := 1; i <= 3; i++ {
		_, err := fx.carrito.Agregar(context.Background(), "A1", 1)
		require.NoError(t, err)
		f, err := fx.svc.Finalizar(context.Background(), "cajero1", dto.FinalizarRequest{
			Pagos: dto.PagosRequest{EfectivoBs: d("50")},
		})
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("20260901-%d", i), f.NumeroFactura)
	}
}

func TestFinalizar_CarritoVacio(t *testing.T) {
	fx := newFacturaFixture(t, nil)
	_, err := fx.svc.Finalizar(context.Background(), "cajero1", dto.FinalizarRequest{})
	require.Error(t, err)
}

func TestFinalizar_PagoInsuficiente(t *testing.T) {
	fx := newFacturaFixture(t, nil)
	fx.productos.agregar("A1", "Harina", d("50"), 10)

	_, err := fx.carrito.Agregar(context.Background(), "A1", 2)
	require.NoError(t, err)

	_, err = fx.svc.Finalizar(context.Background(), "cajero1", dto.FinalizarRequest{
		Pagos: dto.PagosRequest{EfectivoBs: d("99")},
	})
	require.ErrorIs(t, err, ErrPagoInsuficiente)

	// The sale stays open; nothing was written and no number was consumed.
	assert.Len(t, fx.carrito.Snapshot(), 1)
	guardadas, _ := fx.facturas.ListarPorFecha(context.Background(), "2026-09-01")
	assert.Empty(t, guardadas)
	n, _ := fx.contador.Peek(context.Background(), "2026-09-01")
	assert.Equal(t, 1, n)
}

func TestFinalizar_PagoEnDolaresCubreTotal(t *testing.T) {
	fx := newFacturaFixture(t, nil)
	fx.productos.agregar("A1", "Harina", d("72"), 10)

	_, err := fx.carrito.Agregar(context.Background(), "A1", 1)
	require.NoError(t, err)

	// The default rate is 1, so 72 USD covers the 72 BS total.
	f, err := fx.svc.Finalizar(context.Background(), "cajero1", dto.FinalizarRequest{
		Pagos: dto.PagosRequest{Usd: d("72")},
	})
	require.NoError(t, err)
	assert.True(t, f.Pagos.Usd.Equal(d("72")))
}

func TestFinalizar_CommitFallidoEmiteError(t *testing.T) {
	fx := newFacturaFixture(t, nil)
	fx.contador.failCommit = errors.New("disco lleno")
	fx.productos.agregar("A1", "Harina", d("50"), 10)

	_, err := fx.carrito.Agregar(context.Background(), "A1", 1)
	require.NoError(t, err)

	_, err = fx.svc.Finalizar(context.Background(), "cajero1", dto.FinalizarRequest{
		Pagos: dto.PagosRequest{EfectivoBs: d("50")},
	})
	require.Error(t, err, "el documento existe pero el contador no avanzo")
	assert.Contains(t, err.Error(), "contador")
}

func TestAnular_SinRemotoAnulaLocal(t *testing.T) {
	fx := newFacturaFixture(t, nil)
	fx.productos.agregar("A1", "Harina", d("50"), 10)

	_, err := fx.carrito.Agregar(context.Background(), "A1", 2)
	require.NoError(t, err)
	f, err := fx.svc.Finalizar(context.Background(), "cajero1", dto.FinalizarRequest{
		Pagos: dto.PagosRequest{EfectivoBs: d("100")},
	})
	require.NoError(t, err)

	anulada, err := fx.svc.Anular(context.Background(), f.NumeroFactura, dto.AnularRequest{
		Fecha: "2026-09-01", Motivo: "producto defectuoso",
	})
	require.NoError(t, err)
	assert.True(t, anulada.Anulada())
	assert.Equal(t, "producto defectuoso", anulada.MotivoAnulacion)

	// Voiding never restores stock.
	assert.Equal(t, 8, fx.productos.cantidadDe("A1"))
}

func TestAnular_RemotoRechazaDejaLocalIntacta(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer srv.Close()
	remoto := infra.NewRemoteFacturas(srv.URL, time.Second, infra.NewCircuitBreaker(infra.DefaultCBConfig()))

	fx := newFacturaFixture(t, remoto)
	fx.productos.agregar("A1", "Harina", d("50"), 10)

	_, err := fx.carrito.Agregar(context.Background(), "A1", 1)
	require.NoError(t, err)
	f, err := fx.svc.Finalizar(context.Background(), "cajero1", dto.FinalizarRequest{
		Pagos: dto.PagosRequest{EfectivoBs: d("50")},
	})
	require.NoError(t, err)

	_, err = fx.svc.Anular(context.Background(), f.NumeroFactura, dto.AnularRequest{
		Fecha: "2026-09-01", Motivo: "error de caja",
	})
	require.Error(t, err)

	local, err := fx.svc.BuscarPorNumero(context.Background(), "2026-09-01", f.NumeroFactura)
	require.NoError(t, err)
	assert.False(t, local.Anulada(), "sin confirmacion remota la factura local no cambia")
}

func TestAnular_RemotoConfirmaAnulaLocal(t *testing.T) {
	var recibido string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recibido = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()
	remoto := infra.NewRemoteFacturas(srv.URL, time.Second, infra.NewCircuitBreaker(infra.DefaultCBConfig()))

	fx := newFacturaFixture(t, remoto)
	fx.productos.agregar("A1", "Harina", d("50"), 10)

	_, err := fx.carrito.Agregar(context.Background(), "A1", 1)
	require.NoError(t, err)
	f, err := fx.svc.Finalizar(context.Background(), "cajero1", dto.FinalizarRequest{
		Pagos: dto.PagosRequest{EfectivoBs: d("50")},
	})
	require.NoError(t, err)

	anulada, err := fx.svc.Anular(context.Background(), f.NumeroFactura, dto.AnularRequest{
		Fecha: "2026-09-01", Motivo: "duplicada",
	})
	require.NoError(t, err)
	assert.True(t, anulada.Anulada())
	assert.Equal(t, "/invoices/"+f.NumeroFactura+"/anular", recibido)
}

func TestFinalizar_ConservaLineasAgregadasDuranteElCobro(t *testing.T) {
	fx := newFacturaFixture(t, nil)
	fx.productos.agregar("A1", "Harina", d("50"), 10)
	fx.productos.agregar("B2", "Azucar", d("30"), 5)

	_, err := fx.carrito.Agregar(context.Background(), "A1", 1)
	require.NoError(t, err)

	// A second item lands while the invoice document is being written.
	fx.facturas.onGuardar = func() {
		_, err := fx.carrito.Agregar(context.Background(), "B2", 2)
		require.NoError(t, err)
	}

	f, err := fx.svc.Finalizar(context.Background(), "cajero1", dto.FinalizarRequest{
		Pagos: dto.PagosRequest{EfectivoBs: d("50")},
	})
	require.NoError(t, err)
	require.Len(t, f.Productos, 1, "la factura cobra solo lo capturado")

	resp, err := fx.carrito.Ver(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.Items, 1, "la linea agregada durante el cobro sobrevive")
	assert.Equal(t, "B2", resp.Items[0].Codigo)
	assert.Equal(t, 3, fx.productos.cantidadDe("B2"), "su reserva sigue en pie")
}

func TestAnular_Idempotente(t *testing.T) {
	fx := newFacturaFixture(t, nil)
	fx.productos.agregar("A1", "Harina", d("50"), 10)

	_, err := fx.carrito.Agregar(context.Background(), "A1", 1)
	require.NoError(t, err)
	f, err := fx.svc.Finalizar(context.Background(), "cajero1", dto.FinalizarRequest{
		Pagos: dto.PagosRequest{EfectivoBs: d("50")},
	})
	require.NoError(t, err)

	_, err = fx.svc.Anular(context.Background(), f.NumeroFactura, dto.AnularRequest{Fecha: "2026-09-01", Motivo: "x"})
	require.NoError(t, err)
	otra, err := fx.svc.Anular(context.Background(), f.NumeroFactura, dto.AnularRequest{Fecha: "2026-09-01", Motivo: "y"})
	require.NoError(t, err)
	assert.Equal(t, "x", otra.MotivoAnulacion, "la segunda anulacion no sobreescribe el motivo")
}
