package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ventapos/internal/infra"
	"ventapos/internal/model"
	"ventapos/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// CierreService builds the daily cash-closure report and records every run.
type CierreService interface {
	// Ejecutar computes the closure for a date, optionally merging remote
	// invoices, persists the run and returns it.
	Ejecutar(ctx context.Context, fecha string, incluirRemotas bool, operador string) (*model.RegistroCierre, error)
	ListarCierres(ctx context.Context, fecha string) ([]model.RegistroCierre, error)
}

type cierreService struct {
	facturas repository.FacturaRepository
	cierres  repository.CierreRepository
	remoto   *infra.RemoteFacturas
	tasa     *infra.TasaProvider
}

func NewCierreService(
	facturas repository.FacturaRepository,
	cierres repository.CierreRepository,
	remoto *infra.RemoteFacturas,
	tasa *infra.TasaProvider,
) CierreService {
	return &cierreService{facturas: facturas, cierres: cierres, remoto: remoto, tasa: tasa}
}

// esDivisaPrimaria decides whether the invoice's dominant payment method is
// foreign currency: the USD payment, converted at the supplied rate, must be
// at least as large as every local-currency amount. USD wins ties.
func esDivisaPrimaria(p model.Pagos, tasa decimal.Decimal) bool {
	if p.Usd.Sign() <= 0 {
		return false
	}
	usdBs := p.Usd.Mul(tasa)
	return usdBs.GreaterThanOrEqual(p.EfectivoBs) &&
		usdBs.GreaterThanOrEqual(p.PuntoBs) &&
		usdBs.GreaterThanOrEqual(p.PagoMovilBs)
}

// ComputarAnalitica is the pure closure computation: same invoices and rate
// in, field-identical report out. Voided invoices contribute nothing, not
// even to num_facturas; entries still in PAUSADA state are skipped too.
func ComputarAnalitica(facturas []model.Factura, tasa decimal.Decimal) model.CierreAnalitica {
	a := model.CierreAnalitica{TasaCambio: tasa}

	for i := range facturas {
		f := &facturas[i]
		if f.Anulada() || strings.EqualFold(f.Estado, model.EstadoPausada) {
			continue
		}
		a.NumFacturas++

		p := f.Pagos
		usdBs := p.Usd.Mul(tasa)

		if p.EfectivoBs.Sign() > 0 {
			a.CountEfectivo++
		}
		if p.PuntoBs.Sign() > 0 {
			a.CountPV++
		}
		if p.PagoMovilBs.Sign() > 0 {
			a.CountPM++
		}
		if p.Usd.Sign() > 0 {
			a.CountDolar++
		}

		a.TotalEfectivo = a.TotalEfectivo.Add(p.EfectivoBs)
		a.TotalPV = a.TotalPV.Add(p.PuntoBs)
		a.TotalPM = a.TotalPM.Add(p.PagoMovilBs)
		a.TotalUsdBs = a.TotalUsdBs.Add(usdBs)
		a.TotalGralUsd = a.TotalGralUsd.Add(f.TotalUsd)

		if esDivisaPrimaria(p, tasa) {
			a.DivisaCount++
			a.DivisaTotalUsd = a.DivisaTotalUsd.Add(f.TotalUsd)
			a.DivisaTotalBsEquiv = a.DivisaTotalBsEquiv.Add(f.TotalBs)
		}
	}

	a.TotalGralBs = a.TotalEfectivo.Add(a.TotalPV).Add(a.TotalPM).Add(a.TotalUsdBs)
	return a
}

func (s *cierreService) Ejecutar(ctx context.Context, fecha string, incluirRemotas bool, operador string) (*model.RegistroCierre, error) {
	if fecha == "" {
		fecha = time.Now().Format("2006-01-02")
	}

	locales, err := s.facturas.ListarPorFecha(ctx, fecha)
	if err != nil {
		return nil, fmt.Errorf("cargar facturas del dia: %w", err)
	}

	combinadas := locales
	if incluirRemotas && s.remoto.Disponible() {
		remotas, err := s.remoto.FetchFacturas(ctx, fecha, fecha)
		if err != nil {
			// Best effort: the closure still runs on local data alone.
			log.Warn().Str("fecha", fecha).Err(err).
				Msg("facturas remotas no disponibles; cierre solo con datos locales")
		} else {
			combinadas = fusionarPorNumero(locales, remotas)
		}
	}

	analitica := ComputarAnalitica(combinadas, s.tasa.Actual(ctx))

	registro := model.RegistroCierre{
		Fecha:      fecha,
		GeneradoEn: time.Now().UTC(),
		Analitica:  analitica,
		Operador:   operador,
	}
	if err := s.cierres.Registrar(ctx, registro); err != nil {
		return nil, fmt.Errorf("persistir cierre: %w", err)
	}
	return &registro, nil
}

func (s *cierreService) ListarCierres(ctx context.Context, fecha string) ([]model.RegistroCierre, error) {
	if fecha == "" {
		return s.cierres.Listar(ctx)
	}
	return s.cierres.ListarPorFecha(ctx, fecha)
}

// fusionarPorNumero merges remote invoices into the local set. The local copy
// wins when both carry the same invoice number.
func fusionarPorNumero(locales, remotas []model.Factura) []model.Factura {
	vistos := make(map[string]struct{}, len(locales))
	for _, f := range locales {
		vistos[f.NumeroFactura] = struct{}{}
	}
	combinadas := locales
	for _, f := range remotas {
		if _, ok := vistos[f.NumeroFactura]; ok {
			continue
		}
		vistos[f.NumeroFactura] = struct{}{}
		combinadas = append(combinadas, f)
	}
	return combinadas
}
