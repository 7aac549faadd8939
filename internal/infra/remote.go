package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"ventapos/internal/model"
)

// ErrRemoto marks any failure talking to the central invoice service, so
// callers can tell remote trouble apart from local persistence errors.
var ErrRemoto = errors.New("servicio remoto")

// RemoteFacturas talks to the central invoice service. The terminal works
// fully offline; this client only enriches closures with invoices recorded
// elsewhere and confirms voids before they take effect locally.
type RemoteFacturas struct {
	baseURL    string
	httpClient *http.Client
	cb         *CircuitBreaker
}

func NewRemoteFacturas(baseURL string, timeout time.Duration, cb *CircuitBreaker) *RemoteFacturas {
	return &RemoteFacturas{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		cb:         cb,
	}
}

// Disponible reports whether a base URL is configured at all.
func (c *RemoteFacturas) Disponible() bool { return c != nil && c.baseURL != "" }

// FetchFacturas pulls the remote invoices of a date range via
// GET /invoices?from_date=...&to_date=... (dates as YYYY-MM-DD).
func (c *RemoteFacturas) FetchFacturas(ctx context.Context, desde, hasta string) ([]model.Factura, error) {
	if !c.Disponible() {
		return nil, fmt.Errorf("servicio remoto no configurado")
	}

	var facturas []model.Factura
	err := c.cb.Execute(func() error {
		q := url.Values{}
		q.Set("from_date", desde)
		q.Set("to_date", hasta)
		endpoint := c.baseURL + "/invoices?" + q.Encode()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return fmt.Errorf("%w: crear request: %v", ErrRemoto, err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("%w: inalcanzable: %v", ErrRemoto, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("%w: respondio %d", ErrRemoto, resp.StatusCode)
		}
		if err := json.NewDecoder(resp.Body).Decode(&facturas); err != nil {
			return fmt.Errorf("%w: decodificar respuesta: %v", ErrRemoto, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return facturas, nil
}

type anularRequest struct {
	Motivo string `json:"motivo"`
}

// ConfirmarAnulacion asks the remote service to void the invoice via
// POST /invoices/{numero}/anular. Only a 2xx answer counts as confirmation;
// the caller must not void locally on any error, timeout included.
func (c *RemoteFacturas) ConfirmarAnulacion(ctx context.Context, numero, motivo string) error {
	if !c.Disponible() {
		return fmt.Errorf("servicio remoto no configurado")
	}

	return c.cb.Execute(func() error {
		body, err := json.Marshal(anularRequest{Motivo: motivo})
		if err != nil {
			return fmt.Errorf("%w: marshal payload: %v", ErrRemoto, err)
		}

		endpoint := c.baseURL + "/invoices/" + url.PathEscape(numero) + "/anular"
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("%w: crear request: %v", ErrRemoto, err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("%w: inalcanzable: %v", ErrRemoto, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return fmt.Errorf("%w: anulacion rechazada (%d)", ErrRemoto, resp.StatusCode)
		}
		return nil
	})
}
