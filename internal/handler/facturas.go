package handler

import (
	"errors"
	"net/http"
	"time"

	"ventapos/internal/apierror"
	"ventapos/internal/dto"
	"ventapos/internal/middleware"
	"ventapos/internal/repository"
	"ventapos/internal/service"

	"github.com/gin-gonic/gin"
)

type FacturasHandler struct{ svc service.FacturaService }

func NewFacturasHandler(svc service.FacturaService) *FacturasHandler {
	return &FacturasHandler{svc: svc}
}

func (h *FacturasHandler) Finalizar(c *gin.Context) {
	var req dto.FinalizarRequest
	if !bindAndValidate(c, &req) {
		return
	}
	f, err := h.svc.Finalizar(c.Request.Context(), middleware.GetClaims(c).Username, req)
	if err != nil {
		if errors.Is(err, service.ErrPagoInsuficiente) {
			c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, f)
}

func (h *FacturasHandler) Listar(c *gin.Context) {
	fecha := c.Query("fecha")
	if fecha == "" {
		fecha = time.Now().Format("2006-01-02")
	}
	facturas, err := h.svc.ListarPorFecha(c.Request.Context(), fecha)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, facturas)
}

func (h *FacturasHandler) Buscar(c *gin.Context) {
	fecha := c.Query("fecha")
	if fecha == "" {
		fecha = time.Now().Format("2006-01-02")
	}
	f, err := h.svc.BuscarPorNumero(c.Request.Context(), fecha, c.Param("numero"))
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Factura no encontrada"))
		return
	}
	c.JSON(http.StatusOK, f)
}

func (h *FacturasHandler) Anular(c *gin.Context) {
	var req dto.AnularRequest
	if !bindAndValidate(c, &req) {
		return
	}
	f, err := h.svc.Anular(c.Request.Context(), c.Param("numero"), req)
	if err != nil {
		if errors.Is(err, repository.ErrFacturaNoEncontrada) {
			c.JSON(http.StatusNotFound, apierror.New("Factura no encontrada"))
			return
		}
		// Remote refusal or unreachable service: the local document stays as is.
		c.JSON(http.StatusBadGateway, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, f)
}
