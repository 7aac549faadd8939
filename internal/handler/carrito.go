package handler

import (
	"errors"
	"net/http"

	"ventapos/internal/apierror"
	"ventapos/internal/dto"
	"ventapos/internal/middleware"
	"ventapos/internal/model"
	"ventapos/internal/repository"
	"ventapos/internal/service"

	"github.com/gin-gonic/gin"
)

type CarritoHandler struct{ svc service.CarritoService }

func NewCarritoHandler(svc service.CarritoService) *CarritoHandler {
	return &CarritoHandler{svc: svc}
}

func (h *CarritoHandler) Ver(c *gin.Context) {
	resp, err := h.svc.Ver(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CarritoHandler) Agregar(c *gin.Context) {
	var req dto.AgregarItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Agregar(c.Request.Context(), req.Codigo, req.Cantidad)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrStockInsuficiente):
			c.JSON(http.StatusConflict, apierror.New("Stock insuficiente"))
		case errors.Is(err, repository.ErrProductoNoEncontrado):
			c.JSON(http.StatusNotFound, apierror.New("Producto no encontrado"))
		default:
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CarritoHandler) Quitar(c *gin.Context) {
	var req dto.QuitarItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Quitar(c.Request.Context(), req.Codigo, req.Cantidad, middleware.GetClaims(c).Username)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CarritoHandler) Vaciar(c *gin.Context) {
	if err := h.svc.Vaciar(c.Request.Context(), middleware.GetClaims(c).Username); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CarritoHandler) Pausar(c *gin.Context) {
	var req dto.PausarRequest
	if !bindAndValidate(c, &req) {
		return
	}
	var cliente *model.ClienteRef
	if req.Cliente != nil {
		cliente = &model.ClienteRef{Nombre: req.Cliente.Nombre, Cedula: req.Cliente.Cedula}
	}
	id, err := h.svc.Pausar(c.Request.Context(), cliente)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *CarritoHandler) Retomar(c *gin.Context) {
	resp, err := h.svc.Retomar(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrPausadaNoEncontrada) {
			c.JSON(http.StatusNotFound, apierror.New("Factura pausada no encontrada"))
			return
		}
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CarritoHandler) EliminarPausada(c *gin.Context) {
	err := h.svc.EliminarPausada(c.Request.Context(), c.Param("id"), middleware.GetClaims(c).Username)
	if err != nil {
		if errors.Is(err, repository.ErrPausadaNoEncontrada) {
			c.JSON(http.StatusNotFound, apierror.New("Factura pausada no encontrada"))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CarritoHandler) ListarPausadas(c *gin.Context) {
	resp, err := h.svc.ListarPausadas(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
