package handler

import (
	"net/http"

	"ventapos/internal/apierror"
	"ventapos/internal/dto"
	"ventapos/internal/middleware"
	"ventapos/internal/service"

	"github.com/gin-gonic/gin"
)

type CierreHandler struct{ svc service.CierreService }

func NewCierreHandler(svc service.CierreService) *CierreHandler {
	return &CierreHandler{svc: svc}
}

func (h *CierreHandler) Ejecutar(c *gin.Context) {
	var req dto.EjecutarCierreRequest
	if !bindAndValidate(c, &req) {
		return
	}
	registro, err := h.svc.Ejecutar(c.Request.Context(), req.Fecha, req.IncluirRemotas, middleware.GetClaims(c).Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, registro)
}

func (h *CierreHandler) Listar(c *gin.Context) {
	registros, err := h.svc.ListarCierres(c.Request.Context(), c.Query("fecha"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, registros)
}
