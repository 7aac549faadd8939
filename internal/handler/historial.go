package handler

import (
	"net/http"

	"ventapos/internal/apierror"
	"ventapos/internal/service"

	"github.com/gin-gonic/gin"
)

type HistorialHandler struct{ svc service.InventarioService }

func NewHistorialHandler(svc service.InventarioService) *HistorialHandler {
	return &HistorialHandler{svc: svc}
}

func (h *HistorialHandler) Listar(c *gin.Context) {
	registros, err := h.svc.ListarHistorial(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, registros)
}

func (h *HistorialHandler) ListarAgregados(c *gin.Context) {
	fecha := c.Param("fecha")
	registros, err := h.svc.ListarAgregadosPorFecha(c.Request.Context(), fecha)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, registros)
}
