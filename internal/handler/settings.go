package handler

import (
	"net/http"

	"ventapos/internal/apierror"
	"ventapos/internal/repository"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct{ repo repository.SettingsRepository }

func NewSettingsHandler(repo repository.SettingsRepository) *SettingsHandler {
	return &SettingsHandler{repo: repo}
}

type settingRequest struct {
	Valor string `json:"valor" validate:"required"`
}

func (h *SettingsHandler) Obtener(c *gin.Context) {
	clave := c.Param("clave")
	valor := h.repo.Get(c.Request.Context(), clave, "")
	if valor == "" {
		c.JSON(http.StatusNotFound, apierror.New("Configuracion no encontrada"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"clave": clave, "valor": valor})
}

func (h *SettingsHandler) Guardar(c *gin.Context) {
	var req settingRequest
	if !bindAndValidate(c, &req) {
		return
	}
	clave := c.Param("clave")
	if err := h.repo.Set(c.Request.Context(), clave, req.Valor); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{"clave": clave, "valor": req.Valor})
}
