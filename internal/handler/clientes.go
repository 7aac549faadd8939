package handler

import (
	"net/http"

	"ventapos/internal/apierror"
	"ventapos/internal/model"
	"ventapos/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ClientesHandler is a thin CRUD over the client book; no business rules
// live here, so it talks to the repository directly.
type ClientesHandler struct{ repo repository.ClienteRepository }

func NewClientesHandler(repo repository.ClienteRepository) *ClientesHandler {
	return &ClientesHandler{repo: repo}
}

type clienteRequest struct {
	Nombre   string `json:"nombre" validate:"required"`
	Apellido string `json:"apellido"`
	Cedula   string `json:"cedula" validate:"required"`
	Telefono string `json:"telefono"`
}

func (h *ClientesHandler) Crear(c *gin.Context) {
	var req clienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	cliente := &model.Cliente{
		Nombre:   req.Nombre,
		Apellido: req.Apellido,
		Cedula:   req.Cedula,
		Telefono: req.Telefono,
	}
	if err := h.repo.Create(c.Request.Context(), cliente); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, cliente)
}

func (h *ClientesHandler) Listar(c *gin.Context) {
	clientes, err := h.repo.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar clientes"))
		return
	}
	c.JSON(http.StatusOK, clientes)
}

func (h *ClientesHandler) BuscarPorCedula(c *gin.Context) {
	cliente, err := h.repo.FindByCedula(c.Request.Context(), c.Param("cedula"))
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Cliente no encontrado"))
		return
	}
	c.JSON(http.StatusOK, cliente)
}

func (h *ClientesHandler) Actualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req clienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	cliente, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Cliente no encontrado"))
		return
	}
	cliente.Nombre = req.Nombre
	cliente.Apellido = req.Apellido
	cliente.Cedula = req.Cedula
	cliente.Telefono = req.Telefono
	if err := h.repo.Update(c.Request.Context(), cliente); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, cliente)
}

func (h *ClientesHandler) Eliminar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
