package handler

import (
	"errors"
	"net/http"

	"empleadosauth/internal/apierror"
	"empleadosauth/internal/dto"
	"empleadosauth/internal/middleware"
	"empleadosauth/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindAndValidate(c, &req, "Apellido paterno, nombres y clave son requeridos") {
		return
	}

	resp, err := h.svc.Registrar(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrEmpleadoExiste) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
			return
		}
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req, "ID de empleado y clave son requeridos") {
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrCredencialesInvalidas) {
			c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
			return
		}
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Profile returns the public fields of the authenticated identity. The id
// comes from the verified token claims, never from the request.
func (h *AuthHandler) Profile(c *gin.Context) {
	claims := middleware.GetClaims(c)

	user, err := h.svc.Perfil(c.Request.Context(), claims.EmpleadoID)
	if err != nil {
		if errors.Is(err, service.ErrEmpleadoNoEncontrado) {
			c.JSON(http.StatusNotFound, apierror.New(err.Error()))
			return
		}
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.PerfilResponse{Success: true, User: *user})
}

func (h *AuthHandler) ListEmpleados(c *gin.Context) {
	empleados, err := h.svc.ListarEmpleados(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.EmpleadosResponse{Success: true, Empleados: empleados})
}
