package service

import (
	"context"
	"errors"

	"empleadosauth/internal/dto"
	"empleadosauth/internal/model"
	"empleadosauth/internal/repository"
	"empleadosauth/internal/token"

	"gorm.io/gorm"
)

// Sentinel errors the handlers map onto HTTP statuses. Their texts are the
// exact messages the API has always returned.
var (
	ErrCredencialesInvalidas = errors.New("Credenciales inválidas")
	ErrEmpleadoExiste        = errors.New("El empleado ya existe")
	ErrEmpleadoNoEncontrado  = errors.New("Empleado no encontrado")
)

type AuthService interface {
	Registrar(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error)
	Perfil(ctx context.Context, empleadoID int) (*dto.EmpleadoResponse, error)
	ListarEmpleados(ctx context.Context) ([]dto.EmpleadoResponse, error)
}

type authService struct {
	repo   repository.EmpleadoRepository
	tokens *token.Issuer
}

func NewAuthService(repo repository.EmpleadoRepository, tokens *token.Issuer) AuthService {
	return &authService{repo: repo, tokens: tokens}
}

func (s *authService) Registrar(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	hash, err := HashClave(req.Clave)
	if err != nil {
		return nil, err
	}

	e := &model.Empleado{
		Paterno:   req.Paterno,
		Materno:   req.Materno,
		Nombres:   req.Nombres,
		Direccion: req.Direccion,
		Telefono:  req.Telefono,
		Clave:     hash,
	}
	if err := s.repo.CreateConAsignacion(ctx, e); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmpleadoExiste
		}
		return nil, err
	}

	tok, err := s.tokens.Issue(e.IDEmpleado, e.Nombres, e.Paterno)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Success: true,
		Message: "Empleado registrado exitosamente",
		Token:   tok,
		User: dto.EmpleadoResponse{
			ID:      e.IDEmpleado,
			Paterno: e.Paterno,
			Materno: e.Materno,
			Nombres: e.Nombres,
		},
	}, nil
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	// A missing employee and a wrong clave must produce the exact same
	// error: responses never reveal whether the id exists.
	e, err := s.repo.FindByID(ctx, req.EmpleadoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCredencialesInvalidas
		}
		return nil, err
	}

	if !VerificarClave(e.Clave, req.Clave) {
		return nil, ErrCredencialesInvalidas
	}

	tok, err := s.tokens.Issue(e.IDEmpleado, e.Nombres, e.Paterno)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Success: true,
		Message: "Inicio de sesión exitoso",
		Token:   tok,
		User:    empleadoToResponse(e),
	}, nil
}

func (s *authService) Perfil(ctx context.Context, empleadoID int) (*dto.EmpleadoResponse, error) {
	e, err := s.repo.FindByID(ctx, empleadoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmpleadoNoEncontrado
		}
		return nil, err
	}
	resp := empleadoToResponse(e)
	return &resp, nil
}

func (s *authService) ListarEmpleados(ctx context.Context) ([]dto.EmpleadoResponse, error) {
	empleados, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.EmpleadoResponse, len(empleados))
	for i, e := range empleados {
		resp[i] = dto.EmpleadoResponse{
			ID:      e.IDEmpleado,
			Paterno: e.Paterno,
			Materno: e.Materno,
			Nombres: e.Nombres,
		}
	}
	return resp, nil
}

func empleadoToResponse(e *model.Empleado) dto.EmpleadoResponse {
	return dto.EmpleadoResponse{
		ID:        e.IDEmpleado,
		Paterno:   e.Paterno,
		Materno:   e.Materno,
		Nombres:   e.Nombres,
		Direccion: e.Direccion,
		Telefono:  e.Telefono,
	}
}
