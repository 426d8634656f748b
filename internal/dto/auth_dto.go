package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type RegisterRequest struct {
	Paterno   string `json:"paterno"   validate:"required,min=1,max=100"`
	Materno   string `json:"materno"   validate:"omitempty,max=100"`
	Nombres   string `json:"nombres"   validate:"required,min=1,max=150"`
	Direccion string `json:"direccion" validate:"omitempty,max=200"`
	Telefono  string `json:"telefono"  validate:"omitempty,max=30"`
	Clave     string `json:"clave"     validate:"required,min=1"`
}

type LoginRequest struct {
	EmpleadoID int    `json:"empleadoId" validate:"required,gt=0"`
	Clave      string `json:"clave"      validate:"required,min=1"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// EmpleadoResponse carries the public fields only — Clave never crosses the
// wire in any response.
type EmpleadoResponse struct {
	ID        int    `json:"id"`
	Paterno   string `json:"paterno"`
	Materno   string `json:"materno"`
	Nombres   string `json:"nombres"`
	Direccion string `json:"direccion,omitempty"`
	Telefono  string `json:"telefono,omitempty"`
}

type AuthResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Token   string           `json:"token"`
	User    EmpleadoResponse `json:"user"`
}

type PerfilResponse struct {
	Success bool             `json:"success"`
	User    EmpleadoResponse `json:"user"`
}

type EmpleadosResponse struct {
	Success   bool               `json:"success"`
	Empleados []EmpleadoResponse `json:"empleados"`
}

type HealthResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}
