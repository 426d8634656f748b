package model

// Empleado maps the legacy empleado table. The numeric primary key doubles as
// the login handle: employees sign in with their idempleado, not a username.
type Empleado struct {
	IDEmpleado int    `gorm:"column:idempleado;primaryKey"`
	Paterno    string `gorm:"type:varchar(100);not null"`
	Materno    string `gorm:"type:varchar(100)"`
	Nombres    string `gorm:"type:varchar(150);not null"`
	Direccion  string `gorm:"type:varchar(200)"`
	Telefono   string `gorm:"type:varchar(30)"`
	// Clave holds a bcrypt hash for rows written by this system. Rows
	// inherited from the legacy database may still contain plaintext —
	// see service.VerificarClave and cmd/hashclaves.
	Clave string `gorm:"type:varchar(255);not null"`
}

func (Empleado) TableName() string { return "empleado" }
