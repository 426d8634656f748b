package model

// ParametroEmpleado is the control-row key for the employee id sequence.
const ParametroEmpleado = "Empleado"

// Control is the legacy single-row-per-parameter counter table. Valor is
// stored as text because the original schema declares it varchar; the
// repository owns the string↔int conversion.
type Control struct {
	Parametro string `gorm:"type:varchar(50);primaryKey"`
	Valor     string `gorm:"type:varchar(50);not null"`
}

func (Control) TableName() string { return "control" }
