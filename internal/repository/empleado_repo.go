package repository

import (
	"context"

	"empleadosauth/internal/model"

	"gorm.io/gorm"
)

type EmpleadoRepository interface {
	// CreateConAsignacion allocates the next employee id from the control
	// table and inserts the row, both inside a single transaction with a
	// row-level lock on the counter. Concurrent registrations serialize on
	// that lock instead of racing to the same id.
	CreateConAsignacion(ctx context.Context, e *model.Empleado) error
	FindByID(ctx context.Context, id int) (*model.Empleado, error)
	List(ctx context.Context) ([]model.Empleado, error)
	// ListConClaves returns full rows including the stored clave. Only the
	// plaintext migration pass uses it.
	ListConClaves(ctx context.Context) ([]model.Empleado, error)
	UpdateClave(ctx context.Context, id int, clave string) error
}

type empleadoRepo struct{ db *gorm.DB }

func NewEmpleadoRepository(db *gorm.DB) EmpleadoRepository { return &empleadoRepo{db: db} }

func (r *empleadoRepo) CreateConAsignacion(ctx context.Context, e *model.Empleado) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		id, err := AllocateEmpleadoID(tx)
		if err != nil {
			return err
		}
		e.IDEmpleado = id
		if err := tx.Create(e).Error; err != nil {
			return err
		}
		return AdvanceEmpleadoID(tx, id+1)
	})
}

func (r *empleadoRepo) FindByID(ctx context.Context, id int) (*model.Empleado, error) {
	var e model.Empleado
	err := r.db.WithContext(ctx).Where("idempleado = ?", id).First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *empleadoRepo) List(ctx context.Context) ([]model.Empleado, error) {
	var empleados []model.Empleado
	err := r.db.WithContext(ctx).
		Select("idempleado", "paterno", "materno", "nombres").
		Order("idempleado").
		Find(&empleados).Error
	return empleados, err
}

func (r *empleadoRepo) ListConClaves(ctx context.Context) ([]model.Empleado, error) {
	var empleados []model.Empleado
	err := r.db.WithContext(ctx).Order("idempleado").Find(&empleados).Error
	return empleados, err
}

func (r *empleadoRepo) UpdateClave(ctx context.Context, id int, clave string) error {
	return r.db.WithContext(ctx).
		Model(&model.Empleado{}).
		Where("idempleado = ?", id).
		Update("clave", clave).Error
}
