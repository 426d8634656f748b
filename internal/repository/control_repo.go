package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"empleadosauth/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AllocateEmpleadoID reads the next employee id from the control table under
// SELECT … FOR UPDATE. It must run inside the same transaction that inserts
// the employee row; the caller advances the counter after a successful insert.
//
// When the counter row is absent it is seeded from MAX(idempleado)+1 rather
// than the legacy constant 1, so a lost counter can never re-issue an id that
// is already taken.
func AllocateEmpleadoID(tx *gorm.DB) (int, error) {
	ctl, err := lockControl(tx)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if seedErr := seedControl(tx); seedErr != nil {
			return 0, seedErr
		}
		ctl, err = lockControl(tx)
	}
	if err != nil {
		return 0, err
	}

	id, convErr := strconv.Atoi(strings.TrimSpace(ctl.Valor))
	if convErr != nil || id < 1 {
		return 0, fmt.Errorf("valor de control %q no es un id válido", ctl.Valor)
	}
	return id, nil
}

func lockControl(tx *gorm.DB) (*model.Control, error) {
	var ctl model.Control
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("parametro = ?", model.ParametroEmpleado).
		First(&ctl).Error
	if err != nil {
		return nil, err
	}
	return &ctl, nil
}

// seedControl creates the counter row. Two first-ever registrations can race
// here before any row exists to lock; ON CONFLICT DO NOTHING lets the loser
// fall through to the locked re-read and serialize behind the winner instead
// of surfacing a duplicate-key error for a row the caller never asked for.
func seedControl(tx *gorm.DB) error {
	next, err := maxEmpleadoID(tx)
	if err != nil {
		return err
	}
	next++
	if next < 1 {
		next = 1
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.Control{Parametro: model.ParametroEmpleado, Valor: strconv.Itoa(next)}).Error
}

// AdvanceEmpleadoID moves the counter to next. Runs inside the allocation
// transaction, after the employee insert succeeded.
func AdvanceEmpleadoID(tx *gorm.DB, next int) error {
	return tx.Model(&model.Control{}).
		Where("parametro = ?", model.ParametroEmpleado).
		Update("valor", strconv.Itoa(next)).Error
}

func maxEmpleadoID(tx *gorm.DB) (int, error) {
	var maxID sql.NullInt64
	err := tx.Model(&model.Empleado{}).Select("MAX(idempleado)").Scan(&maxID).Error
	if err != nil {
		return 0, err
	}
	return int(maxID.Int64), nil
}
