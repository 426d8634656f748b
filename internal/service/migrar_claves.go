package service

import (
	"context"
	"strings"

	"empleadosauth/internal/repository"

	"github.com/rs/zerolog/log"
)

// MigrarClaves hashes every legacy plaintext clave in place and returns how
// many rows were rewritten. Idempotent: already-hashed rows are skipped, so
// re-running is a no-op.
//
// The plaintext is trimmed of trailing whitespace before hashing — that is
// the value the legacy comparison accepted, so existing claves keep working
// after the migration.
func MigrarClaves(ctx context.Context, repo repository.EmpleadoRepository) (int, error) {
	empleados, err := repo.ListConClaves(ctx)
	if err != nil {
		return 0, err
	}

	migradas := 0
	for _, e := range empleados {
		if EsClaveHasheada(e.Clave) {
			continue
		}
		hash, err := HashClave(strings.TrimRight(e.Clave, legacyTrimCutset))
		if err != nil {
			return migradas, err
		}
		if err := repo.UpdateClave(ctx, e.IDEmpleado, hash); err != nil {
			return migradas, err
		}
		migradas++
		log.Info().Int("idempleado", e.IDEmpleado).Msg("clave migrada a bcrypt")
	}
	return migradas, nil
}
