package service

import (
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is the work factor for every hash written by this system.
const bcryptCost = 12

// legacyTrimCutset strips trailing padding that the legacy database stored in
// fixed-width clave columns. Only the stored side is trimmed.
const legacyTrimCutset = " \t\r\n"

// EsClaveHasheada reports whether a stored clave is a bcrypt hash. bcrypt
// values always start with $2a$, $2b$, $2x$ or $2y$; sniffing the first two
// characters is how the legacy system told hashed rows from plaintext ones.
func EsClaveHasheada(stored string) bool {
	return strings.HasPrefix(stored, "$2")
}

// HashClave hashes a clave for storage. Registration always hashes, even when
// the input itself looks like a bcrypt hash — the stored value is never the
// raw user input.
func HashClave(clave string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(clave), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// VerificarClave compares a candidate against the stored clave. Hashed rows
// use a constant-time bcrypt comparison; a malformed hash counts as a
// non-match, never as a fatal error.
//
// Rows not starting with the bcrypt prefix fall back to direct equality
// against the stored value with trailing whitespace trimmed. This exists so
// legacy plaintext rows keep logging in until cmd/hashclaves has run; the
// comparison is neither hashed nor constant-time, so every use is logged as
// a warning. Run the migration pass and this path goes dead.
func VerificarClave(stored, candidate string) bool {
	if EsClaveHasheada(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(candidate)) == nil
	}

	log.Warn().Msg("clave almacenada sin hashear: comparación directa de texto plano (ejecute cmd/hashclaves)")
	return candidate == strings.TrimRight(stored, legacyTrimCutset)
}
