package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueConstraint devuelve el nombre del constraint violado cuando err es un
// unique_violation de Postgres (23505). El nombre permite distinguir qué
// columna chocó (email, rut, user_id, slug) y mapear al sentinel correcto.
func uniqueConstraint(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return pgErr.ConstraintName, true
	}
	return "", false
}

// isUniqueViolation verifica si un error es una violación de constraint único,
// sin importar cuál.
func isUniqueViolation(err error) bool {
	_, ok := uniqueConstraint(err)
	return ok
}
