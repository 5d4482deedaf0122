package services

import "errors"

// Request-level failures surfaced to the API layer. Store failures that do
// not map onto one of these propagate unchanged and become a 500.
var (
	ErrInvalidCredentials = errors.New("usuario o contraseña incorrectos")
	ErrAccountInactive    = errors.New("usuario inactivo")
	ErrInvalidToken       = errors.New("token inválido o expirado")
	ErrForbidden          = errors.New("no tienes permisos para realizar esta acción")
	ErrSelfDelete         = errors.New("no puedes eliminar tu propio usuario")
)

// ConflictError names the field whose uniqueness was violated.
type ConflictError struct {
	Field string
	Value string
}

func (e *ConflictError) Error() string {
	return "ya existe un registro con " + e.Field + " " + e.Value
}

// QueryError rejects bad filter/sort/pagination parameters.
type QueryError struct {
	Msg string
}

func (e *QueryError) Error() string { return e.Msg }
