package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Un costo no resuelto NO es error: el resolvedor devuelve 0.
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrSKUNotFound  = errors.New("sku no encontrado")
	ErrJobNotFound  = errors.New("orden de manufactura no encontrada")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")
	ErrLocked       = errors.New("operación en curso para el mismo recurso")
)

// IsNotFound agrupa los errores de entidad inexistente.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrSKUNotFound) || errors.Is(err, ErrJobNotFound)
}
