package util

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound        = errors.New("usuario no encontrado")
	ErrEmailRegistered     = errors.New("email ya registrado")
	ErrInvalidCredentials  = errors.New("credenciales inválidas")
	ErrAccountNotValidated = errors.New("cuenta pendiente de validación")
	ErrPermissionDenied    = errors.New("permiso denegado")
	ErrCategoryNotFound    = errors.New("categoría no encontrada")
	ErrQuestionNotFound    = errors.New("pregunta no encontrada")
	ErrTestNotFound        = errors.New("test no encontrado")
	ErrAttemptNotFound     = errors.New("intento no encontrado")
	ErrFeedbackNotFound    = errors.New("feedback no encontrado")
	ErrMaterialNotFound    = errors.New("material no encontrado")
	ErrResetTokenInvalid   = errors.New("token de recuperación inválido o caducado")

	// The user has no recorded fallos, so there is nothing to build a
	// repaso test from.
	ErrNoFailedQuestions = errors.New("no tienes preguntas falladas para repasar")

	// A custom simulacro was requested with an empty test selection.
	ErrEmptySelection = errors.New("debes seleccionar al menos un test")
)

// InsufficientPoolError reports a random sample that could not be filled.
type InsufficientPoolError struct {
	Requested int
	Found     int
}

func (e *InsufficientPoolError) Error() string {
	return fmt.Sprintf("no se encontraron suficientes preguntas: se pidieron %d y solo hay %d", e.Requested, e.Found)
}

// LimitExceedsPoolError reports a real-exam request larger than the pool of
// questions the user can access.
type LimitExceedsPoolError struct {
	Limit     int
	Available int
}

func (e *LimitExceedsPoolError) Error() string {
	return fmt.Sprintf("el límite %d supera las %d preguntas disponibles", e.Limit, e.Available)
}
