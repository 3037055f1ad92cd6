package marketplace

import (
	"errors"
	"fmt"

	"seekit/db"
)

// Таксономия ошибок сервиса. Вызывающая сторона проверяет их через errors.Is.
var (
	ErrValidation = errors.New("validation error")
	ErrDuplicate  = errors.New("already exists")
	ErrNotFound   = errors.New("not found")
	ErrState      = errors.New("invalid state")
	ErrAuth       = errors.New("invalid credentials")
	ErrForbidden  = errors.New("forbidden")
)

func validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func statef(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrState, fmt.Sprintf(format, args...))
}

func forbiddenf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrForbidden, fmt.Sprintf(format, args...))
}

// notFound переводит db.ErrNotFound в ErrNotFound с именем сущности.
func notFound(err error, entity string, id int) error {
	if errors.Is(err, db.ErrNotFound) {
		return fmt.Errorf("%w: %s %d", ErrNotFound, entity, id)
	}
	return err
}

// resultLabel: значение метки result для метрик.
func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrDuplicate):
		return "duplicate"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrState):
		return "state"
	case errors.Is(err, ErrAuth):
		return "auth"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	}
	return "error"
}

// IsUserError: ошибка из таксономии, которую можно показать пользователю.
func IsUserError(err error) bool {
	l := resultLabel(err)
	return l != "ok" && l != "error"
}
