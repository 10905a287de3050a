package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// Сентинельные ошибки хранилища. Сервисы сопоставляют их с категориями
// ошибок запроса: нарушение уникальности и CHECK — ошибки валидации,
// отсутствие родителя — ссылочные ошибки.
var (
	// ErrNotFound — запись не найдена.
	ErrNotFound = errors.New("not found")
	// ErrUniqueViolation — нарушение уникальности (slug, cpf, один профиль на пользователя).
	ErrUniqueViolation = errors.New("unique violation")
	// ErrCheckViolation — нарушение CHECK-ограничения (границы чисел, неотрицательность).
	ErrCheckViolation = errors.New("check violation")
	// ErrForeignKeyViolation — отсутствует требуемая родительская запись.
	ErrForeignKeyViolation = errors.New("foreign key violation")
)

// translateError приводит ошибки драйвера к сентинельным ошибкам хранилища.
// Имя нарушенного ограничения сохраняется для сообщений уровня поля.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return &ConstraintError{Sentinel: ErrUniqueViolation, Constraint: pgErr.ConstraintName}
		case pgerrcode.CheckViolation:
			return &ConstraintError{Sentinel: ErrCheckViolation, Constraint: pgErr.ConstraintName}
		case pgerrcode.ForeignKeyViolation:
			return &ConstraintError{Sentinel: ErrForeignKeyViolation, Constraint: pgErr.ConstraintName}
		}
	}
	return err
}

// ConstraintError несёт имя нарушенного ограничения вместе с сентинельной ошибкой.
type ConstraintError struct {
	Sentinel   error
	Constraint string
}

func (e *ConstraintError) Error() string {
	return e.Sentinel.Error() + ": " + e.Constraint
}

// Unwrap отдаёт сентинельную ошибку для errors.Is.
func (e *ConstraintError) Unwrap() error {
	return e.Sentinel
}
