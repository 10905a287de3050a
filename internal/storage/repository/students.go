package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bellaforma/studio-membership/internal/models"
)

// CreateStudent вставляет новый профиль ученицы и возвращает его ID.
// Уникальность CPF и исключительность связи с пользователем обеспечиваются схемой.
func (s *Storage) CreateStudent(ctx context.Context, student models.Student) (int, error) {
	const op = "storage.CreateStudent"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO students (user_uid, cpf, rg, address, city, state, zip_code,
			      emergency_contact_name, emergency_contact_phone, is_active,
			      enrollment_date, plan_id)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		student.UserUID, student.CPF, student.RG, student.Address, student.City,
		student.State, student.ZipCode, student.EmergencyContactName,
		student.EmergencyContactPhone, student.IsActive, student.EnrollmentDate,
		student.PlanID).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, translateError(err))
	}
	return newID, nil
}

// ReadStudent возвращает профиль по ID.
func (s *Storage) ReadStudent(ctx context.Context, id int) (*models.Student, error) {
	const op = "storage.ReadStudent"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, cpf, rg, address, city, state, zip_code,
			      emergency_contact_name, emergency_contact_phone, is_active,
			      enrollment_date, plan_id
			  FROM students WHERE id = $1`
	return s.scanStudent(s.DB.QueryRowContext(ctx, query, id), op)
}

// ReadStudentByUserUID возвращает профиль по UID пользователя.
func (s *Storage) ReadStudentByUserUID(ctx context.Context, userUID string) (*models.Student, error) {
	const op = "storage.ReadStudentByUserUID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, cpf, rg, address, city, state, zip_code,
			      emergency_contact_name, emergency_contact_phone, is_active,
			      enrollment_date, plan_id
			  FROM students WHERE user_uid = $1`
	return s.scanStudent(s.DB.QueryRowContext(ctx, query, userUID), op)
}

// ListStudents возвращает профили с пагинацией.
func (s *Storage) ListStudents(ctx context.Context, limit, offset int) ([]*models.Student, error) {
	const op = "storage.ListStudents"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, cpf, rg, address, city, state, zip_code,
			      emergency_contact_name, emergency_contact_phone, is_active,
			      enrollment_date, plan_id
			  FROM students
			  ORDER BY id
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Student
	for rows.Next() {
		var item models.Student
		var planID sql.NullInt64
		if err := rows.Scan(&item.ID, &item.UserUID, &item.CPF, &item.RG, &item.Address,
			&item.City, &item.State, &item.ZipCode, &item.EmergencyContactName,
			&item.EmergencyContactPhone, &item.IsActive, &item.EnrollmentDate,
			&planID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if planID.Valid {
			v := int(planID.Int64)
			item.PlanID = &v
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateStudent обновляет профиль по ID и возвращает количество изменённых строк.
// Деактивация через is_active не затрагивает историю: платежи, измерения,
// анкета и циклы остаются в хранилище.
func (s *Storage) UpdateStudent(ctx context.Context, student models.Student, id int) (int, error) {
	const op = "storage.UpdateStudent"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE students
			  SET rg = $1, address = $2, city = $3, state = $4, zip_code = $5,
			      emergency_contact_name = $6, emergency_contact_phone = $7,
			      is_active = $8, plan_id = $9, updated_at = now()
			  WHERE id = $10`
	result, err := s.DB.ExecContext(ctx, query,
		student.RG, student.Address, student.City, student.State, student.ZipCode,
		student.EmergencyContactName, student.EmergencyContactPhone,
		student.IsActive, student.PlanID, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, translateError(err))
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

func (s *Storage) scanStudent(row *sql.Row, op string) (*models.Student, error) {
	var item models.Student
	var planID sql.NullInt64
	if err := row.Scan(&item.ID, &item.UserUID, &item.CPF, &item.RG, &item.Address,
		&item.City, &item.State, &item.ZipCode, &item.EmergencyContactName,
		&item.EmergencyContactPhone, &item.IsActive, &item.EnrollmentDate,
		&planID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, translateError(err))
	}
	if planID.Valid {
		v := int(planID.Int64)
		item.PlanID = &v
	}
	return &item, nil
}
