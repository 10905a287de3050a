package repository

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bellaforma/studio-membership/internal/lib/bmi"
	"github.com/bellaforma/studio-membership/internal/models"
)

// CreateMeasurement вставляет снимок измерений и возвращает его ID.
// BMI вычисляется здесь же и записывается тем же INSERT, что и вес с ростом:
// читатель никогда не увидит измерение без его производного BMI.
func (s *Storage) CreateMeasurement(ctx context.Context, m models.Measurement) (int, error) {
	const op = "storage.CreateMeasurement"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	m.BMI = bmi.Compute(m.Weight, m.Height)

	query := `INSERT INTO measurements (student_id, measurement_date, weight, height,
			      neck, chest, waist, abdomen, hip, right_arm, left_arm, right_thigh,
			      left_thigh, right_calf, left_calf, body_fat_percentage,
			      muscle_mass_percentage, bmi, observations, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, now())
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		m.StudentID, m.MeasurementDate, m.Weight, m.Height, m.Neck, m.Chest, m.Waist,
		m.Abdomen, m.Hip, m.RightArm, m.LeftArm, m.RightThigh, m.LeftThigh,
		m.RightCalf, m.LeftCalf, m.BodyFatPercentage, m.MuscleMassPercentage,
		m.BMI, m.Observations).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, translateError(err))
	}
	return newID, nil
}

// UpdateMeasurement обновляет снимок по ID и возвращает количество изменённых строк.
// Снимок должен принадлежать профилю из m.StudentID, иначе запрос не меняет строк.
// BMI пересчитывается при каждом обновлении и пишется тем же UPDATE,
// что и новые вес с ростом, поэтому устаревший BMI рядом с новым весом невозможен.
func (s *Storage) UpdateMeasurement(ctx context.Context, m models.Measurement, id int) (int, error) {
	const op = "storage.UpdateMeasurement"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	m.BMI = bmi.Compute(m.Weight, m.Height)

	query := `UPDATE measurements
			  SET measurement_date = $1, weight = $2, height = $3, neck = $4, chest = $5,
			      waist = $6, abdomen = $7, hip = $8, right_arm = $9, left_arm = $10,
			      right_thigh = $11, left_thigh = $12, right_calf = $13, left_calf = $14,
			      body_fat_percentage = $15, muscle_mass_percentage = $16, bmi = $17,
			      observations = $18
			  WHERE id = $19 AND student_id = $20`
	result, err := s.DB.ExecContext(ctx, query,
		m.MeasurementDate, m.Weight, m.Height, m.Neck, m.Chest, m.Waist, m.Abdomen,
		m.Hip, m.RightArm, m.LeftArm, m.RightThigh, m.LeftThigh, m.RightCalf,
		m.LeftCalf, m.BodyFatPercentage, m.MuscleMassPercentage, m.BMI,
		m.Observations, id, m.StudentID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, translateError(err))
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ReadMeasurement возвращает снимок по ID.
func (s *Storage) ReadMeasurement(ctx context.Context, id int) (*models.Measurement, error) {
	const op = "storage.ReadMeasurement"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, student_id, measurement_date, weight, height, neck, chest,
			      waist, abdomen, hip, right_arm, left_arm, right_thigh, left_thigh,
			      right_calf, left_calf, body_fat_percentage, muscle_mass_percentage,
			      bmi, observations, created_at
			  FROM measurements WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)
	item, err := scanMeasurement(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translateError(err))
	}
	return item, nil
}

// ListMeasurements возвращает снимки ученицы по дате измерения в обратном порядке.
func (s *Storage) ListMeasurements(ctx context.Context, studentID, limit, offset int) ([]*models.Measurement, error) {
	const op = "storage.ListMeasurements"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, student_id, measurement_date, weight, height, neck, chest,
			      waist, abdomen, hip, right_arm, left_arm, right_thigh, left_thigh,
			      right_calf, left_calf, body_fat_percentage, muscle_mass_percentage,
			      bmi, observations, created_at
			  FROM measurements
			  WHERE student_id = $1
			  ORDER BY measurement_date DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, studentID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Measurement
	for rows.Next() {
		item, err := scanMeasurement(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMeasurement(row rowScanner) (*models.Measurement, error) {
	var item models.Measurement
	var height, neck, chest, waist, abdomen, hip decimal.NullDecimal
	var rightArm, leftArm, rightThigh, leftThigh decimal.NullDecimal
	var rightCalf, leftCalf, bodyFat, muscleMass, bmiValue decimal.NullDecimal
	if err := row.Scan(&item.ID, &item.StudentID, &item.MeasurementDate, &item.Weight,
		&height, &neck, &chest, &waist, &abdomen, &hip, &rightArm, &leftArm,
		&rightThigh, &leftThigh, &rightCalf, &leftCalf, &bodyFat, &muscleMass,
		&bmiValue, &item.Observations, &item.CreatedAt); err != nil {
		return nil, err
	}
	item.Height = nullDecimalPtr(height)
	item.Neck = nullDecimalPtr(neck)
	item.Chest = nullDecimalPtr(chest)
	item.Waist = nullDecimalPtr(waist)
	item.Abdomen = nullDecimalPtr(abdomen)
	item.Hip = nullDecimalPtr(hip)
	item.RightArm = nullDecimalPtr(rightArm)
	item.LeftArm = nullDecimalPtr(leftArm)
	item.RightThigh = nullDecimalPtr(rightThigh)
	item.LeftThigh = nullDecimalPtr(leftThigh)
	item.RightCalf = nullDecimalPtr(rightCalf)
	item.LeftCalf = nullDecimalPtr(leftCalf)
	item.BodyFatPercentage = nullDecimalPtr(bodyFat)
	item.MuscleMassPercentage = nullDecimalPtr(muscleMass)
	item.BMI = nullDecimalPtr(bmiValue)
	return &item, nil
}

func nullDecimalPtr(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}
