package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bellaforma/studio-membership/internal/models"
)

// ErrClassFull возвращается при попытке записаться на трансляцию,
// достигшую лимита участников.
var ErrClassFull = errors.New("live class is full")

// CreateLiveClass вставляет запланированную трансляцию и возвращает её ID.
func (s *Storage) CreateLiveClass(ctx context.Context, lc models.LiveClass) (int, error) {
	const op = "storage.CreateLiveClass"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO live_classes (title, description, instructor_uid, category_id,
			      scheduled_date, duration_minutes, stream_url, chat_enabled, status,
			      max_participants, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		lc.Title, lc.Description, lc.InstructorUID, lc.CategoryID, lc.ScheduledDate,
		lc.DurationMinutes, lc.StreamURL, lc.ChatEnabled, lc.Status, lc.MaxParticipants).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, translateError(err))
	}
	return newID, nil
}

// ReadLiveClass возвращает трансляцию по ID.
func (s *Storage) ReadLiveClass(ctx context.Context, id int) (*models.LiveClass, error) {
	const op = "storage.ReadLiveClass"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := liveClassColumns + ` WHERE id = $1`
	item, err := scanLiveClass(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translateError(err))
	}
	return item, nil
}

// ListLiveClasses возвращает трансляции по времени начала, с необязательным
// фильтром по статусу.
func (s *Storage) ListLiveClasses(ctx context.Context, status *models.LiveClassStatus, limit, offset int) ([]*models.LiveClass, error) {
	const op = "storage.ListLiveClasses"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := liveClassColumns + `
			  WHERE ($1::text IS NULL OR status = $1)
			  ORDER BY scheduled_date
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.LiveClass
	for rows.Next() {
		item, err := scanLiveClass(rows)
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

// UpdateLiveClassStatus переводит трансляцию в новый статус. Ссылка на
// архивное видео записывается только при переходе в finished.
func (s *Storage) UpdateLiveClassStatus(ctx context.Context, id int, status models.LiveClassStatus, archivedVideoID *int) (int, error) {
	const op = "storage.UpdateLiveClassStatus"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if status != models.LiveClassFinished {
		archivedVideoID = nil
	}
	query := `UPDATE live_classes
			  SET status = $1,
			      archived_video_id = CASE WHEN $1 = 'finished' THEN COALESCE($2, archived_video_id)
			                               ELSE archived_video_id END
			  WHERE id = $3`
	result, err := s.DB.ExecContext(ctx, query, status, archivedVideoID, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, translateError(err))
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RegisterParticipant записывает ученицу на трансляцию. Лимит участников
// проверяется под блокировкой строки трансляции, чтобы параллельные записи
// не превысили его. Повторная запись возвращает ErrUniqueViolation.
func (s *Storage) RegisterParticipant(ctx context.Context, liveClassID, studentID int) error {
	const op = "storage.RegisterParticipant"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var maxParticipants sql.NullInt64
	err = tx.QueryRowContext(ctx,
		`SELECT max_participants FROM live_classes WHERE id = $1 FOR UPDATE`,
		liveClassID).Scan(&maxParticipants)
	if err != nil {
		return fmt.Errorf("%s: %w", op, translateError(err))
	}

	if maxParticipants.Valid {
		var registered int64
		err = tx.QueryRowContext(ctx,
			`SELECT count(*) FROM live_class_participants WHERE live_class_id = $1`,
			liveClassID).Scan(&registered)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if registered >= maxParticipants.Int64 {
			return fmt.Errorf("%s: %w", op, ErrClassFull)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO live_class_participants (live_class_id, student_id, registered_at)
		 VALUES ($1, $2, now())`,
		liveClassID, studentID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, translateError(err))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CountParticipants возвращает число записанных на трансляцию.
func (s *Storage) CountParticipants(ctx context.Context, liveClassID int) (int, error) {
	const op = "storage.CountParticipants"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var total int
	err := s.DB.QueryRowContext(ctx,
		`SELECT count(*) FROM live_class_participants WHERE live_class_id = $1`,
		liveClassID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return total, nil
}

const liveClassColumns = `SELECT id, title, description, instructor_uid, category_id,
			      scheduled_date, duration_minutes, stream_url, chat_enabled, status,
			      archived_video_id, max_participants, created_at
			  FROM live_classes`

func scanLiveClass(row rowScanner) (*models.LiveClass, error) {
	var item models.LiveClass
	var categoryID, archivedVideoID, maxParticipants sql.NullInt64
	if err := row.Scan(&item.ID, &item.Title, &item.Description, &item.InstructorUID,
		&categoryID, &item.ScheduledDate, &item.DurationMinutes, &item.StreamURL,
		&item.ChatEnabled, &item.Status, &archivedVideoID, &maxParticipants,
		&item.CreatedAt); err != nil {
		return nil, err
	}
	if categoryID.Valid {
		v := int(categoryID.Int64)
		item.CategoryID = &v
	}
	if archivedVideoID.Valid {
		v := int(archivedVideoID.Int64)
		item.ArchivedVideoID = &v
	}
	if maxParticipants.Valid {
		v := int(maxParticipants.Int64)
		item.MaxParticipants = &v
	}
	return &item, nil
}
