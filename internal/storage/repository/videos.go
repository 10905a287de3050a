package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bellaforma/studio-membership/internal/models"
)

// CreateVideoCategory вставляет категорию видеотеки и возвращает её ID.
func (s *Storage) CreateVideoCategory(ctx context.Context, c models.VideoCategory) (int, error) {
	const op = "storage.CreateVideoCategory"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO video_categories (name, slug, description, icon, display_order)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		c.Name, c.Slug, c.Description, c.Icon, c.Order).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, translateError(err))
	}
	return newID, nil
}

// ListVideoCategories возвращает категории в порядке вывода.
func (s *Storage) ListVideoCategories(ctx context.Context) ([]*models.VideoCategory, error) {
	const op = "storage.ListVideoCategories"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, slug, description, icon, display_order
			  FROM video_categories
			  ORDER BY display_order, name`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.VideoCategory
	for rows.Next() {
		var item models.VideoCategory
		if err := rows.Scan(&item.ID, &item.Name, &item.Slug, &item.Description,
			&item.Icon, &item.Order); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CreateVideo вставляет видео и возвращает его ID.
func (s *Storage) CreateVideo(ctx context.Context, v models.Video) (int, error) {
	const op = "storage.CreateVideo"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO videos (title, slug, description, category_id, video_file, video_url,
			      thumbnail, duration_seconds, video_type, instructor_uid, is_public,
			      requires_subscription, views_count, likes_count, created_at, published_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, 0, 0, now(), $13)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		v.Title, v.Slug, v.Description, v.CategoryID, v.VideoFile, v.VideoURL,
		v.Thumbnail, v.DurationSeconds, v.VideoType, v.InstructorUID, v.IsPublic,
		v.RequiresSubscription, v.PublishedAt).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, translateError(err))
	}
	return newID, nil
}

// ReadVideo возвращает видео по ID.
func (s *Storage) ReadVideo(ctx context.Context, id int) (*models.Video, error) {
	const op = "storage.ReadVideo"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := videoColumns + ` WHERE id = $1`
	item, err := scanVideo(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translateError(err))
	}
	return item, nil
}

// ReadVideoBySlug возвращает видео по slug.
func (s *Storage) ReadVideoBySlug(ctx context.Context, slug string) (*models.Video, error) {
	const op = "storage.ReadVideoBySlug"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := videoColumns + ` WHERE slug = $1`
	item, err := scanVideo(s.DB.QueryRowContext(ctx, query, slug))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translateError(err))
	}
	return item, nil
}

// ListVideos возвращает опубликованные видео по дате публикации в обратном
// порядке, с необязательным фильтром по категории.
func (s *Storage) ListVideos(ctx context.Context, categoryID *int, limit, offset int) ([]*models.Video, error) {
	const op = "storage.ListVideos"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := videoColumns + `
			  WHERE published_at IS NOT NULL
			    AND ($1::int IS NULL OR category_id = $1)
			  ORDER BY published_at DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, categoryID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Video
	for rows.Next() {
		item, err := scanVideo(rows)
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

// IncrementVideoViews атомарно увеличивает счётчик просмотров.
func (s *Storage) IncrementVideoViews(ctx context.Context, id int) error {
	const op = "storage.IncrementVideoViews"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx,
		`UPDATE videos SET views_count = views_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// IncrementVideoLikes атомарно увеличивает счётчик лайков.
func (s *Storage) IncrementVideoLikes(ctx context.Context, id int) error {
	const op = "storage.IncrementVideoLikes"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx,
		`UPDATE videos SET likes_count = likes_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

const videoColumns = `SELECT id, title, slug, description, category_id, video_file, video_url,
			      thumbnail, duration_seconds, video_type, instructor_uid, is_public,
			      requires_subscription, views_count, likes_count, created_at, published_at
			  FROM videos`

func scanVideo(row rowScanner) (*models.Video, error) {
	var item models.Video
	var categoryID, durationSeconds sql.NullInt64
	var instructorUID sql.NullString
	var publishedAt sql.NullTime
	if err := row.Scan(&item.ID, &item.Title, &item.Slug, &item.Description, &categoryID,
		&item.VideoFile, &item.VideoURL, &item.Thumbnail, &durationSeconds, &item.VideoType,
		&instructorUID, &item.IsPublic, &item.RequiresSubscription, &item.ViewsCount,
		&item.LikesCount, &item.CreatedAt, &publishedAt); err != nil {
		return nil, err
	}
	if categoryID.Valid {
		v := int(categoryID.Int64)
		item.CategoryID = &v
	}
	if durationSeconds.Valid {
		v := int(durationSeconds.Int64)
		item.DurationSeconds = &v
	}
	if instructorUID.Valid {
		item.InstructorUID = &instructorUID.String
	}
	if publishedAt.Valid {
		item.PublishedAt = &publishedAt.Time
	}
	return &item, nil
}
