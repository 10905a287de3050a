package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/bellaforma/studio-membership/internal/migrations"
)

// setupTestDatabase поднимает контейнер PostgreSQL, применяет боевые миграции
// и возвращает готовое хранилище. Тесты проверяют в том числе поведение схемы
// (CASCADE, SET NULL, CHECK), поэтому схема берётся из migrations/, а не
// дублируется здесь.
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(2*time.Minute),
		),
	)
	require.NoError(t, err, "failed to start container")

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	// Пробуем подключиться несколько раз с ретраями
	var storage *Storage
	for range 10 {
		storage, err = New(dsn)
		if err == nil {
			break
		}
		time.Sleep(1 * time.Second)
	}
	require.NoError(t, err, "failed to create storage after retries")

	migrationsPath, err := filepath.Abs("../../../migrations")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB, migrationsPath), "failed to run migrations")

	cleanup := func() {
		if storage != nil && storage.DB != nil {
			_ = storage.DB.Close()
		}
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return storage, cleanup
}

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser создает тестового пользователя и возвращает его UID
func (f *TestDataFactory) CreateUser(t *testing.T, username, email, role string) string {
	var uid string
	err := f.storage.DB.QueryRow(`INSERT INTO users (username, email, password_hash, role)
		VALUES ($1, $2, $3, $4) RETURNING uid`,
		username, email, "hashedpassword", role).Scan(&uid)
	require.NoError(t, err)
	return uid
}

// CreatePlan создает тестовый план
func (f *TestDataFactory) CreatePlan(t *testing.T, name, slug string, hasVideoAccess bool) int {
	var id int
	err := f.storage.DB.QueryRow(`INSERT INTO plans (name, slug, plan_type, price, has_video_access)
		VALUES ($1, $2, 'monthly', 250.00, $3) RETURNING id`,
		name, slug, hasVideoAccess).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateStudent создает тестовый профиль ученицы
func (f *TestDataFactory) CreateStudent(t *testing.T, userUID, cpf string, planID *int) int {
	var id int
	err := f.storage.DB.QueryRow(`INSERT INTO students (user_uid, cpf, is_active, enrollment_date, plan_id)
		VALUES ($1, $2, true, CURRENT_DATE, $3) RETURNING id`,
		userUID, cpf, planID).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateStudentWithUser создает пользователя с ролью student и его профиль
func (f *TestDataFactory) CreateStudentWithUser(t *testing.T, username, cpf string) (string, int) {
	userUID := f.CreateUser(t, username, username+"@example.com", "student")
	studentID := f.CreateStudent(t, userUID, cpf, nil)
	return userUID, studentID
}

// CreatePayment создает тестовый платеж с привязкой к процессору
func (f *TestDataFactory) CreatePayment(t *testing.T, studentID int, planID *int,
	gatewayPaymentID, status string) int {
	var id int
	err := f.storage.DB.QueryRow(`INSERT INTO payments
		(student_id, plan_id, amount, due_date, status, gateway_payment_id)
		VALUES ($1, $2, 250.00, CURRENT_DATE, $3, $4) RETURNING id`,
		studentID, planID, status, gatewayPaymentID).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateSubscription создает тестовую подписку ученицы
func (f *TestDataFactory) CreateSubscription(t *testing.T, studentID int, planID *int, isActive bool) int {
	var id int
	err := f.storage.DB.QueryRow(`INSERT INTO subscriptions (student_id, plan_id, is_active)
		VALUES ($1, $2, $3) RETURNING id`,
		studentID, planID, isActive).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateLiveClass создает тестовую трансляцию
func (f *TestDataFactory) CreateLiveClass(t *testing.T, instructorUID string, maxParticipants *int) int {
	var id int
	err := f.storage.DB.QueryRow(`INSERT INTO live_classes
		(title, instructor_uid, scheduled_date, max_participants)
		VALUES ($1, $2, now() + interval '1 day', $3) RETURNING id`,
		"Pilates ao vivo", instructorUID, maxParticipants).Scan(&id)
	require.NoError(t, err)
	return id
}

// TestVerification содержит общие функции для проверки результатов тестов
type TestVerification struct {
	storage *Storage
}

// NewTestVerification создает новый объект для проверки результатов
func NewTestVerification(storage *Storage) *TestVerification {
	return &TestVerification{storage: storage}
}

// CountRows возвращает число строк таблицы, удовлетворяющих условию
func (v *TestVerification) CountRows(t *testing.T, table, where string, args ...any) int {
	var count int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", table, where)
	err := v.storage.DB.QueryRow(query, args...).Scan(&count)
	require.NoError(t, err)
	return count
}

// VerifyPaymentStatus проверяет локальный статус платежа и метку времени события процессора
func (v *TestVerification) VerifyPaymentStatus(t *testing.T, paymentID int, expectedStatus string) {
	var status string
	err := v.storage.DB.QueryRow("SELECT status FROM payments WHERE id = $1", paymentID).Scan(&status)
	require.NoError(t, err)
	require.Equal(t, expectedStatus, status)
}
