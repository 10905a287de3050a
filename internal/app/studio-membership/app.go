package studiomembership

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/bellaforma/studio-membership/internal/cache"
	"github.com/bellaforma/studio-membership/internal/config"
	"github.com/bellaforma/studio-membership/internal/lib/jwt"
	"github.com/bellaforma/studio-membership/internal/lib/rabbitmq"
	"github.com/bellaforma/studio-membership/internal/migrations"
	"github.com/bellaforma/studio-membership/internal/paymentgateway"
	authservice "github.com/bellaforma/studio-membership/internal/services/auth"
	liveclassservice "github.com/bellaforma/studio-membership/internal/services/liveclass"
	measurementservice "github.com/bellaforma/studio-membership/internal/services/measurement"
	paymentservice "github.com/bellaforma/studio-membership/internal/services/payment"
	planservice "github.com/bellaforma/studio-membership/internal/services/plan"
	studentservice "github.com/bellaforma/studio-membership/internal/services/student"
	subscriptionservice "github.com/bellaforma/studio-membership/internal/services/subscription"
	videoservice "github.com/bellaforma/studio-membership/internal/services/video"
	"github.com/bellaforma/studio-membership/internal/storage/repository"
)

// App собирает и запускает HTTP-приложение студии.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// New создает приложение: подключает хранилище, применяет миграции,
// инициализирует кеш, шину событий и платежный процессор, собирает сервисы
// и маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetBillingQueues())
	if err != nil {
		conn.Close()
		return nil, err
	}
	publisher := rabbitmq.NewBillingPublisher(ch)

	gateway := paymentgateway.NewClient(cfg.GatewayURL, cfg.AccessToken, cfg.WebhookSecret)
	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	services := Services{
		Auth:         authservice.NewAuthService(db, jwtMaker),
		Plan:         planservice.NewPlanService(db, cacheRedis, logger),
		Student:      studentservice.NewStudentService(db, logger),
		Measurement:  measurementservice.NewMeasurementService(db, logger),
		Payment:      paymentservice.NewPaymentService(db, gateway, publisher, logger),
		Subscription: subscriptionservice.NewSubscriptionService(db, gateway, publisher, logger),
		Video:        videoservice.NewVideoService(db, cacheRedis, logger),
		LiveClass:    liveclassservice.NewLiveClassService(db, logger),
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, services)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		conn:   conn,
		ch:     ch,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его по отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)

		if cerr := a.ch.Close(); cerr != nil {
			a.logger.Error("failed to close channel", slog.Any("err", cerr))
		}
		if cerr := a.conn.Close(); cerr != nil {
			a.logger.Error("failed to close connection", slog.Any("err", cerr))
		}
		if cerr := a.db.DB.Close(); cerr != nil {
			a.logger.Error("failed to close database", slog.Any("err", cerr))
		}
		return err
	}
}
