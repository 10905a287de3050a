// Package studiomembership собирает HTTP-приложение студии: маршруты,
// middleware и жизненный цикл сервера.
package studiomembership

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	anamnesisread "github.com/bellaforma/studio-membership/internal/http/handlers/anamnesis/read"
	anamnesisupsert "github.com/bellaforma/studio-membership/internal/http/handlers/anamnesis/upsert"
	"github.com/bellaforma/studio-membership/internal/http/handlers/auth/login"
	"github.com/bellaforma/studio-membership/internal/http/handlers/auth/register"
	cyclecreate "github.com/bellaforma/studio-membership/internal/http/handlers/cycle/create"
	cyclelist "github.com/bellaforma/studio-membership/internal/http/handlers/cycle/list"
	"github.com/bellaforma/studio-membership/internal/http/handlers/health"
	liveclasscreate "github.com/bellaforma/studio-membership/internal/http/handlers/liveclass/create"
	liveclasslist "github.com/bellaforma/studio-membership/internal/http/handlers/liveclass/list"
	liveclassread "github.com/bellaforma/studio-membership/internal/http/handlers/liveclass/read"
	liveclassregister "github.com/bellaforma/studio-membership/internal/http/handlers/liveclass/register"
	liveclassstatus "github.com/bellaforma/studio-membership/internal/http/handlers/liveclass/status"
	measurementcreate "github.com/bellaforma/studio-membership/internal/http/handlers/measurement/create"
	measurementlist "github.com/bellaforma/studio-membership/internal/http/handlers/measurement/list"
	measurementupdate "github.com/bellaforma/studio-membership/internal/http/handlers/measurement/update"
	"github.com/bellaforma/studio-membership/internal/http/handlers/payment/paymentcreate"
	"github.com/bellaforma/studio-membership/internal/http/handlers/payment/paymentlist"
	"github.com/bellaforma/studio-membership/internal/http/handlers/payment/paymentwebhook"
	plancreate "github.com/bellaforma/studio-membership/internal/http/handlers/plan/create"
	planlist "github.com/bellaforma/studio-membership/internal/http/handlers/plan/list"
	planread "github.com/bellaforma/studio-membership/internal/http/handlers/plan/read"
	planremove "github.com/bellaforma/studio-membership/internal/http/handlers/plan/remove"
	planupdate "github.com/bellaforma/studio-membership/internal/http/handlers/plan/update"
	studentcreate "github.com/bellaforma/studio-membership/internal/http/handlers/student/create"
	studentlist "github.com/bellaforma/studio-membership/internal/http/handlers/student/list"
	studentread "github.com/bellaforma/studio-membership/internal/http/handlers/student/read"
	studentupdate "github.com/bellaforma/studio-membership/internal/http/handlers/student/update"
	subscriptioncancel "github.com/bellaforma/studio-membership/internal/http/handlers/subscription/cancel"
	subscriptioncreate "github.com/bellaforma/studio-membership/internal/http/handlers/subscription/create"
	subscriptionread "github.com/bellaforma/studio-membership/internal/http/handlers/subscription/read"
	videocreate "github.com/bellaforma/studio-membership/internal/http/handlers/video/create"
	videolike "github.com/bellaforma/studio-membership/internal/http/handlers/video/like"
	videolist "github.com/bellaforma/studio-membership/internal/http/handlers/video/list"
	videowatch "github.com/bellaforma/studio-membership/internal/http/handlers/video/watch"
	categorycreate "github.com/bellaforma/studio-membership/internal/http/handlers/videocategory/create"
	categorylist "github.com/bellaforma/studio-membership/internal/http/handlers/videocategory/list"
	"github.com/bellaforma/studio-membership/internal/http/middlewarectx"

	authservice "github.com/bellaforma/studio-membership/internal/services/auth"
	liveclassservice "github.com/bellaforma/studio-membership/internal/services/liveclass"
	measurementservice "github.com/bellaforma/studio-membership/internal/services/measurement"
	paymentservice "github.com/bellaforma/studio-membership/internal/services/payment"
	planservice "github.com/bellaforma/studio-membership/internal/services/plan"
	studentservice "github.com/bellaforma/studio-membership/internal/services/student"
	subscriptionservice "github.com/bellaforma/studio-membership/internal/services/subscription"
	videoservice "github.com/bellaforma/studio-membership/internal/services/video"
)

// Services объединяет бизнес-логику, которую обслуживают маршруты приложения.
type Services struct {
	Auth         *authservice.AuthService
	Plan         *planservice.PlanService
	Student      *studentservice.StudentService
	Measurement  *measurementservice.MeasurementService
	Payment      *paymentservice.PaymentService
	Subscription *subscriptionservice.SubscriptionService
	Video        *videoservice.VideoService
	LiveClass    *liveclassservice.LiveClassService
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, s Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, s.Auth).ServeHTTP)
		r.Post("/login", login.New(logger, s.Auth).ServeHTTP)
		r.Get("/health", health.New(logger).ServeHTTP)

		r.Get("/plans", planlist.New(logger, s.Plan).ServeHTTP)
		r.Get("/plans/{id}", planread.New(logger, s.Plan).ServeHTTP)
		r.Get("/video-categories", categorylist.New(logger, s.Video).ServeHTTP)
		r.Get("/videos", videolist.New(logger, s.Video).ServeHTTP)

		// Просмотр видео: публичные доступны анонимно, остальные по токену
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.OptionalJWTMiddleware(s.Auth, logger))
			r.Get("/videos/{slug}/watch", videowatch.New(logger, s.Video).ServeHTTP)
		})

		// Webhook endpoint (подпись проверяется обработчиком)
		r.Post("/payments/webhook", paymentwebhook.New(logger, s.Payment).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.Auth, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Post("/videos/{id}/like", videolike.New(logger, s.Video).ServeHTTP)
			r.Get("/live-classes", liveclasslist.New(logger, s.LiveClass).ServeHTTP)
			r.Get("/live-classes/{id}", liveclassread.New(logger, s.LiveClass).ServeHTTP)

			// Личный кабинет ученицы
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRole(logger, "student"))
				r.Get("/me/profile", studentread.New(logger, s.Student).ServeHTTP)
				r.Get("/me/anamnesis", anamnesisread.New(logger, s.Student).ServeHTTP)
				r.Put("/me/anamnesis", anamnesisupsert.New(logger, s.Student).ServeHTTP)
				r.Get("/me/cycles", cyclelist.New(logger, s.Student).ServeHTTP)
				r.Post("/me/cycles", cyclecreate.New(logger, s.Student).ServeHTTP)
				r.Get("/me/measurements", measurementlist.New(logger, s.Measurement, s.Student).ServeHTTP)
				r.Get("/me/payments", paymentlist.New(logger, s.Payment, s.Student).ServeHTTP)
				r.Get("/me/subscription", subscriptionread.New(logger, s.Subscription, s.Student).ServeHTTP)
				r.Post("/me/subscription/cancel", subscriptioncancel.New(logger, s.Subscription, s.Student).ServeHTTP)
				r.Post("/live-classes/{id}/register", liveclassregister.New(logger, s.LiveClass, s.Student).ServeHTTP)
			})

			// Операции преподавателей и администраторов
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRole(logger, "instructor", "admin"))
				r.Get("/students/{id}", studentread.New(logger, s.Student).ServeHTTP)
				r.Get("/students/{id}/anamnesis", anamnesisread.New(logger, s.Student).ServeHTTP)
				r.Put("/students/{id}/anamnesis", anamnesisupsert.New(logger, s.Student).ServeHTTP)
				r.Get("/students/{id}/cycles", cyclelist.New(logger, s.Student).ServeHTTP)
				r.Post("/students/{id}/measurements", measurementcreate.New(logger, s.Measurement).ServeHTTP)
				r.Put("/students/{id}/measurements/{mid}", measurementupdate.New(logger, s.Measurement).ServeHTTP)
				r.Get("/students/{id}/measurements", measurementlist.New(logger, s.Measurement, s.Student).ServeHTTP)

				r.Post("/videos", videocreate.New(logger, s.Video).ServeHTTP)
				r.Post("/video-categories", categorycreate.New(logger, s.Video).ServeHTTP)
				r.Post("/live-classes", liveclasscreate.New(logger, s.LiveClass).ServeHTTP)
				r.Patch("/live-classes/{id}/status", liveclassstatus.New(logger, s.LiveClass).ServeHTTP)
			})

			// Административные операции
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRole(logger, "admin"))
				r.Post("/plans", plancreate.New(logger, s.Plan).ServeHTTP)
				r.Put("/plans/{id}", planupdate.New(logger, s.Plan).ServeHTTP)
				r.Delete("/plans/{id}", planremove.New(logger, s.Plan).ServeHTTP)

				r.Post("/students", studentcreate.New(logger, s.Student).ServeHTTP)
				r.Get("/students", studentlist.New(logger, s.Student).ServeHTTP)
				r.Put("/students/{id}", studentupdate.New(logger, s.Student).ServeHTTP)

				r.Post("/payments", paymentcreate.New(logger, s.Payment).ServeHTTP)
				r.Get("/students/{id}/payments", paymentlist.New(logger, s.Payment, s.Student).ServeHTTP)

				r.Post("/subscriptions", subscriptioncreate.New(logger, s.Subscription).ServeHTTP)
				r.Get("/students/{id}/subscription", subscriptionread.New(logger, s.Subscription, s.Student).ServeHTTP)
				r.Post("/students/{id}/subscription/cancel", subscriptioncancel.New(logger, s.Subscription, s.Student).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
