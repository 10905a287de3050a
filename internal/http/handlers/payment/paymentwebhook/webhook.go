// Package paymentwebhook принимает уведомления платежного процессора.
//
// Подпись тела проверяется до разбора JSON. Повторные и опоздавшие доставки
// безопасны: применение события идемпотентно и упорядочено по его времени
// на стороне процессора, поэтому обработчик всегда отвечает 200 на валидные
// подписанные события.
package paymentwebhook

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/bellaforma/studio-membership/internal/lib/sl"
	"github.com/bellaforma/studio-membership/internal/paymentgateway"
)

// Service описывает интерфейс бизнес-логики обработки событий процессора.
type Service interface {
	VerifyWebhookSignature(payload []byte, signature string) bool
	ProcessWebhookEvent(ctx context.Context, event paymentgateway.WebhookEvent, rawPayload []byte) error
}

// Handler принимает и применяет события процессора.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.webhook"
	log := h.log.With(slog.String("op", op))

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error("failed to read webhook body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	// Проверка подписи (в заголовке X-Api-Signature)
	signature := r.Header.Get("X-Api-Signature")
	if signature == "" || !h.service.VerifyWebhookSignature(body, signature) {
		log.Error("invalid or missing webhook signature")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	var event paymentgateway.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		log.Error("failed to unmarshal webhook payload", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if event.PaymentID == "" || event.EventAt.IsZero() {
		log.Error("webhook payload missing payment id or event time")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	// Обрабатываем только платежные события
	if !strings.HasPrefix(strings.ToLower(event.Type), "payment.") {
		log.Info("ignored webhook event", slog.String("event", event.Type))
		w.WriteHeader(http.StatusOK)
		return
	}

	if err := h.service.ProcessWebhookEvent(r.Context(), event, body); err != nil {
		log.Error("failed to process webhook event", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	log.Info("webhook processed successfully",
		slog.String("event", event.Type),
		slog.String("payment_id", event.PaymentID))
	w.WriteHeader(http.StatusOK)
}
