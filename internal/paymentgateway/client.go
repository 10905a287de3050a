package paymentgateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Client вызывает REST API платёжного процессора.
type Client struct {
	accessToken   string
	webhookSecret string
	apiURL        string
	httpClient    *http.Client
}

// NewClient создаёт новый клиент платёжного процессора.
func NewClient(apiURL, accessToken, webhookSecret string) *Client {
	return &Client{
		accessToken:   accessToken,
		webhookSecret: webhookSecret,
		apiURL:        apiURL,
		httpClient:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	url := c.apiURL + path
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")
	// Ключ идемпотентности: повтор запроса при сетевой ошибке не создаст дубликат.
	req.Header.Set("X-Idempotency-Key", uuid.NewString())
	return req, nil
}

// CreateCharge отправляет запрос на создание платежа.
func (c *Client) CreateCharge(ctx context.Context, reqParams CreateChargeRequest) (*CreateChargeResponse, error) {
	req, err := c.newRequest(ctx, "POST", "/v1/payments", reqParams)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, errors.New("unexpected status: " + resp.Status)
	}

	var chargeResp CreateChargeResponse
	if err := json.NewDecoder(resp.Body).Decode(&chargeResp); err != nil {
		return nil, err
	}
	return &chargeResp, nil
}

// CreateSubscription отправляет запрос на создание рекуррентной подписки.
func (c *Client) CreateSubscription(ctx context.Context, reqParams CreateSubscriptionRequest) (*CreateSubscriptionResponse, error) {
	req, err := c.newRequest(ctx, "POST", "/v1/subscriptions", reqParams)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, errors.New("unexpected status: " + resp.Status)
	}

	var subResp CreateSubscriptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&subResp); err != nil {
		return nil, err
	}
	return &subResp, nil
}

// CancelSubscription отправляет запрос на отмену подписки у процессора.
func (c *Client) CancelSubscription(ctx context.Context, gatewaySubscriptionID string) (*CancelSubscriptionResponse, error) {
	req, err := c.newRequest(ctx, "DELETE", "/v1/subscriptions/"+gatewaySubscriptionID, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New("unexpected status: " + resp.Status)
	}

	var cancelResp CancelSubscriptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&cancelResp); err != nil {
		return nil, err
	}
	return &cancelResp, nil
}

// VerifySignature проверяет HMAC-подпись тела вебхука.
func (c *Client) VerifySignature(payload []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(c.webhookSecret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
