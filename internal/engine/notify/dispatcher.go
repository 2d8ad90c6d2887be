package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"recurso/internal/platform/models"
	"recurso/internal/platform/repositories"
)

// Dispatcher delivers webhook events to a tenant's registered endpoints.
// Delivery is fire-and-forget; failures bump the endpoint's retry counter
// and record the last error for operator visibility.
type Dispatcher struct {
	repo    *repositories.WebhookRepository
	client  *http.Client
	retries int
}

func NewDispatcher(repo *repositories.WebhookRepository, timeout time.Duration, retries int) *Dispatcher {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	if retries < 1 {
		retries = 1
	}
	return &Dispatcher{
		repo:    repo,
		client:  &http.Client{Timeout: timeout},
		retries: retries,
	}
}

func (d *Dispatcher) Dispatch(eventType, orgID string, data interface{}) {
	webhooks, err := d.repo.GetByEvent(eventType)
	if err != nil {
		log.Error().Err(err).Str("event", eventType).Msg("failed to load webhook endpoints")
		return
	}

	event := &models.WebhookEvent{
		ID:        fmt.Sprintf("evt_%d", time.Now().UnixNano()),
		Event:     eventType,
		Timestamp: time.Now().Unix(),
		OrgID:     orgID,
		Data:      data,
	}

	for _, webhook := range webhooks {
		go d.deliver(webhook, event)
	}
}

func (d *Dispatcher) deliver(webhook *models.Webhook, event *models.WebhookEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}

	signature := Sign(webhook.Secret, payload)

	var lastErr string
	for attempt := 0; attempt < d.retries; attempt++ {
		if attempt > 0 {
			time.Sleep(time.Duration(attempt) * time.Second)
		}

		req, err := http.NewRequest(http.MethodPost, webhook.URL, bytes.NewBuffer(payload))
		if err != nil {
			lastErr = err.Error()
			break
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Recurso-Signature", signature)
		req.Header.Set("X-Recurso-Event", event.Event)
		req.Header.Set("X-Recurso-Delivery", event.ID)

		resp, err := d.client.Do(req)
		if err != nil {
			lastErr = err.Error()
			continue
		}
		resp.Body.Close()

		if resp.StatusCode < 400 {
			d.repo.UpdateLastTriggered(webhook.ID, time.Now().Unix())
			return
		}
		lastErr = fmt.Sprintf("HTTP %d", resp.StatusCode)
	}

	log.Warn().
		Str("webhook_id", webhook.ID).
		Str("event", event.Event).
		Str("error", lastErr).
		Msg("webhook delivery failed")
	d.repo.RecordFailure(webhook.ID, lastErr)
}
