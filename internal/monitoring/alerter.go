package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/lead-intel/internal/config"
	"github.com/sells-group/lead-intel/internal/resilience"
)

// AlertType identifies the kind of alert.
type AlertType string

const (
	AlertQuotaNearLimit AlertType = "quota_near_limit"
	AlertQuotaExhausted AlertType = "quota_exhausted"
	AlertCircuitOpen    AlertType = "provider_circuit_open"
)

// Alert represents a single alert to be sent.
type Alert struct {
	Type      AlertType      `json:"type"`
	Provider  string         `json:"provider"`
	Severity  string         `json:"severity"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Key identifies an alert condition independent of when it fired.
func (a Alert) Key() string {
	return string(a.Type) + ":" + a.Provider
}

// Alerter evaluates a Snapshot against configured thresholds
// and sends alerts via webhook when thresholds are breached.
type Alerter struct {
	cfg    config.MonitoringConfig
	client *http.Client
}

// NewAlerter creates a new Alerter with the given monitoring config.
func NewAlerter(cfg config.MonitoringConfig) *Alerter {
	return &Alerter{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (a *Alerter) warnRatio() float64 {
	if a.cfg.QuotaWarnRatio <= 0 || a.cfg.QuotaWarnRatio > 1 {
		return 0.8
	}
	return a.cfg.QuotaWarnRatio
}

// Evaluate checks the snapshot against thresholds and returns any alerts.
// An exhausted quota suppresses the near-limit alert for the same provider.
func (a *Alerter) Evaluate(snap *Snapshot) []Alert {
	var alerts []Alert
	now := time.Now().UTC()

	for _, q := range snap.Quotas {
		if q.Quota <= 0 {
			continue
		}
		details := map[string]any{
			"used":      q.Used,
			"quota":     q.Quota,
			"remaining": q.Remaining,
			"period":    snap.Period,
		}
		switch {
		case q.Exhausted():
			alerts = append(alerts, Alert{
				Type:      AlertQuotaExhausted,
				Provider:  q.Provider,
				Severity:  "critical",
				Message:   fmt.Sprintf("%s quota exhausted: %d/%d calls used in %s", q.Provider, q.Used, q.Quota, snap.Period),
				Details:   details,
				Timestamp: now,
			})
		case q.Ratio >= a.warnRatio():
			alerts = append(alerts, Alert{
				Type:      AlertQuotaNearLimit,
				Provider:  q.Provider,
				Severity:  "warning",
				Message:   fmt.Sprintf("%s quota at %.0f%%: %d calls remaining in %s", q.Provider, q.Ratio*100, q.Remaining, snap.Period),
				Details:   details,
				Timestamp: now,
			})
		}
	}

	for _, b := range snap.Breakers {
		if b.State != resilience.Open.String() {
			continue
		}
		alerts = append(alerts, Alert{
			Type:      AlertCircuitOpen,
			Provider:  b.Name,
			Severity:  "high",
			Message:   fmt.Sprintf("%s circuit open after %d consecutive failures", b.Name, b.Failures),
			Details:   map[string]any{"failures": b.Failures},
			Timestamp: now,
		})
	}

	return alerts
}

// SendAlerts delivers alerts to the configured webhook URL.
// Returns the number of alerts successfully sent.
func (a *Alerter) SendAlerts(ctx context.Context, alerts []Alert) int {
	if a.cfg.WebhookURL == "" || len(alerts) == 0 {
		return 0
	}

	sent := 0
	for _, alert := range alerts {
		if err := a.sendWebhook(ctx, alert); err != nil {
			zap.L().Error("monitoring: failed to send alert",
				zap.String("type", string(alert.Type)),
				zap.String("provider", alert.Provider),
				zap.Error(err),
			)
			continue
		}
		zap.L().Info("monitoring: alert sent",
			zap.String("type", string(alert.Type)),
			zap.String("provider", alert.Provider),
			zap.String("severity", alert.Severity),
		)
		sent++
	}
	return sent
}

// sendWebhook posts a single alert to the webhook URL.
func (a *Alerter) sendWebhook(ctx context.Context, alert Alert) error {
	payload, err := json.Marshal(alert)
	if err != nil {
		return eris.Wrap(err, "monitoring: marshal alert")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.WebhookURL, bytes.NewReader(payload))
	if err != nil {
		return eris.Wrap(err, "monitoring: create webhook request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return eris.Wrap(err, "monitoring: webhook request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= 400 {
		return eris.Errorf("monitoring: webhook returned status %d", resp.StatusCode)
	}
	return nil
}
