package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/slack-go/slack"

	"github.com/Veraticus/extractbench/internal/common"
	"github.com/Veraticus/extractbench/internal/model"
)

// Sink delivers alerts to one destination.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, alert model.PerformanceAlert) error
}

// ConsoleSink writes alerts to the structured logger.
type ConsoleSink struct {
	log *slog.Logger
}

// NewConsoleSink creates a sink that logs alerts.
func NewConsoleSink(log *slog.Logger) *ConsoleSink {
	return &ConsoleSink{log: log}
}

// Name implements Sink.
func (s *ConsoleSink) Name() string { return string(ChannelConsole) }

// Deliver implements Sink.
func (s *ConsoleSink) Deliver(ctx context.Context, alert model.PerformanceAlert) error {
	level := slog.LevelWarn
	if alert.Severity.Rank() >= model.SeverityError.Rank() {
		level = slog.LevelError
	}
	s.log.Log(ctx, level, alert.Message,
		"severity", alert.Severity,
		"metric", alert.Metric,
		"value", alert.CurrentValue,
		"threshold", alert.Threshold,
		"operation_id", alert.OperationID)
	return nil
}

// CallbackSink hands alerts to a caller-supplied function.
type CallbackSink struct {
	fn func(model.PerformanceAlert)
}

// NewCallbackSink wraps fn as a sink.
func NewCallbackSink(fn func(model.PerformanceAlert)) *CallbackSink {
	return &CallbackSink{fn: fn}
}

// Name implements Sink.
func (s *CallbackSink) Name() string { return string(ChannelCallback) }

// Deliver implements Sink.
func (s *CallbackSink) Deliver(_ context.Context, alert model.PerformanceAlert) error {
	s.fn(alert)
	return nil
}

// SlackSink posts alerts to a Slack incoming webhook.
type SlackSink struct {
	client *http.Client
	url    string
	retry  common.RetryOptions
}

// NewSlackSink creates a sink for the given webhook URL.
func NewSlackSink(url string, client *http.Client) *SlackSink {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &SlackSink{
		client: client,
		url:    url,
		retry: common.RetryOptions{
			Name:         "slack webhook",
			MaxAttempts:  3,
			InitialDelay: 500 * time.Millisecond,
			MaxDelay:     5 * time.Second,
		},
	}
}

// Name implements Sink.
func (s *SlackSink) Name() string { return string(ChannelSlack) }

// Deliver implements Sink.
func (s *SlackSink) Deliver(ctx context.Context, alert model.PerformanceAlert) error {
	msg := &slack.WebhookMessage{
		Text: fmt.Sprintf("[%s] %s", strings.ToUpper(string(alert.Severity)), alert.Message),
		Attachments: []slack.Attachment{{
			Color: severityColor(alert.Severity),
			Title: alert.Metric,
			Text:  "• " + strings.Join(alert.Suggestions, "\n• "),
			Fields: []slack.AttachmentField{
				{Title: "Current", Value: fmt.Sprintf("%.2f", alert.CurrentValue), Short: true},
				{Title: "Threshold", Value: fmt.Sprintf("%.2f", alert.Threshold), Short: true},
			},
			Ts: slackTimestamp(alert.Timestamp),
		}},
	}

	return common.WithRetry(ctx, func() error {
		return slack.PostWebhookCustomHTTPContext(ctx, s.url, s.client, msg)
	}, s.retry)
}

func severityColor(s model.AlertSeverity) string {
	switch s {
	case model.SeverityCritical:
		return "danger"
	case model.SeverityError:
		return "#FF6B6B"
	default:
		return "warning"
	}
}

func slackTimestamp(t time.Time) json.Number {
	return json.Number(strconv.FormatInt(t.Unix(), 10))
}

// buildSinks turns the configured channels into sinks.
func buildSinks(cfg *Config) []Sink {
	var sinks []Sink
	for _, ch := range cfg.Alerts.Channels {
		switch ch {
		case ChannelConsole:
			sinks = append(sinks, NewConsoleSink(cfg.Logger))
		case ChannelCallback:
			if cfg.Alerts.Callback == nil {
				cfg.Logger.Warn("Callback alert channel configured without a callback")
				continue
			}
			sinks = append(sinks, NewCallbackSink(cfg.Alerts.Callback))
		case ChannelSlack:
			if cfg.Alerts.SlackWebhookURL == "" {
				cfg.Logger.Warn("Slack alert channel configured without a webhook URL")
				continue
			}
			sinks = append(sinks, NewSlackSink(cfg.Alerts.SlackWebhookURL, nil))
		}
	}
	return sinks
}
