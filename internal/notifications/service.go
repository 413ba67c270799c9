package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"istoki/internal/config"
)

const userAgent = "istoki/0.1.0"

// Event names a build outcome.
type Event string

const (
	EventCatalogPublished Event = "catalog_published"
	EventBuildUnchanged   Event = "build_unchanged"
	EventBuildRejected    Event = "build_rejected"
	EventBuildFailed      Event = "build_failed"
	EventTest             Event = "test"
)

// Payload carries event fields. Recognised keys: catalogVersion, songCount,
// songsUrl, failures, stage, error.
type Payload map[string]any

// Service publishes build events.
type Service interface {
	Publish(ctx context.Context, event Event, payload Payload) error
}

// NewService builds an ntfy-backed service, or a no-op when no topic is set.
func NewService(cfg *config.Config) Service {
	if cfg == nil {
		return noopService{}
	}
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type message struct {
	title    string
	body     string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) Publish(ctx context.Context, event Event, payload Payload) error {
	msg, ok := format(event, payload)
	if !ok {
		return nil
	}
	return n.send(ctx, msg)
}

func format(event Event, payload Payload) (message, bool) {
	switch event {
	case EventCatalogPublished:
		body := fmt.Sprintf("📚 Catalog v%s published: %s songs", payload.text("catalogVersion", "?"), payload.text("songCount", "0"))
		if url := payload.text("songsUrl", ""); url != "" {
			body += "\n" + url
		}
		return message{
			title: "Istoki - Catalog Published",
			body:  body,
			tags:  []string{"istoki", "publish", "completed"},
		}, true
	case EventBuildRejected:
		return message{
			title:    "Istoki - Build Rejected",
			body:     fmt.Sprintf("⚠️ Build rejected: %s", payload.text("error", "validation failed")),
			tags:     []string{"istoki", "build", "rejected"},
			priority: "high",
		}, true
	case EventBuildFailed:
		var builder strings.Builder
		builder.WriteString("❌ Build failed")
		if stage := payload.text("stage", ""); stage != "" {
			builder.WriteString(" in ")
			builder.WriteString(stage)
		}
		builder.WriteString(": ")
		builder.WriteString(payload.text("error", "unknown"))
		return message{
			title:    "Istoki - Build Failed",
			body:     builder.String(),
			tags:     []string{"istoki", "error", "alert"},
			priority: "high",
		}, true
	case EventTest:
		return message{
			title:    "Istoki - Test",
			body:     "🧪 Notification system test",
			tags:     []string{"istoki", "test"},
			priority: "low",
		}, true
	default:
		return message{}, false
	}
}

func (p Payload) text(key, fallback string) string {
	value, ok := p[key]
	if !ok || value == nil {
		return fallback
	}
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case error:
		s = v.Error()
	default:
		s = fmt.Sprint(v)
	}
	if s = strings.TrimSpace(s); s == "" {
		return fallback
	}
	return s
}

func (n *ntfyService) send(ctx context.Context, msg message) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(msg.body))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if msg.title != "" {
		req.Header.Set("Title", msg.title)
	}
	if len(msg.tags) > 0 {
		req.Header.Set("Tags", strings.Join(msg.tags, ","))
	}
	if msg.priority != "" && msg.priority != "default" {
		req.Header.Set("Priority", msg.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) Publish(context.Context, Event, Payload) error { return nil }
