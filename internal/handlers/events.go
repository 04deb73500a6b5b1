package handlers

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/CernunnosYQ/blogfolio/internal/logging"
	"github.com/CernunnosYQ/blogfolio/internal/mykafka"
)

// publish fires a domain event without failing the request; delivery
// problems are logged and swallowed.
func publish(c echo.Context, p *mykafka.Producer, topic, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := p.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka_publish_failed", "topic", topic, "error", err)
	}
}
