package api

import (
	"bufio"
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/valyala/fasthttp"

	"github.com/pyneda/kansa/pkg/events"
	"github.com/pyneda/kansa/pkg/scan/discovery"
	"github.com/pyneda/kansa/pkg/scan/orchestrator"
)

// ScanStreamHandler godoc
// @Summary Scan event stream
// @Description Streams scan lifecycle events as server-sent events. Replays the retained history first, then live events until the scan finishes.
// @Tags Scan
// @Produce text/event-stream
// @Param id path string true "Scan id"
// @Success 200 {string} string "SSE stream"
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/scan/{id}/stream [get]
func ScanStreamHandler(c *fiber.Ctx) error {
	engine := c.Locals("engine").(*orchestrator.Engine)
	subscription, err := engine.Subscribe(c.Params("id"))
	if err != nil {
		return handleDomainError(c, err)
	}
	return streamSubscription(c, subscription)
}

// DiscoveryStreamHandler godoc
// @Summary Discovery event stream
// @Description Streams discovery lifecycle events as server-sent events.
// @Tags Discovery
// @Produce text/event-stream
// @Param id path string true "Discovery id"
// @Success 200 {string} string "SSE stream"
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/discovery/{id}/stream [get]
func DiscoveryStreamHandler(c *fiber.Ctx) error {
	runner := c.Locals("runner").(*discovery.Runner)
	subscription, err := runner.Subscribe(c.Params("id"))
	if err != nil {
		return handleDomainError(c, err)
	}
	return streamSubscription(c, subscription)
}

// streamSubscription writes a subscription to the client as SSE frames. The
// stream ends when the topic closes the channel after the terminal event, or
// when the client disconnects.
func streamSubscription(c *fiber.Ctx, subscription *events.Subscription) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set("X-Accel-Buffering", "no")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer subscription.Close()
		for _, event := range subscription.Replay {
			if !writeSSE(w, event) {
				return
			}
		}
		for event := range subscription.C {
			if !writeSSE(w, event) {
				return
			}
		}
	}))
	return nil
}

// writeSSE frames one event and flushes it. Heartbeats become comment frames
// so EventSource clients keep the connection open without dispatching a
// message. Returns false once the client is gone.
func writeSSE(w *bufio.Writer, event events.Event) bool {
	if event.Type == events.Heartbeat {
		if _, err := w.WriteString(": heartbeat\n\n"); err != nil {
			return false
		}
		return w.Flush() == nil
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("type", string(event.Type)).Msg("Could not marshal event for SSE")
		return true
	}
	if _, err := w.WriteString("data: "); err != nil {
		return false
	}
	if _, err := w.Write(data); err != nil {
		return false
	}
	if _, err := w.WriteString("\n\n"); err != nil {
		return false
	}
	return w.Flush() == nil
}
