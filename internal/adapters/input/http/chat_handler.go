package http

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"ai-chat-backend/internal/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// Chat func - Streams one completion turn as server-sent events
// @Summary Chat
// @Description Runs a streaming completion turn over SSE
// @Tags CHAT
// @Accept application/json
// @Produce text/event-stream
// @Success 200 {string} string "SSE stream"
// @Router /v1/api/chat [post]
// @Security BearerAuth
// @param Chat body ChatRequest true "Chat"
func (hdl *HTTPHandler) Chat(c *fiber.Ctx) error {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(ResponseBody{Status: Unauthorized})
	}

	var request ChatRequest
	if err := c.BodyParser(&request); err != nil {
		logrus.Errorln(err)
		return c.Status(fiber.StatusBadRequest).JSON(ResponseBody{Status: BadRequest})
	}
	if err := hdl.validator.ValidateStruct(request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ResponseBody{Status: withMessage(BadRequest, err.Error())})
	}

	messageType := domain.MessageType(request.MessageType)
	if request.MessageType == "" {
		messageType = domain.MessageTypeText
	}

	domainReq := domain.ChatRequest{
		ConversationID: request.ConversationID,
		Model:          request.Model,
		Message:        request.Message,
		MessageType:    messageType,
		FileURL:        request.FileURL,
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	// The request context dies with the handler, so the stream writer
	// runs the turn on its own cancellable context
	streamCtx, cancel := context.WithCancel(context.Background())

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer cancel()

		events := hdl.chat.Chat(streamCtx, userID, domainReq)
		for event := range events {
			if err := writeSSEEvent(w, event); err != nil {
				logrus.Debugf("SSE client gone: %v", err)
				cancel()
				for range events {
					// Drain so the producer can finish
				}
				return
			}
		}
	})

	return nil
}

// writeSSEEvent serializes one chat event in SSE framing and flushes it
func writeSSEEvent(w *bufio.Writer, event domain.ChatEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
		return err
	}
	return w.Flush()
}

// ListModels func
// @Summary List models
// @Description Lists the upstream model identifiers
// @Tags CHAT
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /v1/api/models [get]
// @Security BearerAuth
func (hdl *HTTPHandler) ListModels(c *fiber.Ctx) error {
	models, err := hdl.chat.ListModels(c.Context())
	if err != nil {
		logrus.Errorln(err)
		if errors.Is(err, domain.ErrLLMUnavailable) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(ResponseBody{Status: ServiceUnavailable})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(ResponseBody{Status: InternalServerError})
	}
	return c.Status(fiber.StatusOK).JSON(ResponseBody{Status: Success, Data: models})
}
