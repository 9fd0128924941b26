package http

import (
	"errors"
	"strconv"

	"ai-chat-backend/internal/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// ListConversations func
// @Summary List conversations
// @Description Lists the authenticated user's conversations, most recent first
// @Tags CONVERSATIONS
// @Success 200 {object} map[string]interface{}
// @Router /v1/api/conversations [get]
// @Produce json
// @Security BearerAuth
func (hdl *HTTPHandler) ListConversations(c *fiber.Ctx) error {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(ResponseBody{Status: Unauthorized})
	}

	response, err := hdl.conversations.ListConversations(userID)
	if err != nil {
		logrus.Errorln(err)
		return c.Status(fiber.StatusInternalServerError).JSON(ResponseBody{Status: InternalServerError})
	}
	return c.Status(fiber.StatusOK).JSON(ResponseBody{Status: Success, Data: response})
}

// CreateConversation func
// @Summary Create conversation
// @Description Starts a new conversation
// @Tags CONVERSATIONS
// @Accept application/json
// @Success 200 {object} map[string]interface{}
// @Router /v1/api/conversations [post]
// @Produce json
// @Security BearerAuth
// @param CreateConversation body ConversationRequest true "CreateConversation"
func (hdl *HTTPHandler) CreateConversation(c *fiber.Ctx) error {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(ResponseBody{Status: Unauthorized})
	}

	var request ConversationRequest
	if err := c.BodyParser(&request); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
		logrus.Errorln(err)
		return c.Status(fiber.StatusBadRequest).JSON(ResponseBody{Status: BadRequest})
	}
	if err := hdl.validator.ValidateStruct(request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ResponseBody{Status: withMessage(BadRequest, err.Error())})
	}

	response, err := hdl.conversations.CreateConversation(userID, domain.ConversationRequest{Title: request.Title})
	if err != nil {
		logrus.Errorln(err)
		return c.Status(fiber.StatusInternalServerError).JSON(ResponseBody{Status: InternalServerError})
	}
	return c.Status(fiber.StatusOK).JSON(ResponseBody{Status: Success, Data: response})
}

// RenameConversation func
// @Summary Rename conversation
// @Description Renames a conversation the user owns
// @Tags CONVERSATIONS
// @Accept application/json
// @Success 200 {object} map[string]interface{}
// @Router /v1/api/conversations/{id} [put]
// @Produce json
// @Security BearerAuth
// @param id path int true "conversation id"
// @param RenameConversation body ConversationRequest true "RenameConversation"
func (hdl *HTTPHandler) RenameConversation(c *fiber.Ctx) error {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(ResponseBody{Status: Unauthorized})
	}

	conversationID, err := conversationIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ResponseBody{Status: BadRequest})
	}

	var request ConversationRequest
	if err := c.BodyParser(&request); err != nil {
		logrus.Errorln(err)
		return c.Status(fiber.StatusBadRequest).JSON(ResponseBody{Status: BadRequest})
	}
	if err := hdl.validator.ValidateStruct(request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ResponseBody{Status: withMessage(BadRequest, err.Error())})
	}

	response, err := hdl.conversations.RenameConversation(userID, conversationID, domain.ConversationRequest{Title: request.Title})
	if err != nil {
		if errors.Is(err, domain.ErrConversationNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(ResponseBody{Status: NotFound})
		}
		logrus.Errorln(err)
		return c.Status(fiber.StatusInternalServerError).JSON(ResponseBody{Status: InternalServerError})
	}
	return c.Status(fiber.StatusOK).JSON(ResponseBody{Status: Success, Data: response})
}

// DeleteConversation func
// @Summary Delete conversation
// @Description Deletes a conversation, its messages and its cached context
// @Tags CONVERSATIONS
// @Success 200 {object} map[string]interface{}
// @Router /v1/api/conversations/{id} [delete]
// @Produce json
// @Security BearerAuth
// @param id path int true "conversation id"
func (hdl *HTTPHandler) DeleteConversation(c *fiber.Ctx) error {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(ResponseBody{Status: Unauthorized})
	}

	conversationID, err := conversationIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ResponseBody{Status: BadRequest})
	}

	if err := hdl.conversations.DeleteConversation(userID, conversationID); err != nil {
		if errors.Is(err, domain.ErrConversationNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(ResponseBody{Status: NotFound})
		}
		logrus.Errorln(err)
		return c.Status(fiber.StatusInternalServerError).JSON(ResponseBody{Status: InternalServerError})
	}
	return c.Status(fiber.StatusOK).JSON(ResponseBody{Status: Success, Data: ""})
}

// GetConversationMessages func
// @Summary Conversation history
// @Description Returns a conversation's messages ordered by creation time
// @Tags CONVERSATIONS
// @Success 200 {object} map[string]interface{}
// @Router /v1/api/conversations/{id}/messages [get]
// @Produce json
// @Security BearerAuth
// @param id path int true "conversation id"
func (hdl *HTTPHandler) GetConversationMessages(c *fiber.Ctx) error {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(ResponseBody{Status: Unauthorized})
	}

	conversationID, err := conversationIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ResponseBody{Status: BadRequest})
	}

	response, err := hdl.conversations.GetMessages(userID, conversationID)
	if err != nil {
		if errors.Is(err, domain.ErrConversationNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(ResponseBody{Status: NotFound})
		}
		logrus.Errorln(err)
		return c.Status(fiber.StatusInternalServerError).JSON(ResponseBody{Status: InternalServerError})
	}
	return c.Status(fiber.StatusOK).JSON(ResponseBody{Status: Success, Data: response})
}

func conversationIDParam(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
