package http

import (
	"ai-chat-backend/internal/ports/input"
	"ai-chat-backend/internal/ports/output"
	"ai-chat-backend/pkg/validator"

	"gorm.io/gorm"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// HTTPHandler struct - Primary/Driving adapter for HTTP
type HTTPHandler struct {
	users         input.UserService
	conversations input.ConversationService
	chat          input.ChatService
	cache         output.ContextCache
	storage       output.FileStorage
	db            *gorm.DB
	validator     validator.Validator
}

// New func - Creates new HTTP handler
func New(
	users input.UserService,
	conversations input.ConversationService,
	chat input.ChatService,
	cache output.ContextCache,
	storage output.FileStorage,
	db *gorm.DB,
) *HTTPHandler {
	return &HTTPHandler{
		users:         users,
		conversations: conversations,
		chat:          chat,
		cache:         cache,
		storage:       storage,
		db:            db,
		validator:     validator.New(),
	}
}

// HealthCheck func
// @Summary Health check
// @Description Reports service and database health
// @Tags OPS
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (hdl *HTTPHandler) HealthCheck(c *fiber.Ctx) error {
	sqlDB, err := hdl.db.DB()
	if err != nil {
		logrus.Errorln(err)
		return c.Status(fiber.StatusInternalServerError).JSON(ResponseBody{Status: InternalServerError})
	}

	err = sqlDB.Ping()
	if err != nil {
		logrus.Errorln(err)
		return c.Status(fiber.StatusInternalServerError).JSON(ResponseBody{Status: InternalServerError})
	}
	return c.Status(fiber.StatusOK).JSON(ResponseBody{Status: Success, Data: ""})
}

// CacheStats func
// @Summary Context cache statistics
// @Description Returns point-in-time counters of the conversation context cache
// @Tags OPS
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /v1/api/cache/stats [get]
func (hdl *HTTPHandler) CacheStats(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(ResponseBody{Status: Success, Data: hdl.cache.Stats()})
}

// CacheClearExpired func
// @Summary Purge expired cache records
// @Description Removes every expired conversation context record
// @Tags OPS
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /v1/api/cache/expired [delete]
func (hdl *HTTPHandler) CacheClearExpired(c *fiber.Ctx) error {
	hdl.cache.ClearExpired()
	return c.Status(fiber.StatusOK).JSON(ResponseBody{Status: Success, Data: hdl.cache.Stats()})
}
