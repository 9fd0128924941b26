package http

import (
	"errors"

	"ai-chat-backend/internal/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// Register func
// @Summary Register user
// @Description Creates a new user account
// @Tags USERS
// @Accept application/json
// @Success 200 {object} map[string]interface{}
// @Router /v1/api/users/register [post]
// @Produce json
// @param Register body RegisterRequest true "Register"
func (hdl *HTTPHandler) Register(c *fiber.Ctx) error {
	var request RegisterRequest
	if err := c.BodyParser(&request); err != nil {
		logrus.Errorln(err)
		return c.Status(fiber.StatusBadRequest).JSON(ResponseBody{Status: BadRequest})
	}
	if err := hdl.validator.ValidateStruct(request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ResponseBody{Status: withMessage(BadRequest, err.Error())})
	}
	if request.Email == nil && request.Phone == nil {
		return c.Status(fiber.StatusBadRequest).JSON(ResponseBody{Status: withMessage(BadRequest, "either email or phone is required")})
	}

	// Convert HTTP request to domain request
	domainReq := domain.RegisterRequest{
		Username: request.Username,
		Email:    request.Email,
		Phone:    request.Phone,
		Password: request.Password,
	}
	response, err := hdl.users.Register(domainReq)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return c.Status(fiber.StatusConflict).JSON(ResponseBody{Status: withMessage(ConFlict, err.Error())})
		}
		logrus.Errorln(err)
		return c.Status(fiber.StatusInternalServerError).JSON(ResponseBody{Status: InternalServerError})
	}
	return c.Status(fiber.StatusOK).JSON(ResponseBody{Status: Success, Data: response})
}

// Login func
// @Summary Login
// @Description Authenticates by email or phone and returns an access token
// @Tags USERS
// @Accept application/json
// @Success 200 {object} map[string]interface{}
// @Router /v1/api/users/login [post]
// @Produce json
// @param Login body LoginRequest true "Login"
func (hdl *HTTPHandler) Login(c *fiber.Ctx) error {
	var request LoginRequest
	if err := c.BodyParser(&request); err != nil {
		logrus.Errorln(err)
		return c.Status(fiber.StatusBadRequest).JSON(ResponseBody{Status: BadRequest})
	}
	if err := hdl.validator.ValidateStruct(request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ResponseBody{Status: withMessage(BadRequest, err.Error())})
	}

	response, err := hdl.users.Login(domain.LoginRequest{
		EmailOrPhone: request.EmailOrPhone,
		Password:     request.Password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(ResponseBody{Status: withMessage(Unauthorized, err.Error())})
		}
		logrus.Errorln(err)
		return c.Status(fiber.StatusInternalServerError).JSON(ResponseBody{Status: InternalServerError})
	}
	return c.Status(fiber.StatusOK).JSON(ResponseBody{Status: Success, Data: response})
}

// GetProfile func
// @Summary Current user profile
// @Description Returns the authenticated user's profile
// @Tags USERS
// @Success 200 {object} map[string]interface{}
// @Router /v1/api/users/me [get]
// @Produce json
// @Security BearerAuth
func (hdl *HTTPHandler) GetProfile(c *fiber.Ctx) error {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(ResponseBody{Status: Unauthorized})
	}

	response, err := hdl.users.GetProfile(userID)
	if err != nil {
		logrus.Errorln(err)
		return c.Status(fiber.StatusInternalServerError).JSON(ResponseBody{Status: InternalServerError})
	}
	return c.Status(fiber.StatusOK).JSON(ResponseBody{Status: Success, Data: response})
}
