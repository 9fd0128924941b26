package http

import (
	"errors"
	"io"

	"ai-chat-backend/internal/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// maxUploadBytes caps a single uploaded file at 20 MiB
const maxUploadBytes = 20 << 20

// Upload func
// @Summary Upload file
// @Description Stores an uploaded file and returns its URL for chat attachments
// @Tags UPLOAD
// @Accept multipart/form-data
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /v1/api/upload [post]
// @Security BearerAuth
// @param file formData file true "file"
func (hdl *HTTPHandler) Upload(c *fiber.Ctx) error {
	if _, ok := authenticatedUserID(c); !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(ResponseBody{Status: Unauthorized})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		logrus.Errorln(err)
		return c.Status(fiber.StatusBadRequest).JSON(ResponseBody{Status: withMessage(BadRequest, "missing file field")})
	}
	if fileHeader.Size > maxUploadBytes {
		return c.Status(fiber.StatusBadRequest).JSON(ResponseBody{Status: withMessage(BadRequest, "file too large")})
	}

	file, err := fileHeader.Open()
	if err != nil {
		logrus.Errorln(err)
		return c.Status(fiber.StatusInternalServerError).JSON(ResponseBody{Status: InternalServerError})
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		logrus.Errorln(err)
		return c.Status(fiber.StatusInternalServerError).JSON(ResponseBody{Status: InternalServerError})
	}

	response, err := hdl.storage.Save(fileHeader.Filename, fileHeader.Header.Get(fiber.HeaderContentType), content)
	if err != nil {
		logrus.Errorln(err)
		return c.Status(fiber.StatusInternalServerError).JSON(ResponseBody{Status: InternalServerError})
	}

	logrus.Infof("Stored upload %s as %s (%d bytes)", response.Filename, response.SavedFilename, response.Size)

	return c.Status(fiber.StatusOK).JSON(ResponseBody{Status: Success, Data: response})
}

// GetUploadedFile func
// @Summary Fetch uploaded file
// @Description Returns the content of a previously uploaded file
// @Tags UPLOAD
// @Produce octet-stream
// @Success 200 {file} binary
// @Router /v1/api/upload/files/{filename} [get]
// @param filename path string true "saved filename"
func (hdl *HTTPHandler) GetUploadedFile(c *fiber.Ctx) error {
	path, err := hdl.storage.Path(c.Params("filename"))
	if err != nil {
		if errors.Is(err, domain.ErrFileNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(ResponseBody{Status: NotFound})
		}
		logrus.Errorln(err)
		return c.Status(fiber.StatusInternalServerError).JSON(ResponseBody{Status: InternalServerError})
	}
	return c.SendFile(path)
}
