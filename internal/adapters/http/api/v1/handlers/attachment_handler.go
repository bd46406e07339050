package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/moonchanyong/arom-server/internal/adapters/http/middleware"
	"github.com/moonchanyong/arom-server/internal/usecase"
	"github.com/moonchanyong/arom-server/pkg/httperr"
)

const defaultListLimit = 20

type AttachmentHandler struct {
	attachments *usecase.AttachmentService
}

func NewAttachmentHandler(attachments *usecase.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{attachments: attachments}
}

func (h *AttachmentHandler) List(c echo.Context) error {
	offset := queryInt(c, "offset", 0)
	limit := queryInt(c, "limit", defaultListLimit)
	list, err := h.attachments.List(c.Request().Context(), middleware.Caller(c), offset, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

func (h *AttachmentHandler) Upload(c echo.Context) error {
	file, err := c.FormFile("image")
	if err != nil {
		return httperr.BadRequest("Invalid Image Type")
	}
	info, err := h.attachments.Upload(c.Request().Context(), middleware.Caller(c), file)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, info)
}

func (h *AttachmentHandler) Delete(c echo.Context) error {
	err := h.attachments.Delete(c.Request().Context(), middleware.Caller(c), c.Param("attachment_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"result": true})
}

func queryInt(c echo.Context, name string, fallback int64) int64 {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
