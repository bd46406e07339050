package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/moonchanyong/arom-server/internal/usecase"
	"github.com/moonchanyong/arom-server/pkg/httperr"
)

type HelpHandler struct {
	help *usecase.HelpService
}

func NewHelpHandler(help *usecase.HelpService) *HelpHandler { return &HelpHandler{help: help} }

func (h *HelpHandler) List(c echo.Context) error {
	data, err := h.help.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"data": data})
}

func (h *HelpHandler) Contact(c echo.Context) error {
	input := new(usecase.ContactInput)
	if err := c.Bind(input); err != nil {
		return httperr.BadRequest("invalid payload")
	}
	if err := h.help.Contact(c.Request().Context(), *input); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"result": true})
}
