package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/moonchanyong/arom-server/internal/adapters/http/middleware"
	"github.com/moonchanyong/arom-server/internal/usecase"
	"github.com/moonchanyong/arom-server/pkg/httperr"
)

type DeviceHandler struct {
	devices *usecase.DeviceService
}

func NewDeviceHandler(devices *usecase.DeviceService) *DeviceHandler {
	return &DeviceHandler{devices: devices}
}

type setStateRequest struct {
	State map[string]interface{} `json:"state"`
}

func (h *DeviceHandler) Register(c echo.Context) error {
	state, err := h.devices.Register(c.Request().Context(), middleware.Caller(c), c.Param("device_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, state)
}

func (h *DeviceHandler) GetState(c echo.Context) error {
	state, err := h.devices.GetState(c.Request().Context(), middleware.Caller(c), c.Param("device_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, state)
}

func (h *DeviceHandler) SetState(c echo.Context) error {
	req := new(setStateRequest)
	if err := c.Bind(req); err != nil || req.State == nil {
		return httperr.BadRequest("invalid payload")
	}
	state, err := h.devices.SetState(c.Request().Context(), middleware.Caller(c), c.Param("device_id"), req.State)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, state)
}
