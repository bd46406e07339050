package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/moonchanyong/arom-server/internal/adapters/http/middleware"
	"github.com/moonchanyong/arom-server/internal/usecase"
	"github.com/moonchanyong/arom-server/pkg/httperr"
)

type AuthHandler struct {
	auth *usecase.AuthService
}

func NewAuthHandler(auth *usecase.AuthService) *AuthHandler { return &AuthHandler{auth: auth} }

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"pwd" form:"pwd"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" form:"refresh_token"`
}

type resetPasswordRequest struct {
	Email string `json:"email" form:"email"`
}

type loginResponse struct {
	Result bool `json:"result"`
	*usecase.LoginResult
}

type refreshResponse struct {
	Result bool `json:"result"`
	*usecase.TokenPair
}

func (h *AuthHandler) Signup(c echo.Context) error {
	input := new(usecase.SignupInput)
	if err := c.Bind(input); err != nil {
		return httperr.BadRequest("invalid payload")
	}
	opts := usecase.SignupOptions{ValidatePassword: true}
	if err := h.auth.Signup(c.Request().Context(), *input, opts); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"result": true})
}

func (h *AuthHandler) Login(c echo.Context) error {
	req := new(loginRequest)
	if err := c.Bind(req); err != nil {
		return httperr.BadRequest("invalid payload")
	}
	result, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, loginResponse{Result: true, LoginResult: result})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.auth.Logout(c.Request().Context(), middleware.Caller(c)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"result": true})
}

// Refresh reissues the pair. The expired auth token rides in the
// Authorization header as usual; only the refresh token is in the body.
func (h *AuthHandler) Refresh(c echo.Context) error {
	req := new(refreshRequest)
	if err := c.Bind(req); err != nil {
		return httperr.BadRequest("invalid payload")
	}
	authToken := c.Request().Header.Get(echo.HeaderAuthorization)
	pair, err := h.auth.Refresh(c.Request().Context(), authToken, req.RefreshToken)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, refreshResponse{Result: true, TokenPair: pair})
}

// TokenValidate has no body of its own; reaching it means the auth
// middleware accepted the token.
func (h *AuthHandler) TokenValidate(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"result": true})
}

func (h *AuthHandler) GetUserInfo(c echo.Context) error {
	info, err := h.auth.UserInfo(c.Request().Context(), middleware.Caller(c), c.QueryParam("user_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"user_info": info})
}

func (h *AuthHandler) PutUserInfo(c echo.Context) error {
	input := new(usecase.UpdateUserInput)
	if err := c.Bind(input); err != nil {
		return httperr.BadRequest("invalid payload")
	}
	info, err := h.auth.UpdateUserInfo(c.Request().Context(), middleware.Caller(c), *input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"user_info": info})
}

func (h *AuthHandler) ResetPassword(c echo.Context) error {
	req := new(resetPasswordRequest)
	if err := c.Bind(req); err != nil {
		return httperr.BadRequest("invalid payload")
	}
	if err := h.auth.ResetPassword(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"result": true})
}

func (h *AuthHandler) UserExists(c echo.Context) error {
	exists, err := h.auth.Exists(c.Request().Context(), c.QueryParam("email"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"exists": exists})
}
