package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/moonchanyong/arom-server/internal/usecase"
	"github.com/moonchanyong/arom-server/pkg/httperr"
)

// OAuthHandler serves one provider's login and signup routes. The provider
// token field keeps its legacy name, "<provider>_auth_token".
type OAuthHandler struct {
	service  *usecase.OAuthService
	verifier usecase.IdentityVerifier
}

func NewOAuthHandler(service *usecase.OAuthService, verifier usecase.IdentityVerifier) *OAuthHandler {
	return &OAuthHandler{service: service, verifier: verifier}
}

type oauthSignupRequest struct {
	usecase.SignupInput
	KakaoToken    string `json:"kakao_auth_token" form:"kakao_auth_token"`
	FacebookToken string `json:"facebook_auth_token" form:"facebook_auth_token"`
}

func (r *oauthSignupRequest) token(provider string) string {
	if provider == "facebook" {
		return r.FacebookToken
	}
	return r.KakaoToken
}

func (h *OAuthHandler) Login(c echo.Context) error {
	req := new(oauthSignupRequest)
	if err := c.Bind(req); err != nil {
		return httperr.BadRequest("invalid payload")
	}
	pair, err := h.service.Login(c.Request().Context(), h.verifier, req.token(h.verifier.Name()))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, refreshResponse{Result: true, TokenPair: pair})
}

func (h *OAuthHandler) Signup(c echo.Context) error {
	req := new(oauthSignupRequest)
	if err := c.Bind(req); err != nil {
		return httperr.BadRequest("invalid payload")
	}
	if err := h.service.Signup(c.Request().Context(), h.verifier, req.token(h.verifier.Name()), req.SignupInput); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"result": true})
}
