package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const facebookProvider = "facebook"

type FacebookClient struct {
	baseURL   string
	appID     string
	appSecret string
	client    *http.Client
}

func NewFacebookClient(baseURL, appID, appSecret string) *FacebookClient {
	return &FacebookClient{
		baseURL:   baseURL,
		appID:     appID,
		appSecret: appSecret,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *FacebookClient) Name() string { return facebookProvider }

type facebookAppToken struct {
	AccessToken string `json:"access_token"`
}

type facebookDebugToken struct {
	Data struct {
		IsValid bool        `json:"is_valid"`
		AppID   json.Number `json:"app_id"`
		UserID  json.Number `json:"user_id"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *FacebookClient) VerifyLogin(ctx context.Context, token string) (*Identity, error) {
	return c.debugToken(ctx, token)
}

func (c *FacebookClient) VerifySignup(ctx context.Context, token string) (*Identity, error) {
	return c.debugToken(ctx, token)
}

// debugToken asks Facebook to introspect the user token using an app token
// obtained with client credentials, then checks the token belongs to us.
func (c *FacebookClient) debugToken(ctx context.Context, token string) (*Identity, error) {
	appTokenURL := fmt.Sprintf(
		"%s/oauth/access_token?client_id=%s&client_secret=%s&grant_type=client_credentials",
		c.baseURL, url.QueryEscape(c.appID), url.QueryEscape(c.appSecret))
	var appToken facebookAppToken
	if err := c.get(ctx, appTokenURL, &appToken); err != nil {
		return nil, err
	}

	debugURL := fmt.Sprintf("%s/debug_token/?input_token=%s&access_token=%s",
		c.baseURL, url.QueryEscape(token), url.QueryEscape(appToken.AccessToken))
	var debug facebookDebugToken
	if err := c.get(ctx, debugURL, &debug); err != nil {
		return nil, err
	}

	switch {
	case debug.Error != nil:
		return nil, &RejectedError{Provider: facebookProvider, Reason: debug.Error.Message}
	case !debug.Data.IsValid:
		return nil, &RejectedError{Provider: facebookProvider, Reason: "token is not valid"}
	case debug.Data.AppID.String() != c.appID:
		return nil, &RejectedError{Provider: facebookProvider, Reason: "token issued for another app"}
	}
	return &Identity{ID: debug.Data.UserID.String()}, nil
}

func (c *FacebookClient) get(ctx context.Context, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	res, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	return json.NewDecoder(res.Body).Decode(out)
}
