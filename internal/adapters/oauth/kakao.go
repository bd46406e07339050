package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const kakaoProvider = "kakao"

type KakaoClient struct {
	baseURL string
	client  *http.Client
}

func NewKakaoClient(baseURL string) *KakaoClient {
	return &KakaoClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *KakaoClient) Name() string { return kakaoProvider }

type kakaoTokenInfo struct {
	ID   json.Number `json:"id"`
	Code *int        `json:"code"`
	Msg  string      `json:"msg"`
}

type kakaoUserInfo struct {
	ID         json.Number `json:"id"`
	Code       *int        `json:"code"`
	Msg        string      `json:"msg"`
	Properties struct {
		Nickname       string `json:"nickname"`
		ProfileImage   string `json:"profile_image"`
		ThumbnailImage string `json:"thumbnail_image"`
	} `json:"properties"`
}

// VerifyLogin introspects the token without pulling profile data.
func (c *KakaoClient) VerifyLogin(ctx context.Context, token string) (*Identity, error) {
	var info kakaoTokenInfo
	if err := c.get(ctx, "/user/access_token_info", token, &info); err != nil {
		return nil, err
	}
	if info.Code != nil {
		return nil, &RejectedError{Provider: kakaoProvider, Reason: info.Msg}
	}
	return &Identity{ID: info.ID.String()}, nil
}

// VerifySignup fetches the full profile so signup can record it.
func (c *KakaoClient) VerifySignup(ctx context.Context, token string) (*Identity, error) {
	var info kakaoUserInfo
	if err := c.get(ctx, "/user/me", token, &info); err != nil {
		return nil, err
	}
	if info.Code != nil {
		return nil, &RejectedError{Provider: kakaoProvider, Reason: info.Msg}
	}
	return &Identity{
		ID:             info.ID.String(),
		Nickname:       info.Properties.Nickname,
		ProfileImage:   info.Properties.ProfileImage,
		ThumbnailImage: info.Properties.ThumbnailImage,
	}, nil
}

func (c *KakaoClient) get(ctx context.Context, path, token string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))

	res, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	return json.NewDecoder(res.Body).Decode(out)
}
