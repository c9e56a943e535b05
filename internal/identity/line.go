package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

const (
	lineVerifyURL  = "https://api.line.me/oauth2/v2.1/verify"
	lineProfileURL = "https://api.line.me/v2/profile"
)

type lineProvider struct {
	httpClient *http.Client
	channelID  string
	logger     *zap.Logger
}

// NewLineProvider verifies LINE access tokens against the official
// verify endpoint and resolves the platform profile.
func NewLineProvider(channelID string, logger ...*zap.Logger) Provider {
	l := zap.L().Named("identity.line")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("identity.line")
	}
	return &lineProvider{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		channelID:  channelID,
		logger:     l,
	}
}

type lineVerifyResponse struct {
	ClientID  string `json:"client_id"`
	ExpiresIn int64  `json:"expires_in"`
}

type lineProfileResponse struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

func (p *lineProvider) Verify(ctx context.Context, accessToken string) (Profile, error) {
	verifyURL := lineVerifyURL + "?access_token=" + url.QueryEscape(accessToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, verifyURL, nil)
	if err != nil {
		return Profile{}, err
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return Profile{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		p.logger.Warn("token verification rejected", zap.Int("status", resp.StatusCode))
		return Profile{}, fmt.Errorf("token verification failed with status %d", resp.StatusCode)
	}

	var verify lineVerifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&verify); err != nil {
		return Profile{}, err
	}
	if p.channelID != "" && verify.ClientID != p.channelID {
		p.logger.Warn("token issued for unexpected channel", zap.String("client_id", verify.ClientID))
		return Profile{}, fmt.Errorf("token issued for unexpected channel")
	}
	if verify.ExpiresIn <= 0 {
		return Profile{}, fmt.Errorf("token expired")
	}

	return p.fetchProfile(ctx, accessToken)
}

func (p *lineProvider) fetchProfile(ctx context.Context, accessToken string) (Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lineProfileURL, nil)
	if err != nil {
		return Profile{}, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return Profile{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Profile{}, fmt.Errorf("profile fetch failed with status %d", resp.StatusCode)
	}

	var profile lineProfileResponse
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return Profile{}, err
	}
	if profile.UserID == "" {
		return Profile{}, fmt.Errorf("profile response missing user id")
	}

	return Profile{UserID: profile.UserID, DisplayName: profile.DisplayName}, nil
}
