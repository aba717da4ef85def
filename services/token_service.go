package services

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// TokenTTL is how long an issued tenant token is trusted before refreshing
const TokenTTL = 7000 * time.Second

// HTTPDoer is the subset of *http.Client used for upstream calls
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// TokenService caches the tenant access token for the configured app.
// Overlapping refreshes are harmless; the mutex only protects the two fields.
type TokenService struct {
	BaseURL   string
	AppID     string
	AppSecret string
	Client    HTTPDoer
	Now       func() time.Time

	mu     sync.Mutex
	token  string
	expiry time.Time
}

// NewTokenService creates a token cache for the given app credentials
func NewTokenService(baseURL, appID, appSecret string, client HTTPDoer) *TokenService {
	return &TokenService{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		AppID:     appID,
		AppSecret: appSecret,
		Client:    client,
		Now:       time.Now,
	}
}

type tenantTokenResponse struct {
	Code              int    `json:"code"`
	Msg               string `json:"msg"`
	TenantAccessToken string `json:"tenant_access_token"`
	Expire            int    `json:"expire"`
}

// GetToken returns the cached token, fetching a new one once it has expired
func (ts *TokenService) GetToken(ctx context.Context) (string, error) {
	ts.mu.Lock()
	if ts.token != "" && ts.Now().Before(ts.expiry) {
		token := ts.token
		ts.mu.Unlock()
		return token, nil
	}
	ts.mu.Unlock()

	issuedAt := ts.Now()
	token, err := ts.fetchToken(ctx)
	if err != nil {
		return "", asUpstream(err)
	}

	ts.mu.Lock()
	ts.token = token
	ts.expiry = issuedAt.Add(TokenTTL)
	ts.mu.Unlock()

	slog.Info("🔑 tenant access token refreshed", "expires_at", issuedAt.Add(TokenTTL).Format(time.RFC3339))
	return token, nil
}

func (ts *TokenService) fetchToken(ctx context.Context) (string, error) {
	body, err := json.Marshal(map[string]string{
		"app_id":     ts.AppID,
		"app_secret": ts.AppSecret,
	})
	if err != nil {
		return "", errors.Wrap(err, "encode token request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ts.BaseURL+"/auth/v3/tenant_access_token/internal", bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "build token request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := ts.Client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "request tenant token")
	}
	defer resp.Body.Close()

	var out tenantTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", errors.Wrapf(err, "decode tenant token response (status %d)", resp.StatusCode)
	}
	if out.Code != 0 {
		return "", errors.Errorf("tenant token request failed: code %d: %s", out.Code, out.Msg)
	}
	if out.TenantAccessToken == "" {
		return "", errors.New("tenant token response carried no token")
	}
	return out.TenantAccessToken, nil
}
