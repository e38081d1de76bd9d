package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/xavierca1/ligue-prospect/internal/entity"
)

var ErrInvalidToken = errors.New("token inválido ou expirado")

// Client valida access tokens no Supabase Auth.
type Client struct {
	baseURL string
	anonKey string
	http    *http.Client
}

func NewClient(baseURL, anonKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// ResolvePrincipal asks Supabase who owns the token. Every call hits the
// API; nothing is cached.
func (c *Client) ResolvePrincipal(ctx context.Context, token string) (entity.Principal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return entity.Principal{}, err
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return entity.Principal{}, fmt.Errorf("erro request supabase: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return entity.Principal{}, fmt.Errorf("erro lendo resposta supabase: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return entity.Principal{}, ErrInvalidToken
	case resp.StatusCode != http.StatusOK:
		var apiErr errorResponse
		_ = json.Unmarshal(body, &apiErr)
		return entity.Principal{}, fmt.Errorf("supabase status %d: %s", resp.StatusCode, apiErr.Message)
	}

	var user userResponse
	if err := json.Unmarshal(body, &user); err != nil {
		return entity.Principal{}, fmt.Errorf("erro decode supabase: %w", err)
	}
	if user.ID == "" {
		return entity.Principal{}, ErrInvalidToken
	}
	return entity.Principal{ID: user.ID, Email: user.Email}, nil
}
