package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// HTTPClient matches the subset of http.Client used by HTTPProvider.
type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// HTTPProvider implements Provider against the backend auth API.
type HTTPProvider struct {
	base   *url.URL
	client HTTPClient
}

// NewHTTPProvider constructs a Provider that posts credentials to {baseURL}/auth/login.
func NewHTTPProvider(baseURL string, client HTTPClient) (*HTTPProvider, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("identity: base URL is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("identity: parse base URL: %w", err)
	}
	if !strings.HasSuffix(parsed.Path, "/") {
		parsed.Path += "/"
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPProvider{base: parsed, client: client}, nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login posts the credentials and decodes the issued identity.
func (p *HTTPProvider) Login(ctx context.Context, email, password string) (*Identity, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(loginRequest{Email: email, Password: password}); err != nil {
		return nil, fmt.Errorf("identity: encode payload: %w", err)
	}

	endpoint := p.base.ResolveReference(&url.URL{Path: "auth/login"})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), &buf)
	if err != nil {
		return nil, fmt.Errorf("identity: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errorFromResponse(resp)
	}

	var payload Identity
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("identity: decode login response: %w", err)
	}
	if strings.TrimSpace(payload.Token) == "" {
		return nil, errors.New("identity: login response missing token")
	}
	if payload.User.Email == "" {
		payload.User.Email = strings.TrimSpace(email)
	}
	return &payload, nil
}

func errorFromResponse(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	type errorPayload struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	apiErr := &APIError{Status: resp.StatusCode}
	var payload errorPayload
	if len(body) > 0 {
		if err := json.Unmarshal(body, &payload); err == nil {
			apiErr.Code = strings.TrimSpace(payload.Code)
			apiErr.Message = strings.TrimSpace(payload.Message)
		}
	}
	if apiErr.Message == "" && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
		apiErr.Message = InvalidCredentialsMessage
	}
	return apiErr
}
