package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// APIError is a non-2xx response from the gateway.
type APIError struct {
	HTTPStatus int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("gateway returned HTTP %d", e.HTTPStatus)
}

var httpClient = &http.Client{Timeout: 60 * time.Second}

type loginResult struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

type tableResult struct {
	Table    string          `json:"table"`
	Columns  []string        `json:"columns"`
	Rows     [][]interface{} `json:"rows"`
	RowCount int             `json:"row_count"`
}

type apiErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// login exchanges credentials for a session token.
func login(ctx context.Context, host, username, password string) (*loginResult, error) {
	body, err := json.Marshal(map[string]string{"username": username, "password": password})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, joinURL(host, "/v1/login"), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var result loginResult
	if err := do(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// fetchTable retrieves the configured table using a session token.
func fetchTable(ctx context.Context, host, token string) (*tableResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, joinURL(host, "/v1/table"), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	var result tableResult
	if err := do(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func do(req *http.Request, out interface{}) error {
	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiErrorBody
		if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Message != "" {
			return &APIError{HTTPStatus: resp.StatusCode, Message: apiErr.Message}
		}
		return &APIError{HTTPStatus: resp.StatusCode}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func joinURL(host, path string) string {
	return strings.TrimRight(host, "/") + path
}
