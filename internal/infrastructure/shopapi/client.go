package shopapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mobileshop/backend/internal/domain/shared"
)

// maxResponseSize limits the response body size to prevent memory exhaustion
const maxResponseSize = 10 * 1024 * 1024 // 10MB max response

// baseClient is the shared HTTP plumbing for every storefront collaborator.
// Deadlines are the caller's responsibility via ctx; the embedded timeout is a
// safety net only. Failures are classified into the pipeline taxonomy:
// deadline exhaustion becomes TimeoutError, a server response with an error
// status becomes ServiceError, and everything else at the transport level
// becomes NetworkError.
type baseClient struct {
	baseURL    string
	httpClient *http.Client
}

func newBaseClient(baseURL string, httpClient *http.Client) baseClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return baseClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// doRequest issues one HTTP request and returns the raw response body.
// op names the logical operation ("cart.fetch", "order.create") and is carried
// on every error for diagnosability.
func (c *baseClient) doRequest(ctx context.Context, op, method, path, token string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to marshal request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create request: %w", op, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, shared.NewTimeoutError(op)
		}
		return nil, shared.NewNetworkError(op, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, shared.NewTimeoutError(op)
		}
		return nil, shared.NewNetworkError(op, err)
	}

	if resp.StatusCode >= 400 {
		return nil, shared.NewServiceError(op, resp.StatusCode, serverMessage(respBody))
	}

	return respBody, nil
}

// doJSON issues a request and decodes the response body into out when out is
// non-nil.
func (c *baseClient) doJSON(ctx context.Context, op, method, path, token string, body, out any) error {
	respBody, err := c.doRequest(ctx, op, method, path, token, body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%s: failed to parse response: %w", op, err)
	}
	return nil
}

// serverMessage extracts the server's own message from an error body, falling
// back to a trimmed raw snippet.
func serverMessage(body []byte) string {
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Message != "" {
			return envelope.Message
		}
		if envelope.Error != "" {
			return envelope.Error
		}
	}
	snippet := strings.TrimSpace(string(body))
	if len(snippet) > 200 {
		snippet = snippet[:200]
	}
	return snippet
}
