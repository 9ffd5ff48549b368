// api.go - HTTP transport for the client services

// Package client is the caller-side service layer: it caches each collection
// in memory and persists every mutation by resubmitting the whole collection.
package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Transport moves JSON and static assets between the services and the server.
type Transport interface {
	GetJSON(ctx context.Context, path string, out any) error
	PostJSON(ctx context.Context, path string, body, out any) error
	GetText(ctx context.Context, path string) (string, error)
}

// HTTPError is returned for non-2xx responses.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("http %d", e.Status)
	}
	return fmt.Sprintf("http %d: %s", e.Status, e.Message)
}

// StatusCode extracts the HTTP status from err, or 0.
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status
	}
	return 0
}

type errorBody struct {
	Error string `json:"error"`
}

// APIClient implements Transport over resty.
type APIClient struct {
	api    *resty.Client
	static *resty.Client
}

// NewAPIClient talks to the API at baseURL. Static assets come from
// staticURL, or from baseURL when staticURL is empty.
func NewAPIClient(baseURL, staticURL string, timeout time.Duration) *APIClient {
	if staticURL == "" {
		staticURL = baseURL
	}
	return &APIClient{
		api: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json"),
		static: resty.New().
			SetBaseURL(strings.TrimRight(staticURL, "/")).
			SetTimeout(timeout),
	}
}

// SetToken sends token as a bearer credential on every API call.
// An empty token stops sending credentials.
func (a *APIClient) SetToken(token string) {
	a.api.SetAuthToken(token)
}

func (a *APIClient) GetJSON(ctx context.Context, path string, out any) error {
	resp, err := a.api.R().
		SetContext(ctx).
		SetResult(out).
		SetError(&errorBody{}).
		Get(path)
	return checkResponse(resp, err)
}

func (a *APIClient) PostJSON(ctx context.Context, path string, body, out any) error {
	req := a.api.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetError(&errorBody{})
	if out != nil {
		req.SetResult(out)
	}
	resp, err := req.Post(path)
	return checkResponse(resp, err)
}

func (a *APIClient) GetText(ctx context.Context, path string) (string, error) {
	resp, err := a.static.R().SetContext(ctx).Get(path)
	if err := checkResponse(resp, err); err != nil {
		return "", err
	}
	return resp.String(), nil
}

func checkResponse(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if !resp.IsError() {
		return nil
	}
	httpErr := &HTTPError{Status: resp.StatusCode()}
	if body, ok := resp.Error().(*errorBody); ok && body != nil {
		httpErr.Message = body.Error
	}
	return httpErr
}
