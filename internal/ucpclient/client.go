// Package ucpclient предоставляет клиент платформы для API магазина UCP.
package ucpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mmeshcher/ucp-checkout/internal/model"
)

// APIError описывает ответ магазина с кодом ошибки.
type APIError struct {
	StatusCode int
	RetryAfter time.Duration
	Messages   []model.Message
}

func (e *APIError) Error() string {
	if len(e.Messages) > 0 {
		return fmt.Sprintf("ucp api: status %d: %s: %s", e.StatusCode, e.Messages[0].Code, e.Messages[0].Content)
	}
	return fmt.Sprintf("ucp api: status %d", e.StatusCode)
}

// Client инкапсулирует HTTP-взаимодействие платформы с магазином.
type Client struct {
	baseURL    string
	httpClient *http.Client
	agent      string
}

// NewClient создаёт HTTP-клиент для обращения к магазину по указанному адресу.
func NewClient(baseURL string) *Client {
	base := strings.TrimRight(baseURL, "/")
	if base != "" && !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}

	return &Client{
		baseURL: base,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
		agent: `profile="https://platform.example/profile"`,
	}
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	if c == nil || c.baseURL == "" {
		return fmt.Errorf("ucp client not configured")
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("UCP-Agent", c.agent)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	if v := resp.Header.Get("Retry-After"); v != "" {
		if seconds, parseErr := strconv.Atoi(v); parseErr == nil {
			apiErr.RetryAfter = time.Duration(seconds) * time.Second
		}
	}

	var body struct {
		Messages []model.Message `json:"messages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		apiErr.Messages = body.Messages
	}

	return apiErr
}

// Discover загружает профиль магазина из /.well-known/ucp.
func (c *Client) Discover(ctx context.Context) (*model.Profile, error) {
	var p model.Profile
	if err := c.do(ctx, http.MethodGet, "/.well-known/ucp", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Products возвращает каталог магазина.
func (c *Client) Products(ctx context.Context) ([]model.Item, error) {
	var list model.ProductList
	if err := c.do(ctx, http.MethodGet, "/api/v1/products", nil, &list); err != nil {
		return nil, err
	}
	return list.Products, nil
}

// CreateCheckout создаёт сессию оформления заказа.
func (c *Client) CreateCheckout(ctx context.Context, req model.CheckoutRequest) (*model.CheckoutView, error) {
	var v model.CheckoutView
	if err := c.do(ctx, http.MethodPost, "/api/v1/checkout-sessions", req, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// GetCheckout возвращает состояние сессии.
func (c *Client) GetCheckout(ctx context.Context, id string) (*model.CheckoutView, error) {
	var v model.CheckoutView
	if err := c.do(ctx, http.MethodGet, sessionPath(id), nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// UpdateCheckout отправляет полное новое состояние сессии.
func (c *Client) UpdateCheckout(ctx context.Context, id string, req model.CheckoutRequest) (*model.CheckoutView, error) {
	var v model.CheckoutView
	if err := c.do(ctx, http.MethodPut, sessionPath(id), req, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// CompleteCheckout завершает сессию с платёжными данными.
func (c *Client) CompleteCheckout(ctx context.Context, id string, payment *model.Payment) (*model.CheckoutView, error) {
	var v model.CheckoutView
	if err := c.do(ctx, http.MethodPost, sessionPath(id)+"/complete", model.CompleteRequest{Payment: payment}, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// CancelCheckout отменяет сессию.
func (c *Client) CancelCheckout(ctx context.Context, id string) (*model.CheckoutView, error) {
	var v model.CheckoutView
	if err := c.do(ctx, http.MethodPost, sessionPath(id)+"/cancel", nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Tokenize получает платёжный токен у тестового токенизатора.
func (c *Client) Tokenize(ctx context.Context, req model.TokenizeRequest) (*model.TokenizeResponse, error) {
	var resp model.TokenizeResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/tokenize", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func sessionPath(id string) string {
	return "/api/v1/checkout-sessions/" + url.PathEscape(id)
}
