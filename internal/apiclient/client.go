// Пакет apiclient — HTTP-клиент backend REST API Assurance Connect.
// Все бизнес-операции портала делегируются backend: клиент добавляет
// bearer-токен к запросам, перехватывает ограничение частоты (429)
// и декодирует типизированные ответы.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// APIError — ошибка backend с HTTP-статусом и сообщением из тела ответа.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend вернул статус %d: %s", e.Status, e.Message)
}

// Client — клиент backend REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// New создаёт клиент backend API.
// baseURL — адрес backend без завершающего слеша.
// tokens может быть nil: тогда все запросы уходят без авторизации.
func New(baseURL string, timeout time.Duration, tokens TokenSource, logger *slog.Logger) *Client {
	transport := &rateLimitTransport{
		base: &authTransport{
			base:   http.DefaultTransport,
			tokens: tokens,
		},
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		logger: logger.With(slog.String("component", "api_client")),
	}
}

// BaseURL возвращает адрес backend (для dephealth-проверок).
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do выполняет запрос к backend: path — путь от корня ("/api/..."),
// body (не nil) сериализуется в JSON, ответ 2xx декодируется в out (не nil).
// Не-2xx превращается в *APIError, 429 приходит как ErrRateLimited из транспорта.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("сериализация тела запроса %s %s: %w", method, path, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return fmt.Errorf("создание запроса %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("запрос %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.decodeError(resp, method, path)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("декодирование ответа %s %s: %w", method, path, err)
		}
	}
	return nil
}

// decodeError извлекает сообщение об ошибке из тела ответа backend.
// Backend отдаёт {"error": ...} либо {"message": ...}; если тело не
// разбирается — используем его как есть.
func (c *Client) decodeError(resp *http.Response, method, path string) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	message := strings.TrimSpace(string(body))
	var parsed struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		switch {
		case parsed.Error != "":
			message = parsed.Error
		case parsed.Message != "":
			message = parsed.Message
		}
	}

	c.logger.Debug("Ошибка backend",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
	)

	return &APIError{Status: resp.StatusCode, Message: message}
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, query url.Values, body, out any) error {
	return c.do(ctx, http.MethodPost, path, query, body, out)
}

func (c *Client) put(ctx context.Context, path string, query url.Values, body, out any) error {
	return c.do(ctx, http.MethodPut, path, query, body, out)
}

func (c *Client) delete(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodDelete, path, query, nil, out)
}
