package apiclient

import (
	"errors"
	"io"
	"net/http"
)

// TokenSource возвращает bearer-токен текущей сессии.
// Пустая строка — токена нет, запрос уходит без авторизации.
type TokenSource interface {
	Token() string
}

// ErrRateLimited — backend ответил 429 Too Many Requests.
// Единая реакция для всех вызовов: UI перенаправляет на страницу /portal/429.
var ErrRateLimited = errors.New("backend ограничил частоту запросов")

// authTransport добавляет заголовок Authorization: Bearer к каждому запросу,
// если источник токена его предоставил. Отсутствие токена запрос не ломает.
type authTransport struct {
	base   http.RoundTripper
	tokens TokenSource
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.tokens != nil {
		if token := t.tokens.Token(); token != "" {
			// RoundTripper не должен модифицировать оригинальный запрос
			req = req.Clone(req.Context())
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return t.base.RoundTrip(req)
}

// rateLimitTransport перехватывает ответы 429 и превращает их в ErrRateLimited,
// чтобы каждая точка вызова реагировала одинаково.
type rateLimitTransport struct {
	base http.RoundTripper
}

func (t *rateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		// Тело дочитываем, чтобы соединение вернулось в пул
		io.Copy(io.Discard, resp.Body) //nolint:errcheck
		resp.Body.Close()
		return nil, ErrRateLimited
	}
	return resp, nil
}
