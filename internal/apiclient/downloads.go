package apiclient

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
)

// FileDownload — скачанный файл рапорта.
type FileDownload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// fetchFile выполняет GET и возвращает тело ответа как файл.
// Имя берётся из Content-Disposition, иначе — fallback.
func (c *Client) fetchFile(ctx context.Context, path string, query url.Values, fallbackName string) (*FileDownload, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("создание запроса GET %s: %w", path, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("запрос GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.decodeError(resp, http.MethodGet, path)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("чтение файла %s: %w", path, err)
	}

	filename := fallbackName
	if disposition := resp.Header.Get("Content-Disposition"); disposition != "" {
		if _, params, err := mime.ParseMediaType(disposition); err == nil {
			if name := params["filename"]; name != "" {
				filename = name
			}
		}
	}

	return &FileDownload{
		Filename:    filename,
		ContentType: resp.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// DownloadSecured скачивает файл рапорта по временному коду доступа.
// 403 — код недействителен или истёк, 404 — файла нет.
func (c *Client) DownloadSecured(ctx context.Context, reportID int64, requesterName, code string) (*FileDownload, error) {
	query := url.Values{
		"requesterName": {requesterName},
		"code":          {code},
	}
	return c.fetchFile(ctx, fmt.Sprintf("/api/download/%d", reportID), query,
		fmt.Sprintf("rapport_%d.bin", reportID))
}

// DownloadDemo скачивает файл рапорта без проверки кода (демо-режим).
func (c *Client) DownloadDemo(ctx context.Context, reportID int64, requesterName string) (*FileDownload, error) {
	query := url.Values{"requesterName": {requesterName}}
	return c.fetchFile(ctx, fmt.Sprintf("/api/download/demo/%d", reportID), query,
		fmt.Sprintf("rapport_%d.bin", reportID))
}

// DownloadPreview скачивает файл рапорта для предпросмотра.
func (c *Client) DownloadPreview(ctx context.Context, reportID int64) (*FileDownload, error) {
	return c.fetchFile(ctx, fmt.Sprintf("/api/download/preview/%d", reportID), nil,
		fmt.Sprintf("rapport_%d.bin", reportID))
}

// FilesWithAccessCodes возвращает файлы рапорта с их кодами доступа.
// Доступно только владельцу рапорта (403 иначе).
func (c *Client) FilesWithAccessCodes(ctx context.Context, reportID int64, requesterName string) ([]FileWithAccessCode, error) {
	query := url.Values{"requesterName": {requesterName}}
	var out []FileWithAccessCode
	if err := c.get(ctx, fmt.Sprintf("/api/download/files/%d", reportID), query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ValidateAccessCode проверяет временный код доступа к рапорту.
func (c *Client) ValidateAccessCode(ctx context.Context, reportID int64, code string) (*CodeValidation, error) {
	body := map[string]any{
		"reportId": reportID,
		"code":     code,
	}
	var out CodeValidation
	if err := c.post(ctx, "/api/download/validate-code", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CheckValidCode проверяет, есть ли у пользователя действующий код для рапорта.
func (c *Client) CheckValidCode(ctx context.Context, userID string, reportID int64) (*ValidCodeCheck, error) {
	var out ValidCodeCheck
	if err := c.get(ctx, fmt.Sprintf("/api/download/check-valid-code/%s/%d", url.PathEscape(userID), reportID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
