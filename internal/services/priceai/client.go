package priceai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

const (
	requestTimeout = 10 * time.Second
	maxAttempts    = 3
	retryDelay     = 2 * time.Second
)

// EstimateRequest описывает товар для оценки стоимости
type EstimateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	Condition   string `json:"condition,omitempty"`
}

// EstimateResponse содержит оценку стоимости товара
type EstimateResponse struct {
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency,omitempty"`
}

// Client выполняет запросы к внешнему сервису оценки стоимости
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	retryDelay time.Duration
}

// NewClient создает новый экземпляр Client
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		retryDelay: retryDelay,
	}
}

// Estimate запрашивает оценку стоимости товара.
// При сетевых ошибках и ответах 5xx запрос повторяется до трех раз
// с линейно растущей задержкой.
func (c *Client) Estimate(ctx context.Context, req EstimateRequest) (*EstimateResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации запроса оценки: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			delay := c.retryDelay * time.Duration(attempt-1)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		result, retryable, err := c.doEstimate(ctx, body)
		if err == nil {
			return result, nil
		}

		lastErr = err
		if !retryable {
			return nil, err
		}
	}

	return nil, fmt.Errorf("сервис оценки недоступен после %d попыток: %w", maxAttempts, lastErr)
}

func (c *Client) doEstimate(ctx context.Context, body []byte) (*EstimateResponse, bool, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/estimate", bytes.NewReader(body))
	if err != nil {
		return nil, false, err
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, true, fmt.Errorf("сервис оценки вернул статус %d", resp.StatusCode)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("сервис оценки вернул статус %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, err
	}

	var result EstimateResponse
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, false, fmt.Errorf("ошибка разбора ответа сервиса оценки: %w", err)
	}

	return &result, false, nil
}
