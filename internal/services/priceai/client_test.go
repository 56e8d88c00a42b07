package priceai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimate(t *testing.T) {
	t.Run("успешный ответ разбирается в оценку", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/estimate", r.URL.Path)
			assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

			var req EstimateRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "Детская коляска", req.Name)

			json.NewEncoder(w).Encode(map[string]any{
				"price":    "4500",
				"currency": "RUB",
			})
		}))
		defer server.Close()

		client := NewClient(server.URL, "test-token")
		result, err := client.Estimate(context.Background(), EstimateRequest{Name: "Детская коляска"})
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(4500).Equal(result.Price))
		assert.Equal(t, "RUB", result.Currency)
	})

	t.Run("ошибки 5xx повторяются до успеха", func(t *testing.T) {
		calls := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			if calls < 3 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			json.NewEncoder(w).Encode(map[string]any{"price": "1000"})
		}))
		defer server.Close()

		client := NewClient(server.URL, "test-token")
		client.retryDelay = time.Millisecond
		result, err := client.Estimate(context.Background(), EstimateRequest{Name: "Самокат"})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
		assert.True(t, decimal.NewFromInt(1000).Equal(result.Price))
	})

	t.Run("ошибка 4xx не повторяется", func(t *testing.T) {
		calls := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		client := NewClient(server.URL, "bad-token")
		_, err := client.Estimate(context.Background(), EstimateRequest{Name: "Самокат"})
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("после трех неудачных попыток возвращается ошибка", func(t *testing.T) {
		calls := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := NewClient(server.URL, "test-token")
		client.retryDelay = time.Millisecond
		_, err := client.Estimate(context.Background(), EstimateRequest{Name: "Самокат"})
		require.Error(t, err)
		assert.Equal(t, 3, calls)
	})
}
