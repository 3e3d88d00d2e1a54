package client

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWebhookURL = "https://n8n.example.test/webhook/invoke"

func setupHTTPMock(t *testing.T) {
	t.Helper()
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)
}

func TestRAGClient_InvokeSendsChatInput(t *testing.T) {
	setupHTTPMock(t)

	httpmock.RegisterResponder(http.MethodPost, testWebhookURL,
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "Bearer secret-key", req.Header.Get("Authorization"))
			assert.Equal(t, "application/json", req.Header.Get("Content-Type"))

			var body map[string]any
			require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
			assert.Equal(t, map[string]any{"chatInput": "주문증거금"}, body)

			return httpmock.NewJsonResponse(http.StatusOK, map[string]any{"output": "orderMargin"})
		})

	c := NewRAGClient(testWebhookURL, "secret-key", time.Second)
	data, err := c.Invoke(context.Background(), "주문증거금")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"output": "orderMargin"}, data)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestRAGClient_NoAuthorizationWithoutKey(t *testing.T) {
	setupHTTPMock(t)

	httpmock.RegisterResponder(http.MethodPost, testWebhookURL,
		func(req *http.Request) (*http.Response, error) {
			assert.Empty(t, req.Header.Get("Authorization"))
			return httpmock.NewStringResponse(http.StatusOK, `"orderMargin"`), nil
		})

	c := NewRAGClient(testWebhookURL, "", time.Second)
	data, err := c.Invoke(context.Background(), "주문")
	require.NoError(t, err)
	assert.Equal(t, "orderMargin", data)
}

func TestRAGClient_NonSuccessStatus(t *testing.T) {
	setupHTTPMock(t)

	httpmock.RegisterResponder(http.MethodPost, testWebhookURL,
		httpmock.NewStringResponder(http.StatusBadGateway, "upstream down"))

	c := NewRAGClient(testWebhookURL, "", time.Second)
	_, err := c.Invoke(context.Background(), "주문")
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
	assert.Equal(t, "upstream down", statusErr.Body)
}

func TestRAGClient_InvalidJSON(t *testing.T) {
	setupHTTPMock(t)

	httpmock.RegisterResponder(http.MethodPost, testWebhookURL,
		httpmock.NewStringResponder(http.StatusOK, "<html>not json</html>"))

	c := NewRAGClient(testWebhookURL, "", time.Second)
	_, err := c.Invoke(context.Background(), "주문")
	assert.ErrorContains(t, err, "decode webhook response")
}

func TestRAGClient_RateLimitedWaitHonorsContext(t *testing.T) {
	setupHTTPMock(t)

	httpmock.RegisterResponder(http.MethodPost, testWebhookURL,
		httpmock.NewStringResponder(http.StatusOK, `"orderMargin"`))

	c := NewRAGClient(testWebhookURL, "", time.Second).WithRateLimit(0.001, 1)

	_, err := c.Invoke(context.Background(), "주문")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.Invoke(ctx, "주문")
	assert.ErrorContains(t, err, "webhook rate limiter")
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}
