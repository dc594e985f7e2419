package authUtils_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	authUtils "grievance-portal-be/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendSMS_PostsPayloadToGateway(t *testing.T) {
	var got map[string]string
	var auth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	t.Setenv("SMS_API_URL", server.URL)
	t.Setenv("SMS_API_KEY", "test-key")

	err := authUtils.SendSMS(context.Background(), "+911234567890", "your grievance has been registered")

	require.NoError(t, err)
	assert.Equal(t, "Bearer test-key", auth)
	assert.Equal(t, "+911234567890", got["to"])
	assert.Equal(t, "your grievance has been registered", got["message"])
}

func TestSendSMS_GatewayErrorReported(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "balance exhausted", http.StatusPaymentRequired)
	}))
	defer server.Close()

	t.Setenv("SMS_API_URL", server.URL)

	err := authUtils.SendSMS(context.Background(), "+911234567890", "hello")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "402")
}

func TestSendSMS_MissingGatewayConfig(t *testing.T) {
	t.Setenv("SMS_API_URL", "")

	err := authUtils.SendSMS(context.Background(), "+911234567890", "hello")

	assert.Error(t, err)
}
