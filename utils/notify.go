package authUtils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

var smsClient = &http.Client{Timeout: 10 * time.Second}

// SendSMS delivers a text message through the configured SMS gateway.
// The gateway expects a JSON body {"to": ..., "message": ...} with a bearer
// key. Callers treat failures as non-fatal; this function only reports them.
func SendSMS(ctx context.Context, to string, message string) error {
	apiURL := os.Getenv("SMS_API_URL")
	if apiURL == "" {
		return fmt.Errorf("SMS_API_URL environment variable is not set")
	}

	payload, err := json.Marshal(map[string]string{
		"to":      to,
		"message": message,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey := os.Getenv("SMS_API_KEY"); apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	resp, err := smsClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sms gateway returned %d: %s", resp.StatusCode, body)
	}

	return nil
}
