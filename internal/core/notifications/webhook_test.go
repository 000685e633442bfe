package notifications

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendWebhookSignsBody(t *testing.T) {
	const secret = "shh"

	var gotSignature string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSignature = r.Header.Get("X-Signature")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	payload := map[string]string{"event": "pix.transfer.completed", "transaction_id": "PIX123"}
	require.NoError(t, SendWebhook(srv.URL, payload, secret))

	expected, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, string(expected), string(gotBody))
	assert.Equal(t, Sign(gotBody, secret), gotSignature)
}

func TestSendWebhookRejectsNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := SendWebhook(srv.URL, map[string]string{"event": "x"}, "shh")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
