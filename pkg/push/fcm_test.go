package push

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/rkive250/MedNotify/config"
)

func newTestTransport(t *testing.T, handler http.HandlerFunc) *FCMTransport {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.PushConfig{ProjectID: "whs-test", BaseURL: srv.URL}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test-access-token"})
	return NewFCMTransport(cfg, ts, zap.NewNop())
}

func TestFCMTransport_Delivered(t *testing.T) {
	var got fcmRequest
	tr := newTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/projects/whs-test/messages:send", r.URL.Path)
		assert.Equal(t, "Bearer test-access-token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"projects/whs-test/messages/1"}`))
	})

	res, err := tr.Send(context.Background(), "device-1", Message{
		Title: "WHS Medicine - Confirmar Eliminación",
		Body:  "Confirma la eliminación",
		Data:  map[string]string{"delete_request_id": "abc"},
	})

	require.NoError(t, err)
	assert.Equal(t, Delivered, res)
	assert.Equal(t, "device-1", got.Message.Token)
	assert.Equal(t, "high", got.Message.Android.Priority)
	assert.Equal(t, "abc", got.Message.Data["delete_request_id"])
}

func TestFCMTransport_Unregistered(t *testing.T) {
	tr := newTestTransport(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":404,"message":"Requested entity was not found.","status":"NOT_FOUND",
			"details":[{"@type":"type.googleapis.com/google.firebase.fcm.v1.FcmError","errorCode":"UNREGISTERED"}]}}`))
	})

	res, err := tr.Send(context.Background(), "stale", Message{Title: "t", Body: "b"})

	assert.Error(t, err)
	assert.Equal(t, InvalidToken, res)
}

func TestFCMTransport_InvalidArgument(t *testing.T) {
	tr := newTestTransport(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"The registration token is not a valid FCM registration token","status":"INVALID_ARGUMENT"}}`))
	})

	res, _ := tr.Send(context.Background(), "garbage", Message{Title: "t", Body: "b"})
	assert.Equal(t, InvalidToken, res)
}

func TestFCMTransport_ServerError(t *testing.T) {
	tr := newTestTransport(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"code":503,"message":"busy","status":"UNAVAILABLE"}}`))
	})

	res, err := tr.Send(context.Background(), "device-1", Message{Title: "t", Body: "b"})

	assert.Error(t, err)
	assert.Equal(t, TransientError, res)
}

func TestDisabledTransport(t *testing.T) {
	tr := NewDisabledTransport(zap.NewNop())

	res, err := tr.Send(context.Background(), "device-1", Message{Title: "t"})

	assert.ErrorIs(t, err, ErrDisabled)
	assert.Equal(t, TransientError, res)
}

func TestResultString(t *testing.T) {
	assert.Equal(t, "delivered", Delivered.String())
	assert.Equal(t, "invalid_token", InvalidToken.String())
	assert.Equal(t, "transient_error", TransientError.String())
}
