package push

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/rkive250/MedNotify/config"
)

const fcmScope = "https://www.googleapis.com/auth/firebase.messaging"

// FCM error codes that mean the token will never work again.
var fcmInvalidTokenCodes = map[string]bool{
	"UNREGISTERED":       true,
	"INVALID_ARGUMENT":   true,
	"SENDER_ID_MISMATCH": true,
}

type fcmRequest struct {
	Message fcmMessage `json:"message"`
}

type fcmMessage struct {
	Token        string            `json:"token"`
	Notification fcmNotification   `json:"notification"`
	Android      fcmAndroid        `json:"android"`
	Data         map[string]string `json:"data,omitempty"`
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type fcmAndroid struct {
	Priority string `json:"priority"`
}

type fcmErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
		Details []struct {
			Type      string `json:"@type"`
			ErrorCode string `json:"errorCode"`
		} `json:"details"`
	} `json:"error"`
}

// errorCode returns the FCM-specific code if the response carries one,
// otherwise the canonical status.
func (r *fcmErrorResponse) errorCode() string {
	for _, d := range r.Error.Details {
		if d.ErrorCode != "" {
			return d.ErrorCode
		}
	}
	return r.Error.Status
}

// FCMTransport sends messages through the Firebase Cloud Messaging HTTP v1 API.
type FCMTransport struct {
	httpClient  *resty.Client
	tokenSource oauth2.TokenSource
	projectID   string
	logger      *zap.Logger
}

// NewFCMTransport creates an FCM transport authenticated by ts.
func NewFCMTransport(cfg *config.PushConfig, ts oauth2.TokenSource, logger *zap.Logger) *FCMTransport {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &FCMTransport{
		httpClient:  client,
		tokenSource: ts,
		projectID:   cfg.ProjectID,
		logger:      logger,
	}
}

// NewFCMTransportFromFile loads a service account key and creates the transport.
func NewFCMTransportFromFile(ctx context.Context, cfg *config.PushConfig, logger *zap.Logger) (*FCMTransport, error) {
	data, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read push credentials: %w", err)
	}

	creds, err := google.CredentialsFromJSON(ctx, data, fcmScope)
	if err != nil {
		return nil, fmt.Errorf("parse push credentials: %w", err)
	}

	return NewFCMTransport(cfg, creds.TokenSource, logger), nil
}

// Send delivers msg to token.
func (t *FCMTransport) Send(ctx context.Context, token string, msg Message) (Result, error) {
	accessToken, err := t.tokenSource.Token()
	if err != nil {
		return TransientError, fmt.Errorf("fetch fcm access token: %w", err)
	}

	body := fcmRequest{
		Message: fcmMessage{
			Token:        token,
			Notification: fcmNotification{Title: msg.Title, Body: msg.Body},
			Android:      fcmAndroid{Priority: "high"},
			Data:         msg.Data,
		},
	}

	var errResp fcmErrorResponse
	resp, err := t.httpClient.R().
		SetContext(ctx).
		SetAuthToken(accessToken.AccessToken).
		SetPathParam("project", t.projectID).
		SetBody(body).
		SetError(&errResp).
		Post("/v1/projects/{project}/messages:send")
	if err != nil {
		return TransientError, fmt.Errorf("call fcm: %w", err)
	}

	if resp.IsSuccess() {
		return Delivered, nil
	}

	code := errResp.errorCode()
	t.logger.Debug("fcm rejected message",
		zap.Int("status_code", resp.StatusCode()),
		zap.String("error_code", code),
		zap.String("error", errResp.Error.Message),
	)

	if resp.StatusCode() == http.StatusNotFound || fcmInvalidTokenCodes[code] {
		return InvalidToken, fmt.Errorf("fcm: %s (%s)", code, errResp.Error.Message)
	}
	return TransientError, fmt.Errorf("fcm: http %d %s", resp.StatusCode(), code)
}
