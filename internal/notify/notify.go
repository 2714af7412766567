package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/lead-scorer/internal/utils"
)

const (
	contentType    = "application/json"
	userAgent      = "spigell/lead-scorer"
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 512
)

// Sink delivers a text message to an external channel.
type Sink interface {
	Send(ctx context.Context, text string) error
}

// SlackWebhook posts messages to a Slack incoming webhook.
type SlackWebhook struct {
	URL        string
	HTTPClient *http.Client
	UserAgent  string
	logger     *zap.Logger
}

type slackMessage struct {
	Text string `json:"text"`
}

func NewSlackWebhook(webhookURL string, timeout time.Duration, logger *zap.Logger) (*SlackWebhook, error) {
	webhookURL = strings.TrimSpace(webhookURL)
	if webhookURL == "" {
		return nil, errors.New("slack webhook url is required")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &SlackWebhook{
		URL:        webhookURL,
		HTTPClient: &http.Client{Timeout: timeout},
		UserAgent:  userAgent,
		logger:     logger,
	}, nil
}

func (s *SlackWebhook) Send(ctx context.Context, text string) error {
	body, err := json.Marshal(slackMessage{Text: text})
	if err != nil {
		return fmt.Errorf("marshal slack message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build slack request: %w", withoutURL(err))
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("User-Agent", s.UserAgent)

	s.logger.Debug("posting to slack webhook", zap.Int("message_length", len(text)))

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("post to slack webhook: %w", withoutURL(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("slack webhook: bad status: %s: %s", resp.Status, utils.Preview(string(data), maxErrorBody))
	}

	return nil
}

// withoutURL drops the webhook URL from transport errors. The URL carries the
// webhook token.
func withoutURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s: %w", urlErr.Op, urlErr.Err)
	}
	return err
}
