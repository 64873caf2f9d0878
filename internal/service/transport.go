package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pageza/fridgechef/backend/config"
	"github.com/pageza/fridgechef/backend/internal/logger"
	"github.com/sirupsen/logrus"
)

const (
	chatCompletionsPath = "/chat/completions"

	// maxResponseBytes bounds how much of a reply body is read.
	maxResponseBytes = 10 << 20
	snippetBytes     = 512
)

// ChatTransport sends one chat request and returns the first choice's text.
type ChatTransport interface {
	Send(ctx context.Context, req *ChatRequest) (string, error)
}

// chatResponse is the subset of the chat-completions reply we read. Reply
// content is plain text even though request content is a list of parts.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Role    string  `json:"role"`
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// HTTPTransport posts chat requests to {BaseURL}/chat/completions. Each Send
// makes exactly one attempt.
type HTTPTransport struct {
	cfg    config.ModelConfig
	client *http.Client
	log    *logrus.Entry
}

// NewHTTPTransport creates an HTTPTransport. A nil client gets one with the
// configured timeout.
func NewHTTPTransport(cfg config.ModelConfig, client *http.Client) *HTTPTransport {
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &HTTPTransport{
		cfg:    cfg,
		client: client,
		log:    logger.Component("transport"),
	}
}

// Send implements ChatTransport.
func (t *HTTPTransport) Send(ctx context.Context, chatReq *ChatRequest) (string, error) {
	if !t.cfg.HasCredential() {
		return "", newError(KindMissingCredential, "OpenAI API key is missing", nil)
	}

	jsonData, err := json.Marshal(chatReq)
	if err != nil {
		return "", newError(KindMalformedEnvelope, "failed to marshal request", err)
	}

	url := strings.TrimRight(t.cfg.BaseURL, "/") + chatCompletionsPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return "", newError(KindNetwork, "failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", t.cfg.APIKey))

	log := t.log.WithFields(logrus.Fields{
		"task":  chatReq.Task,
		"model": chatReq.Model,
	})
	start := time.Now()

	resp, err := t.client.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return "", newError(KindCanceled, "request canceled", err)
		}
		log.WithError(err).Warn("request failed")
		return "", newError(KindNetwork, "failed to send request", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return "", newError(KindCanceled, "request canceled", err)
		}
		return "", newError(KindNetwork, "failed to read response", err)
	}

	log = log.WithFields(logrus.Fields{
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
		"bytes":       len(body),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warn("API request failed")
		return "", &Error{
			Kind:    KindAPI,
			Message: "API request failed",
			Status:  resp.StatusCode,
			Snippet: snippet(body),
		}
	}

	if len(bytes.TrimSpace(body)) == 0 {
		log.Warn("empty response body")
		return "", newError(KindEmptyResponse, "no data received", nil)
	}

	var result chatResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", newError(KindMalformedEnvelope, "failed to decode response", err)
	}
	if len(result.Choices) == 0 || result.Choices[0].Message.Content == nil {
		return "", newError(KindMalformedEnvelope, "no choices in response", nil)
	}

	log.Debug("request completed")
	return *result.Choices[0].Message.Content, nil
}

// snippet trims body to at most snippetBytes without splitting a rune.
func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) <= snippetBytes {
		return s
	}
	cut := snippetBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
