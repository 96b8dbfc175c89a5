package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	defaultDeepSeekBaseURL = "https://api.deepseek.com/v1"
	defaultDeepSeekModel   = "deepseek-chat"
)

// DeepSeekProvider talks to the DeepSeek chat-completions endpoint
// (OpenAI-compatible wire shape).
type DeepSeekProvider struct {
	BaseURL string
	APIKey  string
	Model   string
	Client  *http.Client
	Logger  *zap.Logger

	warnNoKey sync.Once
}

type deepSeekMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type deepSeekChatReq struct {
	Model       string        `json:"model"`
	Messages    []deepSeekMsg `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream"`
}

type deepSeekChatResp struct {
	Choices []struct {
		Message deepSeekMsg `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewDeepSeekProvider(baseURL, apiKey, model string, logger *zap.Logger) *DeepSeekProvider {
	if baseURL == "" {
		baseURL = defaultDeepSeekBaseURL
	}
	if model == "" {
		model = defaultDeepSeekModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DeepSeekProvider{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   model,
		Client:  &http.Client{Timeout: 90 * time.Second},
		Logger:  logger,
	}
}

func (p *DeepSeekProvider) Chat(ctx context.Context, messages []Message, opts Options) (string, error) {
	if p.Client == nil {
		return "", errors.New("deepseek: http client is nil")
	}
	if len(messages) == 0 {
		return "", errors.New("deepseek: no messages")
	}

	reqBody := deepSeekChatReq{
		Model:       p.Model,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
		Stream:      false,
		Messages: func() []deepSeekMsg {
			out := make([]deepSeekMsg, 0, len(messages))
			for _, m := range messages {
				out = append(out, deepSeekMsg{Role: m.Role, Content: m.Content})
			}
			return out
		}(),
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/chat/completions", strings.TrimRight(p.BaseURL, "/"))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	// An unset credential does not block the call; the endpoint will reject
	// it and the caller falls back. Warn once per provider instance.
	if strings.TrimSpace(p.APIKey) == "" {
		p.warnNoKey.Do(func() {
			p.Logger.Warn("deepseek api key not configured, requests will be unauthenticated")
		})
	} else {
		req.Header.Set("Authorization", "Bearer "+p.APIKey)
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return "", fmt.Errorf("deepseek: %s", msg)
	}

	var decoded deepSeekChatResp
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", err
	}
	if decoded.Error != nil && decoded.Error.Message != "" {
		return "", errors.New(decoded.Error.Message)
	}
	if len(decoded.Choices) == 0 {
		return "", errors.New("deepseek: empty response")
	}
	return decoded.Choices[0].Message.Content, nil
}
