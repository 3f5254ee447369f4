package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/AnshRaj112/serenify-companion/internal/models"
	"github.com/AnshRaj112/serenify-companion/internal/observability"
)

const DefaultMessageTimeout = 10 * time.Second

// MessageGenerator writes a short supportive reply for a mood and the text
// that produced it.
type MessageGenerator interface {
	Generate(ctx context.Context, mood, text string) (string, error)
}

type MessageConfig struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
}

type MessageClient struct {
	client *http.Client
	url    string
	apiKey string
}

func NewMessageClient(cfg MessageConfig) *MessageClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultMessageTimeout
	}
	return &MessageClient{
		client: &http.Client{Timeout: cfg.Timeout},
		url:    strings.TrimRight(cfg.Endpoint, "/"),
		apiKey: cfg.APIKey,
	}
}

// Generate posts {"mood","text"} and expects {"message"}.
func (c *MessageClient) Generate(ctx context.Context, mood, text string) (string, error) {
	body, err := postJSON(ctx, c.client, c.url, c.apiKey, "message", map[string]string{
		"mood": mood,
		"text": text,
	})
	if err != nil {
		return "", err
	}

	var resp struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode message response: %w", err)
	}
	msg := strings.TrimSpace(resp.Message)
	if msg == "" {
		return "", errors.New("message response is empty")
	}
	return msg, nil
}

// StaticMessages returns a fixed line per mood.
type StaticMessages struct{}

var staticMessages = map[string]string{
	models.MoodHappy:   "It's lovely to see you feeling good. Take a moment to notice what helped today.",
	models.MoodSad:     "It's okay to feel low. Be gentle with yourself, and reach out to someone you trust if it helps.",
	models.MoodAngry:   "That sounds frustrating. A few slow breaths or a short walk can help the feeling pass.",
	models.MoodAnxious: "You're not alone in this. Try breathing in for four counts and out for six, a few times.",
	models.MoodNeutral: "Thanks for checking in. Small steps every day add up.",
}

func (StaticMessages) Generate(_ context.Context, mood, _ string) (string, error) {
	if msg, ok := staticMessages[models.NormalizeMood(mood)]; ok {
		return msg, nil
	}
	return staticMessages[models.MoodNeutral], nil
}

// FallbackGenerator tries Primary and falls back to Secondary on any error.
type FallbackGenerator struct {
	Primary   MessageGenerator
	Secondary MessageGenerator
}

func (f FallbackGenerator) Generate(ctx context.Context, mood, text string) (string, error) {
	if f.Primary != nil {
		msg, err := f.Primary.Generate(ctx, mood, text)
		if err == nil {
			return msg, nil
		}
		observability.RecordAIFailure("message")
		log.Printf("[Message] generator failed, using fallback: %v", err)
	}
	if f.Secondary == nil {
		return StaticMessages{}.Generate(ctx, mood, text)
	}
	return f.Secondary.Generate(ctx, mood, text)
}
