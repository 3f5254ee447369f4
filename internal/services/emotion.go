package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/AnshRaj112/serenify-companion/internal/models"
	"github.com/AnshRaj112/serenify-companion/internal/observability"
)

const (
	DefaultEmotionTimeout = 8 * time.Second

	maxAIResponseBytes = 1 << 20
)

var ErrEmptyText = errors.New("text is empty")

// EmotionClassifier maps free text to a coarse mood label.
type EmotionClassifier interface {
	Classify(ctx context.Context, text string) (string, error)
}

// AIError is a non-2xx answer from an AI collaborator.
type AIError struct {
	Collaborator string
	Status       int
}

func (e *AIError) Error() string {
	return fmt.Sprintf("%s request failed with status %d %s", e.Collaborator, e.Status, http.StatusText(e.Status))
}

type EmotionConfig struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
}

// EmotionClient calls a hosted text-classification model (Hugging Face
// inference API shape).
type EmotionClient struct {
	client *http.Client
	url    string
	apiKey string
}

func NewEmotionClient(cfg EmotionConfig) *EmotionClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultEmotionTimeout
	}
	return &EmotionClient{
		client: &http.Client{Timeout: cfg.Timeout},
		url:    strings.TrimRight(cfg.Endpoint, "/"),
		apiKey: cfg.APIKey,
	}
}

type emotionScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classify posts {"inputs": text} and returns the highest-scoring label,
// normalised to a coarse mood.
func (c *EmotionClient) Classify(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyText
	}

	body, err := postJSON(ctx, c.client, c.url, c.apiKey, "emotion", map[string]string{"inputs": text})
	if err != nil {
		return "", err
	}

	scores, err := decodeEmotionScores(body)
	if err != nil {
		return "", fmt.Errorf("decode emotion response: %w", err)
	}
	if len(scores) == 0 {
		return "", errors.New("emotion response has no labels")
	}

	best := scores[0]
	for _, s := range scores[1:] {
		if s.Score > best.Score {
			best = s
		}
	}
	return models.NormalizeMood(best.Label), nil
}

// The inference API answers [[{label,score}...]] for a single input; some
// deployments flatten it to [{label,score}...].
func decodeEmotionScores(body []byte) ([]emotionScore, error) {
	var nested [][]emotionScore
	if err := json.Unmarshal(body, &nested); err == nil {
		if len(nested) == 0 {
			return nil, nil
		}
		return nested[0], nil
	}
	var flat []emotionScore
	if err := json.Unmarshal(body, &flat); err != nil {
		return nil, err
	}
	return flat, nil
}

func postJSON(ctx context.Context, client *http.Client, url, apiKey, collaborator string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, &AIError{Collaborator: collaborator, Status: resp.StatusCode}
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxAIResponseBytes))
}

// KeywordClassifier is an offline classifier used when the model is
// unreachable or not configured.
type KeywordClassifier struct{}

var moodKeywords = []struct {
	mood  string
	words []string
}{
	{models.MoodAnxious, []string{"anxious", "anxiety", "worried", "worry", "nervous", "panic", "stressed", "stress", "scared", "afraid", "overwhelmed"}},
	{models.MoodSad, []string{"sad", "down", "lonely", "cry", "crying", "depressed", "hopeless", "empty", "miss", "grief", "tired"}},
	{models.MoodAngry, []string{"angry", "mad", "furious", "annoyed", "irritated", "hate", "frustrated", "rage"}},
	{models.MoodHappy, []string{"happy", "glad", "grateful", "calm", "peaceful", "excited", "joy", "great", "good", "proud", "relaxed"}},
}

// Classify counts keyword hits per mood; ties go to the mood listed first.
func (KeywordClassifier) Classify(_ context.Context, text string) (string, error) {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && r != '\''
	})
	if len(words) == 0 {
		return models.MoodNeutral, nil
	}

	bestMood, bestHits := models.MoodNeutral, 0
	for _, mk := range moodKeywords {
		hits := 0
		for _, w := range words {
			for _, k := range mk.words {
				if w == k {
					hits++
				}
			}
		}
		if hits > bestHits {
			bestMood, bestHits = mk.mood, hits
		}
	}
	return bestMood, nil
}

// FallbackClassifier tries Primary and falls back to Secondary on any error.
type FallbackClassifier struct {
	Primary   EmotionClassifier
	Secondary EmotionClassifier
}

func (f FallbackClassifier) Classify(ctx context.Context, text string) (string, error) {
	if f.Primary != nil {
		mood, err := f.Primary.Classify(ctx, text)
		if err == nil {
			return mood, nil
		}
		observability.RecordAIFailure("emotion")
		log.Printf("[Emotion] classifier failed, using fallback: %v", err)
	}
	if f.Secondary == nil {
		return models.MoodNeutral, nil
	}
	return f.Secondary.Classify(ctx, text)
}
