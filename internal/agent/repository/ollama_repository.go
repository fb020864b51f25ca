package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"go-news-agent/internal/agent/config"
	"go-news-agent/internal/agent/dto"
	"go-news-agent/pkg/logger"

	"golang.org/x/time/rate"
)

var newlineRuns = regexp.MustCompile(`\n+`)

type ollamaRepository struct {
	client         *http.Client
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
	model          string
}

// NewOllamaRepository creates the default AIRepository against a local
// Ollama endpoint. It verifies the service is reachable and resolves the
// model to run with; an unreachable service is an InferenceError and the
// agent should not start.
func NewOllamaRepository(cfg *config.Config, log *logger.Logger) (AIRepository, error) {
	secondsPerRequest := time.Minute / time.Duration(cfg.Ollama.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)

	r := &ollamaRepository{
		client: &http.Client{
			Timeout: cfg.Ollama.Timeout,
		},
		cfg:            cfg,
		logger:         log,
		requestLimiter: requestLimiter,
		model:          cfg.Ollama.Model,
	}

	if err := r.resolveModel(); err != nil {
		return nil, err
	}

	return r, nil
}

// resolveModel checks the advertised model list once at startup. When the
// configured model is absent it falls back to the first model with the same
// family-name prefix, else the first available model of any kind.
func (r *ollamaRepository) resolveModel() error {
	tagsClient := &http.Client{Timeout: 10 * time.Second}
	resp, err := tagsClient.Get(r.cfg.Ollama.BaseURL + "/api/tags")
	if err != nil {
		return &InferenceError{Err: fmt.Errorf("failed to reach %s: %w", r.cfg.Ollama.BaseURL, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &InferenceError{Err: fmt.Errorf("unexpected status %d from model list", resp.StatusCode)}
	}

	var tags dto.OllamaTagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return &InferenceError{Err: fmt.Errorf("failed to decode model list: %w", err)}
	}

	if len(tags.Models) == 0 {
		r.logger.Warn("Inference service advertises no models", logger.StringField("model", r.model))
		return nil
	}

	for _, m := range tags.Models {
		if m.Name == r.model {
			r.logger.Info("Model available", logger.StringField("model", r.model))
			return nil
		}
	}

	family := strings.ToLower(r.model)
	if idx := strings.Index(family, ":"); idx > 0 {
		family = family[:idx]
	}
	for _, m := range tags.Models {
		if strings.Contains(strings.ToLower(m.Name), family) {
			r.logger.Warn("Configured model not found, using family match",
				logger.StringField("configured", r.model),
				logger.StringField("model", m.Name))
			r.model = m.Name
			return nil
		}
	}

	r.logger.Warn("Configured model not found, using first available",
		logger.StringField("configured", r.model),
		logger.StringField("model", tags.Models[0].Name))
	r.model = tags.Models[0].Name
	return nil
}

// ModelName returns the resolved model name.
func (r *ollamaRepository) ModelName() string {
	return r.model
}

// Generate runs a blocking generate call and recovers any failure as
// sentinel error text.
func (r *ollamaRepository) Generate(ctx context.Context, prompt string, maxTokens int) string {
	text, err := r.sendRequest(ctx, prompt, maxTokens)
	if err != nil {
		r.logger.Error("Inference call failed", logger.ErrorField(err))
		return ErrorText(err)
	}
	return text
}

func (r *ollamaRepository) Summarize(ctx context.Context, text string) string {
	return summarizeText(ctx, r, text)
}

func (r *ollamaRepository) ExtractKeywords(ctx context.Context, text string) []string {
	return extractKeywords(ctx, r, text)
}

func (r *ollamaRepository) sendRequest(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("failed to wait for request limit: %w", err)
	}

	payload := dto.OllamaGenerateRequest{
		Model:  r.model,
		Prompt: prompt,
		Stream: false,
		Options: dto.OllamaGenerateOptions{
			Temperature: r.cfg.Ollama.Temperature,
			NumPredict:  maxTokens,
			TopK:        r.cfg.Ollama.TopK,
			TopP:        r.cfg.Ollama.TopP,
		},
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	url := r.cfg.Ollama.BaseURL + "/api/generate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return "", fmt.Errorf("failed to create generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send generate request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode == http.StatusNotFound {
			return "", fmt.Errorf("model %s not found (%d): %s", r.model, resp.StatusCode, string(body))
		}
		return "", fmt.Errorf("generate returned status %d: %s", resp.StatusCode, string(body))
	}

	var generateResp dto.OllamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&generateResp); err != nil {
		return "", fmt.Errorf("failed to decode generate response: %w", err)
	}

	// Trim and collapse runs of blank lines the model tends to emit.
	text := strings.TrimSpace(generateResp.Response)
	text = newlineRuns.ReplaceAllString(text, "\n")
	return strings.TrimSpace(text), nil
}
