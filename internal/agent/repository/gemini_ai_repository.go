package repository

import (
	"context"
	"fmt"
	"strings"

	"go-news-agent/internal/agent/config"
	"go-news-agent/pkg/logger"

	"google.golang.org/genai"
)

// geminiAIRepository is an AIRepository backed by the Google Gemini API,
// selectable with ai.provider: gemini for deployments without a local
// inference service.
type geminiAIRepository struct {
	cfg         *config.Config
	logger      *logger.Logger
	genAiClient *genai.Client
}

// NewGeminiAIRepository creates a new instance of geminiAIRepository.
func NewGeminiAIRepository(ctx context.Context, cfg *config.Config, log *logger.Logger) (AIRepository, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.Gemini.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, &InferenceError{Err: fmt.Errorf("failed to create Gemini client: %w", err)}
	}

	return &geminiAIRepository{
		cfg:         cfg,
		logger:      log,
		genAiClient: client,
	}, nil
}

// ModelName returns the configured Gemini model.
func (r *geminiAIRepository) ModelName() string {
	return r.cfg.Gemini.Model
}

// Generate runs a blocking generate call and recovers any failure as
// sentinel error text.
func (r *geminiAIRepository) Generate(ctx context.Context, prompt string, maxTokens int) string {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, "user"),
	}

	resp, err := r.genAiClient.Models.GenerateContent(ctx, r.cfg.Gemini.Model, contents, &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(r.cfg.Gemini.Temperature)),
		TopP:            genai.Ptr(float32(r.cfg.Gemini.TopP)),
		MaxOutputTokens: int32(maxTokens),
	})
	if err != nil {
		r.logger.Error("Inference call failed", logger.ErrorField(err))
		return ErrorText(err)
	}

	text := strings.TrimSpace(resp.Text())
	text = newlineRuns.ReplaceAllString(text, "\n")
	return strings.TrimSpace(text)
}

func (r *geminiAIRepository) Summarize(ctx context.Context, text string) string {
	return summarizeText(ctx, r, text)
}

func (r *geminiAIRepository) ExtractKeywords(ctx context.Context, text string) []string {
	return extractKeywords(ctx, r, text)
}
