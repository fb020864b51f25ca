package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"go-news-agent/internal/agent/dto"
	"go-news-agent/internal/agent/repository"
	"go-news-agent/internal/agent/service"
	"go-news-agent/internal/agent/tasks"
	"go-news-agent/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AgentHandler handles HTTP requests for the news pipeline.
type AgentHandler struct {
	collector   service.CollectorService
	enricher    service.EnrichmentService
	analyzer    service.AnalyzerService
	stats       service.StatsService
	articleRepo repository.ArticleRepository
	tracker     *tasks.Tracker
	logger      *logger.Logger
}

// NewAgentHandler creates a new AgentHandler.
func NewAgentHandler(
	collector service.CollectorService,
	enricher service.EnrichmentService,
	analyzer service.AnalyzerService,
	stats service.StatsService,
	articleRepo repository.ArticleRepository,
	tracker *tasks.Tracker,
	logger *logger.Logger,
) *AgentHandler {
	return &AgentHandler{
		collector:   collector,
		enricher:    enricher,
		analyzer:    analyzer,
		stats:       stats,
		articleRepo: articleRepo,
		tracker:     tracker,
		logger:      logger,
	}
}

// RegisterRoutes registers the pipeline routes to the Echo group.
func (h *AgentHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/status", h.GetStatus)
	g.POST("/collect", h.StartCollect)
	g.POST("/enrich", h.StartEnrich)
	g.POST("/analyze", h.StartAnalyze)
	g.GET("/task/:id", h.GetTask)
	g.GET("/search", h.SearchArticles)
	g.GET("/statistics", h.GetStatistics)
}

// GetStatus returns the full statistics document as a liveness view.
func (h *AgentHandler) GetStatus(c echo.Context) error {
	return h.GetStatistics(c)
}

// StartCollect launches a feed collection run in the background and returns
// a task ID to poll.
func (h *AgentHandler) StartCollect(c echo.Context) error {
	var req dto.CollectRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}

	id := h.tracker.Run(context.Background(), "collect", func(ctx context.Context) (interface{}, error) {
		n, err := h.collector.Collect(ctx, req.Limit)
		return &dto.PipelineRunResult{Processed: n}, err
	})

	return c.JSON(http.StatusAccepted, dto.TaskAccepted{TaskID: id, Status: tasks.StatusRunning})
}

// StartEnrich launches an enrichment run in the background.
func (h *AgentHandler) StartEnrich(c echo.Context) error {
	var req dto.EnrichRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}

	id := h.tracker.Run(context.Background(), "enrich", func(ctx context.Context) (interface{}, error) {
		n, err := h.enricher.Enrich(ctx, req.Limit)
		return &dto.PipelineRunResult{Processed: n}, err
	})

	return c.JSON(http.StatusAccepted, dto.TaskAccepted{TaskID: id, Status: tasks.StatusRunning})
}

// StartAnalyze launches a topic analysis in the background. The topic is
// required.
func (h *AgentHandler) StartAnalyze(c echo.Context) error {
	var req dto.AnalyzeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}

	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "topic is required"})
	}

	id := h.tracker.Run(context.Background(), "analyze", func(ctx context.Context) (interface{}, error) {
		return h.analyzer.AnalyzeTopic(ctx, topic), nil
	})

	return c.JSON(http.StatusAccepted, dto.TaskAccepted{TaskID: id, Status: tasks.StatusRunning})
}

// GetTask returns the state of a background task.
func (h *AgentHandler) GetTask(c echo.Context) error {
	task, ok := h.tracker.Get(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Task not found"})
	}
	return c.JSON(http.StatusOK, task)
}

// SearchArticles runs a keyword search over the stored articles.
func (h *AgentHandler) SearchArticles(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("q"))
	if query == "" {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "q is required"})
	}

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid limit"})
		}
		limit = parsed
	}

	results, err := h.articleRepo.Search(c.Request().Context(), query, limit)
	if err != nil {
		h.logger.Error("Search failed", logger.ErrorField(err), logger.StringField("query", query))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Search failed"})
	}

	return c.JSON(http.StatusOK, dto.SearchResponse{
		Query:   query,
		Count:   len(results),
		Results: results,
	})
}

// GetStatistics returns store counts, category breakdown and recent articles.
func (h *AgentHandler) GetStatistics(c echo.Context) error {
	stats, err := h.stats.Statistics(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to compute statistics", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to compute statistics"})
	}
	return c.JSON(http.StatusOK, stats)
}
