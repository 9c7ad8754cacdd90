package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/task-recommender/internal/middleware"
	"github.com/noah-isme/task-recommender/internal/models"
	"github.com/noah-isme/task-recommender/internal/service"
	appErrors "github.com/noah-isme/task-recommender/pkg/errors"
	"github.com/noah-isme/task-recommender/pkg/response"
)

type recommendationService interface {
	RecommendCached(ctx context.Context, studentID int64, mode models.RecommendationMode) ([]models.Recommendation, bool, error)
}

type recommendationExporter interface {
	Render(req service.ExportRequest, format models.ExportFormat) (*service.ExportFile, error)
}

// RecommendationHandler exposes the recommendation engine over HTTP.
type RecommendationHandler struct {
	service  recommendationService
	exporter recommendationExporter
}

// NewRecommendationHandler constructs the handler. exporter may be nil, which disables downloads.
func NewRecommendationHandler(service recommendationService, exporter recommendationExporter) *RecommendationHandler {
	return &RecommendationHandler{service: service, exporter: exporter}
}

// Get godoc
// @Summary Recommend tasks for a student
// @Tags Recommendations
// @Produce json
// @Param id path int true "Student ID"
// @Param mode query string false "content | collaborative | hybrid (default hybrid)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/recommendations [get]
func (h *RecommendationHandler) Get(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	studentID, mode, ok := parseRecommendationParams(c)
	if !ok {
		return
	}

	start := time.Now()
	recs, cacheHit, err := h.service.RecommendCached(c.Request.Context(), studentID, mode)
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	meta["mode"] = mode
	meta["count"] = len(recs)
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, recs, meta)
}

// Export godoc
// @Summary Download recommendations as a report
// @Tags Recommendations
// @Produce text/csv
// @Produce text/markdown
// @Produce application/pdf
// @Param id path int true "Student ID"
// @Param mode query string false "content | collaborative | hybrid (default hybrid)"
// @Param format query string false "csv | md | pdf (default csv)"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/recommendations/export [get]
func (h *RecommendationHandler) Export(c *gin.Context) {
	if h.service == nil || h.exporter == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	studentID, mode, ok := parseRecommendationParams(c)
	if !ok {
		return
	}
	format, err := models.ParseExportFormat(c.Query("format"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}

	recs, _, err := h.service.RecommendCached(c.Request.Context(), studentID, mode)
	if err != nil {
		response.Error(c, err)
		return
	}

	file, err := h.exporter.Render(service.ExportRequest{StudentID: studentID, Mode: mode, Recommendations: recs}, format)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export"))
		return
	}
	response.File(c, file.Filename, file.ContentType, file.Data)
}

func parseRecommendationParams(c *gin.Context) (int64, models.RecommendationMode, bool) {
	studentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || studentID <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "student id must be a positive integer"))
		return 0, "", false
	}
	rawMode := c.DefaultQuery("mode", string(models.ModeHybrid))
	mode, err := models.ParseMode(rawMode)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return 0, "", false
	}
	return studentID, mode, true
}
