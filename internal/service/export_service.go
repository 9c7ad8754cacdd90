package service

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/task-recommender/internal/models"
	"github.com/noah-isme/task-recommender/pkg/export"
)

// Recommendation export columns.
const (
	colID          = "ID"
	colSection     = "Section"
	colDescription = "Description"
	colComplexity  = "Complexity"
	colThemeID     = "Theme ID"
	colTheme       = "Theme"
	colExplanation = "Explanation"
	colSource      = "Source"
)

var recommendationHeaders = []string{colID, colSection, colDescription, colComplexity, colThemeID, colTheme, colExplanation, colSource}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Path(filename string) string
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type markdownRenderer interface {
	Render(data export.Dataset, title string, preamble ...string) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportFile is a rendered report ready to be written or streamed.
type ExportFile struct {
	Filename    string
	ContentType string
	Format      models.ExportFormat
	Data        []byte
}

// ExportRequest identifies what is being exported.
type ExportRequest struct {
	StudentID       int64
	Mode            models.RecommendationMode
	Recommendations []models.Recommendation
}

// ExportService renders recommendation lists and persists the result.
type ExportService struct {
	storage  fileStorage
	csv      csvRenderer
	markdown markdownRenderer
	pdf      pdfRenderer
	logger   *zap.Logger
	now      func() time.Time
}

// NewExportService constructs an ExportService. Nil renderers fall back to the pkg/export defaults.
func NewExportService(storage fileStorage, logger *zap.Logger, csv csvRenderer, markdown markdownRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if markdown == nil {
		markdown = export.NewMarkdownExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter(colDescription, colExplanation)
	}
	return &ExportService{
		storage:  storage,
		csv:      csv,
		markdown: markdown,
		pdf:      pdf,
		logger:   logger,
		now:      time.Now,
	}
}

// Render produces the report in the given format. The filename is derived from student and mode.
func (s *ExportService) Render(req ExportRequest, format models.ExportFormat) (*ExportFile, error) {
	dataset := RecommendationDataset(req.Recommendations)
	title := fmt.Sprintf("Recommendations for student %d", req.StudentID)

	var (
		payload     []byte
		contentType string
		err         error
	)
	switch format {
	case models.ExportCSV:
		payload, err = s.csv.Render(dataset)
		contentType = "text/csv; charset=utf-8"
	case models.ExportMarkdown:
		payload, err = s.markdown.Render(dataset, title,
			fmt.Sprintf("- Mode: %s", req.Mode),
			fmt.Sprintf("- Generated: %s", s.now().UTC().Format(time.RFC3339)),
			fmt.Sprintf("- Tasks: %d", len(req.Recommendations)),
		)
		contentType = "text/markdown; charset=utf-8"
	case models.ExportPDF:
		payload, err = s.pdf.Render(dataset, title)
		contentType = "application/pdf"
	default:
		err = fmt.Errorf("unsupported format %s", format)
	}
	if err != nil {
		return nil, err
	}

	return &ExportFile{
		Filename:    fmt.Sprintf("recommendations_%d_%s.%s", req.StudentID, req.Mode, format),
		ContentType: contentType,
		Format:      format,
		Data:        payload,
	}, nil
}

// WriteReports renders each format and stores it next to base, swapping the extension per format.
// It returns the stored paths in the order of formats.
func (s *ExportService) WriteReports(base string, req ExportRequest, formats ...models.ExportFormat) ([]string, error) {
	if s.storage == nil {
		return nil, fmt.Errorf("export storage not configured")
	}
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	written := make([]string, 0, len(formats))
	for _, format := range formats {
		file, err := s.Render(req, format)
		if err != nil {
			return written, err
		}
		name := stem + "." + string(format)
		if format == models.ExportCSV && strings.EqualFold(filepath.Ext(base), ".csv") {
			name = base
		}
		rel, err := s.storage.Save(name, file.Data)
		if err != nil {
			return written, err
		}
		path := s.storage.Path(rel)
		s.logger.Info("recommendations exported",
			zap.Int64("student_id", req.StudentID),
			zap.String("format", string(format)),
			zap.String("path", path),
		)
		written = append(written, path)
	}
	return written, nil
}

// RecommendationDataset flattens recommendations into export rows.
func RecommendationDataset(recs []models.Recommendation) export.Dataset {
	rows := make([]map[string]string, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, map[string]string{
			colID:          strconv.FormatInt(r.ID, 10),
			colSection:     strconv.FormatInt(r.SectionID, 10),
			colDescription: r.Description,
			colComplexity:  strconv.Itoa(r.Complexity),
			colThemeID:     strconv.FormatInt(r.ThemeID, 10),
			colTheme:       r.ThemeName,
			colExplanation: r.Explanation,
			colSource:      string(r.Source),
		})
	}
	return export.Dataset{Headers: recommendationHeaders, Rows: rows}
}
