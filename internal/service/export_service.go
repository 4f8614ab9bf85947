package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/parsuni/exam-portal-api/internal/models"
	appErrors "github.com/parsuni/exam-portal-api/pkg/errors"
	"github.com/parsuni/exam-portal-api/pkg/export"
)

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

type exportScheduleProvider interface {
	ScheduleEntries(ctx context.Context, courseID string) ([]models.ExamScheduleEntry, error)
}

// ExportResult is a rendered download: bytes plus the headers the
// handler needs to serve it.
type ExportResult struct {
	Data        []byte
	ContentType string
	Filename    string
}

// ExportService renders a course's exam schedule as CSV or PDF.
type ExportService struct {
	schedules exportScheduleProvider
	csv       csvRenderer
	pdf       pdfRenderer
	logger    *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(schedules exportScheduleProvider, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{schedules: schedules, csv: csv, pdf: pdf, logger: logger}
}

var scheduleHeaders = []string{"Exam", "Date", "Time", "Room", "Status"}

// ExamSchedule renders the course's full exam schedule in the requested
// format ("csv" or "pdf").
func (s *ExportService) ExamSchedule(ctx context.Context, courseID, format string) (*ExportResult, error) {
	entries, err := s.schedules.ScheduleEntries(ctx, courseID)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{Headers: scheduleHeaders, Rows: make([]map[string]string, 0, len(entries))}
	for _, entry := range entries {
		roomName := ""
		if entry.Room != nil {
			roomName = entry.Room.Name
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Exam":   entry.Name,
			"Date":   entry.PersianDate,
			"Time":   entry.TimeRange,
			"Room":   roomName,
			"Status": entry.StatusLabel,
		})
	}

	switch strings.ToLower(format) {
	case "csv", "":
		data, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportResult{
			Data:        data,
			ContentType: "text/csv",
			Filename:    fmt.Sprintf("exam-schedule-%s.csv", courseID),
		}, nil
	case "pdf":
		data, err := s.pdf.Render(dataset, "Exam Schedule")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{
			Data:        data,
			ContentType: "application/pdf",
			Filename:    fmt.Sprintf("exam-schedule-%s.pdf", courseID),
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
}
