package lawchanges

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/shavaan/team2-Hack/constants"
	"github.com/shavaan/team2-Hack/internal/common"
	"github.com/shavaan/team2-Hack/internal/entity"
	"github.com/shavaan/team2-Hack/internal/export"
	"github.com/shavaan/team2-Hack/internal/repository"
	"github.com/shavaan/team2-Hack/internal/utils"
)

// DocumentProcessor runs the pipeline for one document.
type DocumentProcessor interface {
	Process(ctx context.Context, pathOrName, sourceURL string) entity.Outcome
}

type ProcessRequest struct {
	Path string `json:"path" validate:"required"`
	URL  string `json:"url" validate:"required,http_url"`
}

type ProcessResult struct {
	Status        constants.OutcomeStatus `json:"status"`
	Message       string                  `json:"message,omitempty"`
	PDFFilename   string                  `json:"pdf_filename"`
	URL           string                  `json:"url"`
	RecordsStored int                     `json:"records_stored"`
	Duplicates    int                     `json:"duplicates"`
	LawChanges    []entity.StoredChange   `json:"law_changes"`
}

type LawChangeView struct {
	ID          int64  `json:"id"`
	DateChanged string `json:"date_changed"`
	State       string `json:"state"`
	Summary     string `json:"summary"`
	URL         string `json:"url"`
	PDFFilename string `json:"pdf_filename"`
}

type LawChangesResult struct {
	Status     constants.OutcomeStatus `json:"status"`
	Message    string                  `json:"message,omitempty"`
	LawChanges []LawChangeView         `json:"law_changes"`
}

type Statistics struct {
	TotalLawChanges   int            `json:"total_law_changes"`
	StatesWithChanges int            `json:"states_with_changes"`
	ChangesByState    map[string]int `json:"changes_by_state"`
}

type StatisticsResult struct {
	Status     constants.OutcomeStatus `json:"status"`
	Message    string                  `json:"message,omitempty"`
	Statistics *Statistics             `json:"statistics,omitempty"`
}

// Service is the caller-facing surface shared by the CLI and the gRPC server.
type Service struct {
	processor DocumentProcessor
	store     repository.ChangeStore
	exporter  *export.Service
	logger    *slog.Logger
}

func NewService(processor DocumentProcessor, store repository.ChangeStore, exporter *export.Service, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{processor: processor, store: store, exporter: exporter, logger: logger}
}

// ProcessDocument validates the request and runs the pipeline for it.
func (s *Service) ProcessDocument(ctx context.Context, req ProcessRequest) ProcessResult {
	req.Path = strings.TrimSpace(req.Path)
	req.URL = strings.TrimSpace(req.URL)
	if err := common.ValidateStruct(req); err != nil {
		s.logger.Warn("lawchanges.process.invalid", "path", req.Path, "url", req.URL, "error", err)
		return ProcessResult{
			Status:     constants.StatusFailure,
			Message:    err.Error(),
			URL:        req.URL,
			LawChanges: []entity.StoredChange{},
		}
	}

	out := s.processor.Process(ctx, req.Path, req.URL)
	return ProcessResult{
		Status:        out.Status,
		Message:       out.Message,
		PDFFilename:   out.PDFFilename,
		URL:           out.URL,
		RecordsStored: out.RecordsStored,
		Duplicates:    out.Duplicates,
		LawChanges:    out.LawChanges,
	}
}

// GetLawChanges returns the most recent law changes, newest first.
func (s *Service) GetLawChanges(ctx context.Context, limit int) LawChangesResult {
	recs, err := s.store.QueryRecent(ctx, limit)
	if err != nil {
		s.logger.Error("lawchanges.query.failed", "limit", limit, "error", err)
		return LawChangesResult{Status: constants.StatusFailure, Message: err.Error(), LawChanges: []LawChangeView{}}
	}

	views := make([]LawChangeView, 0, len(recs))
	for _, r := range recs {
		views = append(views, LawChangeView{
			ID:          r.ID,
			DateChanged: r.Date(),
			State:       r.Jurisdiction,
			Summary:     r.Summary,
			URL:         r.SourceURL,
			PDFFilename: r.SourcePDFFilename,
		})
	}
	return LawChangesResult{Status: constants.StatusSuccess, LawChanges: views}
}

// GetStatistics recomputes totals from the store on every call.
func (s *Service) GetStatistics(ctx context.Context) StatisticsResult {
	agg, err := s.store.Aggregate(ctx)
	if err != nil {
		s.logger.Error("lawchanges.stats.failed", "error", err)
		return StatisticsResult{Status: constants.StatusFailure, Message: err.Error()}
	}
	return StatisticsResult{
		Status: constants.StatusSuccess,
		Statistics: &Statistics{
			TotalLawChanges:   agg.TotalCount,
			StatesWithChanges: len(agg.CountsByJurisdiction),
			ChangesByState:    agg.CountsByJurisdiction,
		},
	}
}

// ExportLawChanges renders stored changes in the optional YYYY-MM-DD window as XLSX.
func (s *Service) ExportLawChanges(ctx context.Context, from, to string) ([]byte, error) {
	fromPtr, toPtr, err := utils.ParseDateWindow(from, to, time.Now())
	if err != nil {
		return nil, common.InvalidInput(err.Error(), nil)
	}
	data, err := s.exporter.ExportLawChangesXLSX(ctx, fromPtr, toPtr)
	if err != nil {
		s.logger.Error("lawchanges.export.failed", "from", from, "to", to, "error", err)
		return nil, err
	}
	return data, nil
}
