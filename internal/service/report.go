package service

import (
	"context"
	"time"

	"lakshmikitchen/internal/apperr"
	"lakshmikitchen/internal/model"
)

type ReportRepository interface {
	ProductTotalsToday(ctx context.Context) ([]model.ProductSummary, error)
	ProductTotalsRange(ctx context.Context, from, to time.Time) ([]model.ProductSummary, error)
}

type ReportService struct {
	repo ReportRepository
}

func NewReportService(repo ReportRepository) *ReportService {
	return &ReportService{repo: repo}
}

func (s *ReportService) Today(ctx context.Context) ([]model.ProductSummary, error) {
	summary, err := s.repo.ProductTotalsToday(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "report query failed", err)
	}
	if summary == nil {
		summary = []model.ProductSummary{}
	}
	return summary, nil
}

const reportDateLayout = "2006-01-02"

func (s *ReportService) Range(ctx context.Context, fromStr, toStr string) ([]model.ProductSummary, error) {
	from, err := time.Parse(reportDateLayout, fromStr)
	if err != nil {
		return nil, apperr.New(apperr.KindInvalidRequest, "from must be a date in YYYY-MM-DD form")
	}
	to, err := time.Parse(reportDateLayout, toStr)
	if err != nil {
		return nil, apperr.New(apperr.KindInvalidRequest, "to must be a date in YYYY-MM-DD form")
	}
	if to.Before(from) {
		return nil, apperr.New(apperr.KindInvalidRequest, "to must not precede from")
	}

	summary, err := s.repo.ProductTotalsRange(ctx, from, to)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "report query failed", err)
	}
	if summary == nil {
		summary = []model.ProductSummary{}
	}
	return summary, nil
}
