package service

import (
	"context"
	"testing"
	"time"

	"lakshmikitchen/internal/apperr"
	"lakshmikitchen/internal/model"
)

type fakeReportRepo struct {
	today []model.ProductSummary
	byDay []model.ProductSummary
	from  time.Time
	to    time.Time
}

func (f *fakeReportRepo) ProductTotalsToday(context.Context) ([]model.ProductSummary, error) {
	return f.today, nil
}

func (f *fakeReportRepo) ProductTotalsRange(_ context.Context, from, to time.Time) ([]model.ProductSummary, error) {
	f.from, f.to = from, to
	return f.byDay, nil
}

func TestReportTodayNeverNil(t *testing.T) {
	svc := NewReportService(&fakeReportRepo{})
	summary, err := svc.Today(context.Background())
	if err != nil {
		t.Fatalf("today: %v", err)
	}
	if summary == nil {
		t.Fatal("empty report must be an empty slice, not nil")
	}
	if len(summary) != 0 {
		t.Errorf("summary = %+v", summary)
	}
}

func TestReportRange(t *testing.T) {
	repo := &fakeReportRepo{byDay: []model.ProductSummary{{ProductID: 1, Product: "Idli", Quantity: 5}}}
	svc := NewReportService(repo)

	summary, err := svc.Range(context.Background(), "2026-08-01", "2026-08-31")
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if len(summary) != 1 || summary[0].Product != "Idli" {
		t.Errorf("summary = %+v", summary)
	}
	if repo.from.Format("2006-01-02") != "2026-08-01" || repo.to.Format("2006-01-02") != "2026-08-31" {
		t.Errorf("bounds = %v..%v", repo.from, repo.to)
	}
}

func TestReportRangeValidation(t *testing.T) {
	svc := NewReportService(&fakeReportRepo{})
	tests := []struct {
		name string
		from string
		to   string
	}{
		{name: "badFrom", from: "01-08-2026", to: "2026-08-31"},
		{name: "badTo", from: "2026-08-01", to: "next tuesday"},
		{name: "inverted", from: "2026-08-31", to: "2026-08-01"},
		{name: "empty", from: "", to: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Range(context.Background(), tt.from, tt.to)
			if !apperr.IsKind(err, apperr.KindInvalidRequest) {
				t.Errorf("err = %v, want invalid_request", err)
			}
		})
	}
}
