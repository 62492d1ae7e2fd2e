package services

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"jobboard/internal/domain/models"
	"jobboard/internal/listing"
)

func TestReportServiceJobsPDF(t *testing.T) {
	min, max := int64(60000), int64(85000)
	deadline := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	loader := func(context.Context, listing.ListQuery) ([]models.Job, error) {
		return []models.Job{
			{ID: 1, Title: "Senior Software Engineer", CompanyName: "Acme, Inc.", City: "Zürich", JobType: "full-time", Status: "active", SalaryMin: &min, SalaryMax: &max, Deadline: &deadline},
			{ID: 2, Title: "Product Manager", CompanyName: "Globex", JobType: "contract", Status: "closed"},
		}, nil
	}

	svc := ReportService{Loader: loader, Now: func() time.Time { return deadline }}
	pdf, filename, err := svc.JobsPDF(context.Background(), listing.ListQuery{})
	if err != nil {
		t.Fatalf("JobsPDF returned error: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("output is not a pdf")
	}
	if filename != "jobs-2025-06-30.pdf" {
		t.Fatalf("unexpected filename %q", filename)
	}
}

func TestReportServicePropagatesLoadError(t *testing.T) {
	boom := errors.New("db down")
	svc := ReportService{Loader: func(context.Context, listing.ListQuery) ([]models.Job, error) { return nil, boom }}
	if _, _, err := svc.JobsPDF(context.Background(), listing.ListQuery{}); !errors.Is(err, boom) {
		t.Fatalf("expected load error, got %v", err)
	}
}

func TestFormatAmountAndSalaryRange(t *testing.T) {
	if got := formatAmount(1234567); got != "1,234,567" {
		t.Fatalf("got %q", got)
	}
	if got := formatAmount(-1000); got != "-1,000" {
		t.Fatalf("got %q", got)
	}
	min := int64(500)
	if got := salaryRange(&min, nil); got != "from 500" {
		t.Fatalf("got %q", got)
	}
	if got := salaryRange(nil, nil); got != "-" {
		t.Fatalf("got %q", got)
	}
}
