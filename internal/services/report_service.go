package services

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/phpdave11/gofpdf"

	"jobboard/internal/domain/models"
	"jobboard/internal/listing"
	"jobboard/internal/utils"
)

// ReportService renders printable summaries of the job board.
type ReportService struct {
	Jobs      JobService
	RequestID string
	// Loader replaces the repository query; tests use it.
	Loader func(context.Context, listing.ListQuery) ([]models.Job, error)
	Now    func() time.Time
}

// JobsPDF renders every job matching q as a landscape table.
func (s ReportService) JobsPDF(ctx context.Context, q listing.ListQuery) ([]byte, string, error) {
	load := s.Jobs.Export
	if s.Loader != nil {
		load = s.Loader
	}
	jobs, err := load(ctx, q)
	if err != nil {
		return nil, "", err
	}
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	utils.LogEvent(s.RequestID, "report", "jobs_pdf", fmt.Sprintf("rows=%d", len(jobs)))
	return buildJobsPDF(jobs, now)
}

var jobsPDFColumns = []struct {
	title string
	width float64
}{
	{"Title", 70}, {"Company", 50}, {"City", 35}, {"Type", 25}, {"Status", 20}, {"Salary", 40}, {"Deadline", 25},
}

func buildJobsPDF(jobs []models.Job, now time.Time) ([]byte, string, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Jobs report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "JOBS REPORT")
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Generated %s, %d postings", now.UTC().Format("2006-01-02 15:04"), len(jobs)))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for _, c := range jobsPDFColumns {
		pdf.CellFormat(c.width, 7, c.title, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, j := range jobs {
		cells := []string{
			j.Title, j.CompanyName, safe(j.City, "-"), j.JobType, j.Status,
			salaryRange(j.SalaryMin, j.SalaryMax), deadlineText(j.Deadline),
		}
		for i, c := range jobsPDFColumns {
			pdf.CellFormat(c.width, 6, truncate(tr(cells[i]), int(c.width/2)), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("jobs-%s.pdf", now.UTC().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

func safe(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func truncate(s string, n int) string {
	if n <= 3 || len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func salaryRange(min, max *int64) string {
	switch {
	case min != nil && max != nil:
		return formatAmount(*min) + " - " + formatAmount(*max)
	case min != nil:
		return "from " + formatAmount(*min)
	case max != nil:
		return "up to " + formatAmount(*max)
	default:
		return "-"
	}
}

func deadlineText(d *time.Time) string {
	if d == nil {
		return "-"
	}
	return utils.FormatDate(*d)
}

// formatAmount groups thousands with commas.
func formatAmount(v int64) string {
	s := strconv.FormatInt(v, 10)
	neg := v < 0
	if neg {
		s = s[1:]
	}
	var out []byte
	n := len(s)
	for i := 0; i < n; i++ {
		out = append(out, s[i])
		pos := n - i - 1
		if pos > 0 && pos%3 == 0 {
			out = append(out, ',')
		}
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}
