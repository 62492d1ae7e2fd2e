package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"jobboard/internal/bulk"
	"jobboard/internal/csvrow"
	"jobboard/internal/domain"
	"jobboard/internal/http/middleware"
	"jobboard/internal/projection"
	"jobboard/internal/record"
	"jobboard/internal/repositories"
	"jobboard/internal/services"
	"jobboard/internal/uploads"
	"jobboard/internal/utils"
)

// ExportJobs streams every matching job as CSV, or as a PDF table with ?format=pdf.
func ExportJobs(c *gin.Context) {
	q, ok := parseList(c, repositories.AdminJobSpec)
	if !ok {
		return
	}
	if strings.EqualFold(c.Query("format"), "pdf") {
		svc := services.ReportService{Jobs: jobService(c), RequestID: middleware.GetRequestID(c)}
		pdf, filename, err := svc.JobsPDF(c.Request.Context(), q)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		c.Header("Content-Disposition", "attachment; filename="+filename)
		c.Data(http.StatusOK, "application/pdf", pdf)
		return
	}
	jobs, err := jobService(c).Export(c.Request.Context(), q)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	writeExport(c, "jobs", projection.JobExport, jobs)
}

func ExportUsers(c *gin.Context) {
	q, ok := parseList(c, repositories.UserSpec)
	if !ok {
		return
	}
	users, err := userService(c).Export(c.Request.Context(), q)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	writeExport(c, "users", projection.UserExport, users)
}

func ExportApplications(c *gin.Context) {
	q, ok := parseList(c, repositories.ApplicationSpec)
	if !ok {
		return
	}
	apps, err := applicationService(c).Export(c.Request.Context(), q)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	writeExport(c, "applications", projection.ApplicationExport, apps)
}

func writeExport[T any](c *gin.Context, entity, profile string, items []T) {
	recs, err := projection.Many(profile, items)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	body, err := renderCSV(csvrow.MustLookup(entity), recs)
	if err != nil {
		RespondDomainError(c, domain.InternalError{Msg: "render csv", Err: err})
		return
	}
	filename := fmt.Sprintf("%s-%s.csv", utils.SafeFilenamePart(entity), utils.FormatDate(utils.NowUTC()))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", body)
	utils.LogEvent(middleware.GetRequestID(c), "transfer", "export", fmt.Sprintf("entity=%s rows=%d", entity, len(recs)))
}

func renderCSV(s csvrow.Schema, recs []record.Record) ([]byte, error) {
	var buf bytes.Buffer
	w := csvrow.NewWriter(&buf, s)
	if err := w.WriteHeader(); err != nil {
		return nil, err
	}
	for _, r := range recs {
		if err := w.Write(r); err != nil {
			return nil, err
		}
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func ImportJobs(c *gin.Context) {
	runImport(c, "jobs", jobService(c).ImportRow)
}

func ImportUsers(c *gin.Context) {
	runImport(c, "users", userService(c).ImportRow)
}

func ImportApplications(c *gin.Context) {
	runImport(c, "applications", applicationService(c).ImportRow)
}

const (
	// multipartSlack covers boundaries and part headers around the file.
	multipartSlack = 64 << 10
	importDeadline = 10 * time.Minute
)

// runImport stores the upload, then feeds every row to fn. Row failures are
// reported in the result; only file-level failures become an error response.
func runImport(c *gin.Context, entity string, fn bulk.RowFunc) {
	d := current()
	rid := middleware.GetRequestID(c)

	if d.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, d.MaxUploadBytes+multipartSlack)
	}
	// Imports outlive the server's WriteTimeout; recorders without deadline support are fine.
	if err := http.NewResponseController(c.Writer).SetWriteDeadline(time.Now().Add(importDeadline)); err != nil && !errors.Is(err, http.ErrNotSupported) {
		utils.LogError(rid, "transfer", "write_deadline", err)
	}

	fh, err := c.FormFile(uploads.FormField)
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			RespondDomainError(c, domain.ValidationError{Field: uploads.FormField, Msg: fmt.Sprintf("file exceeds %d bytes", d.MaxUploadBytes), Err: err})
			return
		}
		RespondDomainError(c, domain.ValidationError{Field: uploads.FormField, Msg: "a CSV file is required", Err: err})
		return
	}
	saved, err := uploads.Save(fh, d.UploadDir, d.MaxUploadBytes)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	utils.LogEvent(rid, "transfer", "import_received", fmt.Sprintf("entity=%s file=%q size=%d", entity, saved.Original, saved.Size))

	im := bulk.Importer{
		Schema:    csvrow.MustLookup(entity),
		Archiver:  d.Archiver,
		RequestID: rid,
	}
	res, err := im.Run(c.Request.Context(), saved.Path, fn)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": res})
}
