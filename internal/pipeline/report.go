// Package pipeline orchestrates report generation: field mapping, template
// loading, conditional healing, rendering, and best-effort PDF conversion.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mhollis/taxdoc/internal/convert"
	"github.com/mhollis/taxdoc/internal/docx"
	"github.com/mhollis/taxdoc/internal/mapper"
	"github.com/mhollis/taxdoc/internal/metrics"
	"github.com/mhollis/taxdoc/internal/types"
)

// MIME types for the two formats a report can be served in. The response
// content type and filename extension always agree.
const (
	MIMEPDF  = "application/pdf"
	MIMEDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Converter produces a PDF from a rendered DOCX buffer. Conversion is always
// optional: any failure makes the pipeline fall back to serving the DOCX.
type Converter interface {
	Convert(ctx context.Context, document []byte, filename string) ([]byte, error)
}

// Options holds everything one report generation needs. Configuration is
// passed in explicitly so tests can run with fake converters and template
// paths; the pipeline reads no ambient process state.
type Options struct {
	TemplatePath string
	ClientName   string
	Converter    Converter
	Now          time.Time
	Logger       *zap.Logger
}

// Report is the final output: a byte buffer plus the content type and
// filename matching the format that was actually produced.
type Report struct {
	Data        []byte
	ContentType string
	Filename    string
}

// Generate runs the full pipeline for one request. The call is stateless:
// each invocation loads its own template copy and holds nothing across
// requests. Fatal errors (template missing or empty, unparseable archive,
// render failure) propagate; conversion failures never do.
func Generate(ctx context.Context, quick, strategy types.QuestionnaireRecord, opts Options) (*Report, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	started := time.Now()
	defer func() {
		metrics.ReportDuration.Observe(time.Since(started).Seconds())
	}()

	// Field mapping and template loading are independent.
	var fields mapper.FieldDictionary
	var archive *docx.Archive

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		fields = mapper.Map(quick, strategy, now)
		return nil
	})
	group.Go(func() error {
		if err := groupCtx.Err(); err != nil {
			return err
		}
		loaded, err := docx.Load(opts.TemplatePath)
		if err != nil {
			return err
		}
		archive = loaded
		return nil
	})
	if err := group.Wait(); err != nil {
		metrics.ReportFailures.WithLabelValues("template").Inc()
		return nil, err
	}

	// Prepare against the original archive first; healing is unnecessary
	// and potentially risky for already-well-formed templates. Only a
	// structural parse failure triggers the one-shot heal-and-retry.
	placeholders, err := docx.Prepare(archive)
	if err != nil {
		var parseErr *docx.ParseError
		if !errors.As(err, &parseErr) {
			metrics.ReportFailures.WithLabelValues("parse").Inc()
			return nil, err
		}

		report := docx.Heal(archive)
		log.Info("healed template placeholders",
			zap.Int("tokens_before", report.TokensBefore),
			zap.Int("tokens_after", report.TokensAfter),
			zap.Int("repairs", report.Repairs))
		metrics.HealRepairs.Add(float64(report.Repairs))

		placeholders, err = docx.Prepare(archive)
		if err != nil {
			metrics.ReportFailures.WithLabelValues("parse").Inc()
			return nil, err
		}
	}
	log.Debug("template prepared", zap.Int("placeholders", len(placeholders)))

	document, err := docx.Render(archive, fields)
	if err != nil {
		metrics.ReportFailures.WithLabelValues("render").Inc()
		return nil, err
	}

	clientName := opts.ClientName
	if clientName == "" {
		clientName = fields["CLIENT_NAME"]
	}
	baseName := reportBaseName(clientName, now)

	// Conversion is best effort. Any failure, at any stage, degrades to
	// serving the rendered DOCX unchanged.
	if opts.Converter != nil {
		pdf, err := opts.Converter.Convert(ctx, document, baseName+".docx")
		if err == nil {
			metrics.ReportsGenerated.WithLabelValues("pdf").Inc()
			return &Report{Data: pdf, ContentType: MIMEPDF, Filename: baseName + ".pdf"}, nil
		}
		log.Warn("PDF conversion unavailable, serving DOCX", zap.Error(err))
		metrics.ConversionFallbacks.WithLabelValues(conversionStage(err)).Inc()
	}

	metrics.ReportsGenerated.WithLabelValues("docx").Inc()
	return &Report{Data: document, ContentType: MIMEDocx, Filename: baseName + ".docx"}, nil
}

// unsafeFilenameChars collapses anything outside the portable filename set.
var (
	unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9-]+`)
	edgeUnderscores     = regexp.MustCompile(`^_+|_+$`)
)

// reportBaseName builds "Tax_Report_<client>_<ISO-date>" with the client
// name sanitized for use in a Content-Disposition filename.
func reportBaseName(clientName string, now time.Time) string {
	name := unsafeFilenameChars.ReplaceAllString(clientName, "_")
	name = edgeUnderscores.ReplaceAllString(name, "")
	if name == "" {
		name = "Client"
	}
	return fmt.Sprintf("Tax_Report_%s_%s", name, now.Format("2006-01-02"))
}

// conversionStage extracts the failing stage label for metrics.
func conversionStage(err error) string {
	var unavailable *convert.UnavailableError
	if errors.As(err, &unavailable) {
		return unavailable.Stage
	}
	return "unknown"
}
