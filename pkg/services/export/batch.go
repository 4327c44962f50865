package export

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rps-tools/report-atlas/pkg/models/domain"
	"github.com/rps-tools/report-atlas/pkg/store/archive"
	"github.com/rs/zerolog"
)

const (
	ArchiveName    = "relatorios.zip"
	zipContentType = "application/zip"
)

var (
	// ErrInvalidIDs is returned when a batch id list is empty or holds a non-numeric id.
	ErrInvalidIDs = errors.New("invalid company ids")
	// ErrArchiveDisabled is returned when no archive bucket is configured.
	ErrArchiveDisabled = errors.New("archive storage not configured")
	// ErrArchiveUpload wraps failures of the archive store.
	ErrArchiveUpload = errors.New("archive upload failed")
)

// FileName is the attachment name of a company's PDF.
func FileName(code int) string {
	return fmt.Sprintf("RPS_Relatorio_%d.pdf", code)
}

// ParseIDs reads a comma separated id list, keeping the first occurrence of each id in order.
func ParseIDs(raw string) ([]int, error) {
	seen := make(map[int]struct{})
	var ids []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidIDs, part)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no ids given", ErrInvalidIDs)
	}
	return ids, nil
}

// Assembler is implemented by report.Assembler.
type Assembler interface {
	Assemble(ctx context.Context, code int, period string) (*domain.ReportContext, error)
}

// Exporter produces the downloadable documents: single PDFs and batch archives.
type Exporter struct {
	assembler Assembler
	pdf       PDFRenderer
	archive   archive.Store
	prefix    string
	now       func() time.Time
}

type ExporterOptions struct {
	// Archive is optional; without it Archive returns ErrArchiveDisabled.
	Archive archive.Store
	Prefix  string
	Now     func() time.Time
}

func NewExporter(assembler Assembler, pdf PDFRenderer, opts ExporterOptions) *Exporter {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Exporter{
		assembler: assembler,
		pdf:       pdf,
		archive:   opts.Archive,
		prefix:    strings.Trim(opts.Prefix, "/"),
		now:       opts.Now,
	}
}

func (e *Exporter) PDF(ctx context.Context, code int, period string) ([]byte, error) {
	rc, err := e.assembler.Assemble(ctx, code, period)
	if err != nil {
		return nil, err
	}
	doc, err := e.pdf.Render(ctx, rc)
	if err != nil {
		return nil, fmt.Errorf("render pdf for company %d: %w", code, err)
	}
	return doc, nil
}

// WriteZIP renders the companies one after the other and writes one PDF entry per id, in
// the given order. The first failure aborts the archive.
func (e *Exporter) WriteZIP(ctx context.Context, w io.Writer, ids []int, period string) error {
	zw := zip.NewWriter(w)
	for _, id := range ids {
		doc, err := e.PDF(ctx, id, period)
		if err != nil {
			return err
		}
		f, err := zw.CreateHeader(&zip.FileHeader{
			Name:     FileName(id),
			Method:   zip.Deflate,
			Modified: e.now(),
		})
		if err != nil {
			return fmt.Errorf("add %s to archive: %w", FileName(id), err)
		}
		if _, err := f.Write(doc); err != nil {
			return fmt.Errorf("write %s to archive: %w", FileName(id), err)
		}
		zerolog.Ctx(ctx).Debug().Int("company", id).Int("bytes", len(doc)).Msg("added report to archive")
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("close archive: %w", err)
	}
	return nil
}

// ZIP builds the whole archive in memory.
func (e *Exporter) ZIP(ctx context.Context, ids []int, period string) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.WriteZIP(ctx, &buf, ids, period); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Location points at an uploaded archive.
type Location struct {
	Bucket string
	Key    string
	Size   int64
}

// Archive builds the batch archive and uploads it under a unique key.
func (e *Exporter) Archive(ctx context.Context, ids []int, period string) (Location, error) {
	if e.archive == nil {
		return Location{}, ErrArchiveDisabled
	}

	body, err := e.ZIP(ctx, ids, period)
	if err != nil {
		return Location{}, err
	}
	return e.Upload(ctx, body)
}

// Upload stores an archive that was already built, under a unique dated key.
func (e *Exporter) Upload(ctx context.Context, body []byte) (Location, error) {
	if e.archive == nil {
		return Location{}, ErrArchiveDisabled
	}

	key := fmt.Sprintf("%s/%s.zip", e.now().Format("2006/01/02"), uuid.NewString())
	if e.prefix != "" {
		key = e.prefix + "/" + key
	}
	if err := e.archive.Put(ctx, key, body, zipContentType); err != nil {
		return Location{}, fmt.Errorf("%w: %w", ErrArchiveUpload, err)
	}

	zerolog.Ctx(ctx).Info().
		Str("bucket", e.archive.Bucket()).
		Str("key", key).
		Int("bytes", len(body)).
		Msg("batch archive uploaded")
	return Location{Bucket: e.archive.Bucket(), Key: key, Size: int64(len(body))}, nil
}

// HasArchive reports whether archive uploads are configured.
func (e *Exporter) HasArchive() bool {
	return e.archive != nil
}
