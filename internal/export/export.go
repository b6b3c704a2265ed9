// Package export renders book collections as downloadable report files.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"maktaba/internal/models"
)

// Format identifies a report file format.
type Format string

const (
	FormatCSV Format = "csv"
	// FormatPDF is recognized but unimplemented; requesting it always fails.
	FormatPDF Format = "pdf"
)

// ErrUnsupportedFormat is returned for formats the exporter cannot produce.
var ErrUnsupportedFormat = errors.New("export: unsupported format")

// Headers is the fixed column order of the book report.
var Headers = []string{
	"عنوان الكتاب",
	"اسم القارئ",
	"المستوى",
	"الحالة",
	"ملاحظات المراجعين",
	"المراجع 1",
	"المراجع 2",
	"المدقق",
	"مدة القراءة (ثوان)",
	"حالة النشر",
}

// WriteCSV writes the header row followed by one row per book. Fields
// containing the delimiter, quotes or line breaks are quoted per RFC 4180,
// so the output round-trips losslessly.
func WriteCSV(w io.Writer, books []models.Book) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Headers); err != nil {
		return fmt.Errorf("failed to write export header: %w", err)
	}
	for _, b := range books {
		row := []string{
			b.Title,
			b.ReaderName,
			b.Level,
			b.Status.Label(),
			b.ReviewerNotes,
			b.AudioReviewer1,
			b.AudioReviewer2,
			b.RecordingEditor,
			strconv.Itoa(b.ReadingDuration),
			b.PublishStatus.Label(),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write export row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush export: %w", err)
	}
	return nil
}

// Write renders the books in the requested format.
func Write(w io.Writer, format Format, books []models.Book) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, books)
	case FormatPDF:
		return fmt.Errorf("%w: pdf export is not implemented", ErrUnsupportedFormat)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Filename returns the localized report filename for the given day, e.g.
// "تقرير_الكتب_2025-06-20.csv".
func Filename(format Format, now time.Time) string {
	return fmt.Sprintf("تقرير_الكتب_%s.%s", now.Format("2006-01-02"), format)
}

// ContentType returns the MIME type served with an export download.
func ContentType(format Format) string {
	switch format {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}
