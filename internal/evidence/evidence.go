package evidence

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/carlosaherrerap/Evidencias/internal/model"
)

// Writer produces the files of an evidence package.
type Writer interface {
	// WriteSheet writes headers and rows as a single-sheet workbook at path.
	WriteSheet(ctx context.Context, path string, headers []model.Header, rows []model.Row) error
	// Copy copies the file at src to dst.
	Copy(ctx context.Context, src, dst string) error
}

const (
	sheetName = "Sheet1"
	// numFmtText is Excel's built-in "@" (text) number format.
	numFmtText = 49
)

var chtimes = os.Chtimes

// DefaultTextColumns are identifier columns written with text format so
// spreadsheets never show them in scientific notation.
var DefaultTextColumns = []string{
	model.FieldCuenta, model.FieldDNI, model.FieldTelefono, model.FieldNumeroCredito,
	"celular", "documento", "numero de credito",
}

// Files writes evidence to the local filesystem. Every file is written to a
// temporary name in the destination directory and renamed into place, so a
// failed write never leaves a partial artifact behind.
type Files struct {
	textColumns map[string]bool
}

// NewFiles creates a Files writer. Columns whose key or display name matches
// textColumns (case-insensitively) are formatted as text.
func NewFiles(textColumns ...string) *Files {
	if len(textColumns) == 0 {
		textColumns = DefaultTextColumns
	}
	m := make(map[string]bool, len(textColumns))
	for _, c := range textColumns {
		m[strings.ToLower(strings.TrimSpace(c))] = true
	}
	return &Files{textColumns: m}
}

func (w *Files) isText(h model.Header) bool {
	return w.textColumns[strings.ToLower(h.Key)] || w.textColumns[strings.ToLower(strings.TrimSpace(h.Name))]
}

func (w *Files) WriteSheet(ctx context.Context, path string, headers []model.Header, rows []model.Row) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := w.fill(f, headers, rows); err != nil {
		return &model.WriteError{Path: path, Err: err}
	}

	return atomic(path, func(tmp *os.File) error {
		_, err := f.WriteTo(tmp)
		return err
	})
}

func (w *Files) fill(f *excelize.File, headers []model.Header, rows []model.Row) error {
	names := make([]any, len(headers))
	for i, h := range headers {
		names[i] = h.Name
	}
	if err := f.SetSheetRow(sheetName, "A1", &names); err != nil {
		return err
	}

	for r, row := range rows {
		vals := make([]any, len(headers))
		for i, h := range headers {
			vals[i] = row[h.Key]
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &vals); err != nil {
			return err
		}
	}

	if len(rows) == 0 {
		return nil
	}
	style, err := f.NewStyle(&excelize.Style{NumFmt: numFmtText})
	if err != nil {
		return err
	}
	for i, h := range headers {
		if !w.isText(h) {
			continue
		}
		top, err := excelize.CoordinatesToCellName(i+1, 2)
		if err != nil {
			return err
		}
		bottom, err := excelize.CoordinatesToCellName(i+1, len(rows)+1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheetName, top, bottom, style); err != nil {
			return err
		}
	}
	return nil
}

// Copy copies src to dst and carries over the source modification time.
// Errors opening src are returned as is; errors on the destination side are
// wrapped in *model.WriteError.
func (w *Files) Copy(ctx context.Context, src, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	info, err := in.Stat()
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", src)
	}

	if err := atomic(dst, func(tmp *os.File) error {
		_, err := io.Copy(tmp, readerWithCtx(ctx, in))
		return err
	}); err != nil {
		return err
	}
	if err := chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		slog.Debug("evidence: keep modification time", "path", dst, "error", err)
	}
	return nil
}

// atomic writes through fill into a temp file next to dest and renames it
// into place.
func atomic(dest string, fill func(*os.File) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".tmp-*")
	if err != nil {
		return &model.WriteError{Path: dest, Err: err}
	}
	tmpPath := tmp.Name()

	if err := fill(tmp); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return &model.WriteError{Path: dest, Err: err}
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return &model.WriteError{Path: dest, Err: err}
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return &model.WriteError{Path: dest, Err: err}
	}
	return nil
}

// readerWithCtx checks ctx before every Read so large audio copies stop
// promptly on cancellation.
func readerWithCtx(ctx context.Context, r io.Reader) io.Reader {
	return &ctxReader{ctx: ctx, r: r}
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr *ctxReader) Read(p []byte) (int, error) {
	select {
	case <-cr.ctx.Done():
		return 0, cr.ctx.Err()
	default:
	}
	return cr.r.Read(p)
}
