package xlsx

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/carlosaherrerap/Evidencias/internal/source"
)

func init() {
	source.Register(".xlsx", func() source.Reader { return &Reader{} })
	source.Register(".xlsm", func() source.Reader { return &Reader{} })
}

// Reader reads the first worksheet of an Excel workbook.
// Numeric cells are returned raw, without number formats applied, so long
// identifiers keep their digits. Cells formatted as a date or time are the
// exception: they are rendered as "2006-01-02", "2006-01-02 15:04:05" or
// "15:04:05" instead of their serial number.
type Reader struct {
	// Sheet selects a worksheet by name instead of the first one.
	Sheet string
}

func (r *Reader) Read(ctx context.Context, path string) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("xlsx: open %s: %w", path, err)
	}
	defer f.Close()

	sheet := r.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("xlsx: %s has no worksheets", path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("xlsx: read %s[%s]: %w", path, sheet, err)
	}
	shown, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("xlsx: read %s[%s]: %w", path, sheet, err)
	}
	if err := newDates(f, sheet).apply(rows, shown); err != nil {
		return nil, fmt.Errorf("xlsx: read %s[%s]: %w", path, sheet, err)
	}
	return rows, nil
}
