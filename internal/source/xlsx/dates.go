package xlsx

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// builtinDateFormats are the built-in number format ids that display a
// date, a time or both.
var builtinDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true, 19: true, 20: true, 21: true, 22: true,
	27: true, 28: true, 29: true, 30: true, 31: true, 32: true, 33: true, 34: true, 35: true, 36: true,
	45: true, 46: true, 47: true,
	50: true, 51: true, 52: true, 53: true, 54: true, 55: true, 56: true, 57: true, 58: true,
	71: true, 72: true, 73: true, 74: true, 75: true, 76: true, 77: true, 78: true, 79: true, 80: true, 81: true,
}

// dates rewrites date-formatted serial numbers of one sheet. Style lookups
// are cached per style index.
type dates struct {
	f        *excelize.File
	sheet    string
	date1904 bool
	isDate   map[int]bool
}

func newDates(f *excelize.File, sheet string) *dates {
	d := &dates{f: f, sheet: sheet, isDate: map[int]bool{}}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		d.date1904 = *props.Date1904
	}
	return d
}

// apply replaces, in raw, every numeric cell whose formatted value differs
// and whose style is a date or time format. Only those cells pay for a
// style lookup.
func (d *dates) apply(raw, shown [][]string) error {
	for r, row := range raw {
		if r >= len(shown) {
			break
		}
		for c, v := range row {
			if c >= len(shown[r]) || v == "" || v == shown[r][c] {
				continue
			}
			serial, err := strconv.ParseFloat(v, 64)
			if err != nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			ok, err := d.dateCell(cell)
			if err != nil {
				return err
			}
			if ok {
				row[c] = d.render(serial, v)
			}
		}
	}
	return nil
}

func (d *dates) dateCell(cell string) (bool, error) {
	idx, err := d.f.GetCellStyle(d.sheet, cell)
	if err != nil {
		return false, err
	}
	if ok, cached := d.isDate[idx]; cached {
		return ok, nil
	}
	style, err := d.f.GetStyle(idx)
	if err != nil {
		return false, err
	}
	ok := builtinDateFormats[style.NumFmt]
	if style.CustomNumFmt != nil {
		ok = dateFormat(*style.CustomNumFmt)
	}
	d.isDate[idx] = ok
	return ok, nil
}

// render formats serial, falling back to raw when it is not a valid date.
func (d *dates) render(serial float64, raw string) string {
	t, err := excelize.ExcelDateToTime(serial, d.date1904)
	if err != nil {
		return raw
	}
	t = t.Round(time.Second)
	whole, frac := math.Modf(serial)
	switch {
	case whole == 0 && frac > 0:
		return t.Format("15:04:05")
	case t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0:
		return t.Format("2006-01-02")
	default:
		return t.Format("2006-01-02 15:04:05")
	}
}

// dateFormat reports whether a custom number format code shows a date or
// time. Quoted literals, escaped characters and bracketed sections such as
// colors or locales are ignored, except elapsed time like [h] or [mm].
func dateFormat(code string) bool {
	code = strings.ToLower(code)
	if code == "general" || code == "@" {
		return false
	}
	for i := 0; i < len(code); i++ {
		switch code[i] {
		case '"':
			end := strings.IndexByte(code[i+1:], '"')
			if end < 0 {
				return false
			}
			i += end + 1
		case '[':
			end := strings.IndexByte(code[i+1:], ']')
			if end < 0 {
				return false
			}
			if elapsed(code[i+1 : i+1+end]) {
				return true
			}
			i += end + 1
		case '\\', '_', '*':
			i++
		case 'y', 'm', 'd', 'h', 's':
			return true
		}
	}
	return false
}

func elapsed(s string) bool {
	return s != "" && strings.Trim(s, "hms") == ""
}
