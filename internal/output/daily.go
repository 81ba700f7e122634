package output

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/rpgo/housing-projection/internal/domain"
)

// Daily stream formats
const (
	DailyText = "text"
	DailyCSV  = "csv"
)

// DailyWriter streams one line per simulated day as the run produces it. Amounts are
// printed with two decimals so identical runs produce identical bytes.
type DailyWriter struct {
	format string
	buf    *bufio.Writer
	csv    *csv.Writer
	lines  int
}

// NewDailyWriter creates a writer for the text or csv daily format
func NewDailyWriter(w io.Writer, format string) (*DailyWriter, error) {
	dw := &DailyWriter{format: strings.ToLower(format), buf: bufio.NewWriter(w)}
	switch dw.format {
	case "", DailyText:
		dw.format = DailyText
	case DailyCSV:
		dw.csv = csv.NewWriter(dw.buf)
		if err := dw.csv.Write([]string{"date", "pretax", "posttax"}); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: daily format %q", ErrUnsupportedFormat, format)
	}
	return dw, nil
}

// WriteDay writes one snapshot
func (dw *DailyWriter) WriteDay(s domain.DailySnapshot) error {
	dw.lines++
	if dw.csv != nil {
		return dw.csv.Write([]string{s.Date, Amount(s.Pretax), Amount(s.Posttax)})
	}
	_, err := fmt.Fprintf(dw.buf, "%s\t%s\t%s\n", s.Date, Amount(s.Pretax), Amount(s.Posttax))
	return err
}

// Lines returns the number of snapshots written so far
func (dw *DailyWriter) Lines() int { return dw.lines }

// Flush writes any buffered lines to the underlying writer
func (dw *DailyWriter) Flush() error {
	if dw.csv != nil {
		dw.csv.Flush()
		if err := dw.csv.Error(); err != nil {
			return err
		}
	}
	return dw.buf.Flush()
}
