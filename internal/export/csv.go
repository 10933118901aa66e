package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/sadopc/dutyreg/internal/duty"
)

// Header is the fixed column order of the CSV export.
var Header = []string{
	"Date", "Train No", "From", "To", "Sign On", "Sign Off",
	"Duty Hours", "Night Hours", "PR", "KM", "Prog KM", "Prog Duty", "Remarks",
}

// FileName returns duty_<YYYY-MM>.<ext>.
func FileName(m duty.Month, ext string) string {
	return fmt.Sprintf("duty_%s.%s", m, ext)
}

// Record renders one row in header order.
func Record(r duty.Row) []string {
	return []string{
		r.Date,
		r.TrainNo,
		r.From,
		r.To,
		r.SignOn,
		r.SignOff,
		duty.FormatNumber(r.DutyHours),
		duty.FormatNumber(r.NightHours),
		r.PR,
		duty.FormatNumber(r.Km),
		duty.FormatNumber(r.ProgressiveKm),
		duty.FormatNumber(r.ProgressiveDuty),
		r.Remarks,
	}
}

// WriteCSV writes the header and one line per row. Only fields holding a
// comma, quote or line break are quoted.
func WriteCSV(w io.Writer, rows []duty.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(Record(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func ToCSV(rows []duty.Row, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	if err := WriteCSV(f, rows); err != nil {
		f.Close()
		return fmt.Errorf("write csv: %w", err)
	}
	return f.Close()
}
