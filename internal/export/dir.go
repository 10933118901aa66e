package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sadopc/dutyreg/internal/duty"
)

// Formats understood by ToDir. The value doubles as the file extension.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatPDF  = "pdf"
)

// ToDir writes the month view into dir as duty_<YYYY-MM>.<format>,
// creating dir when needed, and returns the written path.
func ToDir(v duty.View, dir, format string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}
	path := filepath.Join(dir, FileName(v.Month, format))

	var err error
	switch format {
	case FormatCSV:
		err = ToCSV(v.Rows, path)
	case FormatJSON:
		err = ToJSON(v, path)
	case FormatPDF:
		err = ToPDF(v, path)
	default:
		return "", fmt.Errorf("unknown export format %q", format)
	}
	if err != nil {
		return "", err
	}
	return path, nil
}
