package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sadopc/dutyreg/internal/duty"
)

type jsonExport struct {
	ExportedAt string      `json:"exported_at"`
	Month      duty.Month  `json:"month"`
	Totals     duty.Totals `json:"totals"`
	Rows       []duty.Row  `json:"rows"`
}

func WriteJSON(w io.Writer, v duty.View) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Month:      v.Month,
		Totals:     v.Totals,
		Rows:       v.Rows,
	}
	if export.Rows == nil {
		export.Rows = []duty.Row{}
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

func ToJSON(v duty.View, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create json file: %w", err)
	}
	if err := WriteJSON(f, v); err != nil {
		f.Close()
		return fmt.Errorf("write json file: %w", err)
	}
	return f.Close()
}
