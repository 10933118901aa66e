package export

import (
	"fmt"

	"github.com/johnfercher/maroto/pkg/color"
	"github.com/johnfercher/maroto/pkg/consts"
	"github.com/johnfercher/maroto/pkg/pdf"
	"github.com/johnfercher/maroto/pkg/props"

	"github.com/sadopc/dutyreg/internal/duty"
)

// The sheet folds From/To and Sign On/Off into one column each so the
// table fits the 12-unit grid.
var sheetHeader = []string{
	"Date", "Train", "Route", "On-Off", "Duty", "Night",
	"PR", "KM", "Prog KM", "Prog Duty", "Remarks",
}

var sheetGrid = []uint{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 2}

func sheetRows(v duty.View) [][]string {
	rows := make([][]string, 0, len(v.Rows))
	for _, r := range v.Rows {
		rows = append(rows, []string{
			r.Date,
			r.TrainNo,
			joinPair(r.From, r.To),
			joinPair(r.SignOn, r.SignOff),
			fmt.Sprintf("%.2f", r.DutyHours),
			fmt.Sprintf("%.2f", r.NightHours),
			r.PR,
			duty.FormatNumber(r.Km),
			duty.FormatNumber(r.ProgressiveKm),
			fmt.Sprintf("%.2f", r.ProgressiveDuty),
			r.Remarks,
		})
	}
	return rows
}

func joinPair(a, b string) string {
	if a == "" && b == "" {
		return ""
	}
	return a + "-" + b
}

// ToPDF writes a printable month sheet: title, the table and the totals line.
func ToPDF(v duty.View, path string) error {
	m := pdf.NewMaroto(consts.Landscape, consts.A4)
	m.SetPageMargins(10, 10, 10)

	m.RegisterHeader(func() {
		m.Row(10, func() {
			m.Col(12, func() {
				m.Text("Duty Register", props.Text{
					Top:   3,
					Style: consts.Bold,
					Align: consts.Center,
					Size:  16,
				})
			})
		})
		m.Row(8, func() {
			m.Col(12, func() {
				m.Text(v.Month.Label(), props.Text{
					Top:   1,
					Style: consts.Normal,
					Align: consts.Center,
					Size:  12,
				})
			})
		})
	})

	rows := sheetRows(v)
	if len(rows) == 0 {
		m.Row(10, func() {
			m.Col(12, func() {
				m.Text("No entries", props.Text{
					Top:   3,
					Style: consts.Italic,
					Align: consts.Center,
					Size:  10,
				})
			})
		})
	} else {
		m.TableList(sheetHeader, rows, props.TableList{
			HeaderProp: props.TableListContent{
				Size:      8,
				GridSizes: sheetGrid,
			},
			ContentProp: props.TableListContent{
				Size:      8,
				GridSizes: sheetGrid,
			},
			Align:                consts.Center,
			AlternatedBackground: &color.Color{Red: 240, Green: 240, Blue: 240},
			HeaderContentSpace:   1,
			Line:                 false,
		})
	}

	m.Row(15, func() {
		m.Col(12, func() {
			m.Text(v.Totals.String(), props.Text{
				Top:   6,
				Style: consts.Bold,
				Align: consts.Right,
				Size:  11,
			})
		})
	})

	if err := m.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
