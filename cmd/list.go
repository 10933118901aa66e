package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/sadopc/dutyreg/internal/duty"
)

var listHeader = []string{
	"ID", "Date", "Train", "From", "To", "On", "Off",
	"Duty", "Night", "PR", "KM", "Prog KM", "Prog Duty", "Remarks",
}

func newListCmd(e *env) *cobra.Command {
	var month string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the entries of a month with progressive sums",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := e.month(month)
			if err != nil {
				return err
			}
			reg, closeFn, err := e.openRegister()
			if err != nil {
				return err
			}
			defer closeFn()
			warn(cmd, reg)

			printView(cmd.OutOrStdout(), reg.Month(m))
			return nil
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "Month YYYY-MM (default current month)")
	return cmd
}

func printView(w io.Writer, v duty.View) {
	fmt.Fprintln(w, v.Month.Label())
	if len(v.Rows) == 0 {
		fmt.Fprintln(w, "No entries")
		fmt.Fprintln(w, v.Totals)
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(listHeader...).
		Rows(listRows(v)...)
	fmt.Fprintln(w, t.String())
	fmt.Fprintln(w, v.Totals)
}

func listRows(v duty.View) [][]string {
	rows := make([][]string, 0, len(v.Rows))
	for _, r := range v.Rows {
		rows = append(rows, []string{
			strconv.FormatInt(r.ID, 10),
			r.Date,
			r.TrainNo,
			r.From,
			r.To,
			r.SignOn,
			r.SignOff,
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
