package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/sadopc/dutyreg/internal/export"
)

func newExportCmd(e *env) *cobra.Command {
	var month, format, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a month as CSV or JSON",
		Long: `Export writes duty_<YYYY-MM>.csv (or .json) into the export directory.
Use --out - to write to stdout instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != export.FormatCSV && format != export.FormatJSON {
				return fmt.Errorf("--format must be csv or json, got %q", format)
			}
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

			v := reg.Month(m)
			if out == "-" {
				if format == export.FormatJSON {
					return export.WriteJSON(cmd.OutOrStdout(), v)
				}
				return export.WriteCSV(cmd.OutOrStdout(), v.Rows)
			}

			dir := out
			if dir == "" {
				dir = e.cfg.Export.Dir
			}
			path, err := export.ToDir(v, dir, format)
			if err != nil {
				return err
			}
			log.Printf("exported %s (%d rows) to %s", m, len(v.Rows), path)
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d entries to %s\n", len(v.Rows), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "Month YYYY-MM (default current month)")
	cmd.Flags().StringVar(&format, "format", export.FormatCSV, "Output format: csv or json")
	cmd.Flags().StringVar(&out, "out", "", "Output directory, or - for stdout (default export.dir)")
	return cmd
}

func newPrintCmd(e *env) *cobra.Command {
	var month, out string
	cmd := &cobra.Command{
		Use:   "print",
		Short: "Write a printable PDF sheet of a month",
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

			dir := out
			if dir == "" {
				dir = e.cfg.Export.Dir
			}
			path, err := export.ToDir(reg.Month(m), dir, export.FormatPDF)
			if err != nil {
				return err
			}
			log.Printf("printed %s to %s", m, path)
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "Month YYYY-MM (default current month)")
	cmd.Flags().StringVar(&out, "out", "", "Output directory (default export.dir)")
	return cmd
}
