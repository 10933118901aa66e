package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sadopc/dutyreg/internal/duty"
)

func newAddCmd(e *env) *cobra.Command {
	var d duty.Draft
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a duty entry",
		Example: `  dutyreg add --date 2024-06-10 --train 12051 --from MAO --to CBE \
      --on 22:30 --off 05:15 --km 450 --pr PR`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, closeFn, err := e.openRegister()
			if err != nil {
				return err
			}
			defer closeFn()
			warn(cmd, reg)

			entry, err := reg.Add(d)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added entry %d on %s (duty %.2f h, night %.2f h)\n",
				entry.ID, entry.Date, entry.DutyHours, entry.NightHours)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&d.Date, "date", "", "Duty date YYYY-MM-DD (required)")
	f.StringVar(&d.TrainNo, "train", "", "Train number")
	f.StringVar(&d.From, "from", "", "Origin station")
	f.StringVar(&d.To, "to", "", "Destination station")
	f.StringVar(&d.SignOn, "on", "", "Sign-on time HH:MM")
	f.StringVar(&d.SignOff, "off", "", "Sign-off time HH:MM (next day when not after sign-on)")
	f.StringVar(&d.Km, "km", "", "Distance in km")
	f.StringVar(&d.PR, "pr", "", "PR code: PR, CNF, WAIT or LEAVE")
	f.StringVar(&d.Remarks, "remarks", "", "Free-text remarks")
	return cmd
}
