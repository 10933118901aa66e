package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newRmCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete an entry by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid entry id %q", args[0])
			}
			reg, closeFn, err := e.openRegister()
			if err != nil {
				return err
			}
			defer closeFn()
			warn(cmd, reg)

			removed, err := reg.Delete(id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted entry %d (%s %s)\n", removed.ID, removed.Date, removed.TrainNo)
			return nil
		},
	}
}
