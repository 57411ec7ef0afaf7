package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewExecCmd() *cobra.Command {
	return NewCommand("exec <sql> [params]", "Execute a statement").
		WithArgs(cobra.RangeArgs(1, 2)).
		WithConfig(loadConfig).
		WithRunE(func(cmd *cobra.Command, args []string) error {
			payload, err := queryPayload(args)

			if err != nil {
				return err
			}

			connection, err := openConnection(cmd)

			if err != nil {
				return err
			}

			defer connection.Close()

			if !connection.Execute(payload) {
				return lastError(connection)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "OK")

			return nil
		}).
		Build()
}
