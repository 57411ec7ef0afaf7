package cmd

import (
	"fmt"

	"github.com/litebase/pagedb/pkg/cli/components"
	"github.com/litebase/pagedb/pkg/file"
	"github.com/litebase/pagedb/pkg/storage"
	"github.com/spf13/cobra"
)

func NewPagesCmd() *cobra.Command {
	return NewCommand("pages", "Show the page store layout").
		WithArgs(cobra.NoArgs).
		WithConfig(loadConfig).
		WithRunE(func(cmd *cobra.Command, args []string) error {
			c := commandConfig(cmd)

			store, err := storage.NewPageStore(cmd.Context(), c)

			if err != nil {
				return err
			}

			count, err := store.PageCount()

			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), components.TabularList([]components.ListItem{
				{Key: "Driver", Value: c.StorageDriver},
				{Key: "Pages", Value: fmt.Sprintf("%d", count)},
				{Key: "Page size", Value: fmt.Sprintf("%d", c.PageSize)},
				{Key: "Size", Value: fmt.Sprintf("%d", file.PageOffset(int64(count), c.PageSize))},
			}))

			return nil
		}).
		Build()
}
