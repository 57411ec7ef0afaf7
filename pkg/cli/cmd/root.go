package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/litebase/pagedb/pkg/cli/components"
	"github.com/litebase/pagedb/pkg/cli/styles"
	"github.com/spf13/cobra"
)

const version = "v0.1.0"

func addCommands(cmd *cobra.Command) {
	cmd.AddCommand(NewExecCmd())
	cmd.AddCommand(NewPagesCmd())
	cmd.AddCommand(NewQueryCmd())
}

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "pagedb <command> [flags]",
		Short:             "pagedb CLI",
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
		SilenceErrors:     true,
		Long:              `Run SQL against a SQLite database stored as pages in a page store`,
		Run: func(cmd *cobra.Command, args []string) {
			title := styles.TitleStyle.Render(fmt.Sprintf("pagedb CLI - %s", version))

			usage := lipgloss.NewStyle().
				Foreground(styles.MutedTextColor).
				Render("For help type \"pagedb help\"")

			fmt.Fprintln(cmd.OutOrStdout(), components.Container(
				title,
				usage,
				components.TabularList([]components.ListItem{
					{Key: "exec", Value: "Execute a statement"},
					{Key: "query", Value: "Run a query and print its rows"},
					{Key: "pages", Value: "Show the page store layout"},
				}),
			))
		},
	}

	addCommands(cmd)

	return cmd
}

func NewRoot() error {
	cmd := NewRootCmd()

	err := cmd.Execute()

	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), components.ErrorAlert(err.Error()))
	}

	return err
}
