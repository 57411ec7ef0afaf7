package cmd

import "github.com/spf13/cobra"

type Command struct {
	// The underlying cobra command.
	command *cobra.Command
	// Loads and checks configuration before the command runs.
	configFuncE func(cmd *cobra.Command) error
	// Adds flags to the command.
	flagsFunc func(cmd *cobra.Command)
}

func NewCommand(use, short string) *Command {
	return &Command{
		command: &cobra.Command{
			Use:          use,
			Short:        short,
			SilenceUsage: true,
		},
	}
}

func (c *Command) Build() *cobra.Command {
	if c.flagsFunc != nil {
		c.flagsFunc(c.command)
	}

	return c.command
}

func (c *Command) WithArgs(args cobra.PositionalArgs) *Command {
	c.command.Args = args

	return c
}

func (c *Command) WithConfig(config func(cmd *cobra.Command) error) *Command {
	c.configFuncE = config

	return c
}

func (c *Command) WithFlags(flags func(cmd *cobra.Command)) *Command {
	c.flagsFunc = flags

	return c
}

func (c *Command) WithRunE(run func(cmd *cobra.Command, args []string) error) *Command {
	c.command.RunE = func(cmd *cobra.Command, args []string) error {
		if c.configFuncE != nil {
			if err := c.configFuncE(cmd); err != nil {
				return err
			}
		}

		return run(cmd, args)
	}

	return c
}
