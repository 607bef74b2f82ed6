package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/genposter/pkg/errors"
	pio "github.com/matzehuels/genposter/pkg/io"
	"github.com/matzehuels/genposter/pkg/poster"
)

// configCommand creates the config command group.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create and inspect poster config files",
	}

	cmd.AddCommand(c.configInitCommand())
	cmd.AddCommand(c.configShowCommand())

	return cmd
}

// configInitCommand writes the default configuration to a file.
func (c *CLI) configInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [file]",
		Short: "Write the default poster config (" + defaultConfigFile + ")",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := defaultConfigFile
			if len(args) == 1 {
				path = args[0]
			}
			if err := errors.ValidateOutputPath(path); err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return errors.New(errors.ErrCodeInvalidPath, "%s already exists (use --force to overwrite)", path)
			}

			if err := pio.ExportConfig(poster.Default(), path); err != nil {
				return err
			}
			printSuccess(c.out, "Wrote default config")
			printFile(c.out, path)
			printNextStep(c.out, "Render it", "genposter render -c "+path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

// configShowCommand prints the effective configuration after flags.
func (c *CLI) configShowCommand() *cobra.Command {
	var (
		flags  posterFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective config (file plus flags)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.resolve(cmd.Flags())
			if err != nil {
				return err
			}
			format := pio.FormatTOML
			if asJSON {
				format = pio.FormatJSON
			}
			return pio.WriteConfig(c.out, cfg, format)
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of TOML")
	return cmd
}
