package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/genposter/pkg/poster/palette"
)

// paletteCommand prints the colors a palette mode produces.
func (c *CLI) paletteCommand() *cobra.Command {
	var (
		count int
		seed  int64
	)

	modes := make([]string, len(palette.Modes))
	for i, m := range palette.Modes {
		modes[i] = string(m)
	}

	cmd := &cobra.Command{
		Use:       "palette [mode]",
		Short:     "Show palette colors",
		Long:      `Show the colors of one palette mode, or of every mode when none is given.`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: modes,
		RunE: func(cmd *cobra.Command, args []string) error {
			show := palette.Modes
			if len(args) == 1 {
				mode, err := palette.ParseMode(args[0])
				if err != nil {
					return err
				}
				show = []palette.Mode{mode}
			}
			for i, mode := range show {
				pal, err := palette.Get(mode, seed, count)
				if err != nil {
					return err
				}
				if i > 0 {
					fmt.Fprintln(c.out)
				}
				printPalette(c.out, mode, pal)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", palette.DefaultSize, "number of colors")
	cmd.Flags().Int64VarP(&seed, "seed", "s", 0, "seed for the random palette")
	return cmd
}
