package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/genposter/pkg/cache"
)

// cacheCommand groups the local artifact cache commands. The server's
// redis cache is managed with redis tooling.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the local artifact cache",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "info",
			Short: "Show how many rendered artifacts are cached",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				fc, ok, err := openCache()
				if err != nil {
					return err
				}
				if !ok {
					printInfo(c.out, "Cache is empty")
					return nil
				}
				st, err := fc.Stats(cmd.Context())
				if err != nil {
					return err
				}
				printKeyValue(c.out, "Directory", fc.Dir())
				printKeyValue(c.out, "Entries", fmt.Sprint(st.Entries))
				printKeyValue(c.out, "Size", formatBytes(st.Bytes))
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Delete every cached poster and preview",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				fc, ok, err := openCache()
				if err != nil {
					return err
				}
				if !ok {
					printInfo(c.out, "Cache is empty")
					return nil
				}
				if err := fc.Clear(cmd.Context()); err != nil {
					return err
				}
				printSuccess(c.out, "Cleared cache")
				printDetail(c.out, "Directory: %s", fc.Dir())
				return nil
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the cache directory",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				dir, err := cacheDir()
				if err != nil {
					return err
				}
				fmt.Fprintln(c.out, dir)
				return nil
			},
		},
	)
	return cmd
}

// openCache opens the local cache without creating it; ok is false when
// nothing has been cached yet.
func openCache() (fc *cache.FileCache, ok bool, err error) {
	dir, err := cacheDir()
	if err != nil {
		return nil, false, err
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, false, nil
	}
	fc, err = cache.NewFileCache(dir)
	return fc, err == nil, err
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
