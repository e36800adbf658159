package cmd

import (
	"github.com/huangsam/localcache/internal/outwriter"
	"github.com/spf13/cobra"
)

// pruneCmd bounds the store.
var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Drop invalid entries and keep only the newest ones",
	Long: `Bound the store to --max-entries valid entries.

Nothing happens while the store holds --max-entries keys or fewer. Otherwise
unparseable entries and entries without a timestamp are removed, and of the
remaining entries only the newest --max-entries are kept.

Keys matched by --preserve are never touched and do not count against the
ceiling. Values ending in '/' match prefixes, values with '*', '?' or '['
are globs, anything else is an exact key.

Examples:
  localcache prune --max-entries 100
  localcache prune --preserve settings,session/ --max-entries 20`,
	PreRunE: sharedSetupWrapper,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := openCache()
		if err != nil {
			return err
		}
		result, err := c.Prune(cmd.Context(), cfg.Preserved, cfg.MaxEntries)
		if err != nil {
			return err
		}
		return outwriter.NewOutWriter().WritePrune(result, cfg)
	},
}
