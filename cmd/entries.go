package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/localcache/internal/outwriter"
	"github.com/spf13/cobra"
)

// errNotCached is returned by get when nothing usable is stored under the key.
var errNotCached = errors.New("nothing cached")

// getCmd prints the data cached under a key.
var getCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Print the data cached under a key",
	Long: `Print the JSON data cached under KEY.

Missing keys, unparseable entries and entries holding null all count as
"nothing cached" and exit non-zero.

Examples:
  localcache get user/42
  localcache get user/42 --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCache()
		if err != nil {
			return err
		}
		data, err := c.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if data == nil {
			return fmt.Errorf("%w under %q", errNotCached, args[0])
		}
		return outwriter.NewOutWriter().WriteValue(args[0], data, cfg)
	},
}

// saveCmd caches a JSON value.
var saveCmd = &cobra.Command{
	Use:   "save KEY [JSON|-]",
	Short: "Cache a JSON value under a key",
	Long: `Cache a JSON document under KEY, stamped with the current time.

The value is read from stdin when it is omitted or given as "-".
A null document is ignored.

Examples:
  localcache save user/42 '{"name":"ada"}'
  curl -s https://example.com/user/42 | localcache save user/42`,
	Args:    cobra.RangeArgs(1, 2),
	PreRunE: sharedSetupWrapper,
	RunE: func(cmd *cobra.Command, args []string) error {
		var value []byte
		if len(args) == 2 && args[1] != "-" {
			value = []byte(args[1])
		} else {
			b, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to read value from stdin: %w", err)
			}
			value = b
		}
		if !json.Valid(value) {
			return fmt.Errorf("value for %q is not a valid JSON document", args[0])
		}

		c, err := openCache()
		if err != nil {
			return err
		}
		return c.Save(cmd.Context(), args[0], json.RawMessage(value))
	},
}

// rmCmd removes keys.
var rmCmd = &cobra.Command{
	Use:     "rm KEY...",
	Short:   "Remove one or more keys",
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCache()
		if err != nil {
			return err
		}
		for _, key := range args {
			if err := c.Remove(cmd.Context(), key); err != nil {
				return err
			}
		}
		return nil
	},
}

// listCmd prints the inventory of the store.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored keys with their state, age and size",
	Long: `List every stored key. Valid entries come first, newest first, followed by
legacy entries (no timestamp) and invalid entries (unparseable or null).

Examples:
  localcache list
  localcache list --limit 10 --output csv --output-file entries.csv`,
	PreRunE: sharedSetupWrapper,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := openCache()
		if err != nil {
			return err
		}
		entries, err := c.Inspect(cmd.Context())
		if err != nil {
			return err
		}
		if limit, _ := cmd.Flags().GetInt("limit"); limit > 0 && limit < len(entries) {
			entries = entries[:limit]
		}
		return outwriter.NewOutWriter().WriteEntries(entries, cfg)
	},
}
