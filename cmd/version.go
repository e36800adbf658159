package cmd

import (
	"fmt"
	"runtime"

	"github.com/huangsam/localcache/internal/iocache"
	"github.com/huangsam/localcache/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// versionCmd shows the verbose version for diagnostic purposes.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of localcache.",
	Long: `Display version information including build details.

Shows:
- Release version
- Git commit hash
- Build timestamp
- Go runtime version
- Configured store backend and, for SQL backends, the entries schema version

Useful for:
- Debugging compatibility issues
- Verifying correct binary installation
- Reporting bugs with version details`,
	Run: func(cmd *cobra.Command, _ []string) {
		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintf(out, "localcache CLI\n")
		_, _ = fmt.Fprintf(out, "  Version: %s\n", version)
		_, _ = fmt.Fprintf(out, "  Commit:  %s\n", commit)
		_, _ = fmt.Fprintf(out, "  Built:   %s\n", date)
		_, _ = fmt.Fprintf(out, "  Runtime: %s\n", runtime.Version())

		backend := schema.DatabaseBackend(viper.GetString("backend"))
		_, _ = fmt.Fprintf(out, "  Backend: %s\n", backend)
		if v, err := iocache.SchemaVersion(backend); err == nil {
			_, _ = fmt.Fprintf(out, "  Schema:  v%d\n", v)
		}
	},
}
