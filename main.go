// main is the entry point for the localcache CLI.
package main

import (
	"fmt"
	"os"

	"github.com/huangsam/localcache/cmd"
	"github.com/huangsam/localcache/internal/iocache"
)

func main() {
	cmd.SetStoreManager(iocache.Manager)
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}

// run keeps the deferred close ahead of os.Exit.
func run() error {
	defer iocache.CloseStores()
	return cmd.Execute()
}
