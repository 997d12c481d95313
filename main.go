// mediasync syncs a local media directory to a NAS over SSH by driving rsync.
package main

import (
	"os"

	"mediasync/cmd"
)

func main() {
	if err := cmd.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
