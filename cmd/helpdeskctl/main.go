// Command helpdeskctl runs operator tasks against the helpdesk store:
// schema migration, roster seeding and ticket report exports.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
