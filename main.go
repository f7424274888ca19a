// mm is a local, file-backed organizer for notes, tasks, and events.
package main

import (
	"fmt"
	"os"

	"github.com/kecbigmt/mm-sub003/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
