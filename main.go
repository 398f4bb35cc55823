// ABOUTME: Entry point for the ems CLI
// ABOUTME: Employee management console for the terminal and for scripts

package main

import (
	"os"

	"github.com/markalston/employee-console/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
