// Command nestcall turns the method under the cursor of a NestJS source file
// into a REPL invocation such as `await $(UsersService).findOne(1)`.
package main

import (
	"fmt"
	"os"

	"charm.land/lipgloss/v2"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#f7768e")).Bold(true)
		fmt.Fprintln(os.Stderr, errStyle.Render("nestcall:")+" "+err.Error())
		os.Exit(1)
	}
}
