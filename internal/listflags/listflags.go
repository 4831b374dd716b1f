// Package listflags holds flags shared by the commands that print records.
package listflags

import "github.com/spf13/cobra"

// AddJSONFlag adds --json, which switches a command to indented JSON output.
func AddJSONFlag(cmd *cobra.Command, target *bool) {
	cmd.Flags().BoolVar(target, "json", false, "Output as JSON")
}
