package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var openCmd = &cobra.Command{
	Use:   "open <category-id>",
	Short: "Open a category's location in Terminal",
	Long:  "Open the first existing location of a category in the configured application,\nfor inspecting it or cleaning it by hand. Categories that require elevated\naccess can only be cleaned this way.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, closeFn, err := buildCoordinator(false)
		if err != nil {
			return err
		}
		defer closeFn()

		ok := c.OpenCategory(args[0])
		msg := c.Snapshot().Message
		if !ok {
			return fmt.Errorf("%s", msg)
		}
		printSuccess("%s", msg)
		return nil
	},
}
