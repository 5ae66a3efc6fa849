package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List cleanup categories and the locations they cover",
	RunE: func(cmd *cobra.Command, args []string) error {
		cats := enabledCategories(currentConfig())

		if jsonFlag {
			return printJSON(buildCategoriesJSON(cats))
		}

		for _, c := range cats {
			line := fmt.Sprintf("%-22s %s", c.ID, c.Title)
			if c.RequiresElevatedAccess {
				line += colorDim.Sprint(" (elevated)")
			}
			fmt.Println(line)
			fmt.Printf("  %s  %s\n", safetyColor(c.Safety).Sprint(c.Safety), c.Detail)
			fmt.Printf("  %s\n", strings.Join(c.Paths, "\n  "))
			fmt.Println()
		}
		return nil
	},
}
