package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/iwvelando/fincalculate/internal/routes"
	"github.com/spf13/cobra"
)

var routesPlain bool

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List every page of the site",
	Long: `Lists the index, category, calculator and state pages in the order the
site generator renders them.`,
	Args: cobra.NoArgs,
	RunE: runRoutes,
}

func init() {
	routesCmd.Flags().BoolVar(&routesPlain, "plain", false, "print one path per line")
	rootCmd.AddCommand(routesCmd)
}

func runRoutes(cmd *cobra.Command, args []string) error {
	rs, err := routes.NewEnumerator(app.catalog, app.logger).WithSiteName(siteName()).Enumerate(time.Now())
	if err != nil {
		return fmt.Errorf("failed to enumerate routes: %w", err)
	}
	if routesPlain {
		for _, r := range rs {
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), r.Path); err != nil {
				return err
			}
		}
		return nil
	}
	return writeRouteTable(cmd.OutOrStdout(), rs)
}

func writeRouteTable(w io.Writer, rs []routes.Route) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers("PATH", "TYPE", "HEADING").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, r := range rs {
		t.Row(r.Path, r.Type.String(), r.Heading)
	}
	_, err := fmt.Fprintf(w, "%s\n%d routes\n", t.Render(), len(rs))
	return err
}
