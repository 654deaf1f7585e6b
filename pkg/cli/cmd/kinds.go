package cmd

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/rzbill/sigil/pkg/catalog"
)

// kindsCmd lists the object kinds the builtin catalog can validate.
var kindsCmd = &cobra.Command{
	Use:   "kinds",
	Short: "List object kinds in the schema catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat := catalog.Builtin()

		table := pterm.DefaultTable.WithHasHeader(true)
		headerStyle := pterm.NewStyle(pterm.FgCyan, pterm.Bold)
		table = table.WithHeaderStyle(headerStyle)

		rows := pterm.TableData{{"KIND", "APIVERSION", "XREF"}}
		for _, k := range cat.Kinds() {
			schema, _ := cat.Lookup(k.APIVersion, k.Kind)
			rows = append(rows, []string{k.Kind, k.APIVersion, xrefSummary(schema)})
		}
		if err := table.WithData(rows).Render(); err != nil {
			return err
		}
		fmt.Printf("%d kinds registered (catalog %s)\n", cat.Len(), cat.Fingerprint())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(kindsCmd)
}

// xrefSummary names the cross-reference rules a schema takes part in.
func xrefSummary(schema *catalog.ObjectSchema) string {
	var parts []string
	if schema.Selector != nil {
		parts = append(parts, "selector")
	}
	if schema.NameRef != nil {
		parts = append(parts, "roleRef")
	}
	if len(schema.PodTemplatePaths) > 0 {
		parts = append(parts, "pods")
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ",")
}
