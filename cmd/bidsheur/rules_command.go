package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mrsinham/bidsheur/internal/heuristic"
)

type rulesView struct {
	Table      heuristic.RuleFile         `json:"table"`
	Duplicates []heuristic.DuplicateGroup `json:"duplicates"`
}

func newRulesCommand(ctx *commandContext) *cobra.Command {
	var asJSON, asYAML bool

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Show the keys, rules and duplicate conditions of the active table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rs, err := ctx.ruleSet()
			if err != nil {
				return err
			}
			switch {
			case asJSON:
				dups := rs.Duplicates()
				if dups == nil {
					dups = []heuristic.DuplicateGroup{}
				}
				return writeJSON(cmd, rulesView{Table: rs.File(), Duplicates: dups})
			case asYAML:
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent(2)
				if err := enc.Encode(rs.File()); err != nil {
					return fmt.Errorf("encode rules: %w", err)
				}
				return enc.Close()
			}

			out := cmd.OutOrStdout()
			printHeading(out, fmt.Sprintf("Keys (%s)", rs.Name))
			keyRows := make([][]string, 0, len(rs.Keys()))
			for _, k := range rs.Keys() {
				keyRows = append(keyRows, []string{k.Name, k.Key.OutType, k.Key.Template})
			}
			fmt.Fprintln(out, renderTable([]string{"Name", "Outtype", "Template"}, keyRows, nil))

			printHeading(out, "Rules")
			ruleRows := make([][]string, 0, len(rs.Rules()))
			for _, r := range rs.Rules() {
				conds := make([]string, 0, len(r.When))
				for _, c := range r.When {
					conds = append(conds, c.String())
				}
				sameAs := r.SameAs
				if sameAs == "" {
					sameAs = "-"
				}
				ruleRows = append(ruleRows, []string{r.Name, r.KeyName, strings.Join(conds, "\n"), sameAs})
			}
			fmt.Fprintln(out, renderTable([]string{"Rule", "Key", "Conditions", "Same as"}, ruleRows, nil))

			for _, g := range rs.Duplicates() {
				msg := fmt.Sprintf("identical conditions: %s", strings.Join(g.Rules, ", "))
				if !g.Declared {
					msg += " (undeclared)"
				}
				printWarning(out, msg)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Write the table as JSON")
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Write the table as a YAML rule file")
	cmd.MarkFlagsMutuallyExclusive("json", "yaml")
	return cmd
}
