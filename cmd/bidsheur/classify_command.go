package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrsinham/bidsheur/internal/heuristic"
)

type bucketView struct {
	Name              string   `json:"name"`
	Template          string   `json:"template"`
	OutType           string   `json:"outtype"`
	AnnotationClasses string   `json:"annotation_classes,omitempty"`
	SeriesIDs         []string `json:"series_ids"`
}

// classify scans the directory and buckets its series with the active table.
func (c *commandContext) classify(cmd *cobra.Command, args []string, f *scanFlags) (*heuristic.RuleSet, *heuristic.Info, error) {
	rs, err := c.ruleSet()
	if err != nil {
		return nil, nil, err
	}
	logger, err := c.logger(cmd)
	if err != nil {
		return nil, nil, err
	}
	warnDuplicates(cmd.Context(), logger, rs)

	series, err := c.scan(cmd, args, f)
	if err != nil {
		return nil, nil, err
	}
	info, err := rs.InfoToDict(series)
	if err != nil {
		return nil, nil, fmt.Errorf("classify: %w", err)
	}
	return rs, info, nil
}

func warnDuplicates(ctx context.Context, logger *slog.Logger, rs *heuristic.RuleSet) {
	for _, g := range rs.Duplicates() {
		level := slog.LevelDebug
		if !g.Declared {
			level = slog.LevelWarn
		}
		logger.Log(ctx, level, "rules share identical conditions",
			"table", rs.Name,
			"rules", strings.Join(g.Rules, ","),
			"declared", g.Declared,
		)
	}
}

func newClassifyCommand(ctx *commandContext) *cobra.Command {
	var flags scanFlags
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "classify [dir]",
		Short: "Assign scanned series to template keys",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rs, info, err := ctx.classify(cmd, args, &flags)
			if err != nil {
				return err
			}

			buckets := info.Buckets()
			if asJSON {
				views := make([]bucketView, 0, len(buckets))
				for _, b := range buckets {
					views = append(views, bucketView{
						Name:              b.Name,
						Template:          b.Key.Template,
						OutType:           b.Key.OutType,
						AnnotationClasses: b.Key.AnnotationClasses,
						SeriesIDs:         append([]string{}, b.SeriesIDs...),
					})
				}
				return writeJSON(cmd, views)
			}

			rows := make([][]string, 0, len(buckets))
			for _, b := range buckets {
				series := "-"
				if len(b.SeriesIDs) > 0 {
					series = strings.Join(b.SeriesIDs, "\n")
				}
				rows = append(rows, []string{b.Name, series, b.Key.Template})
			}
			out := cmd.OutOrStdout()
			printHeading(out, fmt.Sprintf("Classification (%s)", rs.Name))
			fmt.Fprintln(out, renderTable([]string{"Bucket", "Series", "Template"}, rows, nil))
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Write buckets as JSON")
	return cmd
}
