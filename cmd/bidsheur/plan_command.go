package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var flags scanFlags
	var subject, session string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "plan [dir]",
		Short: "Preview the BIDS path each series would be converted to",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("subject") {
				subject = cfg.Subject
			}
			if !cmd.Flags().Changed("session") {
				session = cfg.Session
			}

			_, info, err := ctx.classify(cmd, args, &flags)
			if err != nil {
				return err
			}
			plan, err := info.Plan(subject, session)
			if err != nil {
				return fmt.Errorf("plan: %w", err)
			}
			if asJSON {
				return writeJSON(cmd, plan)
			}

			out := cmd.OutOrStdout()
			if len(plan) == 0 {
				printMuted(out, "No series matched any rule.")
				return nil
			}
			rows := make([][]string, 0, len(plan))
			for _, a := range plan {
				rows = append(rows, []string{a.SeriesID, a.Bucket, a.Path})
			}
			printHeading(out, fmt.Sprintf("%d conversions", len(plan)))
			fmt.Fprintln(out, renderTable([]string{"Series", "Bucket", "Destination"}, rows, nil))
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&subject, "subject", "", "Subject label (default from config)")
	cmd.Flags().StringVar(&session, "session", "", "Session label (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Write the plan as JSON")
	return cmd
}
