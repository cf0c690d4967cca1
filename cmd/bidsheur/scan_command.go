package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mrsinham/bidsheur/internal/dicom"
	"github.com/mrsinham/bidsheur/internal/heuristic"
	"github.com/mrsinham/bidsheur/internal/locate"
)

// scanFlags are shared by every command that reads series from disk.
type scanFlags struct {
	workers   int
	useLocate bool
	locate    locateFlags
}

func (f *scanFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.workers, "workers", 0, "Parallel parsing workers (default from config)")
	cmd.Flags().BoolVar(&f.useLocate, "locate", false, "Find the data root below dir before scanning")
	f.locate.register(cmd)
}

// scan resolves the scan root and reads its series.
func (c *commandContext) scan(cmd *cobra.Command, args []string, f *scanFlags) ([]heuristic.SeqInfo, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.logger(cmd)
	if err != nil {
		return nil, err
	}

	root := dirArg(args)
	if f.useLocate {
		root, err = locate.DataRoot(root, f.locate.options(cmd, cfg))
		if err != nil {
			return nil, fmt.Errorf("locate data root: %w", err)
		}
		logger.Debug("data root located", "path", root)
	}

	workers := cfg.Workers
	if cmd.Flags().Changed("workers") {
		workers = f.workers
	}
	return dicom.ScanSeries(cmd.Context(), root, dicom.ScanOptions{
		Workers: workers,
		Logger:  logger,
	})
}

func newScanCommand(ctx *commandContext) *cobra.Command {
	var flags scanFlags
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "scan [dir]",
		Short: "List the DICOM series found under a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			series, err := ctx.scan(cmd, args, &flags)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, series)
			}

			rows := make([][]string, 0, len(series))
			for _, s := range series {
				rows = append(rows, []string{
					s.SeriesID,
					strconv.Itoa(s.SeriesNumber),
					s.ProtocolName,
					s.SeriesDescription,
					s.DcmDirName,
					strconv.Itoa(s.NumFiles),
				})
			}
			out := cmd.OutOrStdout()
			printHeading(out, fmt.Sprintf("%d series", len(series)))
			fmt.Fprintln(out, renderTable(
				[]string{"Series ID", "Number", "Protocol", "Description", "Dir", "Files"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Write series as JSON")
	return cmd
}
