package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrsinham/bidsheur/internal/config"
	"github.com/mrsinham/bidsheur/internal/locate"
)

type locateFlags struct {
	ascend   int
	maxDepth int
	hidden   bool
}

func (f *locateFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.ascend, "ascend", 0, "Parent levels to climb from the found directory (default from config)")
	cmd.Flags().IntVar(&f.maxDepth, "max-depth", 0, "Maximum directory levels to descend (default from config)")
	cmd.Flags().BoolVar(&f.hidden, "hidden", false, "Consider hidden entries while walking")
}

// options merges config values with any flag the user set explicitly.
func (f *locateFlags) options(cmd *cobra.Command, cfg *config.Config) locate.Options {
	opts := locate.Options{
		MaxDepth:      cfg.Locate.MaxDepth,
		Ascend:        cfg.Locate.Ascend,
		IncludeHidden: cfg.Locate.IncludeHidden,
	}
	if cmd.Flags().Changed("ascend") {
		opts.Ascend = f.ascend
	}
	if cmd.Flags().Changed("max-depth") {
		opts.MaxDepth = f.maxDepth
	}
	if cmd.Flags().Changed("hidden") {
		opts.IncludeHidden = f.hidden
	}
	return opts
}

func newLocateCommand(ctx *commandContext) *cobra.Command {
	var flags locateFlags

	cmd := &cobra.Command{
		Use:   "locate [dir]",
		Short: "Print the directory holding the scan files of an export",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			opts := flags.options(cmd, cfg)
			if opts.Ascend < 0 {
				return fmt.Errorf("--ascend must not be negative, got %d", opts.Ascend)
			}
			root, err := locate.DataRoot(dirArg(args), opts)
			if err != nil {
				return fmt.Errorf("locate data root: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), root)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}
