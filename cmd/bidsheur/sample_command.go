package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrsinham/bidsheur/internal/dicom"
	"github.com/mrsinham/bidsheur/internal/dicom/quirks"
	"github.com/mrsinham/bidsheur/internal/logging"
)

// sampleRequest is a validated sample invocation.
type sampleRequest struct {
	output  string
	subject string
	session string
	images  int
	quirks  []quirks.Type
}

func (r sampleRequest) validate() error {
	if strings.TrimSpace(r.output) == "" {
		return errors.New("--output is required")
	}
	if strings.TrimSpace(r.subject) == "" {
		return errors.New("subject is required")
	}
	if r.images <= 0 {
		return fmt.Errorf("--images must be positive, got %d", r.images)
	}
	return nil
}

func newSampleCommand(ctx *commandContext) *cobra.Command {
	var output, subject, session, quirkList string
	var images int
	var interactive bool

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Write a synthetic rest-awake session of DICOM files",
		Args:  cobra.NoArgs,
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

			var req sampleRequest
			if interactive {
				answers := newSampleAnswers(output, subject, session, images, quirkList)
				if err := runSampleForm(cmd, answers); err != nil {
					return err
				}
				req, err = answers.request()
				if err != nil {
					return err
				}
			} else {
				quirkTypes, err := quirks.ParseTypes(quirkList)
				if err != nil {
					return err
				}
				req = sampleRequest{output: output, subject: subject, session: session, images: images, quirks: quirkTypes}
			}
			if err := req.validate(); err != nil {
				return err
			}

			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}
			files, err := dicom.GenerateSession(cmd.Context(), dicom.SampleOptions{
				Output:          req.output,
				Subject:         req.subject,
				Session:         req.session,
				ImagesPerSeries: req.images,
				Workers:         cfg.Workers,
				Quirks:          quirks.Config{Types: req.quirks},
			})
			if err != nil {
				return err
			}
			logger.Info("sample session written",
				logging.FieldComponent, "sample",
				logging.FieldPath, req.output,
				"files", len(files),
				"quirks", len(req.quirks),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d files in %d series under %s\n", len(files), len(dicom.RestAwakeSession), req.output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Directory to write the session into")
	cmd.Flags().StringVar(&subject, "subject", "", "Subject label (default from config)")
	cmd.Flags().StringVar(&session, "session", "", "Session label (default from config)")
	cmd.Flags().IntVar(&images, "images", 2, "Images per series")
	cmd.Flags().StringVar(&quirkList, "quirks", "", "Comma-separated export quirks to reproduce (missing-series-uid, padded-strings, vendor-private, odd-pixel-length, stray-files, or all)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Prompt for the sample settings")
	return cmd
}
