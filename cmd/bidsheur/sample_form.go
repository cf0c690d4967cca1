package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/mrsinham/bidsheur/internal/dicom/quirks"
)

// sampleAnswers holds the form fields. huh binds inputs to strings.
type sampleAnswers struct {
	output  string
	subject string
	session string
	images  string
	quirks  []string
}

func newSampleAnswers(output, subject, session string, images int, quirkList string) *sampleAnswers {
	a := &sampleAnswers{
		output:  output,
		subject: subject,
		session: session,
		images:  strconv.Itoa(images),
	}
	if types, err := quirks.ParseTypes(quirkList); err == nil {
		for _, t := range types {
			a.quirks = append(a.quirks, string(t))
		}
	}
	if a.output == "" {
		a.output = "rest_awake_sample"
	}
	return a
}

func (a *sampleAnswers) form() *huh.Form {
	quirkOptions := make([]huh.Option[string], 0, len(quirks.All()))
	for _, t := range quirks.All() {
		quirkOptions = append(quirkOptions, huh.NewOption(string(t), string(t)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Output directory").
				Value(&a.output).
				Validate(validateRequired("output directory")),
			huh.NewInput().
				Title("Subject").
				Description("sub- prefix is optional").
				Value(&a.subject).
				Validate(validateRequired("subject")),
			huh.NewInput().
				Title("Session").
				Description("Leave empty for a single-session export").
				Value(&a.session),
			huh.NewInput().
				Title("Images per series").
				Value(&a.images).
				Validate(validatePositiveInt),
		),
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Export quirks").
				Description("Irregularities the scanner must tolerate").
				Options(quirkOptions...).
				Value(&a.quirks),
		),
	)
}

// request converts the answers into a sample request.
func (a *sampleAnswers) request() (sampleRequest, error) {
	images, err := strconv.Atoi(strings.TrimSpace(a.images))
	if err != nil {
		return sampleRequest{}, fmt.Errorf("images per series: %w", err)
	}
	types, err := quirks.ParseTypes(strings.Join(a.quirks, ","))
	if err != nil {
		return sampleRequest{}, err
	}
	return sampleRequest{
		output:  strings.TrimSpace(a.output),
		subject: strings.TrimSpace(a.subject),
		session: strings.TrimSpace(a.session),
		images:  images,
		quirks:  types,
	}, nil
}

// runSampleForm runs the form on the command's streams.
func runSampleForm(cmd *cobra.Command, a *sampleAnswers) error {
	form := a.form().WithProgramOptions(
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	if err := form.RunWithContext(cmd.Context()); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return errors.New("sample cancelled")
		}
		return fmt.Errorf("sample form: %w", err)
	}
	return nil
}

func validateRequired(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}

func validatePositiveInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return errors.New("must be a number")
	}
	if n <= 0 {
		return errors.New("must be positive")
	}
	return nil
}
