package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"credit-preapproval/internal/adapter/loanapi"
	"credit-preapproval/internal/config"
	"credit-preapproval/internal/domain/lender"
	"credit-preapproval/internal/domain/preapproval"
	"credit-preapproval/internal/infrastructure/logger"
	preuc "credit-preapproval/internal/usecase/preapproval"

	"github.com/spf13/cobra"
)

// staticSession serves one token and keeps the submitted application in memory.
type staticSession struct {
	token string
	last  *preapproval.CurrentApplication
}

func (s *staticSession) Token(context.Context) (string, error) { return s.token, nil }

func (s *staticSession) Profile(context.Context) (*preapproval.Profile, error) { return nil, nil }

func (s *staticSession) SaveCurrentApplication(_ context.Context, app preapproval.CurrentApplication) error {
	s.last = &app
	return nil
}

type applyOptions struct {
	fields   map[preapproval.Field]*string
	lenderID string
	token    string
	apiURL   string
	term     int
	timeout  time.Duration
	verbose  bool
}

func newApplyCmd(cfg *config.Config) *cobra.Command {
	opts := applyOptions{fields: map[preapproval.Field]*string{}}
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Fill a pre-approval from flags and submit it",
		Long: `apply walks the three stages with the values given as flags and submits
the application to the loan API. Validation errors are printed per stage.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runApply(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	f := cmd.Flags()
	for flag, field := range map[string]preapproval.Field{
		"first-name":   preapproval.FieldFirstName,
		"last-name":    preapproval.FieldLastName,
		"email":        preapproval.FieldEmail,
		"phone":        preapproval.FieldPhone,
		"income":       preapproval.FieldIncome,
		"employment":   preapproval.FieldEmployment,
		"loan-amount":  preapproval.FieldLoanAmount,
		"loan-purpose": preapproval.FieldLoanPurpose,
	} {
		opts.fields[field] = f.String(flag, "", "value for "+string(field))
	}
	f.StringVar(&opts.lenderID, "lender-id", "", "catalog lender to apply with")
	f.StringVar(&opts.token, "token", "", "bearer token for the loan API")
	f.StringVar(&opts.apiURL, "api-url", cfg.LoanAPIBaseURL, "loan API base URL")
	f.IntVar(&opts.term, "term", cfg.LoanTermMonths, "loan term in months")
	f.DurationVar(&opts.timeout, "timeout", cfg.LoanAPITimeout(), "loan API timeout")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "log flow events")
	_ = cmd.MarkFlagRequired("token")
	return cmd
}

func runApply(ctx context.Context, out io.Writer, opts applyOptions) error {
	level := "warn"
	if opts.verbose {
		level = "debug"
	}
	log, err := logger.New(level, "console")
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	var l *lender.Lender
	if opts.lenderID != "" {
		for _, d := range lender.Defaults() {
			if d.ID == opts.lenderID {
				found := d
				l = &found
			}
		}
		if l == nil {
			return fmt.Errorf("%w: %s", lender.ErrNotFound, opts.lenderID)
		}
	}

	sess := &staticSession{token: opts.token}
	deps := preuc.Deps{Session: sess, Recorder: sess, Loans: loanapi.NewClient(opts.apiURL, opts.timeout, log)}
	flow, err := preuc.New(ctx, deps, preuc.Entry{Lender: l}, preuc.WithLogger(log), preuc.WithLoanTerm(opts.term))
	if err != nil {
		return err
	}
	values := map[preapproval.Field]string{}
	for field, v := range opts.fields {
		if *v != "" {
			values[field] = *v
		}
	}
	if err := flow.SetFields(values); err != nil {
		return err
	}

	for i := 0; i < 2; i++ {
		if err := flow.Next(); err != nil {
			return printRefusal(out, err)
		}
	}

	review := flow.Review()
	fmt.Fprintln(out, review.Title)
	if l := flow.Lender(); l != nil {
		fmt.Fprintf(out, "  %-20s %s (%.2f%%)\n", "Lender:", l.Name, l.Rate)
	}
	for _, item := range append(review.Basic, review.Financial...) {
		fmt.Fprintf(out, "  %-20s %s\n", item.Label+":", item.Value)
	}

	app, err := flow.Submit(ctx)
	if err != nil {
		if errors.Is(err, preapproval.ErrValidation) {
			return printRefusal(out, err)
		}
		return fmt.Errorf("%s: %w", flow.Message(), err)
	}
	fmt.Fprintf(out, "submitted: loan %s (%s) for M%.2f with %s\n", app.ID, app.Status, app.Amount, app.Lender)
	return nil
}

func printRefusal(out io.Writer, err error) error {
	var ve *preapproval.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	fmt.Fprintf(out, "%s:\n", ve.Stage.Label())
	for _, f := range ve.Fields.Fields() {
		fmt.Fprintf(out, "  %s: %s\n", f, ve.Fields[f])
	}
	return preapproval.ErrValidation
}
