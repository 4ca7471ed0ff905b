package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/quotedraft/internal/rating"
)

// RateOptions holds flags for the rate command.
type RateOptions struct {
	*RootOptions
	Catalog        string
	File           string
	TravelPerMonth float64
}

// NewRateCommand creates the rate command.
func NewRateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "rate <assessment.json>",
		Short: "Rate an assessment's risk scores and estimate its cost",
		Long: `Evaluate the risk selections of an assessment against a risk/role catalog
and print the rating factor, risk level and cost breakdown.

The catalog (YAML, JSON or CUE) is validated against the catalog schema.
Money amounts are in units of 10,000.`,
		Example: `  draftctl rate --catalog catalog.yaml assessment.json
  draftctl rate assessment.json --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.File = args[0]
			return runRate(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Catalog, "catalog", "", "catalog file (defaults to catalog_path from config)")
	cmd.Flags().Float64Var(&opts.TravelPerMonth, "travel-cost", rating.DefaultTravelCostPerMonth, "travel cost per person-month")

	return cmd
}

func runRate(opts *RateOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	path := opts.Catalog
	if path == "" {
		cfg, err := loadConfig(opts.RootOptions)
		if err != nil {
			return err
		}
		path = cfg.CatalogPath
	}
	if path == "" {
		return NewExitError(ExitCommandError, "no catalog: pass --catalog or set catalog_path")
	}

	cat, err := rating.LoadCatalog(path)
	if err != nil {
		if formatter.JSON() {
			formatter.Error(CodeCatalog, err.Error(), nil)
		}
		return WrapExitError(ExitCommandError, "failed to load catalog", err)
	}
	cat.Normalize()

	data, err := readAssessment(opts.File)
	if err != nil {
		return err
	}

	est := rating.EstimateCost(data, cat, rating.Rates{TravelCostPerMonth: opts.TravelPerMonth}).Rounded()
	formatter.VerboseLog("rated %d risk item(s) and %d role(s) from %s", len(cat.RiskItems), len(cat.Roles), path)

	if formatter.JSON() {
		return formatter.Success(est)
	}

	w := cmd.OutOrStdout()
	r := est.Rating
	fmt.Fprintf(w, "Risk score:     %g / %g (ratio %.2f)\n", r.TotalScore, r.MaxScore, r.ScoreRatio)
	fmt.Fprintf(w, "Rating factor:  %.2f\n", r.NormalizedFactor)
	fmt.Fprintf(w, "Risk level:     %s\n", r.Level)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Development:    %g days, cost %g\n", est.Development.Days, est.Development.Cost)
	fmt.Fprintf(w, "Integration:    %g days, cost %g\n", est.Integration.Days, est.Integration.Cost)
	fmt.Fprintf(w, "Maintenance:    %g days, cost %g\n", est.MaintenanceDays, est.MaintenanceCost)
	fmt.Fprintf(w, "Travel:         cost %g\n", est.TravelCost)
	fmt.Fprintf(w, "Risk items:     cost %g\n", est.RiskCost)
	fmt.Fprintf(w, "Total:          %g days, cost %g\n", est.TotalWorkloadDays, est.TotalCost)
	return nil
}
