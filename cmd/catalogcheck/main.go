// Package main provides a CLI that loads a benefit catalog, reports authoring
// errors and optionally evaluates a citizen profile against it.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"beneficios/internal/catalog"
	"beneficios/internal/eligibility/engine"
	"beneficios/internal/eligibility/models"
	"beneficios/internal/eligibility/service"
	"beneficios/internal/platform/logger"
	"beneficios/pkg/validation"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "catalogcheck:", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("catalogcheck", flag.ContinueOnError)
	dir := fs.String("dir", "catalog", "Catalog directory (.json, .yaml, .yml)")
	profilePath := fs.String("profile", "", "Profile file (JSON or YAML) to evaluate against the catalog")
	asJSON := fs.Bool("json", false, "Print the evaluation summary as JSON")
	listFields := fs.Bool("fields", false, "List the profile fields rules may reference and exit")
	only := fs.String("only", "", "Comma-separated statuses to show in the table (e.g. eligible,likely_eligible)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *listFields {
		printFields(out, engine.Fields())
		return nil
	}
	show, err := parseStatuses(*only)
	if err != nil {
		return err
	}

	cat, err := catalog.LoadDir(*dir)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "catalog %s: %d benefits, version %s\n", *dir, cat.Len(), cat.Version())

	if *profilePath == "" {
		return nil
	}
	profile, err := readProfile(*profilePath)
	if err != nil {
		return err
	}

	svc := service.New(cat, service.WithLogger(logger.NewWithWriter(io.Discard, true)))
	summary, err := svc.EvaluateAll(context.Background(), profile)
	if err != nil {
		return err
	}

	if *asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}
	printSummary(out, summary, show)
	return nil
}

// parseStatuses turns the -only flag into a filter. An empty flag shows all.
func parseStatuses(flagValue string) (map[models.EligibilityStatus]bool, error) {
	if strings.TrimSpace(flagValue) == "" {
		return nil, nil
	}
	show := make(map[models.EligibilityStatus]bool)
	for _, raw := range strings.Split(flagValue, ",") {
		st, err := models.ParseStatus(strings.TrimSpace(raw))
		if err != nil {
			return nil, err
		}
		show[st] = true
	}
	return show, nil
}

func printFields(out io.Writer, fields []engine.FieldInfo) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tKIND\tCATEGORY\tDERIVED FROM")
	for _, f := range fields {
		from := "-"
		if f.Derived {
			from = strings.Join(f.Inputs, ", ")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", f.Name, f.Kind, f.Category, from)
	}
	_ = tw.Flush()
}

func readProfile(path string) (*models.CitizenProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}

	var profile models.CitizenProfile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &profile)
	default:
		err = json.Unmarshal(data, &profile)
	}
	if err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", path, err)
	}
	profile.Estado = strings.ToUpper(strings.TrimSpace(profile.Estado))
	if err := validation.Validate(&profile); err != nil {
		return nil, fmt.Errorf("profile %s: %w", path, err)
	}
	return &profile, nil
}

func printSummary(out io.Writer, summary *models.EvaluationSummary, show map[models.EligibilityStatus]bool) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STATUS\tBENEFIT\tVALUE\tREASON")
	for _, bucket := range [][]models.EligibilityResult{
		summary.Eligible, summary.LikelyEligible, summary.Maybe, summary.AlreadyReceiving, summary.NotEligible,
	} {
		for _, r := range bucket {
			if show != nil && !show[r.Status] {
				continue
			}
			value := "-"
			if r.EstimatedValue != nil {
				value = fmt.Sprintf("R$ %.2f", *r.EstimatedValue)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Status, r.Benefit.ID, value, r.Reason)
		}
	}
	_ = tw.Flush()

	fmt.Fprintf(out, "\nanalyzed %d, out of scope %d, skipped %d\n",
		summary.TotalAnalyzed, summary.OutOfScope, len(summary.Skipped))
	fmt.Fprintf(out, "potential: R$ %.2f/month, R$ %.2f/year, R$ %.2f once\n",
		summary.TotalPotentialMonthly, summary.TotalPotentialAnnual, summary.TotalPotentialOneTime)
	for i, step := range summary.PrioritySteps {
		fmt.Fprintf(out, "%d. %s\n", i+1, step)
	}
}
