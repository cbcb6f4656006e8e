// Command dealctl validates deal drafts offline and publishes deal payloads.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"dealdesk-service/internal/client/dealsapi"
	"dealdesk-service/internal/domain/deal"
	dealsvc "dealdesk-service/internal/service/deal"
)

const usage = `usage: dealctl [flags] <command> <file>

commands:
  validate <draft.json>    validate a draft offline and print its pricing
  check <payload.json>     validate a publish payload on the server
  publish <payload.json>   publish a deal payload
  login <email>            print an access token (password from DEALDESK_PASSWORD)

flags:
`

func main() {
	fs := flag.NewFlagSet("dealctl", flag.ExitOnError)
	server := fs.String("server", envOr("DEALDESK_URL", "http://localhost:8000"), "API base URL")
	token := fs.String("token", os.Getenv("DEALDESK_TOKEN"), "access token")
	timeout := fs.Duration("timeout", 30*time.Second, "request timeout")
	nowFlag := fs.String("now", "", "validation time for offline checks (RFC3339, default current time)")
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[1:])

	if fs.NArg() != 2 {
		fs.Usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client := dealsapi.New(*server, *token, *timeout)
	cmd, arg := fs.Arg(0), fs.Arg(1)

	var err error
	switch cmd {
	case "validate":
		var now time.Time
		now, err = parseNow(*nowFlag)
		if err == nil {
			err = validateOffline(os.Stdout, arg, now)
		}
	case "check":
		err = check(ctx, os.Stdout, client, arg)
	case "publish":
		err = publish(ctx, os.Stdout, client, arg)
	case "login":
		err = login(ctx, os.Stdout, client, arg, os.Getenv("DEALDESK_PASSWORD"))
	default:
		fs.Usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "dealctl:", err)
		os.Exit(1)
	}
}

var errInvalid = errors.New("deal is not valid")

func validateOffline(w io.Writer, path string, now time.Time) error {
	var d deal.DealDraft
	if err := readJSON(path, &d); err != nil {
		return err
	}

	dealsvc.Normalize(&d)
	result := dealsvc.ValidateDealDraft(&d, now)
	printPricing(w, dealsvc.PreviewPricing(d.SelectedMenuItems, d.DiscountPercentage, d.DiscountAmount))
	printValidation(w, result)

	if !result.IsValid {
		return errInvalid
	}
	return nil
}

func check(ctx context.Context, w io.Writer, client *dealsapi.Client, path string) error {
	var req deal.PublishDealRequest
	if err := readJSON(path, &req); err != nil {
		return err
	}

	summary, err := client.Validate(ctx, &req)
	if err != nil {
		return err
	}
	printPricing(w, summary.Pricing)
	printValidation(w, summary.Validation)

	if !summary.Validation.IsValid {
		return errInvalid
	}
	return nil
}

func publish(ctx context.Context, w io.Writer, client *dealsapi.Client, path string) error {
	var req deal.PublishDealRequest
	if err := readJSON(path, &req); err != nil {
		return err
	}

	published, err := client.Publish(ctx, &req)
	if err != nil {
		var apiErr *dealsapi.APIError
		if errors.As(err, &apiErr) && apiErr.Validation != nil {
			printValidation(w, *apiErr.Validation)
			return errInvalid
		}
		return errors.New(deal.PublishErrorMessage(err.Error()))
	}

	fmt.Fprintf(w, "published %s (id %d): %s\n", published.DealCode, published.ID, published.Title)
	fmt.Fprintf(w, "status %s, %s to %s\n", published.Status,
		published.StartTime.Format(time.RFC3339), published.EndTime.Format(time.RFC3339))
	fmt.Fprintf(w, "value %s -> %s\n", dealsvc.FormatMoney(published.OriginalValue), dealsvc.FormatMoney(published.FinalValue))
	return nil
}

func login(ctx context.Context, w io.Writer, client *dealsapi.Client, email, password string) error {
	if password == "" {
		return errors.New("DEALDESK_PASSWORD is not set")
	}
	token, err := client.Login(ctx, email, password)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, token)
	return nil
}

func printPricing(w io.Writer, p deal.PricingPreviewResponse) {
	for _, item := range p.Items {
		hidden := ""
		if item.IsHidden {
			hidden = " (hidden)"
		}
		desc := ""
		if item.DiscountDescription != nil {
			desc = "  " + *item.DiscountDescription
		}
		fmt.Fprintf(w, "  %-30s %10s -> %10s%s%s\n", item.Name, dealsvc.FormatMoney(item.Price), item.DisplayPrice, desc, hidden)
	}
	fmt.Fprintf(w, "original %s  final %s", dealsvc.FormatMoney(p.Totals.OriginalTotal), dealsvc.FormatMoney(p.Totals.FinalTotal))
	if p.Totals.ShowSavings {
		fmt.Fprintf(w, "  savings %s", dealsvc.FormatMoney(p.Totals.Savings))
	}
	fmt.Fprintln(w)
}

func printValidation(w io.Writer, r deal.ValidationResult) {
	for _, e := range r.Errors {
		fmt.Fprintln(w, "error:", e)
	}
	for _, warning := range r.Warnings {
		fmt.Fprintln(w, "warning:", warning)
	}
	if r.Occurrences != nil {
		fmt.Fprintf(w, "occurrences: %d\n", *r.Occurrences)
	}
	if r.IsValid {
		fmt.Fprintln(w, "valid")
	}
}

func readJSON(path string, v interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func parseNow(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid -now: %w", err)
	}
	return t, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
