// Command judokit-example takes a card payment, refunds part of it and lists
// the latest receipts. With -local it runs against an in-process fake backend
// instead of the sandbox configured in .env.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	judokit "github.com/hugochinchilla79/judokit_sdk"
	"github.com/hugochinchilla79/judokit_sdk/internal/judotest"
	"github.com/hugochinchilla79/judokit_sdk/models"
)

func main() {
	if err := execute(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// execute runs the example and returns once everything it started, including
// the fake backend in -local mode, has been shut down.
func execute(args []string) error {
	fs := flag.NewFlagSet("judokit-example", flag.ContinueOnError)
	local := fs.Bool("local", false, "run against an in-process fake backend")
	envFile := fs.String("env", ".env", "dotenv file with JUDO_* settings")
	judoID := fs.String("judo-id", "100963875", "merchant judoId")
	amount := fs.String("amount", "10.00GBP", "payment amount with currency code")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := judokit.LoadConfigFromDotEnv(*envFile)
	if *local {
		server := judotest.NewServer()
		defer server.Close()
		cfg.APIToken, cfg.APISecret, cfg.BaseURL = judotest.Token, judotest.Secret, server.URL
	}

	client, err := judokit.NewClient(cfg)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	return run(context.Background(), client, *judoID, *amount)
}

func run(ctx context.Context, client *judokit.Client, judoID, literal string) error {
	amount, err := judokit.ParseAmount(literal)
	if err != nil {
		return err
	}
	ref, err := models.NewReferenceWithUUID("judokit-example")
	if err != nil {
		return err
	}

	payment, err := client.Payment(judoID, amount, ref)
	if err != nil {
		return err
	}
	payment.Card(models.Card{Number: "4976 0000 0000 3436", ExpiryDate: "12/25", CV2: "452"})

	resp, err := wait(func(done judokit.Completion) error { return payment.Complete(ctx, done) })
	if err != nil {
		return fmt.Errorf("payment: %w", err)
	}
	receipt := resp.First()
	fmt.Printf("payment %s: %s %s %s\n", receipt.ReceiptID, receipt.Result, receipt.Amount, receipt.Currency)

	half := judokit.NewAmount(amount.Value().Div(decimal.NewFromInt(2)), amount.Currency())
	refund, err := client.Refund(receipt.ReceiptID, half)
	if err != nil {
		return err
	}
	resp, err = wait(func(done judokit.Completion) error { return refund.Complete(ctx, done) })
	if err != nil {
		return fmt.Errorf("refund: %w", err)
	}
	fmt.Printf("refund %s of %s: %s\n", resp.First().ReceiptID, receipt.ReceiptID, resp.First().Amount)

	receipts, err := client.Receipts("")
	if err != nil {
		return err
	}
	resp, err = wait(func(done judokit.Completion) error {
		return receipts.List(ctx, &models.Pagination{PageSize: 5, Sort: models.SortDescending}, done)
	})
	if err != nil {
		return fmt.Errorf("list receipts: %w", err)
	}
	for _, r := range resp.Items {
		fmt.Printf("  %-12s %-10s %-8s %s\n", r.ReceiptID, r.Type, r.Result, r.Amount)
	}
	return nil
}

// wait runs start and blocks until its completion fires.
func wait(start func(judokit.Completion) error) (*models.Response, error) {
	type outcome struct {
		resp *models.Response
		err  error
	}
	ch := make(chan outcome, 1)
	if err := start(func(resp *models.Response, err error) { ch <- outcome{resp, err} }); err != nil {
		return nil, err
	}
	o := <-ch
	return o.resp, o.err
}
