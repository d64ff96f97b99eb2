package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/HikeSafe-Project/mobile/internal/cli"
	"github.com/HikeSafe-Project/mobile/internal/common"
	"github.com/HikeSafe-Project/mobile/internal/invoice"
)

func invoiceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invoice <id>",
		Short: "Render the invoice of a paid booking",
		Long: `Render the invoice of a booking as HTML or PDF. The document is written
to --output, or to stdout when no output file is given.`,
		Args: cobra.ExactArgs(1),
		RunE: runInvoice,
	}

	cmd.Flags().String("format", "pdf", "output format (html, pdf)")
	cmd.Flags().StringP("output", "o", "", "output file (default: stdout)")

	return cmd
}

func runInvoice(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	format = strings.ToLower(format)
	if format != "html" && format != "pdf" {
		return common.NewValidationError("format", "Use html or pdf.")
	}

	return withApp(cmd, func(ctx context.Context, a *app) error {
		txn, err := a.client.GetTransaction(ctx, args[0])
		if err != nil {
			return err
		}
		if !txn.Status.IsPaid() {
			fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatWarning("Booking "+txn.ID+" is "+string(txn.Status)+"; the invoice is provisional"))
		}

		doc, err := renderInvoice(invoice.FromTransaction(txn), format)
		if err != nil {
			return err
		}

		if output == "" {
			_, err := cmd.OutOrStdout().Write(doc)
			return err
		}
		if err := writeFile(output, doc); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Invoice written to "+output))
		return nil
	})
}

func renderInvoice(inv *invoice.Invoice, format string) ([]byte, error) {
	if format == "html" {
		html, err := invoice.HTML(inv)
		if err != nil {
			return nil, err
		}
		return []byte(html), nil
	}
	return invoice.PDF(inv)
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
