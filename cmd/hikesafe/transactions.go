package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/HikeSafe-Project/mobile/internal/aggregate"
	"github.com/HikeSafe-Project/mobile/internal/cli"
	"github.com/HikeSafe-Project/mobile/internal/invoice"
	"github.com/HikeSafe-Project/mobile/internal/model"
)

func transactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"tx", "history"},
		Short:   "Browse your bookings",
	}

	cmd.AddCommand(transactionsListCmd())
	cmd.AddCommand(transactionsShowCmd())
	cmd.AddCommand(transactionsStatsCmd())

	return cmd
}

// fetchFiltered loads the history narrowed by the filter flags.
func fetchFiltered(ctx context.Context, cmd *cobra.Command, a *app) ([]model.Transaction, aggregate.Query, error) {
	q, err := queryFromFlags(cmd)
	if err != nil {
		return nil, q, err
	}

	var list []model.Transaction
	err = cli.Spin(ctx, cmd.ErrOrStderr(), "Loading transactions...", func(ctx context.Context) error {
		var fetchErr error
		list, fetchErr = a.session.Transactions(ctx, q)
		return fetchErr
	})
	return list, q, err
}

func transactionsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List bookings, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")

			return withApp(cmd, func(ctx context.Context, a *app) error {
				list, q, err := fetchFiltered(ctx, cmd, a)
				if err != nil {
					return err
				}

				if asJSON {
					return printJSON(cmd.OutOrStdout(), list)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintln(out, cli.FormatTitle(describeQuery(q)))
				if len(list) == 0 {
					fmt.Fprintln(out, cli.SubtleStyle.Render("No transactions found."))
					return nil
				}
				return writeTransactionTable(out, list)
			})
		},
	}

	addQueryFlags(cmd)
	cmd.Flags().Bool("json", false, "print JSON")

	return cmd
}

func writeTransactionTable(out io.Writer, list []model.Transaction) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tSTATUS\tSTART\tEND\tHIKERS\tTOTAL")
	for _, txn := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			txn.ID,
			txn.CreatedAt.Format(model.DateLayout),
			txn.Status,
			txn.StartDate,
			txn.EndDate,
			len(txn.Tickets),
			invoice.FormatRupiah(txn.TotalAmount),
		)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write transactions: %w", err)
	}
	return nil
}

func transactionsShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one booking with its tickets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")

			return withApp(cmd, func(ctx context.Context, a *app) error {
				txn, err := a.client.GetTransaction(ctx, args[0])
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(cmd.OutOrStdout(), txn)
				}
				return writeTransaction(cmd.OutOrStdout(), txn)
			})
		},
	}

	cmd.Flags().Bool("json", false, "print JSON")

	return cmd
}

func writeTransaction(out io.Writer, txn model.Transaction) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Status:  %s\n", cli.StatusBadge(txn.Status))
	fmt.Fprintf(&b, "Created: %s\n", invoice.LongDate(txn.CreatedAt))
	fmt.Fprintf(&b, "Dates:   %s to %s\n", invoice.LongDateOf(txn.StartDate), invoice.LongDateOf(txn.EndDate))
	fmt.Fprintf(&b, "Total:   %s\n\n", invoice.FormatRupiah(txn.TotalAmount))

	for i, t := range txn.Tickets {
		name := t.HikerName
		if strings.TrimSpace(name) == "" {
			name = invoice.UnnamedTicket
		}
		fmt.Fprintf(&b, "%d. %s  %s  %s\n", i+1, name, t.TicketType.Label(), invoice.FormatRupiah(t.TicketPrice))
	}
	if txn.Status == model.StatusUnpaid {
		fmt.Fprintf(&b, "\n%s", cli.FormatInfo("Pay with: hikesafe pay "+txn.ID))
	}

	_, err := fmt.Fprintln(out, cli.RenderBox(cli.TicketIcon+" Booking "+txn.ID, strings.TrimRight(b.String(), "\n")))
	return err
}

func transactionsStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarise completed hikes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")

			return withApp(cmd, func(ctx context.Context, a *app) error {
				list, q, err := fetchFiltered(ctx, cmd, a)
				if err != nil {
					return err
				}

				stats := aggregate.ComputeStatistics(list)
				if asJSON {
					return printJSON(cmd.OutOrStdout(), stats)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintln(out, cli.FormatTitle(cli.ChartIcon+" "+describeQuery(q)))
				fmt.Fprintf(out, "Hikes: %d\nDays:  %d\nHours: %.1f\n", stats.TotalHikes, stats.TotalDays, stats.TotalHours)
				return nil
			})
		},
	}

	addQueryFlags(cmd)
	cmd.Flags().Bool("json", false, "print JSON")

	return cmd
}
