package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/HikeSafe-Project/mobile/internal/booking"
	"github.com/HikeSafe-Project/mobile/internal/cli"
	"github.com/HikeSafe-Project/mobile/internal/common"
	"github.com/HikeSafe-Project/mobile/internal/model"
)

func bookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "book",
		Short: "Book a hiking trip",
		Long: `Book a trip for one or more hikers. Without --hikers-file the dates and
every hiker are asked for interactively. Passport holders are booked at the
foreign rate.

A hikers file is a JSON array:

  [{"hikerName": "Sari", "address": "Malang", "phoneNumber": "0812",
    "identificationType": "NIK", "identificationNumber": "3507..."}]`,
		RunE: runBook,
	}

	cmd.Flags().String("hikers-file", "", "JSON file listing the hikers")
	cmd.Flags().String("start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().String("end", "", "end date (YYYY-MM-DD)")
	cmd.Flags().Bool("pay", false, "create a payment link right after booking")
	cmd.Flags().BoolP("yes", "y", false, "submit without asking for confirmation")

	return cmd
}

func runBook(cmd *cobra.Command, _ []string) error {
	hikersFile, _ := cmd.Flags().GetString("hikers-file")
	start, _ := cmd.Flags().GetString("start")
	end, _ := cmd.Flags().GetString("end")
	pay, _ := cmd.Flags().GetBool("pay")
	yes, _ := cmd.Flags().GetBool("yes")

	out := cmd.OutOrStdout()
	handler := cli.NewInterruptHandler(out)
	ctx := handler.HandleInterrupts(cmd.Context(), "Booking", "Check 'hikesafe transactions list' before booking again.")
	prompter := cli.NewPrompter(nil, out)

	draft := booking.NewDraft()
	if hikersFile != "" {
		if err := draftFromFile(draft, hikersFile, start, end); err != nil {
			return err
		}
		fmt.Fprintln(out, cli.HikerSummary(draft.Hikers()))
	} else if err := prompter.FillDraft(ctx, draft); err != nil {
		return err
	}
	if err := draft.Validate(); err != nil {
		return err
	}

	if !yes {
		ok, err := prompter.Confirm(ctx, fmt.Sprintf("Book %d hiker(s) from %s to %s?", draft.Len(), draft.StartDate, draft.EndDate))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, cli.FormatWarning("Booking discarded"))
			return nil
		}
	}

	cmd.SetContext(ctx)
	return withApp(cmd, func(ctx context.Context, a *app) error {
		var id string
		if err := prompter.Spin(ctx, "Booking...", func(ctx context.Context) error {
			var err error
			id, err = a.session.Book(ctx, draft)
			return err
		}); err != nil {
			return err
		}
		fmt.Fprintln(out, cli.FormatSuccess("Booked "+id))

		if !pay {
			fmt.Fprintln(out, cli.FormatInfo("Pay with: hikesafe pay "+id))
			return nil
		}
		return printPaymentLink(ctx, out, a, id)
	})
}

// draftFromFile fills draft from a hikers file and the date flags.
func draftFromFile(draft *booking.Draft, path, start, end string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open hikers file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := loadHikers(draft, f); err != nil {
		return err
	}

	if draft.StartDate, err = parseDateFlag("start", start); err != nil {
		return err
	}
	draft.EndDate, err = parseDateFlag("end", end)
	return err
}

func parseDateFlag(field, raw string) (model.Date, error) {
	if raw == "" {
		return model.Date{}, nil
	}
	d, err := model.ParseDate(raw)
	if err != nil {
		return model.Date{}, common.NewValidationError(field, "Use the YYYY-MM-DD format.")
	}
	return d, nil
}

// loadHikers decodes a JSON array of hikers and appends each to draft.
func loadHikers(draft *booking.Draft, r io.Reader) error {
	var hikers []model.HikerDraft
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&hikers); err != nil {
		return common.NewValidationError("hikers-file", "Expected a JSON array of hikers: "+err.Error())
	}

	for _, h := range hikers {
		added := draft.AddHiker()
		fields := [][2]string{
			{booking.FieldName, h.Name},
			{booking.FieldAddress, h.Address},
			{booking.FieldPhoneNumber, h.PhoneNumber},
			{booking.FieldIdentificationType, string(h.IdentificationType)},
			{booking.FieldIdentificationNumber, h.IdentificationNumber},
			{booking.FieldTicketType, string(h.TicketType)},
		}
		for _, f := range fields {
			if err := draft.UpdateHiker(added.ID, f[0], f[1]); err != nil {
				return err
			}
		}
	}
	return nil
}

func payCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pay <id>",
		Short: "Get the payment link for an unpaid booking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				return printPaymentLink(ctx, cmd.OutOrStdout(), a, args[0])
			})
		},
	}
}

func printPaymentLink(ctx context.Context, out io.Writer, a *app, id string) error {
	var link string
	if err := cli.Spin(ctx, out, "Creating payment link...", func(ctx context.Context) error {
		var err error
		link, err = a.client.CreatePaymentLink(ctx, id)
		return err
	}); err != nil {
		return err
	}
	fmt.Fprintln(out, cli.FormatSuccess("Open this link to pay:"))
	fmt.Fprintln(out, link)
	return nil
}
