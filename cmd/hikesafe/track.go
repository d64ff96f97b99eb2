package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/HikeSafe-Project/mobile/internal/aggregate"
	"github.com/HikeSafe-Project/mobile/internal/cli"
	"github.com/HikeSafe-Project/mobile/internal/model"
	"github.com/HikeSafe-Project/mobile/internal/tracking"
)

func trackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "track",
		Short: "Show the tracked paths of completed hikes",
		Long: `List the recorded path of every completed hike. Every group starts
visible; --hide removes groups from the marker list, and --focus centres the
viewport on one group's last position.`,
		RunE: runTrack,
	}

	cmd.Flags().StringSlice("hide", nil, "transaction ids to hide")
	cmd.Flags().String("focus", "", "transaction id to centre the viewport on")
	cmd.Flags().Bool("json", false, "print JSON")

	return cmd
}

// trackView is what track prints.
type trackView struct {
	Histories []tracking.History `json:"histories"`
	Visible   []string           `json:"visible"`
	Markers   []tracking.Marker  `json:"markers"`
	Region    tracking.Region    `json:"region"`
}

func runTrack(cmd *cobra.Command, _ []string) error {
	hide, _ := cmd.Flags().GetStringSlice("hide")
	focus, _ := cmd.Flags().GetString("focus")
	asJSON, _ := cmd.Flags().GetBool("json")

	return withApp(cmd, func(ctx context.Context, a *app) error {
		var list []model.Transaction
		if err := cli.Spin(ctx, cmd.ErrOrStderr(), "Loading hikes...", func(ctx context.Context) error {
			var err error
			list, err = a.session.Transactions(ctx, aggregate.Query{})
			return err
		}); err != nil {
			return err
		}

		view := buildTrackView(list, hide, focus)
		if asJSON {
			return printJSON(cmd.OutOrStdout(), view)
		}
		return writeTrackView(cmd.OutOrStdout(), view)
	})
}

func buildTrackView(list []model.Transaction, hide []string, focus string) trackView {
	histories := tracking.Histories(list)
	visibility := tracking.NewVisibility(tracking.IDs(histories))
	for _, id := range hide {
		if visibility.IsVisible(id) {
			visibility.Toggle(id)
		}
	}

	region := tracking.DefaultRegion
	for _, h := range histories {
		if h.ID == focus {
			region = tracking.FocusRegion(h)
			break
		}
	}

	return trackView{
		Histories: histories,
		Visible:   visibility.VisibleIDs(),
		Markers:   tracking.Markers(histories, visibility),
		Region:    region,
	}
}

func writeTrackView(out io.Writer, view trackView) error {
	if len(view.Histories) == 0 {
		_, err := fmt.Fprintln(out, cli.SubtleStyle.Render("No completed hikes to track yet."))
		return err
	}

	visible := make(map[string]bool, len(view.Visible))
	for _, id := range view.Visible {
		visible[id] = true
	}

	fmt.Fprintln(out, cli.FormatTitle(cli.PinIcon+" Tracked hikes"))
	for _, h := range view.Histories {
		mark := "[ ]"
		if visible[h.ID] {
			mark = "[x]"
		}
		fmt.Fprintf(out, "%s %s  %s  %d points\n", mark, h.ID, h.GroupName, len(h.Coordinates))
		if len(h.Hikers) > 1 {
			fmt.Fprintf(out, "    %s\n", cli.SubtleStyle.Render(strings.Join(h.Hikers, ", ")))
		}
	}

	fmt.Fprintln(out)
	for _, m := range view.Markers {
		fmt.Fprintf(out, "%s  %s\n", m.Title, m.Description)
	}
	_, err := fmt.Fprintf(out, "\n%d markers, centre %g, %g, span %g°\n",
		len(view.Markers), view.Region.Center.Latitude, view.Region.Center.Longitude, view.Region.LatitudeDelta)
	return err
}
