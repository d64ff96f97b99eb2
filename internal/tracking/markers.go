package tracking

import (
	"fmt"
	"strings"

	"github.com/HikeSafe-Project/mobile/internal/model"
)

// History is the recorded path of one hiker group.
type History struct {
	ID          string
	GroupName   string
	Hikers      []string
	Coordinates []model.Coordinate
}

// Last returns the most recent position. ok is false for an empty path.
func (h History) Last() (c model.Coordinate, ok bool) {
	if len(h.Coordinates) == 0 {
		return model.Coordinate{}, false
	}
	return h.Coordinates[len(h.Coordinates)-1], true
}

// Marker is one point drawn on the map.
type Marker struct {
	GroupID     string
	Title       string
	Description string
	Position    model.Coordinate
}

// Region is a map viewport: a centre and the span it shows in degrees.
type Region struct {
	Center         model.Coordinate
	LatitudeDelta  float64
	LongitudeDelta float64
}

const focusDelta = 0.02

// DefaultRegion is the viewport shown before any group is focused.
var DefaultRegion = Region{
	Center:         model.Coordinate{Latitude: -6.1754, Longitude: 106.8272},
	LatitudeDelta:  0.5,
	LongitudeDelta: 0.5,
}

// Histories turns completed transactions into tracking histories, one per
// transaction, in list order. Groups are named after the lead hiker.
func Histories(list []model.Transaction) []History {
	out := make([]History, 0, len(list))
	for _, txn := range list {
		if txn.Status != model.StatusDone {
			continue
		}
		out = append(out, History{
			ID:          txn.ID,
			GroupName:   groupName(txn),
			Hikers:      txn.HikerNames(),
			Coordinates: txn.Coordinates,
		})
	}
	return out
}

func groupName(txn model.Transaction) string {
	names := txn.HikerNames()
	switch {
	case len(names) == 0 || strings.TrimSpace(names[0]) == "":
		return "Group " + txn.ID
	case len(names) == 1:
		return names[0]
	default:
		return fmt.Sprintf("%s +%d", names[0], len(names)-1)
	}
}

// IDs returns the history ids in order, for Visibility.Initialize.
func IDs(histories []History) []string {
	ids := make([]string, 0, len(histories))
	for _, h := range histories {
		ids = append(ids, h.ID)
	}
	return ids
}

// Markers emits one marker per coordinate of every visible history.
func Markers(histories []History, visibility *Visibility) []Marker {
	var out []Marker
	for _, h := range histories {
		if !visibility.IsVisible(h.ID) {
			continue
		}
		for _, c := range h.Coordinates {
			out = append(out, Marker{
				GroupID:     h.ID,
				Title:       h.GroupName,
				Description: fmt.Sprintf("Location: %g, %g", c.Latitude, c.Longitude),
				Position:    c,
			})
		}
	}
	return out
}

// FocusRegion centres the viewport on the group's last position. Groups
// without a path get DefaultRegion.
func FocusRegion(h History) Region {
	last, ok := h.Last()
	if !ok {
		return DefaultRegion
	}
	return Region{Center: last, LatitudeDelta: focusDelta, LongitudeDelta: focusDelta}
}
