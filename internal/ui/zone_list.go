package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/smartpark/parking-terminal/internal/availability"
	"github.com/smartpark/parking-terminal/internal/models"
)

// zoneItem wraps a zone for use in a list, with the availability resolved at
// the active time offset
type zoneItem struct {
	zone         models.Zone
	availability float64
	favorite     bool
}

// FilterValue implements list.Item
func (z zoneItem) FilterValue() string {
	return z.zone.ZoneName + " " + z.zone.District
}

// Title implements list.DefaultItem
func (z zoneItem) Title() string {
	if z.favorite {
		return "★ " + z.zone.ZoneName
	}
	return z.zone.ZoneName
}

// Description implements list.DefaultItem
func (z zoneItem) Description() string {
	return fmt.Sprintf("%s · %.0f%% available (%s)",
		z.zone.District, z.availability, availability.Level(z.availability))
}

// newZoneList creates a list.Model over the zones
func newZoneList(items []list.Item, width, height int) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), width, height)
	l.Title = "Parking Zones"
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)
	l.SetShowStatusBar(false)
	return l
}

// zoneItems builds list items with effective availability and favorite flags
func zoneItems(zones []models.Zone, agg *availability.Aggregator, favorites map[string]bool) []list.Item {
	items := make([]list.Item, len(zones))
	for i, zone := range zones {
		items[i] = zoneItem{
			zone:         zone,
			availability: agg.Effective(zone),
			favorite:     favorites[zone.ZoneID],
		}
	}
	return items
}
