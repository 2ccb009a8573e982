package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/smartpark/parking-terminal/internal/models"
)

func TestRESTZoneClient_ListZones(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/zones" {
			t.Errorf("path = %s, want /api/v1/zones", r.URL.Path)
		}
		if r.Header.Get("Accept") != "application/json" {
			t.Error("Accept header should be application/json")
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("X-Request-ID header not set")
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("zone listing should not send an Authorization header")
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]models.Zone{
			{ZoneID: "zone_1", ZoneName: "CG Road", District: "Navrangpura", CurrentAvailability: 72.5},
			{ZoneID: "zone_2", ZoneName: "Law Garden", District: "Ellisbridge", CurrentAvailability: 18},
		})
	}))
	defer server.Close()

	client := NewZoneClient(server.URL, 0)
	zones, err := client.ListZones(context.Background())
	if err != nil {
		t.Fatalf("ListZones() error = %v", err)
	}

	if len(zones) != 2 {
		t.Fatalf("got %d zones, want 2", len(zones))
	}
	if zones[0].ZoneID != "zone_1" {
		t.Errorf("zones[0].ZoneID = %s, want zone_1", zones[0].ZoneID)
	}
	if zones[1].CurrentAvailability != 18 {
		t.Errorf("zones[1].CurrentAvailability = %v, want 18", zones[1].CurrentAvailability)
	}
}

func TestRESTZoneClient_GetZone_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Zone not found"})
	}))
	defer server.Close()

	client := NewZoneClient(server.URL, 0)
	_, err := client.GetZone(context.Background(), "zone_999")
	if err == nil {
		t.Fatal("GetZone() expected error, got nil")
	}
	if !IsNotFound(err) {
		t.Errorf("IsNotFound(err) = false, want true (err = %v)", err)
	}
	if got := Detail(err, "fallback"); got != "Zone not found" {
		t.Errorf("Detail(err) = %q, want server-provided message", got)
	}
}

func TestRESTZoneClient_GetZoneHistory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/zones/zone_3/history" {
			t.Errorf("path = %s, want /api/v1/zones/zone_3/history", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.ZoneHistory{
			Records:    []models.HistoryRecord{{Availability: 40}, {Availability: 55}},
			Statistics: models.HistoryStatistics{AvgOccupancy: 52.5, PeakHour: "18:00"},
		})
	}))
	defer server.Close()

	client := NewZoneClient(server.URL, 0)
	history, err := client.GetZoneHistory(context.Background(), "zone_3")
	if err != nil {
		t.Fatalf("GetZoneHistory() error = %v", err)
	}

	if len(history.Records) != 2 {
		t.Errorf("got %d records, want 2", len(history.Records))
	}
	if history.Statistics.PeakHour != "18:00" {
		t.Errorf("PeakHour = %s, want 18:00", history.Statistics.PeakHour)
	}
}

func TestZoneClient_NetworkFailure(t *testing.T) {
	// Point at a closed server so the request fails at the transport
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewZoneClient(server.URL, 0)
	_, err := client.ListZones(context.Background())
	if err == nil {
		t.Fatal("expected error from closed server")
	}
	if ErrKindOf(err) != KindNetwork {
		t.Errorf("kind = %v, want KindNetwork", ErrKindOf(err))
	}
}
