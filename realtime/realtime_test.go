package realtime

import (
	"context"
	"net/http"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-situm/core"
	"github.com/goliatone/go-situm/devkit"
)

func newTestService(t *testing.T, fake *devkit.FakeTransport) *Service {
	t.Helper()
	fake.WithSession(devkit.MustToken(devkit.TokenOptions{}))
	pipeline, err := core.NewPipeline(core.Config{},
		core.WithTransport(fake),
		core.WithCredential(core.APIKeyCredential("K")),
	)
	if err != nil {
		t.Fatalf("new pipeline: %v", err)
	}
	return NewService(pipeline)
}

func TestPositions_QueryAndAdapter(t *testing.T) {
	fake := devkit.NewFakeTransport().Respond(http.MethodGet, "/api/v1/realtime/positions", devkit.JSON(http.StatusOK, `{
		"type": "whatever",
		"features": [{
			"id": "dev-1",
			"type": "Feature",
			"geometry": {"type": "Point", "coordinates": [-8.6, 42.1]},
			"properties": {"time": "2026-01-02T03:04:05Z", "floor_id": 7, "building_id": 3, "local_coordinates": [1.5, 2.5], "accuracy": 4}
		}],
		"devices_info": [{"id": "dev-1", "code": "A1", "groups": [{"id": "g"}], "buildings": [{"id": 3}], "organization": {"id": "o"}, "building_ids": ["3"]}]
	}`))
	svc := newTestService(t, fake)

	indoor := true
	threshold := 30
	positions, err := svc.Positions(context.Background(), Search{
		BuildingIDs:         []int{3, 4},
		DeviceIDs:           []string{"dev-1", "dev-2"},
		Indoor:              &indoor,
		MaxSecondsThreshold: &threshold,
	})
	if err != nil {
		t.Fatalf("positions: %v", err)
	}
	if positions.Type != "FeatureCollection" {
		t.Fatalf("expected feature collection type, got %q", positions.Type)
	}
	if len(positions.Features) != 1 {
		t.Fatalf("expected one feature, got %d", len(positions.Features))
	}
	props := positions.Features[0].Properties
	if props.FloorID != 7 || props.BuildingID != 3 || props.LocalCoordinates[1] != 2.5 {
		t.Fatalf("unexpected properties %+v", props)
	}
	if props.Time.IsZero() {
		t.Fatalf("expected time to be parsed")
	}

	encoded, _ := json.Marshal(positions.DevicesInfo[0])
	var device map[string]any
	_ = json.Unmarshal(encoded, &device)
	for _, dropped := range []string{"groups", "buildings", "organization"} {
		if _, ok := device[dropped]; ok {
			t.Fatalf("expected %s to be dropped from device", dropped)
		}
	}

	req, _ := fake.Last(http.MethodGet, "/api/v1/realtime/positions")
	want := map[string]string{
		"building_ids":      "3,4",
		"device_ids":        "dev-1,dev-2",
		"indoor":            "true",
		"max_sec_threshold": "30",
	}
	for key, value := range want {
		if req.Query[key] != value {
			t.Fatalf("expected %s=%s, got %+v", key, value, req.Query)
		}
	}
	if _, ok := req.Query["user_ids"]; ok {
		t.Fatalf("expected empty user ids to be omitted")
	}
}

func TestPositions_EmptyResponseYieldsEmptyCollections(t *testing.T) {
	fake := devkit.NewFakeTransport().Respond(http.MethodGet, "/api/v1/realtime/positions", devkit.JSON(http.StatusOK, `{}`))
	svc := newTestService(t, fake)

	positions, err := svc.Positions(context.Background(), Search{})
	if err != nil {
		t.Fatalf("positions: %v", err)
	}
	if positions.Features == nil || positions.DevicesInfo == nil {
		t.Fatalf("expected non-nil collections")
	}
	req, _ := fake.Last(http.MethodGet, "/api/v1/realtime/positions")
	if len(req.Query) != 0 {
		t.Fatalf("expected no query parameters, got %+v", req.Query)
	}
}

func TestPositions_RejectsNonUUIDUsers(t *testing.T) {
	fake := devkit.NewFakeTransport()
	svc := newTestService(t, fake)
	if _, err := svc.Positions(context.Background(), Search{UserIDs: []string{"nope"}}); err == nil {
		t.Fatalf("expected invalid user id to be rejected")
	}
	if len(fake.Requests()) != 0 {
		t.Fatalf("expected no network calls")
	}
}
