package query

import (
	"context"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-situm/cartography"
	"github.com/goliatone/go-situm/core"
	"github.com/goliatone/go-situm/realtime"
	"github.com/goliatone/go-situm/reports"
)

type stubBuildingReader struct {
	getFn  func(context.Context, int) (cartography.Building, error)
	listFn func(context.Context) ([]cartography.Building, error)
}

func (s stubBuildingReader) GetBuilding(ctx context.Context, id int) (cartography.Building, error) {
	return s.getFn(ctx, id)
}

func (s stubBuildingReader) ListBuildings(ctx context.Context) ([]cartography.Building, error) {
	return s.listFn(ctx)
}

type stubTrajectoryReader struct {
	calls int
}

func (s *stubTrajectoryReader) Trajectory(context.Context, reports.TrajectorySearch) ([]reports.TrajectoryPosition, error) {
	s.calls++
	return []reports.TrajectoryPosition{{FloorID: 1}}, nil
}

type stubSessionReader struct {
	session core.Session
}

func (s stubSessionReader) AuthSession(context.Context) (core.Session, error) {
	return s.session, nil
}

type stubPositionsReader func(context.Context, realtime.Search) (realtime.Positions, error)

func (f stubPositionsReader) Positions(ctx context.Context, search realtime.Search) (realtime.Positions, error) {
	return f(ctx, search)
}

func TestGetBuildingQuery_DelegatesToReader(t *testing.T) {
	reader := stubBuildingReader{
		getFn: func(_ context.Context, id int) (cartography.Building, error) {
			if id != 9 {
				t.Fatalf("unexpected building id %d", id)
			}
			return cartography.Building{ID: id, Name: "HQ"}, nil
		},
	}
	out, err := NewGetBuildingQuery(reader).Query(context.Background(), GetBuildingMessage{BuildingID: 9})
	if err != nil {
		t.Fatalf("query building: %v", err)
	}
	if out.Name != "HQ" {
		t.Fatalf("unexpected building %+v", out)
	}
}

func TestListBuildingsQuery_DelegatesToReader(t *testing.T) {
	reader := stubBuildingReader{
		listFn: func(context.Context) ([]cartography.Building, error) {
			return []cartography.Building{{ID: 1}, {ID: 2}}, nil
		},
	}
	out, err := NewListBuildingsQuery(reader).Query(context.Background(), ListBuildingsMessage{})
	if err != nil {
		t.Fatalf("list buildings: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected two buildings, got %d", len(out))
	}
}

func TestPositionsQuery_ForwardsSearch(t *testing.T) {
	indoor := true
	reader := stubPositionsReader(func(_ context.Context, search realtime.Search) (realtime.Positions, error) {
		if search.Indoor == nil || !*search.Indoor || len(search.BuildingIDs) != 1 {
			t.Fatalf("unexpected search %+v", search)
		}
		return realtime.Positions{Type: "FeatureCollection"}, nil
	})
	out, err := NewPositionsQuery(reader).Query(context.Background(), PositionsMessage{
		Search: realtime.Search{BuildingIDs: []int{4}, Indoor: &indoor},
	})
	if err != nil {
		t.Fatalf("positions: %v", err)
	}
	if out.Type != "FeatureCollection" {
		t.Fatalf("unexpected positions %+v", out)
	}
}

func TestTrajectoryQuery_DelegatesToReader(t *testing.T) {
	reader := &stubTrajectoryReader{}
	msg := TrajectoryMessage{Search: reports.TrajectorySearch{
		FromDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ToDate:     time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		BuildingID: 3,
	}}
	if err := msg.Validate(); err != nil {
		t.Fatalf("expected valid message, got %v", err)
	}
	out, err := NewTrajectoryQuery(reader).Query(context.Background(), msg)
	if err != nil {
		t.Fatalf("trajectory: %v", err)
	}
	if reader.calls != 1 || len(out) != 1 {
		t.Fatalf("unexpected trajectory result %d %+v", reader.calls, out)
	}
}

func TestAuthSessionQuery_ReturnsSession(t *testing.T) {
	reader := stubSessionReader{session: core.Session{Raw: "token", OrganizationID: "org"}}
	out, err := NewAuthSessionQuery(reader).Query(context.Background(), AuthSessionMessage{})
	if err != nil {
		t.Fatalf("auth session: %v", err)
	}
	if out.Raw != "token" {
		t.Fatalf("unexpected session %+v", out)
	}
}

func TestMessages_ValidateReturnsRichError(t *testing.T) {
	cases := []interface{ Validate() error }{
		GetBuildingMessage{},
		ListFloorsMessage{Search: cartography.FloorSearch{BuildingID: -1}},
		ListGeofencesMessage{Search: cartography.GeofenceSearch{Page: -1}},
		GetUserMessage{UserID: "nope"},
		PositionsMessage{Search: realtime.Search{UserIDs: []string{"nope"}}},
		TrajectoryMessage{},
	}
	for _, msg := range cases {
		err := msg.Validate()
		if err == nil {
			t.Fatalf("%T: expected validation error", msg)
		}
		var rich *goerrors.Error
		if !goerrors.As(err, &rich) {
			t.Fatalf("%T: expected go-errors envelope, got %T", msg, err)
		}
		if rich.TextCode != core.ServiceErrorBadInput {
			t.Fatalf("%T: expected %q text code, got %q", msg, core.ServiceErrorBadInput, rich.TextCode)
		}
	}
}

func TestQuery_NilReaderReturnsRichError(t *testing.T) {
	var q *ListUsersQuery
	_, err := q.Query(context.Background(), ListUsersMessage{})
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected go-errors envelope, got %T", err)
	}
	if rich.Category != goerrors.CategoryInternal {
		t.Fatalf("expected internal category, got %q", rich.Category)
	}
}
