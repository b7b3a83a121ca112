// Package reports exposes the historical positioning reports.
package reports

import (
	"context"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-situm/core"
)

const userPositionsPath = "/api/v1/reports/user_positions.json"

type TrajectoryPosition struct {
	Timestamp   time.Time `json:"timestamp"`
	SessionMark int64     `json:"sessionMark"`
	FloorID     int       `json:"floorId"`
	UserID      string    `json:"userId"`
	DeviceID    string    `json:"deviceId"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
}

type TrajectorySearch struct {
	FromDate   time.Time
	ToDate     time.Time
	BuildingID int
	UserID     string
}

func (s TrajectorySearch) Validate() error {
	var fields []goerrors.FieldError
	if s.FromDate.IsZero() {
		fields = append(fields, goerrors.FieldError{Field: "fromDate", Message: "required"})
	}
	if s.ToDate.IsZero() {
		fields = append(fields, goerrors.FieldError{Field: "toDate", Message: "required"})
	}
	if s.BuildingID <= 0 {
		fields = append(fields, goerrors.FieldError{Field: "buildingId", Message: "required"})
	}
	if len(fields) > 0 {
		return core.NewBadInputError("reports: fromDate, toDate, and buildingId are required", fields...)
	}
	if s.ToDate.Before(s.FromDate) {
		return core.NewBadInputError("reports: toDate must not be before fromDate",
			goerrors.FieldError{Field: "toDate", Message: "must not be before fromDate"})
	}
	if s.UserID != "" {
		return core.RequireUUID("reports", "userId", s.UserID)
	}
	return nil
}

type trajectoryResponse struct {
	Data []TrajectoryPosition `json:"data"`
}

type Service struct {
	api core.API
}

func NewService(api core.API) *Service {
	return &Service{api: api}
}

// Trajectory returns the recorded positions of a building in a time range,
// optionally narrowed to one user.
func (s *Service) Trajectory(ctx context.Context, search TrajectorySearch) ([]TrajectoryPosition, error) {
	if s == nil || s.api == nil {
		return nil, core.NewConfigurationError("reports service requires an api")
	}
	if err := search.Validate(); err != nil {
		return nil, err
	}

	query := map[string]any{
		"from_date":   search.FromDate.UTC().Format(isoMillis),
		"to_date":     search.ToDate.UTC().Format(isoMillis),
		"building_id": search.BuildingID,
	}
	if userID := strings.TrimSpace(search.UserID); userID != "" {
		query["user_id"] = userID
	}

	var res trajectoryResponse
	if err := s.api.Get(ctx, core.RequestDescriptor{Path: userPositionsPath, Query: query}, &res); err != nil {
		return nil, err
	}
	if res.Data == nil {
		return []TrajectoryPosition{}, nil
	}
	return res.Data, nil
}

const isoMillis = "2006-01-02T15:04:05.000Z07:00"
