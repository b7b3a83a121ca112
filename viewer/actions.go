package viewer

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-situm/core"
	"github.com/goliatone/go-situm/realtime"
	"github.com/goliatone/go-situm/reports"
)

const (
	defaultTrajectorySpeed  = 1
	defaultRealtimeInterval = 5 * time.Second
)

// TrajectorySource is satisfied by *reports.Service.
type TrajectorySource interface {
	Trajectory(ctx context.Context, search reports.TrajectorySearch) ([]reports.TrajectoryPosition, error)
}

// PositionsSource is satisfied by *realtime.Service.
type PositionsSource interface {
	Positions(ctx context.Context, search realtime.Search) (realtime.Positions, error)
}

// FeatureCustomizer may rewrite a feature before it is sent, e.g. to set a
// title or icon per device.
type FeatureCustomizer func(feature ExternalFeature, device *realtime.Device) ExternalFeature

func (v *Viewer) SelectPoi(ctx context.Context, poiID int) error {
	if err := core.RequirePositiveID("viewer", "poiId", poiID); err != nil {
		return err
	}
	return v.Send(ctx, ActionSelectPoi, selectPoiPayload{Identifier: poiID})
}

func (v *Viewer) SelectBuilding(ctx context.Context, buildingID int) error {
	if err := core.RequirePositiveID("viewer", "buildingId", buildingID); err != nil {
		return err
	}
	return v.Send(ctx, ActionSelectBuilding, selectPoiPayload{Identifier: buildingID})
}

func (v *Viewer) SelectFloor(ctx context.Context, floorID int) error {
	if err := core.RequirePositiveID("viewer", "floorId", floorID); err != nil {
		return err
	}
	return v.Send(ctx, ActionSelectFloor, selectPoiPayload{Identifier: floorID})
}

func (v *Viewer) SetLanguage(ctx context.Context, lang string) error {
	if err := core.RequireText("viewer", "lang", lang); err != nil {
		return err
	}
	return v.Send(ctx, ActionSetLanguage, lang)
}

// ShowTrajectory plays positions on the map from the start.
func (v *Viewer) ShowTrajectory(ctx context.Context, positions []reports.TrajectoryPosition) error {
	if positions == nil {
		positions = []reports.TrajectoryPosition{}
	}
	return v.Send(ctx, ActionShowTrajectory, trajectoryPayload{
		Data:   positions,
		Speed:  defaultTrajectorySpeed,
		Status: TrajectoryPlay,
	})
}

// LoadTrajectory fetches a trajectory and plays it.
func (v *Viewer) LoadTrajectory(ctx context.Context, source TrajectorySource, search reports.TrajectorySearch) ([]reports.TrajectoryPosition, error) {
	if source == nil {
		return nil, core.NewConfigurationError("viewer: trajectory source is required")
	}
	positions, err := source.Trajectory(ctx, search)
	if err != nil {
		return nil, err
	}
	if err := v.ShowTrajectory(ctx, positions); err != nil {
		return nil, err
	}
	return positions, nil
}

func (v *Viewer) ClearTrajectory(ctx context.Context) error {
	return v.Send(ctx, ActionShowTrajectory, trajectoryPayload{
		Data:   []reports.TrajectoryPosition{},
		Speed:  defaultTrajectorySpeed,
		Status: TrajectoryStop,
	})
}

func (v *Viewer) UpdateExternalFeatures(ctx context.Context, features []ExternalFeature) error {
	if features == nil {
		features = []ExternalFeature{}
	}
	return v.Send(ctx, ActionUpdateExternalFeatures, features)
}

// ExternalFeatures converts realtime positions into viewer features. The
// viewer expects [lng, lat] where the positions carry [lat, lng].
func ExternalFeatures(positions realtime.Positions, customize FeatureCustomizer) []ExternalFeature {
	devices := make(map[string]*realtime.Device, len(positions.DevicesInfo))
	for i := range positions.DevicesInfo {
		device := &positions.DevicesInfo[i]
		devices[device.ID] = device
	}

	out := make([]ExternalFeature, 0, len(positions.Features))
	for _, feature := range positions.Features {
		coords := feature.Geometry.Coordinates
		converted := ExternalFeature{
			ID:   feature.ID,
			Type: feature.Type,
			Geometry: FeatureGeometry{
				Type:        feature.Geometry.Type,
				Coordinates: [2]float64{coords[1], coords[0]},
			},
			Properties: FeatureProperties{
				FloorID:    feature.Properties.FloorID,
				BuildingID: feature.Properties.BuildingID,
				Accuracy:   feature.Properties.Accuracy,
			},
		}
		if customize != nil {
			converted = customize(converted, devices[feature.ID])
		}
		out = append(out, converted)
	}
	return out
}

// StartRealtimePositions polls source every interval and pushes the result
// as external features until ctx is done, StopRealtimePositions is called or
// the connection closes. A previous refresh loop is replaced. The first
// refresh happens before StartRealtimePositions returns.
func (v *Viewer) StartRealtimePositions(ctx context.Context, source PositionsSource, search realtime.Search, interval time.Duration, customize FeatureCustomizer) error {
	if v == nil {
		return core.NewConfigurationError("viewer is not connected")
	}
	if source == nil {
		return core.NewConfigurationError("viewer: positions source is required")
	}
	if interval <= 0 {
		interval = defaultRealtimeInterval
	}
	v.StopRealtimePositions()

	if err := v.refreshPositions(ctx, source, search, customize); err != nil {
		return err
	}

	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	v.realtimeMu.Lock()
	v.realtimeCancel = cancel
	v.realtimeDone = done
	v.realtimeMu.Unlock()

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-loopCtx.Done():
				return
			case <-v.done:
				return
			case <-ticker.C:
				if err := v.refreshPositions(loopCtx, source, search, customize); err != nil {
					if loopCtx.Err() != nil {
						return
					}
					v.log("error", "viewer realtime refresh failed", map[string]any{
						"error":     err.Error(),
						"text_code": textCode(err),
					})
				}
			}
		}
	}()
	return nil
}

// StopRealtimePositions halts the refresh loop and waits for it to exit.
func (v *Viewer) StopRealtimePositions() {
	if v == nil {
		return
	}
	v.realtimeMu.Lock()
	cancel, done := v.realtimeCancel, v.realtimeDone
	v.realtimeCancel, v.realtimeDone = nil, nil
	v.realtimeMu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// ClearRealtimePositions stops refreshing and removes the drawn features.
func (v *Viewer) ClearRealtimePositions(ctx context.Context) error {
	v.StopRealtimePositions()
	return v.UpdateExternalFeatures(ctx, nil)
}

func (v *Viewer) refreshPositions(ctx context.Context, source PositionsSource, search realtime.Search, customize FeatureCustomizer) error {
	positions, err := source.Positions(ctx, search)
	if err != nil {
		return err
	}
	return v.UpdateExternalFeatures(ctx, ExternalFeatures(positions, customize))
}

func textCode(err error) string {
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return rich.TextCode
	}
	return ""
}
