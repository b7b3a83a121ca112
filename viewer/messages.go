package viewer

import json "github.com/goccy/go-json"

const (
	ActionSetAuth                = "app.set_auth"
	ActionSetConfigItem          = "app.set_config_item"
	ActionFollowUser             = "camera.follow_user"
	ActionCameraSet              = "camera.set"
	ActionSelectPoi              = "cartography.select_poi"
	ActionSelectCar              = "cartography.select_car"
	ActionDeselectPoi            = "cartography.deselect_poi"
	ActionSelectBuilding         = "cartography.select_building"
	ActionSelectFloor            = "cartography.select_floor"
	ActionSelectPoiCategory      = "cartography.select_poi_category"
	ActionDeselectPoiCategories  = "cartography.deselect_poi_categories"
	ActionUpdateExternalFeatures = "map.update_external_features"
	ActionShowTrajectory         = "map.show_trajectory"
	ActionNavigationStart        = "navigation.start"
	ActionNavigationCancel       = "navigation.cancel"
	ActionSetLanguage            = "ui.set_language"
	ActionSetUIMode              = "ui.set_mode"
)

const (
	EventMapIsReady            = "app.map_is_ready"
	EventAppError              = "app.error"
	EventPoiSelected           = "cartography.poi_selected"
	EventPoiDeselected         = "cartography.poi_deselected"
	EventBuildingSelected      = "cartography.building_selected"
	EventFloorSelected         = "cartography.floor_selected"
	EventPoiCategorySelected   = "cartography.poi_category_selected"
	EventPoiCategoryDeselected = "cartography.poi_category_deselected"
	EventDirectionsRequested   = "directions.requested"
	EventNavigationRequested   = "navigation.requested"
	EventNavigationStopped     = "navigation.stopped"
)

const (
	TrajectoryPlay  = "PLAY"
	TrajectoryPause = "PAUSE"
	TrajectoryStop  = "STOP"
)

// Message is the envelope exchanged with the viewer.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type outgoing struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type selectPoiPayload struct {
	Identifier int `json:"identifier"`
}

type trajectoryPayload struct {
	Data   any    `json:"data"`
	Speed  int    `json:"speed"`
	Status string `json:"status"`
}

type FeatureGeometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

type FeatureProperties struct {
	FloorID    int     `json:"floor_id"`
	BuildingID int     `json:"building_id"`
	Accuracy   float64 `json:"accuracy,omitempty"`
	Title      string  `json:"title,omitempty"`
	IconURL    string  `json:"icon_url,omitempty"`
}

// ExternalFeature is a GeoJSON point drawn on top of the map.
type ExternalFeature struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	Geometry   FeatureGeometry   `json:"geometry"`
	Properties FeatureProperties `json:"properties"`
}
