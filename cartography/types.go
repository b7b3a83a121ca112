package cartography

import (
	"time"

	"github.com/goliatone/go-situm/core"
)

type Dimensions struct {
	Width  float64 `json:"width"`
	Length float64 `json:"length"`
}

type CalibrationModel struct {
	ID        int       `json:"id"`
	UpdatedAt time.Time `json:"updatedAt"`
	Download  string    `json:"download"`
}

// Building is returned both by the list endpoint, where the nested
// collections are empty, and by the detail endpoint.
type Building struct {
	ID               int                `json:"id"`
	Name             string             `json:"name"`
	Description      string             `json:"description"`
	Info             string             `json:"info"`
	Rotation         float64            `json:"rotation"`
	Dimensions       Dimensions         `json:"dimensions"`
	Location         core.LatLng        `json:"location"`
	CustomFields     []core.CustomField `json:"customFields"`
	CalibrationModel *CalibrationModel  `json:"calibrationModel,omitempty"`
	PictureThumbURL  string             `json:"pictureThumbUrl"`
	PictureURL       string             `json:"pictureUrl"`
	ServerURL        string             `json:"serverUrl"`
	UserID           string             `json:"userId"`
	CreatedAt        time.Time          `json:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt"`

	Corners   []core.LatLng `json:"corners,omitempty"`
	Floors    []Floor       `json:"floors,omitempty"`
	Pois      []Poi         `json:"pois,omitempty"`
	Geofences []Geofence    `json:"geofences,omitempty"`
	Paths     *Paths        `json:"paths,omitempty"`
}

type BuildingForm struct {
	Name         string             `json:"name"`
	Description  string             `json:"description,omitempty"`
	Info         string             `json:"info,omitempty"`
	Dimensions   Dimensions         `json:"dimensions"`
	Location     core.LatLng        `json:"location"`
	Rotation     float64            `json:"rotation"`
	PictureID    string             `json:"pictureId,omitempty"`
	CustomFields []core.CustomField `json:"customFields,omitempty"`
}

type Maps struct {
	Scale  float64 `json:"scale"`
	MapURL string  `json:"mapUrl"`
	MapID  string  `json:"mapId"`
}

type Floor struct {
	ID           int                `json:"id"`
	BuildingID   int                `json:"buildingId"`
	Level        int                `json:"level"`
	LevelHeight  float64            `json:"levelHeight"`
	Name         string             `json:"name"`
	CustomFields []core.CustomField `json:"customFields"`
	Maps         Maps               `json:"maps"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

type FloorForm struct {
	BuildingID   int                `json:"buildingId"`
	Level        int                `json:"level"`
	LevelHeight  float64            `json:"levelHeight,omitempty"`
	Name         string             `json:"name,omitempty"`
	MapID        string             `json:"mapId,omitempty"`
	CustomFields []core.CustomField `json:"customFields,omitempty"`
}

type FloorSearch struct {
	BuildingID int
}

const GeofenceTypePolygon = "POLYGON"

type Geofence struct {
	ID             string             `json:"id"`
	BuildingID     string             `json:"buildingId"`
	FloorID        int                `json:"floorId"`
	OrganizationID string             `json:"organizationId"`
	Name           string             `json:"name"`
	Code           string             `json:"code"`
	Info           string             `json:"info"`
	Type           string             `json:"type"`
	Geometric      [][2]float64       `json:"geometric"`
	CustomFields   []core.CustomField `json:"customFields"`
	Deleted        bool               `json:"deleted"`
	CreatedAt      time.Time          `json:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt"`
}

type GeofenceForm struct {
	BuildingID     string             `json:"buildingId"`
	FloorID        int                `json:"floorId"`
	OrganizationID string             `json:"organizationId,omitempty"`
	Name           string             `json:"name"`
	Code           string             `json:"code,omitempty"`
	Info           string             `json:"info,omitempty"`
	Type           string             `json:"type"`
	Geometric      [][2]float64       `json:"geometric"`
	CustomFields   []core.CustomField `json:"customFields,omitempty"`
}

type GeofenceSearch struct {
	Page           int
	Size           int
	Sort           string
	OrganizationID string
	BuildingIDs    []int
	Name           string
	Deleted        *bool
}

type PathNode struct {
	ID      int     `json:"id"`
	FloorID int     `json:"floorId"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
}

const (
	PathOriginBoth   = "both"
	PathOriginSource = "source"
	PathOriginTarget = "target"
)

type PathLink struct {
	Source     int      `json:"source"`
	Target     int      `json:"target"`
	Origin     string   `json:"origin"`
	Tags       []string `json:"tags"`
	Accessible bool     `json:"accessible"`
}

type Paths struct {
	Nodes []PathNode `json:"nodes"`
	Links []PathLink `json:"links"`
}

type PathSearch struct {
	BuildingID int
}

type PoiLocation struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
}

type Poi struct {
	ID           int                `json:"id"`
	BuildingID   int                `json:"buildingId"`
	FloorID      int                `json:"floorId,omitempty"`
	Name         string             `json:"name"`
	Info         string             `json:"info"`
	InfoUnsafe   string             `json:"infoUnsafe"`
	Type         string             `json:"type"`
	CategoryID   int                `json:"categoryId"`
	CategoryIDs  []int              `json:"categoryIds"`
	CategoryName string             `json:"categoryName"`
	Icon         string             `json:"icon"`
	SelectedIcon string             `json:"selectedIcon"`
	CustomFields []core.CustomField `json:"customFields"`
	Location     *PoiLocation       `json:"location,omitempty"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

type PoiPosition struct {
	FloorID       int         `json:"floorId"`
	Georeferences core.LatLng `json:"georeferences"`
}

type PoiForm struct {
	BuildingID   int                `json:"buildingId"`
	Name         string             `json:"name,omitempty"`
	Info         string             `json:"info,omitempty"`
	CategoryID   int                `json:"categoryId,omitempty"`
	CategoryIDs  []int              `json:"categoryIds,omitempty"`
	Icon         string             `json:"icon,omitempty"`
	SelectedIcon string             `json:"selectedIcon,omitempty"`
	CustomFields []core.CustomField `json:"customFields,omitempty"`
	Position     *PoiPosition       `json:"position,omitempty"`
}

const (
	PoiTypeIndoor  = "indoor"
	PoiTypeOutdoor = "outdoor"
)

type PoiSearch struct {
	BuildingID int
	Type       string
	// Compact overrides the service level compact view for one call.
	Compact *bool
}

type PoiCategory struct {
	ID              int       `json:"id"`
	Code            string    `json:"code"`
	NameEn          string    `json:"nameEn"`
	NameEs          string    `json:"nameEs"`
	IconURL         string    `json:"iconUrl"`
	SelectedIconURL string    `json:"selectedIconUrl"`
	Public          bool      `json:"public"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type PoiCategoryForm struct {
	Code         string `json:"code"`
	NameEn       string `json:"nameEn"`
	NameEs       string `json:"nameEs,omitempty"`
	Icon         string `json:"icon,omitempty"`
	SelectedIcon string `json:"selectedIcon,omitempty"`
}

type Colors struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Success   string `json:"success"`
	Warning   string `json:"warning"`
	Danger    string `json:"danger"`
	Info      string `json:"info"`
	Default   string `json:"default"`
}

type Organization struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	LogoPath        string `json:"logoPath"`
	LogoLoginPath   string `json:"logoLoginPath"`
	LogoFaviconPath string `json:"logoFaviconPath"`
	CookiesMessage  string `json:"cookiesMessage"`
	SupportEmail    string `json:"supportEmail"`
	Copyright       string `json:"copyright"`
	Colors          Colors `json:"colors"`
}
