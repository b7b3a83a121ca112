package cartography

import "strings"

// serverBuilding carries the aliases the API still returns for buildings.
type serverBuilding struct {
	Building
	UserUUID    string      `json:"userUuid"`
	IndoorPois  []serverPoi `json:"indoorPois"`
	OutdoorPois []serverPoi `json:"outdoorPois"`
}

type serverPoiPosition struct {
	FloorID int     `json:"floorId"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

type serverPoi struct {
	Poi
	Position *serverPoiPosition `json:"position"`
}

// serverGeofence absorbs the legacy upper camel custom fields key so it
// never shadows customFields.
type serverGeofence struct {
	Geofence
	LegacyCustomFields []any `json:"CustomFields"`
}

func adaptBuilding(in serverBuilding) Building {
	out := in.Building
	if in.UserUUID != "" {
		out.UserID = in.UserUUID
	}
	if in.IndoorPois != nil || in.OutdoorPois != nil {
		pois := make([]Poi, 0, len(in.IndoorPois)+len(in.OutdoorPois))
		for _, poi := range in.IndoorPois {
			pois = append(pois, adaptPoi(poi))
		}
		for _, poi := range in.OutdoorPois {
			pois = append(pois, adaptPoi(poi))
		}
		out.Pois = pois
	}
	return out
}

// adaptPoi folds an indoor position into floorId and location.
func adaptPoi(in serverPoi) Poi {
	out := in.Poi
	if in.Position != nil {
		out.FloorID = in.Position.FloorID
		out.Location = &PoiLocation{
			Lat: in.Position.Lat,
			Lng: in.Position.Lng,
			X:   in.Position.X,
			Y:   in.Position.Y,
		}
	}
	return out
}

func adaptPois(in []serverPoi) []Poi {
	out := make([]Poi, 0, len(in))
	for _, poi := range in {
		out = append(out, adaptPoi(poi))
	}
	return out
}

func adaptGeofence(in serverGeofence) Geofence {
	return in.Geofence
}

func adaptPoiCategory(in PoiCategory, domain string) PoiCategory {
	in.IconURL = resolveAbsolute(in.IconURL, domain)
	in.SelectedIconURL = resolveAbsolute(in.SelectedIconURL, domain)
	return in
}

func adaptOrganization(in Organization, domain string) Organization {
	in.LogoPath = resolveAbsolute(in.LogoPath, domain)
	in.LogoLoginPath = resolveAbsolute(in.LogoLoginPath, domain)
	in.LogoFaviconPath = resolveAbsolute(in.LogoFaviconPath, domain)
	return in
}

func resolveAbsolute(value, domain string) string {
	if value == "" || strings.Contains(value, "https") {
		return value
	}
	if !strings.HasPrefix(value, "/") {
		value = "/" + value
	}
	return domain + value
}
