// Package cartography wraps the building, floor, geofence, path, POI and
// POI category endpoints. Responses are adapted into stable shapes: server
// aliases are renamed, deprecated fields dropped and relative asset paths
// resolved against the configured domain.
package cartography
