package cartography

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-situm/core"
)

const (
	buildingsPath     = "/api/v1/buildings"
	floorsPath        = "/api/v1/floors"
	geofencesPath     = "/api/v1/geofences"
	pathsPath         = "/api/v1/paths"
	poisPath          = "/api/v1/pois"
	poiCategoriesPath = "/api/v1/poi_categories"
	organizationPath  = "/api/v1/organizations/current_organization"

	viewCompact = "compact"

	scope = "cartography"
)

type Service struct {
	api     core.API
	compact bool
}

type Option func(*Service)

// WithCompactView requests the reduced building and POI representations.
func WithCompactView(enabled bool) Option {
	return func(s *Service) {
		s.compact = enabled
	}
}

func NewService(api core.API, opts ...Option) *Service {
	svc := &Service{api: api}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc
}

func (s *Service) ready() error {
	if s == nil || s.api == nil {
		return core.NewConfigurationError("cartography service requires an api")
	}
	return nil
}

func (s *Service) domain() string {
	return strings.TrimRight(s.api.Domain(), "/")
}

func itemPath(base string, id int) string {
	return base + "/" + strconv.Itoa(id)
}

func buildingScoped(buildingID int, resource string) string {
	return itemPath(buildingsPath, buildingID) + "/" + resource
}
