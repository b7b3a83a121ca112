package situm

import (
	"github.com/goliatone/go-situm/cartography"
	"github.com/goliatone/go-situm/core"
	"github.com/goliatone/go-situm/images"
	"github.com/goliatone/go-situm/realtime"
	"github.com/goliatone/go-situm/reports"
	"github.com/goliatone/go-situm/transport"
	"github.com/goliatone/go-situm/users"
)

const Version = "0.5.0"

// Client bundles the request pipeline with the domain services that share
// it. All services authenticate through the same session.
type Client struct {
	Pipeline    *core.Pipeline
	Cartography *cartography.Service
	Users       *users.Service
	Realtime    *realtime.Service
	Reports     *reports.Service
	Images      *images.Service
}

// New builds a client. Without WithTransport requests go through a
// transport.RESTAdapter on a default http.Client.
func New(cfg Config, opts ...Option) (*Client, error) {
	base := []Option{core.WithTransport(transport.NewRESTAdapter(nil))}
	pipeline, err := core.NewPipeline(cfg, append(base, opts...)...)
	if err != nil {
		return nil, err
	}
	return &Client{
		Pipeline:    pipeline,
		Cartography: cartography.NewService(pipeline, cartography.WithCompactView(pipeline.Config().Compact)),
		Users:       users.NewService(pipeline),
		Realtime:    realtime.NewService(pipeline),
		Reports:     reports.NewService(pipeline),
		Images:      images.NewService(pipeline),
	}, nil
}

func (c *Client) Version() string {
	return Version
}
