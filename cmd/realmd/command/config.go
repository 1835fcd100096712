package command

import (
	"fmt"

	"github.com/pixil98/go-errors"
)

type Config struct {
	Gateway GatewayConfig `json:"gateway"`
	Admin   []AdminConfig `json:"admin"`
	Nats    NatsConfig    `json:"nats"`
	Storage StorageConfig `json:"storage"`
	World   WorldConfig   `json:"world"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	el.Add(c.Gateway.Validate())
	for i := range c.Admin {
		if err := c.Admin[i].Validate(); err != nil {
			el.Add(fmt.Errorf("admin %d: %w", i, err))
		}
	}
	el.Add(c.Nats.Validate())
	el.Add(c.Storage.Validate())
	el.Add(c.World.Validate())

	return el.Err()
}
