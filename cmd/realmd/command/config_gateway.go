package command

import (
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-realm/internal/listener"
	"github.com/pixil98/go-realm/internal/sim"
)

type GatewayConfig struct {
	Host          string `json:"host"`
	Port          uint16 `json:"port"`
	MaxDatagram   int    `json:"max_datagram"`
	InboxCapacity int    `json:"inbox_capacity"`
}

func (c *GatewayConfig) Validate() error {
	el := errors.NewErrorList()

	if c.MaxDatagram != 0 && c.MaxDatagram < 256 {
		el.Add(fmt.Errorf("max_datagram %d is too small to carry a snapshot", c.MaxDatagram))
	}
	if c.InboxCapacity < 0 {
		el.Add(fmt.Errorf("inbox_capacity must not be negative"))
	}

	return el.Err()
}

func (c *GatewayConfig) BuildListener(inbox *sim.Inbox) *listener.UDPListener {
	port := c.Port
	if port == 0 {
		port = listener.DefaultPort
	}
	return listener.NewUDPListener(c.Host, port, c.MaxDatagram, inbox)
}
