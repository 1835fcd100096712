package command

import (
	"fmt"

	"github.com/pixil98/go-realm/internal/admin"
	"github.com/pixil98/go-realm/internal/driver"
	"github.com/pixil98/go-realm/internal/listener"
	"github.com/pixil98/go-realm/internal/messaging"
	"github.com/pixil98/go-realm/internal/player"
	"github.com/pixil98/go-realm/internal/sim"
	"github.com/pixil98/go-service"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	inbox := sim.NewInbox(cfg.Gateway.InboxCapacity)

	// World definitions and player records
	registry, err := cfg.Storage.BuildRegistry()
	if err != nil {
		return nil, fmt.Errorf("loading world assets: %w", err)
	}
	accounts, chars, err := cfg.Storage.BuildPlayerStores()
	if err != nil {
		return nil, err
	}

	params, err := cfg.World.BuildParams()
	if err != nil {
		return nil, fmt.Errorf("building world parameters: %w", err)
	}

	home := registry.Zone(params.DefaultZone)
	if home == nil {
		return nil, fmt.Errorf("default zone %q is not among the loaded zones", params.DefaultZone)
	}
	sp := home.SpawnPointFor(0)
	gateway := player.NewGateway(accounts, chars, inbox,
		player.WithStartingLocation(params.DefaultZone, sp.Pos, sp.Rot))

	// Message bus
	natsServer, err := cfg.Nats.BuildServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}
	bus := messaging.NewBus(natsServer)

	// Client gateway and simulation
	udp := cfg.Gateway.BuildListener(inbox)
	world, err := sim.NewWorld(params, registry, inbox, udp, bus, gateway)
	if err != nil {
		return nil, fmt.Errorf("creating world: %w", err)
	}

	drv, err := driver.NewDriver([]driver.Manager{world},
		driver.WithTickInterval(params.TickInterval))
	if err != nil {
		return nil, fmt.Errorf("creating driver: %w", err)
	}

	// Operator consoles share one connection manager
	cm := listener.NewConnectionManager(admin.NewConsole(inbox))

	listeners := make(service.WorkerList, len(cfg.Admin)+1)
	listeners["gateway"] = udp
	for i := range cfg.Admin {
		w, err := cfg.Admin[i].BuildListener(cm)
		if err != nil {
			return nil, fmt.Errorf("creating admin listener %d: %w", i, err)
		}
		listeners[fmt.Sprintf("admin-%d", i)] = w
	}

	return service.WorkerList{
		"nats":      natsServer,
		"driver":    drv,
		"listeners": &listeners,
	}, nil
}
