package command

import (
	"fmt"
	"os"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-realm/internal/player"
	"github.com/pixil98/go-realm/internal/storage"
	"github.com/pixil98/go-realm/internal/zones"
)

type StorageConfig struct {
	Accounts   AssetConfig[*player.Account]         `json:"accounts"`
	Characters AssetConfig[*player.CharacterRecord] `json:"characters"`
	Zones      AssetConfig[*zones.Zone]             `json:"zones"`
	Archetypes AssetConfig[*zones.Archetype]        `json:"archetypes"`
	Items      AssetConfig[*zones.Item]             `json:"items"`
	Npcs       AssetConfig[*zones.NPCTemplate]      `json:"npcs"`
}

func (c *StorageConfig) Validate() error {
	el := errors.NewErrorList()

	el.Add(c.Accounts.Validate("accounts"))
	el.Add(c.Characters.Validate("characters"))
	el.Add(c.Zones.Validate("zones"))
	el.Add(c.Archetypes.Validate("archetypes"))
	el.Add(c.Items.Validate("items"))
	el.Add(c.Npcs.Validate("npcs"))

	return el.Err()
}

// BuildRegistry loads every world definition store and resolves the
// references between them. Failures here are fatal at startup.
func (c *StorageConfig) BuildRegistry() (*zones.Registry, error) {
	zoneStore, err := c.Zones.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating zone store: %w", err)
	}
	archStore, err := c.Archetypes.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating archetype store: %w", err)
	}
	itemStore, err := c.Items.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating item store: %w", err)
	}
	npcStore, err := c.Npcs.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating npc store: %w", err)
	}

	reg := &zones.Registry{
		Zones:      zoneStore,
		Archetypes: archStore,
		Items:      itemStore,
		NPCs:       npcStore,
	}

	if err := reg.Resolve(); err != nil {
		return nil, fmt.Errorf("resolving references: %w", err)
	}

	return reg, nil
}

// BuildPlayerStores creates the account and character record stores the
// persistence gateway writes through.
func (c *StorageConfig) BuildPlayerStores() (*storage.FileStore[*player.Account], *storage.FileStore[*player.CharacterRecord], error) {
	accounts, err := c.Accounts.BuildFileStore()
	if err != nil {
		return nil, nil, fmt.Errorf("creating account store: %w", err)
	}
	chars, err := c.Characters.BuildFileStore()
	if err != nil {
		return nil, nil, fmt.Errorf("creating character store: %w", err)
	}
	return accounts, chars, nil
}

type AssetConfig[T storage.ValidatingSpec] struct {
	Path string `json:"path"`
}

func (c *AssetConfig[T]) Validate(name string) error {
	if c.Path == "" {
		return fmt.Errorf("%s: path is required", name)
	}
	_, err := os.Stat(c.Path)
	if err != nil {
		return fmt.Errorf("%s: invalid path %q: %w", name, c.Path, err)
	}

	return nil
}

func (c *AssetConfig[T]) BuildFileStore() (*storage.FileStore[T], error) {
	return storage.NewFileStore[T](c.Path)
}
