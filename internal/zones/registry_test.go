package zones

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/pixil98/go-realm/internal/game"
	"github.com/pixil98/go-realm/internal/storage"
	"github.com/pixil98/go-testutil"
)

func writeAsset[T storage.ValidatingSpec](t *testing.T, dir, id string, spec T) {
	t.Helper()

	asset := storage.Asset[T]{Version: 1, Identifier: storage.Identifier(id), Spec: spec}
	data, err := json.Marshal(asset)
	if err != nil {
		t.Fatalf("marshalling asset %s: %v", id, err)
	}
	if err := os.WriteFile(filepath.Join(dir, id+".json"), data, 0644); err != nil {
		t.Fatalf("writing asset %s: %v", id, err)
	}
}

func testRegistry(t *testing.T, zones map[string]*Zone) (*Registry, error) {
	t.Helper()

	zoneDir := t.TempDir()
	archDir := t.TempDir()
	itemDir := t.TempDir()
	npcDir := t.TempDir()

	writeAsset(t, archDir, "goblin", &Archetype{
		Name:           "Goblin",
		Level:          2,
		MaxHealth:      30,
		Attack:         8,
		Defense:        2,
		MoveSpeed:      3.5,
		AttackInterval: "1.5s",
		XPReward:       90,
		Loot: []LootEntry{{
			Item:   storage.NewSmartIdentifier[*Item]("healing-potion"),
			Chance: 0.25,
			Qty:    1,
		}},
	})
	writeAsset(t, itemDir, "healing-potion", &Item{
		Name: "Healing Potion", Kind: ItemPotion, Heal: 25, StackMax: 5,
	})
	writeAsset(t, npcDir, "innkeeper", &NPCTemplate{
		Name: "Innkeeper", Greeting: "Rooms upstairs, trouble outside.",
	})
	for id, z := range zones {
		writeAsset(t, zoneDir, id, z)
	}

	zs, err := storage.NewFileStore[*Zone](zoneDir)
	if err != nil {
		t.Fatalf("loading zones: %v", err)
	}
	as, err := storage.NewFileStore[*Archetype](archDir)
	if err != nil {
		t.Fatalf("loading archetypes: %v", err)
	}
	is, err := storage.NewFileStore[*Item](itemDir)
	if err != nil {
		t.Fatalf("loading items: %v", err)
	}
	ns, err := storage.NewFileStore[*NPCTemplate](npcDir)
	if err != nil {
		t.Fatalf("loading npcs: %v", err)
	}

	r := &Registry{Zones: zs, Archetypes: as, Items: is, NPCs: ns}
	return r, r.Resolve()
}

func TestRegistry_Resolve(t *testing.T) {
	meadow := validZone()
	ember := &Zone{
		Name:        "Emberfall",
		Bounds:      AABB{MinX: -50, MaxX: 50, MinZ: -50, MaxZ: 50},
		SpawnPoints: []SpawnPoint{{Pos: game.Vec3{}}},
		NPCSpawns: []NPCSpawn{{
			Template: storage.NewSmartIdentifier[*NPCTemplate]("innkeeper"),
			Pos:      game.Vec3{X: 1, Z: 2},
		}},
	}

	r, err := testRegistry(t, map[string]*Zone{"meadowbrook": meadow, "emberfall": ember})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	z := r.Zone("meadowbrook")
	if z == nil {
		t.Fatal("expected meadowbrook to load")
	}

	arch := z.EnemySpawns[0].Archetype.Get()
	if arch == nil {
		t.Fatal("expected archetype to resolve")
	}
	testutil.AssertEqual(t, "archetype name", arch.Name, "Goblin")

	loot := arch.Loot[0].Item.Get()
	if loot == nil {
		t.Fatal("expected loot item to resolve")
	}
	testutil.AssertEqual(t, "loot item", loot.Name, "Healing Potion")

	npc := r.Zone("emberfall").NPCSpawns[0].Template.Get()
	if npc == nil {
		t.Fatal("expected npc template to resolve")
	}
	testutil.AssertEqual(t, "npc name", npc.Name, "Innkeeper")

	ids := r.ZoneIDs()
	testutil.AssertEqual(t, "zone count", len(ids), 2)
	testutil.AssertEqual(t, "first zone", ids[0], "emberfall")
	testutil.AssertEqual(t, "second zone", ids[1], "meadowbrook")
}

func TestRegistry_Resolve_UnknownArchetype(t *testing.T) {
	z := validZone()
	z.EnemySpawns[0].Archetype = storage.NewSmartIdentifier[*Archetype]("dragon")
	z.Portals = nil

	_, err := testRegistry(t, map[string]*Zone{"meadowbrook": z})
	if err == nil {
		t.Error("expected unknown archetype to fail resolution")
	}
}

func TestRegistry_Resolve_DanglingPortal(t *testing.T) {
	// validZone's portal targets emberfall, which is absent here.
	_, err := testRegistry(t, map[string]*Zone{"meadowbrook": validZone()})
	if err == nil {
		t.Error("expected dangling portal to fail resolution")
	}
}

func TestRegistry_Resolve_PortalDestinationOutsideBounds(t *testing.T) {
	meadow := validZone()
	meadow.Portals[0].ToPos = game.Vec3{X: 9999}
	ember := &Zone{
		Name:        "Emberfall",
		Bounds:      AABB{MinX: -50, MaxX: 50, MinZ: -50, MaxZ: 50},
		SpawnPoints: []SpawnPoint{{Pos: game.Vec3{}}},
	}

	_, err := testRegistry(t, map[string]*Zone{"meadowbrook": meadow, "emberfall": ember})
	if err == nil {
		t.Error("expected out-of-bounds destination to fail resolution")
	}
}
