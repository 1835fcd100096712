package player

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-realm/internal/game"
	"github.com/pixil98/go-realm/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLen       = 8
	DefaultMaxCharacters = 8
)

// A Sink receives gateway completions. Implementations must be safe for
// concurrent use; the simulation inbox is.
type Sink interface {
	AuthDone(session uint64, account string, chars []CharacterInfo, created bool, err error)
	CharacterCreated(session uint64, chars []CharacterInfo, err error)
	CharacterLoaded(session uint64, id string, rec *CharacterRecord, err error)
	SaveDone(id string, tick uint64, err error)
}

// The Gateway runs account and character persistence off the simulation
// goroutine. Request methods return immediately and deliver their
// results through the Sink.
//
// Save, FinishSave, PendingSaves, and Drain share unlocked ordering
// state: call them only from the simulation goroutine, and Drain only
// once the loop has stopped.
type Gateway struct {
	accounts storage.Storer[*Account]
	chars    storage.Storer[*CharacterRecord]
	sink     Sink

	cost     int
	maxChars int
	zone     string
	pos      game.Vec3
	rot      float32
	kit      []game.ItemStack

	createMu sync.Mutex     // serializes account and character creation
	wg       sync.WaitGroup // asynchronous work in flight

	inflight map[string]bool
	queued   map[string]pendingSave
}

type pendingSave struct {
	rec  *CharacterRecord
	tick uint64
}

type GatewayOpt func(*Gateway)

// WithBcryptCost overrides the password hashing cost.
func WithBcryptCost(cost int) GatewayOpt {
	return func(g *Gateway) {
		g.cost = cost
	}
}

// WithMaxCharacters caps how many characters an account may own.
func WithMaxCharacters(n int) GatewayOpt {
	return func(g *Gateway) {
		g.maxChars = n
	}
}

// WithStartingLocation sets where newly created characters appear.
func WithStartingLocation(zone string, pos game.Vec3, rot float32) GatewayOpt {
	return func(g *Gateway) {
		g.zone = zone
		g.pos = pos
		g.rot = rot
	}
}

// WithStarterKit gives newly created characters an initial inventory.
func WithStarterKit(kit []game.ItemStack) GatewayOpt {
	return func(g *Gateway) {
		g.kit = kit
	}
}

func NewGateway(accounts storage.Storer[*Account], chars storage.Storer[*CharacterRecord], sink Sink, opts ...GatewayOpt) *Gateway {
	g := &Gateway{
		accounts: accounts,
		chars:    chars,
		sink:     sink,
		cost:     bcrypt.DefaultCost,
		maxChars: DefaultMaxCharacters,
		inflight: map[string]bool{},
		queued:   map[string]pendingSave{},
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Authenticate checks a username and password pair, registering the
// account when the username is unknown.
func (g *Gateway) Authenticate(session uint64, username, password string) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		g.authenticate(session, username, password)
	}()
}

func (g *Gateway) authenticate(session uint64, username, password string) {
	username = strings.ToLower(username)
	if !usernamePattern.MatchString(username) {
		g.sink.AuthDone(session, username, nil, false, ErrInvalidUsername)
		return
	}

	acct := g.accounts.Get(username)
	if acct == nil {
		g.register(session, username, password)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)) != nil {
		g.sink.AuthDone(session, username, nil, false, ErrBadCredentials)
		return
	}

	g.sink.AuthDone(session, username, g.infos(acct), false, nil)
}

func (g *Gateway) register(session uint64, username, password string) {
	if len(password) < MinPasswordLen {
		g.sink.AuthDone(session, username, nil, false, ErrWeakPassword)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), g.cost)
	if err != nil {
		g.sink.AuthDone(session, username, nil, false, fmt.Errorf("hashing password: %w", err))
		return
	}

	g.createMu.Lock()
	defer g.createMu.Unlock()

	// Another login may have raced us to the same name.
	if acct := g.accounts.Get(username); acct != nil {
		if bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)) != nil {
			g.sink.AuthDone(session, username, nil, false, ErrBadCredentials)
			return
		}
		g.sink.AuthDone(session, username, g.infos(acct), false, nil)
		return
	}

	acct := &Account{
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	err = g.accounts.Save(username, acct)
	if err != nil {
		g.sink.AuthDone(session, username, nil, false, fmt.Errorf("saving account: %w", err))
		return
	}

	slog.Info("registered account", "account", username)
	g.sink.AuthDone(session, username, nil, true, nil)
}

// CreateCharacter adds a character to an account and reports back the
// account's refreshed selection list.
func (g *Gateway) CreateCharacter(session uint64, account, name string) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		g.createCharacter(session, account, name)
	}()
}

func (g *Gateway) createCharacter(session uint64, account, name string) {
	if !namePattern.MatchString(name) {
		g.sink.CharacterCreated(session, nil, ErrInvalidCharacterName)
		return
	}

	g.createMu.Lock()
	defer g.createMu.Unlock()

	acct := g.accounts.Get(account)
	if acct == nil {
		g.sink.CharacterCreated(session, nil, fmt.Errorf("account %q not found", account))
		return
	}

	if len(acct.Characters) >= g.maxChars {
		g.sink.CharacterCreated(session, g.infos(acct), ErrTooManyCharacters)
		return
	}

	for _, rec := range g.chars.GetAll() {
		if strings.EqualFold(rec.Name, name) {
			g.sink.CharacterCreated(session, g.infos(acct), ErrNameTaken)
			return
		}
	}

	id := uuid.NewString()
	rec := NewCharacter(account, name, g.zone, g.pos, g.rot, g.kit)
	err := g.chars.Save(id, rec)
	if err != nil {
		g.sink.CharacterCreated(session, g.infos(acct), fmt.Errorf("saving character: %w", err))
		return
	}

	acct.Characters = append(acct.Characters, id)
	err = g.accounts.Save(account, acct)
	if err != nil {
		g.sink.CharacterCreated(session, g.infos(acct), fmt.Errorf("saving account: %w", err))
		return
	}

	slog.Info("created character", "account", account, "character", id, "name", name)
	g.sink.CharacterCreated(session, g.infos(acct), nil)
}

// Load fetches a character record for world entry. The delivered record
// aliases the store cache; callers copy what they need and must not
// mutate it.
func (g *Gateway) Load(session uint64, account, id string) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		g.load(session, account, id)
	}()
}

func (g *Gateway) load(session uint64, account, id string) {
	acct := g.accounts.Get(account)
	if acct == nil || !slices.Contains(acct.Characters, id) {
		g.sink.CharacterLoaded(session, id, nil, ErrNotOwned)
		return
	}

	rec := g.chars.Get(id)
	if rec == nil {
		g.sink.CharacterLoaded(session, id, nil, ErrCharacterNotFound)
		return
	}

	g.sink.CharacterLoaded(session, id, rec, nil)
}

// Save persists a character snapshot. Writes for the same character
// never overlap or reorder: while one is in flight the newest snapshot
// waits its turn and older waiting snapshots are discarded.
func (g *Gateway) Save(id string, rec *CharacterRecord, tick uint64) {
	if g.inflight[id] {
		g.queued[id] = pendingSave{rec: rec, tick: tick}
		return
	}

	g.inflight[id] = true
	g.dispatch(id, rec, tick)
}

// FinishSave releases a character's write slot and dispatches the queued
// snapshot, if any. Call it when a save completion reaches the loop.
func (g *Gateway) FinishSave(id string) {
	delete(g.inflight, id)

	p, ok := g.queued[id]
	if !ok {
		return
	}
	delete(g.queued, id)

	g.inflight[id] = true
	g.dispatch(id, p.rec, p.tick)
}

func (g *Gateway) dispatch(id string, rec *CharacterRecord, tick uint64) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		g.write(id, rec, tick)
	}()
}

func (g *Gateway) write(id string, rec *CharacterRecord, tick uint64) {
	err := g.chars.Save(id, rec)
	if err != nil {
		slog.Warn("retrying character save", "character", id, "error", err)
		err = g.chars.Save(id, rec)
	}
	if err != nil {
		slog.Error("character save failed", "character", id, "error", err)
	}

	g.sink.SaveDone(id, tick, err)
}

// PendingSaves reports how many writes are in flight or waiting.
func (g *Gateway) PendingSaves() int {
	return len(g.inflight) + len(g.queued)
}

// Drain waits out in-flight work and flushes queued snapshots
// synchronously.
func (g *Gateway) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
	}

	el := errors.NewErrorList()
	for id, p := range g.queued {
		err := g.chars.Save(id, p.rec)
		if err != nil {
			el.Add(fmt.Errorf("flushing character %s: %w", id, err))
		}
	}
	clear(g.queued)
	clear(g.inflight)

	return el.Err()
}

func (g *Gateway) infos(acct *Account) []CharacterInfo {
	infos := make([]CharacterInfo, 0, len(acct.Characters))
	for _, id := range acct.Characters {
		rec := g.chars.Get(id)
		if rec == nil {
			slog.Warn("account lists a missing character", "character", id)
			continue
		}
		infos = append(infos, CharacterInfo{
			ID:    id,
			Name:  rec.Name,
			Level: rec.Level,
			Zone:  rec.Zone,
		})
	}
	return infos
}
