// Package sessions tracks which remote address is which player. The table
// is owned by the simulation goroutine and accessed only from it, so it
// holds no locks.
package sessions

import (
	"net/netip"
	"sort"
	"time"

	"github.com/pixil98/go-realm/internal/game"
)

// State is a session's position in the connect/login/play handshake.
type State uint8

const (
	// StateNew has a datagram source but no identity.
	StateNew State = iota
	// StateAuthed has an account but no character in the world.
	StateAuthed
	// StatePlaying has a live entity in a zone.
	StatePlaying
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateAuthed:
		return "authed"
	case StatePlaying:
		return "playing"
	}
	return "unknown"
}

// Session is one client endpoint. Identity fields are immutable once set:
// Account never changes after Authenticate, and a session never switches
// characters without leaving the world first.
type Session struct {
	ID        uint64
	Addr      netip.AddrPort
	CreatedAt time.Time
	LastSeen  time.Time
	State     State

	Account     string
	CharacterID string
	Entity      game.ID
	Zone        string

	// LoadPending guards against double character selection while an
	// asynchronous record load is in flight.
	LoadPending bool
}

// Table maps datagram sources to sessions. Session ids are monotonic and
// never reused, so an evicted id can never be confused with a successor
// from the same address.
type Table struct {
	byAddr    map[netip.AddrPort]*Session
	byID      map[uint64]*Session
	byAccount map[string]uint64
	nextID    uint64
}

func NewTable() *Table {
	return &Table{
		byAddr:    make(map[netip.AddrPort]*Session),
		byID:      make(map[uint64]*Session),
		byAccount: make(map[string]uint64),
		nextID:    1,
	}
}

// Register returns the session for a source address, creating one for
// unknown addresses. Existing sessions are touched.
func (t *Table) Register(addr netip.AddrPort, now time.Time) *Session {
	if s, ok := t.byAddr[addr]; ok {
		s.LastSeen = now
		return s
	}

	s := &Session{
		ID:        t.nextID,
		Addr:      addr,
		CreatedAt: now,
		LastSeen:  now,
		State:     StateNew,
	}
	t.nextID++
	t.byAddr[addr] = s
	t.byID[s.ID] = s
	return s
}

// Lookup returns the session for a source address, nil if unknown.
func (t *Table) Lookup(addr netip.AddrPort) *Session {
	return t.byAddr[addr]
}

// Get returns a session by id, nil if unknown.
func (t *Table) Get(id uint64) *Session {
	return t.byID[id]
}

// Touch refreshes the idle clock. Every valid inbound message touches its
// session.
func (t *Table) Touch(s *Session, now time.Time) {
	s.LastSeen = now
}

// Authenticate binds an account to a session. A session authenticates at
// most once, and an account may hold at most one live session.
func (t *Table) Authenticate(s *Session, account string) error {
	if s.Account != "" {
		return ErrAlreadyAuthenticated
	}
	if _, ok := t.byAccount[account]; ok {
		return ErrDuplicateLogin
	}

	s.Account = account
	s.State = StateAuthed
	t.byAccount[account] = s.ID
	return nil
}

// AccountOnline reports whether any live session owns the account.
func (t *Table) AccountOnline(account string) bool {
	_, ok := t.byAccount[account]
	return ok
}

// EnterWorld marks the session as playing the given character.
func (t *Table) EnterWorld(s *Session, characterID string, entity game.ID, zone string) {
	s.CharacterID = characterID
	s.Entity = entity
	s.Zone = zone
	s.State = StatePlaying
	s.LoadPending = false
}

// MoveZone rebinds a playing session after a portal transfer.
func (t *Table) MoveZone(s *Session, entity game.ID, zone string) {
	s.Entity = entity
	s.Zone = zone
}

// Remove evicts a session. It reports whether the session was live, so
// eviction paths stay idempotent.
func (t *Table) Remove(id uint64) bool {
	s, ok := t.byID[id]
	if !ok {
		return false
	}

	delete(t.byID, id)
	delete(t.byAddr, s.Addr)
	if s.Account != "" {
		delete(t.byAccount, s.Account)
	}
	return true
}

// Sweep evicts every session idle longer than timeout and returns them.
// Each session can only ever be returned by one sweep: eviction removes it
// from the table, and a later datagram from the same address starts a
// fresh session with a new id.
func (t *Table) Sweep(now time.Time, timeout time.Duration) []*Session {
	var expired []*Session
	for _, s := range t.byID {
		if now.Sub(s.LastSeen) > timeout {
			expired = append(expired, s)
		}
	}

	sort.Slice(expired, func(i, j int) bool { return expired[i].ID < expired[j].ID })
	for _, s := range expired {
		t.Remove(s.ID)
	}
	return expired
}

// InZone returns the playing sessions bound to a zone, sorted by id.
func (t *Table) InZone(zone string) []*Session {
	var out []*Session
	for _, s := range t.byID {
		if s.State == StatePlaying && s.Zone == zone {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ForEach visits every session in id order.
func (t *Table) ForEach(fn func(*Session)) {
	ids := make([]uint64, 0, len(t.byID))
	for id := range t.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		fn(t.byID[id])
	}
}

func (t *Table) Len() int {
	return len(t.byID)
}
