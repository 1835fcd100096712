// Package sim runs the authoritative game loop. One goroutine, driven by
// the tick scheduler, owns every mutable piece of world state: the session
// table, the per-zone entity stores, and the spawn bookkeeping. Everything
// outside that goroutine talks to it through the Inbox.
package sim

import (
	"net/netip"
	"time"

	"github.com/pixil98/go-realm/internal/player"
	"github.com/pixil98/go-realm/internal/proto"
	"github.com/sasha-s/go-deadlock"
)

const DefaultInboxCapacity = 4096

// Input is anything the outside world hands the simulation goroutine.
type Input interface {
	isInput()
}

// DatagramInput is a decoded client message with its arrival time.
type DatagramInput struct {
	Addr netip.AddrPort
	Msg  proto.Message
	At   time.Time
}

// AuthDone reports the outcome of an asynchronous login attempt.
type AuthDone struct {
	Session uint64
	Account string
	Chars   []player.CharacterInfo
	Created bool
	Err     error
}

// CharacterCreated reports the outcome of a character creation.
type CharacterCreated struct {
	Session uint64
	Chars   []player.CharacterInfo
	Err     error
}

// CharacterLoaded delivers a character record ready to enter the world.
type CharacterLoaded struct {
	Session uint64
	ID      string
	Char    *player.CharacterRecord
	Err     error
}

// SaveDone reports a finished character write.
type SaveDone struct {
	CharacterID string
	Tick        uint64
	Err         error
}

// ChatDelivery is a chat line arriving from the message bus.
type ChatDelivery struct {
	Zone   string
	Sender string
	Text   string
}

// NoticeDelivery is a server-wide notice arriving from the message bus.
type NoticeDelivery struct {
	Text string
}

// AdminInput is one operator command line. The reply send never blocks;
// a reader that went away misses its answer.
type AdminInput struct {
	Line  string
	Reply chan<- string
}

func (DatagramInput) isInput()    {}
func (AuthDone) isInput()         {}
func (CharacterCreated) isInput() {}
func (CharacterLoaded) isInput()  {}
func (SaveDone) isInput()         {}
func (ChatDelivery) isInput()     {}
func (NoticeDelivery) isInput()   {}
func (AdminInput) isInput()       {}

// Inbox is the only concurrency-safe structure in the simulation. The
// receive goroutine, persistence completions, bus handlers, and admin
// consoles push; the loop drains once per tick.
type Inbox struct {
	mu      deadlock.Mutex
	queue   []Input
	limit   int
	dropped uint64
}

func NewInbox(capacity int) *Inbox {
	if capacity <= 0 {
		capacity = DefaultInboxCapacity
	}
	return &Inbox{limit: capacity}
}

// Push queues an input. Over capacity it drops and counts; the loop
// reports the count when it drains.
func (in *Inbox) Push(i Input) {
	in.mu.Lock()
	defer in.mu.Unlock()

	if len(in.queue) >= in.limit {
		in.dropped++
		return
	}
	in.queue = append(in.queue, i)
}

// Drain swaps out the queue and returns it with the number of inputs
// dropped since the previous drain.
func (in *Inbox) Drain() ([]Input, uint64) {
	in.mu.Lock()
	defer in.mu.Unlock()

	q := in.queue
	in.queue = nil
	d := in.dropped
	in.dropped = 0
	return q, d
}

// Len reports the current queue depth.
func (in *Inbox) Len() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return len(in.queue)
}

// The inbox doubles as the gateway's completion sink.
var _ player.Sink = (*Inbox)(nil)

func (in *Inbox) AuthDone(session uint64, account string, chars []player.CharacterInfo, created bool, err error) {
	in.Push(AuthDone{Session: session, Account: account, Chars: chars, Created: created, Err: err})
}

func (in *Inbox) CharacterCreated(session uint64, chars []player.CharacterInfo, err error) {
	in.Push(CharacterCreated{Session: session, Chars: chars, Err: err})
}

func (in *Inbox) CharacterLoaded(session uint64, id string, rec *player.CharacterRecord, err error) {
	in.Push(CharacterLoaded{Session: session, ID: id, Char: rec, Err: err})
}

func (in *Inbox) SaveDone(id string, tick uint64, err error) {
	in.Push(SaveDone{CharacterID: id, Tick: tick, Err: err})
}
