package sim

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pixil98/go-realm/internal/sessions"
)

const adminHelp = `commands:
  who                 list sessions
  zones               zone populations
  kick <session>      evict a session
  broadcast <text>    server-wide notice
  save                checkpoint every character
  stats               loop health
  help                this text`

// handleAdmin answers one operator command on the simulation goroutine.
// The reply send never blocks; a console that went away misses its
// answer and nothing else.
func (w *World) handleAdmin(in AdminInput) {
	reply := func(text string) {
		if in.Reply == nil {
			return
		}
		select {
		case in.Reply <- text:
		default:
		}
	}

	fields := strings.Fields(in.Line)
	if len(fields) == 0 {
		reply("")
		return
	}

	switch fields[0] {
	case "who":
		reply(w.adminWho())

	case "zones":
		reply(w.adminZones())

	case "kick":
		if len(fields) != 2 {
			reply("usage: kick <session>")
			return
		}
		id, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			reply("usage: kick <session>")
			return
		}
		s := w.sessions.Get(id)
		if s == nil {
			reply(fmt.Sprintf("no session %d", id))
			return
		}
		w.notify(s, "You have been disconnected by an operator.")
		w.evict(s, "kicked")
		reply(fmt.Sprintf("session %d kicked", id))

	case "broadcast":
		text := strings.TrimSpace(strings.TrimPrefix(in.Line, "broadcast"))
		if text == "" {
			reply("usage: broadcast <text>")
			return
		}
		if w.bus == nil {
			reply("message bus unavailable")
			return
		}
		if err := w.bus.PublishNotice(text); err != nil {
			reply("publish failed: " + err.Error())
			return
		}
		reply("broadcast queued")

	case "save":
		n := w.checkpoint(true)
		reply(fmt.Sprintf("queued %d character saves", n))

	case "stats":
		reply(w.adminStats())

	case "help":
		reply(adminHelp)

	default:
		reply(fmt.Sprintf("unknown command %q; try help", fields[0]))
	}
}

func (w *World) adminWho() string {
	var b strings.Builder
	n := 0
	w.sessions.ForEach(func(s *sessions.Session) {
		n++
		fmt.Fprintf(&b, "%4d  %-7s  %s", s.ID, s.State, s.Addr)
		if s.Account != "" {
			fmt.Fprintf(&b, "  %s", s.Account)
		}
		if s.State == sessions.StatePlaying {
			fmt.Fprintf(&b, "  %s/%d", s.Zone, s.Entity)
		}
		b.WriteByte('\n')
	})
	if n == 0 {
		return "no sessions"
	}
	return strings.TrimRight(b.String(), "\n")
}

func (w *World) adminZones() string {
	var b strings.Builder
	for _, id := range w.order {
		st := w.zones[id].store
		fmt.Fprintf(&b, "%s: %d players, %d enemies, %d npcs, %d items\n",
			id, len(st.Players()), len(st.Enemies()), len(st.NPCs()), len(st.Items()))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (w *World) adminStats() string {
	return fmt.Sprintf(
		"tick %d\nlast tick %s\navg tick %s\nsessions %d\ninbox %d\ndropped %d\npending saves %d\nuptime %s",
		w.tick,
		w.lastTick.Round(time.Microsecond),
		w.avgTick.Round(time.Microsecond),
		w.sessions.Len(),
		w.inbox.Len(),
		w.drops,
		w.persist.PendingSaves(),
		w.clock.Uptime().Round(time.Second),
	)
}
