// Package admin is the operator surface. A console turns lines read
// from a telnet or ssh connection into inbox inputs and prints whatever
// the simulation answers; it never touches world state itself.
package admin

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pixil98/go-realm/internal/display"
	"github.com/pixil98/go-realm/internal/sim"
)

// replyTimeout bounds the wait for an answer. Commands are answered
// during the next input drain, so anything past a few ticks means the
// loop is stalled or stopping.
const replyTimeout = 5 * time.Second

const banner = "go-realm admin console. Commands run on the next tick; try help."

// Console serves operator sessions. One RunSession per connection; all
// sessions share the simulation inbox.
type Console struct {
	inbox *sim.Inbox
}

func NewConsole(inbox *sim.Inbox) *Console {
	return &Console{inbox: inbox}
}

// RunSession drives one connection until EOF, quit, or cancellation.
func (c *Console) RunSession(ctx context.Context, conn io.ReadWriter) error {
	fmt.Fprintln(conn, banner)
	fmt.Fprint(conn, "> ")

	sc := bufio.NewScanner(conn)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch line {
		case "":
		case "quit", "exit":
			fmt.Fprintln(conn, "bye")
			return nil
		default:
			reply := make(chan string, 1)
			c.inbox.Push(sim.AdminInput{Line: line, Reply: reply})

			select {
			case text := <-reply:
				fmt.Fprintln(conn, display.Wrap(text))
			case <-time.After(replyTimeout):
				fmt.Fprintln(conn, "no answer from the simulation; it may be stopping")
			case <-ctx.Done():
				return nil
			}
		}
		fmt.Fprint(conn, "> ")
	}
	return sc.Err()
}
