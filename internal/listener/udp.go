// Package listener owns the server's sockets: the UDP gateway clients
// talk to and the telnet/ssh consoles operators talk to. Listeners
// decode what arrives and push it into the simulation inbox; they never
// touch world state.
package listener

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/netip"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/pixil98/go-realm/internal/proto"
	"github.com/pixil98/go-realm/internal/sim"
)

const (
	DefaultPort        = 7777
	DefaultMaxDatagram = 1200
)

// UDPListener is the client gateway. Reads happen on the worker
// goroutine; decoded datagrams go into the inbox with their arrival
// time. Send and SendBytes are called from the simulation goroutine and
// by the broadcast fan-out, so they must stay safe for concurrent use,
// which *net.UDPConn is.
type UDPListener struct {
	host        string
	port        uint16
	maxDatagram int
	inbox       *sim.Inbox
	conn        atomic.Pointer[net.UDPConn]
}

// NewUDPListener builds the gateway. Port 0 lets the kernel pick, which
// tests rely on; production configs validate the port is set.
func NewUDPListener(host string, port uint16, maxDatagram int, inbox *sim.Inbox) *UDPListener {
	if maxDatagram <= 0 {
		maxDatagram = DefaultMaxDatagram
	}
	return &UDPListener{
		host:        host,
		port:        port,
		maxDatagram: maxDatagram,
		inbox:       inbox,
	}
}

func (l *UDPListener) Start(ctx context.Context) error {
	bind := &net.UDPAddr{Port: int(l.port)}
	if l.host != "" {
		ip, err := netip.ParseAddr(l.host)
		if err != nil {
			return fmt.Errorf("parsing gateway host %q: %w", l.host, err)
		}
		bind.IP = ip.AsSlice()
	}

	conn, err := net.ListenUDP("udp", bind)
	if err != nil {
		if errors.Is(err, syscall.EADDRINUSE) {
			return fmt.Errorf("port %d is already in use (another server running?)", l.port)
		}
		return fmt.Errorf("listening on port %d: %w", l.port, err)
	}
	l.conn.Store(conn)

	slog.InfoContext(ctx, "listening for datagrams", "addr", conn.LocalAddr())

	// Closing the socket is what unblocks the read below.
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	buf := make([]byte, 65536)
	for {
		n, addr, err := conn.ReadFromUDPAddrPort(buf)
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return fmt.Errorf("gateway socket closed: %w", err)
			}
			slog.ErrorContext(ctx, "reading datagram", "error", err)
			continue
		}
		if n > l.maxDatagram {
			slog.Debug("dropping oversized datagram", "bytes", n, "from", addr)
			continue
		}
		msg, err := proto.Decode(buf[:n])
		if err != nil {
			if errors.Is(err, proto.ErrVersionMismatch) {
				slog.Info("dropping datagram from mismatched client", "from", addr, "error", err)
			} else {
				slog.Debug("dropping undecodable datagram", "from", addr, "error", err)
			}
			continue
		}
		l.inbox.Push(sim.DatagramInput{Addr: addr, Msg: msg, At: time.Now()})
	}
}

// Addr reports the bound address, zero until Start has bound the socket.
func (l *UDPListener) Addr() netip.AddrPort {
	conn := l.conn.Load()
	if conn == nil {
		return netip.AddrPort{}
	}
	return conn.LocalAddr().(*net.UDPAddr).AddrPort()
}

func (l *UDPListener) Send(addr netip.AddrPort, m proto.Message) {
	b, err := proto.Encode(m)
	if err != nil {
		slog.Warn("encoding message", "tag", m.Tag(), "error", err)
		return
	}
	l.SendBytes(addr, b)
}

func (l *UDPListener) SendBytes(addr netip.AddrPort, b []byte) {
	conn := l.conn.Load()
	if conn == nil {
		return
	}
	if _, err := conn.WriteToUDPAddrPort(b, addr); err != nil {
		slog.Debug("writing datagram", "to", addr, "error", err)
	}
}

var _ sim.Sender = (*UDPListener)(nil)
