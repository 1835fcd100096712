package proto

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/pixil98/go-realm/internal/game"
)

// Encode marshals a message into a fresh datagram payload.
func Encode(m Message) ([]byte, error) {
	return AppendEncode(nil, m)
}

// AppendEncode marshals a message onto dst and returns the extended buffer.
// Broadcast paths reuse one scratch buffer per zone this way instead of
// allocating per recipient.
func AppendEncode(dst []byte, m Message) ([]byte, error) {
	w := &writer{buf: dst}
	w.u32(Version)
	w.u8(uint8(m.Tag()))
	m.encode(w)
	if w.err != nil {
		return nil, fmt.Errorf("encoding %s: %w", m.Tag(), w.err)
	}
	return w.buf, nil
}

// Decode unmarshals one datagram. The version check runs before anything
// else; a mismatch is ErrVersionMismatch regardless of the rest of the
// payload.
func Decode(data []byte) (Message, error) {
	r := &reader{buf: data}

	version := r.u32()
	if r.err != nil {
		return nil, r.err
	}
	if version != Version {
		return nil, fmt.Errorf("%w: datagram version %d, server version %d", ErrVersionMismatch, version, Version)
	}

	tag := Tag(r.u8())
	if r.err != nil {
		return nil, r.err
	}
	m, err := newMessage(tag)
	if err != nil {
		return nil, err
	}

	m.decode(r)
	if r.err != nil {
		return nil, fmt.Errorf("decoding %s: %w", tag, r.err)
	}
	if r.off != len(r.buf) {
		return nil, fmt.Errorf("%w: %d extra", ErrTrailing, len(r.buf)-r.off)
	}
	return m, nil
}

func newMessage(t Tag) (Message, error) {
	switch t {
	case TagConnect:
		return &Connect{}, nil
	case TagLogin:
		return &Login{}, nil
	case TagCreateCharacter:
		return &CreateCharacter{}, nil
	case TagSelectCharacter:
		return &SelectCharacter{}, nil
	case TagPlayerUpdate:
		return &PlayerUpdate{}, nil
	case TagAttack:
		return &Attack{}, nil
	case TagChatMessage:
		return &ChatMessage{}, nil
	case TagUseItem:
		return &UseItem{}, nil
	case TagDropItem:
		return &DropItem{}, nil
	case TagPickupItem:
		return &PickupItem{}, nil
	case TagHeartbeat:
		return &Heartbeat{}, nil
	case TagDisconnect:
		return &Disconnect{}, nil
	case TagConnected:
		return &Connected{}, nil
	case TagLoginResult:
		return &LoginResult{}, nil
	case TagCharacterList:
		return &CharacterList{}, nil
	case TagZoneChange:
		return &ZoneChange{}, nil
	case TagWorldState:
		return &WorldState{}, nil
	case TagDamageEvent:
		return &DamageEvent{}, nil
	case TagChatBroadcast:
		return &ChatBroadcast{}, nil
	case TagEntityDespawned:
		return &EntityDespawned{}, nil
	case TagTimeSync:
		return &TimeSync{}, nil
	case TagNotice:
		return &Notice{}, nil
	case TagInventoryUpdate:
		return &InventoryUpdate{}, nil
	case TagCharacterStatus:
		return &CharacterStatus{}, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownTag, t)
}

// writer appends little-endian fields onto a caller-owned buffer. The
// first failure sticks and later appends become no-ops.
type writer struct {
	buf []byte
	err error
}

func (w *writer) u8(v uint8) {
	if w.err == nil {
		w.buf = append(w.buf, v)
	}
}

func (w *writer) u16(v uint16) {
	if w.err == nil {
		w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
	}
}

func (w *writer) u32(v uint32) {
	if w.err == nil {
		w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
	}
}

func (w *writer) u64(v uint64) {
	if w.err == nil {
		w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
	}
}

func (w *writer) i8(v int8)     { w.u8(uint8(v)) }
func (w *writer) i32(v int32)   { w.u32(uint32(v)) }
func (w *writer) i64(v int64)   { w.u64(uint64(v)) }
func (w *writer) f32(v float32) { w.u32(math.Float32bits(v)) }
func (w *writer) f64(v float64) { w.u64(math.Float64bits(v)) }

func (w *writer) bool(v bool) {
	if v {
		w.u8(1)
	} else {
		w.u8(0)
	}
}

func (w *writer) str(s string, max int) {
	if w.err != nil {
		return
	}
	if len(s) > max {
		w.err = fmt.Errorf("%w: string length %d, limit %d", ErrOversize, len(s), max)
		return
	}
	w.u16(uint16(len(s)))
	w.buf = append(w.buf, s...)
}

func (w *writer) vec3(v game.Vec3) {
	w.f32(v.X)
	w.f32(v.Y)
	w.f32(v.Z)
}

// reader consumes little-endian fields from a datagram. The first failure
// sticks and later reads return zero values.
type reader struct {
	buf []byte
	off int
	err error
}

func (r *reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.off+n > len(r.buf) {
		r.err = ErrTruncated
		return nil
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}

func (r *reader) u8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *reader) u16() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (r *reader) u32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *reader) u64() uint64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (r *reader) i8() int8     { return int8(r.u8()) }
func (r *reader) i32() int32   { return int32(r.u32()) }
func (r *reader) i64() int64   { return int64(r.u64()) }
func (r *reader) f32() float32 { return math.Float32frombits(r.u32()) }
func (r *reader) f64() float64 { return math.Float64frombits(r.u64()) }
func (r *reader) bool() bool   { return r.u8() != 0 }

func (r *reader) str(max int) string {
	n := int(r.u16())
	if r.err != nil {
		return ""
	}
	if n > max {
		r.err = fmt.Errorf("%w: string length %d, limit %d", ErrOversize, n, max)
		return ""
	}
	b := r.take(n)
	if b == nil {
		return ""
	}
	return string(b)
}

func (r *reader) vec3() game.Vec3 {
	return game.Vec3{X: r.f32(), Y: r.f32(), Z: r.f32()}
}
