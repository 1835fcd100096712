package sim

import (
	"errors"
	"testing"
	"time"

	"github.com/pixil98/go-realm/internal/player"
	"github.com/pixil98/go-realm/internal/proto"
	"github.com/pixil98/go-testutil"
)

func TestInboxDrainsInOrder(t *testing.T) {
	in := NewInbox(0)

	in.Push(NoticeDelivery{Text: "one"})
	in.Push(NoticeDelivery{Text: "two"})
	in.Push(NoticeDelivery{Text: "three"})
	testutil.AssertEqual(t, "len", in.Len(), 3)

	got, dropped := in.Drain()
	testutil.AssertEqual(t, "dropped", dropped, uint64(0))
	testutil.AssertEqual(t, "drained", len(got), 3)
	for i, want := range []string{"one", "two", "three"} {
		testutil.AssertEqual(t, "order", got[i].(NoticeDelivery).Text, want)
	}

	got, dropped = in.Drain()
	testutil.AssertEqual(t, "empty drain", len(got), 0)
	testutil.AssertEqual(t, "empty dropped", dropped, uint64(0))
	testutil.AssertEqual(t, "empty len", in.Len(), 0)
}

func TestInboxDropsOverCapacity(t *testing.T) {
	in := NewInbox(2)

	in.Push(NoticeDelivery{Text: "one"})
	in.Push(NoticeDelivery{Text: "two"})
	in.Push(NoticeDelivery{Text: "three"})
	in.Push(NoticeDelivery{Text: "four"})
	testutil.AssertEqual(t, "len", in.Len(), 2)

	got, dropped := in.Drain()
	testutil.AssertEqual(t, "kept", len(got), 2)
	testutil.AssertEqual(t, "first kept", got[0].(NoticeDelivery).Text, "one")
	testutil.AssertEqual(t, "dropped", dropped, uint64(2))

	// The counter resets with each drain.
	in.Push(NoticeDelivery{Text: "five"})
	_, dropped = in.Drain()
	testutil.AssertEqual(t, "counter reset", dropped, uint64(0))
}

func TestInboxDeliversGatewayCompletions(t *testing.T) {
	in := NewInbox(0)

	chars := []player.CharacterInfo{{ID: "c-1", Name: "Seren", Level: 4, Zone: "meadow"}}
	rec := &player.CharacterRecord{Account: "alice", Name: "Seren"}
	loadErr := errors.New("boom")

	in.AuthDone(7, "alice", chars, true, nil)
	in.CharacterCreated(7, chars, nil)
	in.CharacterLoaded(7, "c-1", rec, loadErr)
	in.SaveDone("c-1", 42, nil)

	got, _ := in.Drain()
	testutil.AssertEqual(t, "count", len(got), 4)

	auth := got[0].(AuthDone)
	testutil.AssertEqual(t, "auth session", auth.Session, uint64(7))
	testutil.AssertEqual(t, "auth account", auth.Account, "alice")
	testutil.AssertEqual(t, "auth created", auth.Created, true)
	testutil.AssertEqual(t, "auth chars", len(auth.Chars), 1)

	created := got[1].(CharacterCreated)
	testutil.AssertEqual(t, "created chars", created.Chars[0].Name, "Seren")

	loaded := got[2].(CharacterLoaded)
	testutil.AssertEqual(t, "loaded id", loaded.ID, "c-1")
	testutil.AssertEqual(t, "loaded rec", loaded.Char, rec)
	testutil.AssertEqual(t, "loaded err", errors.Is(loaded.Err, loadErr), true)

	saved := got[3].(SaveDone)
	testutil.AssertEqual(t, "save id", saved.CharacterID, "c-1")
	testutil.AssertEqual(t, "save tick", saved.Tick, uint64(42))
}

func TestInboxCarriesDatagrams(t *testing.T) {
	in := NewInbox(0)
	at := time.Now()

	in.Push(DatagramInput{Msg: &proto.Heartbeat{ClientTime: 99}, At: at})

	got, _ := in.Drain()
	dg := got[0].(DatagramInput)
	testutil.AssertEqual(t, "client time", dg.Msg.(*proto.Heartbeat).ClientTime, int64(99))
	testutil.AssertEqual(t, "at", dg.At.Equal(at), true)
}
