package messaging

import (
	"encoding/json"
	"fmt"
	"log/slog"
)

const (
	noticeSubject = "realm.notice"
	chatPrefix    = "realm.chat."
)

// ChatEnvelope is the wire form of one zone chat line.
type ChatEnvelope struct {
	Zone   string `json:"zone"`
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

// NoticeEnvelope is the wire form of a server-wide notice.
type NoticeEnvelope struct {
	Text string `json:"text"`
}

// Bus routes zone chat and server notices through the broker. Chat goes
// out on realm.chat.<zone> so external consumers can filter by zone;
// the simulation itself subscribes to the whole tree. Envelopes that
// fail to decode are dropped with a warning.
type Bus struct {
	server *Server
}

// NewBus wraps a Server for chat and notice delivery.
func NewBus(server *Server) *Bus {
	return &Bus{server: server}
}

func (b *Bus) Ready() bool {
	return b.server.Ready()
}

func (b *Bus) PublishChat(zone, sender, text string) error {
	data, err := json.Marshal(ChatEnvelope{Zone: zone, Sender: sender, Text: text})
	if err != nil {
		return fmt.Errorf("encoding chat envelope: %w", err)
	}
	return b.server.Publish(chatPrefix+zone, data)
}

func (b *Bus) PublishNotice(text string) error {
	data, err := json.Marshal(NoticeEnvelope{Text: text})
	if err != nil {
		return fmt.Errorf("encoding notice envelope: %w", err)
	}
	return b.server.Publish(noticeSubject, data)
}

func (b *Bus) SubscribeChat(fn func(zone, sender, text string)) error {
	_, err := b.server.Subscribe(chatPrefix+">", func(data []byte) {
		var env ChatEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			slog.Warn("dropping undecodable chat envelope", "error", err)
			return
		}
		fn(env.Zone, env.Sender, env.Text)
	})
	return err
}

func (b *Bus) SubscribeNotice(fn func(text string)) error {
	_, err := b.server.Subscribe(noticeSubject, func(data []byte) {
		var env NoticeEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			slog.Warn("dropping undecodable notice envelope", "error", err)
			return
		}
		fn(env.Text)
	})
	return err
}
