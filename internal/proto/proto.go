// Package proto defines the binary wire protocol spoken over UDP. Every
// datagram carries exactly one message: a fixed envelope of protocol
// version and message tag, then a little-endian body. Clients and servers
// must run the same version; decoding fails hard on a mismatch.
package proto

// Version is the current protocol version. Bump it on any wire-visible
// change; there is deliberately no compatibility window.
const Version uint32 = 1

// Tag identifies a message type on the wire.
type Tag uint8

// Client to server.
const (
	TagConnect Tag = iota + 1
	TagLogin
	TagCreateCharacter
	TagSelectCharacter
	TagPlayerUpdate
	TagAttack
	TagChatMessage
	TagUseItem
	TagDropItem
	TagPickupItem
	TagHeartbeat
	TagDisconnect
)

// Server to client.
const (
	TagConnected Tag = iota + 128
	TagLoginResult
	TagCharacterList
	TagZoneChange
	TagWorldState
	TagDamageEvent
	TagChatBroadcast
	TagEntityDespawned
	TagTimeSync
	TagNotice
	TagInventoryUpdate
	TagCharacterStatus
)

var tagNames = map[Tag]string{
	TagConnect:         "Connect",
	TagLogin:           "Login",
	TagCreateCharacter: "CreateCharacter",
	TagSelectCharacter: "SelectCharacter",
	TagPlayerUpdate:    "PlayerUpdate",
	TagAttack:          "Attack",
	TagChatMessage:     "ChatMessage",
	TagUseItem:         "UseItem",
	TagDropItem:        "DropItem",
	TagPickupItem:      "PickupItem",
	TagHeartbeat:       "Heartbeat",
	TagDisconnect:      "Disconnect",
	TagConnected:       "Connected",
	TagLoginResult:     "LoginResult",
	TagCharacterList:   "CharacterList",
	TagZoneChange:      "ZoneChange",
	TagWorldState:      "WorldState",
	TagDamageEvent:     "DamageEvent",
	TagChatBroadcast:   "ChatBroadcast",
	TagEntityDespawned: "EntityDespawned",
	TagTimeSync:        "TimeSync",
	TagNotice:          "Notice",
	TagInventoryUpdate: "InventoryUpdate",
	TagCharacterStatus: "CharacterStatus",
}

func (t Tag) String() string {
	if n, ok := tagNames[t]; ok {
		return n
	}
	return "unknown"
}

// Wire limits. Strings carry a u16 length prefix but are capped well below
// that so a hostile datagram cannot balloon allocations.
const (
	MaxNameLen  = 32  // character and account names
	MaxIDLen    = 64  // record identifiers (uuids fit)
	MaxChatLen  = 256 // chat lines
	MaxTextLen  = 512 // notices, login results, passwords
	MaxEntities = 4096
	MaxSlots    = 64 // inventory slots on the wire
	MaxChars    = 16 // characters per account
)

// Message is any value that can travel in a datagram.
type Message interface {
	Tag() Tag
	encode(w *writer)
	decode(r *reader)
}
