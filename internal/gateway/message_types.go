package gateway

// MessageType identifies a websocket message.
type MessageType string

const (
	// Client to server
	MessageTypeChallenge MessageType = "challenge"
	MessageTypePlayCard  MessageType = "play_card"
	MessageTypeAbandon   MessageType = "abandon"

	// Server to client
	MessageTypeBattleStarted  MessageType = "battle_started"
	MessageTypeMoveAccepted   MessageType = "move_accepted"
	MessageTypeRoundComplete  MessageType = "round_complete"
	MessageTypeBattleComplete MessageType = "battle_complete"
	MessageTypeAbandoned      MessageType = "abandoned"
	MessageTypeError          MessageType = "error"
)

// String returns the string representation of the message type.
func (mt MessageType) String() string {
	return string(mt)
}
