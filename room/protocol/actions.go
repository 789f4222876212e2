package protocol

import "fmt"

// Action names a room command. The vocabulary is open: inbound frames may
// carry actions this package has no constant for.
type Action string

// Actions emitted by the client.
const (
	ClickAya         Action = "ClickAya"
	MuteAllUser      Action = "MuteAllUser"
	MuteUser         Action = "MuteUser"
	MoveSura         Action = "MoveSura"
	OfferCorrection  Action = "OfferCorrection"
	AnswerCorrection Action = "AnswerCorrection"
)

// Actions only ever received from the server.
const (
	// Forbidden is pushed before the server drops a client that emitted a
	// message it is not allowed to send.
	Forbidden Action = "Forbidden"
	Leave     Action = "Leave"
)

// Field names used by the known actions.
const (
	FieldAction  = "action"
	FieldAya     = "aya"
	FieldUUID    = "uuid"
	FieldIDQuran = "id_quran"
	FieldResult  = "result"
	FieldMessage = "message"
)

// NewClickAya selects verse index aya.
func NewClickAya(aya int) *Message {
	return NewMessage(ClickAya).with(FieldAya, aya)
}

// NewMuteAllUser mutes every participant in the room.
func NewMuteAllUser() *Message {
	return NewMessage(MuteAllUser)
}

// NewMuteUser mutes the participant identified by uuid.
func NewMuteUser(uuid string) *Message {
	return NewMessage(MuteUser).with(FieldUUID, uuid)
}

// NewMoveSura navigates the room to chapter idQuran.
func NewMoveSura(idQuran int) *Message {
	return NewMessage(MoveSura).with(FieldIDQuran, idQuran)
}

// NewOfferCorrection requests a correction workflow keyed by uuid.
func NewOfferCorrection(uuid string) *Message {
	return NewMessage(OfferCorrection).with(FieldUUID, uuid)
}

// NewAnswerCorrection answers the correction request keyed by uuid.
func NewAnswerCorrection(uuid string, result bool) *Message {
	return NewMessage(AnswerCorrection).with(FieldUUID, uuid).with(FieldResult, result)
}

// Answer rewrites an inbound OfferCorrection in place into its
// answer: action becomes AnswerCorrection and result is set. Every other
// field keeps its value and position.
func Answer(msg *Message, result bool) error {
	action, ok := msg.Action()
	if !ok || action != OfferCorrection {
		return fmt.Errorf("%w: expected %s, got %q", ErrUnexpectedAction, OfferCorrection, action)
	}
	if err := msg.Set(FieldAction, AnswerCorrection); err != nil {
		return err
	}
	return msg.Set(FieldResult, result)
}
