package script

import "github.com/wricardo/mcp-training/roomclient/room/protocol"

// Defaults for Params.
const (
	// DefaultParticipant is muted by the room master and offered by the user.
	DefaultParticipant = "abdan"
	DefaultAya         = 1
	DefaultSura        = 1
)

// Params carries the values the opening sequences and handlers send.
type Params struct {
	Participant  string
	Aya          int
	Sura         int
	AnswerResult bool
}

// DefaultParams returns the parameters the client uses out of the box.
func DefaultParams() Params {
	return Params{
		Participant:  DefaultParticipant,
		Aya:          DefaultAya,
		Sura:         DefaultSura,
		AnswerResult: true,
	}
}

// Opening returns the messages sent, in order, right after connecting.
func Opening(inv Invocation, params Params) []*protocol.Message {
	switch inv.Mode {
	case Initiator:
		return []*protocol.Message{protocol.NewOfferCorrection(inv.Room)}
	case RoomMaster:
		return []*protocol.Message{
			protocol.NewClickAya(params.Aya),
			protocol.NewMuteAllUser(),
			protocol.NewMuteUser(params.Participant),
			protocol.NewMoveSura(params.Sura),
		}
	case User:
		return []*protocol.Message{protocol.NewOfferCorrection(params.Participant)}
	}
	return nil
}
