package script

import (
	"errors"
	"fmt"
)

var (
	ErrUsage       = errors.New("usage: [room_master|user|mcp] <room-id>")
	ErrUnknownMode = errors.New("unknown mode")
)

// Mode selects the role a client plays in the room.
type Mode int

const (
	Initiator Mode = iota
	RoomMaster
	User
	Bridge
)

var modeNames = map[Mode]string{
	Initiator:  "initiator",
	RoomMaster: "room_master",
	User:       "user",
	Bridge:     "mcp",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode resolves a mode selector given on the command line. The
// initiator has no selector and is not accepted here.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "room_master":
		return RoomMaster, nil
	case "user":
		return User, nil
	case "mcp":
		return Bridge, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Invocation is a parsed command line.
type Invocation struct {
	Mode Mode
	Room string
}

// ParseInvocation accepts "<room-id>" or "<mode> <room-id>".
func ParseInvocation(args []string) (Invocation, error) {
	var inv Invocation
	switch len(args) {
	case 1:
		inv = Invocation{Mode: Initiator, Room: args[0]}
	case 2:
		mode, err := ParseMode(args[0])
		if err != nil {
			return Invocation{}, err
		}
		inv = Invocation{Mode: mode, Room: args[1]}
	default:
		return Invocation{}, fmt.Errorf("%w (got %d arguments)", ErrUsage, len(args))
	}

	if inv.Room == "" {
		return Invocation{}, fmt.Errorf("%w: empty room id", ErrUsage)
	}
	return inv, nil
}
