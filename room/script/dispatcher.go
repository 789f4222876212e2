package script

import (
	"context"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/wricardo/mcp-training/roomclient/room/protocol"
)

// Sender delivers a message over the room connection.
type Sender interface {
	Send(ctx context.Context, msg *protocol.Message) error
}

// Handler reacts to one inbound action. It may reply through the sender.
type Handler interface {
	Handle(ctx context.Context, msg *protocol.Message, reply Sender) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, msg *protocol.Message, reply Sender) error

func (f HandlerFunc) Handle(ctx context.Context, msg *protocol.Message, reply Sender) error {
	return f(ctx, msg, reply)
}

// Dispatcher routes inbound messages to the handler registered for their action.
type Dispatcher struct {
	handlers map[protocol.Action]Handler
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[protocol.Action]Handler)}
}

// Register installs h for action, replacing any previous handler.
func (d *Dispatcher) Register(action protocol.Action, h Handler) {
	d.handlers[action] = h
}

// Lookup returns the handler for action, if any.
func (d *Dispatcher) Lookup(action protocol.Action) (Handler, bool) {
	h, ok := d.handlers[action]
	return h, ok
}

// Len returns the number of registered actions.
func (d *Dispatcher) Len() int {
	return len(d.handlers)
}

// Actions lists the registered actions in sorted order.
func (d *Dispatcher) Actions() []protocol.Action {
	actions := make([]protocol.Action, 0, len(d.handlers))
	for action := range d.handlers {
		actions = append(actions, action)
	}
	sort.Slice(actions, func(i, j int) bool { return actions[i] < actions[j] })
	return actions
}

// Dispatch runs the handler for msg's action. Messages with no handler are
// ignored.
func (d *Dispatcher) Dispatch(ctx context.Context, msg *protocol.Message, reply Sender) error {
	action, _ := msg.Action()
	h, ok := d.handlers[action]
	if !ok {
		log.Debug().Str("action", string(action)).Msg("no handler")
		return nil
	}
	return h.Handle(ctx, msg, reply)
}

// Handlers returns the dispatcher for mode. Only the room master reacts to
// inbound messages.
func Handlers(mode Mode, params Params) *Dispatcher {
	d := NewDispatcher()
	if mode == RoomMaster {
		d.Register(protocol.OfferCorrection, CorrectionResponder{Result: params.AnswerResult})
	}
	return d
}
