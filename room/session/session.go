package session

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"github.com/wricardo/mcp-training/roomclient/room/protocol"
	"github.com/wricardo/mcp-training/roomclient/room/script"
)

// Conn is the connection a session runs over.
type Conn interface {
	Send(ctx context.Context, payload []byte) error
	Receive(ctx context.Context) ([]byte, error)
}

// Config describes what a session sends and how it reacts.
type Config struct {
	Opening    []*protocol.Message
	Dispatcher *script.Dispatcher
	Output     io.Writer

	// History is the number of inbound frames kept for Recent. Zero means
	// DefaultHistory, negative keeps none.
	History int
}

// Stats counts frames moved by a session.
type Stats struct {
	Sent     int64
	Received int64
	Replied  int64
}

// Session drives one room connection.
type Session struct {
	conn       Conn
	opening    []*protocol.Message
	dispatcher *script.Dispatcher
	history    *History

	outMu sync.Mutex
	out   io.Writer

	sent     atomic.Int64
	received atomic.Int64
	replied  atomic.Int64
}

// New creates a session over conn.
func New(conn Conn, cfg Config) *Session {
	dispatcher := cfg.Dispatcher
	if dispatcher == nil {
		dispatcher = script.NewDispatcher()
	}
	out := cfg.Output
	if out == nil {
		out = io.Discard
	}
	size := cfg.History
	if size == 0 {
		size = DefaultHistory
	}

	return &Session{
		conn:       conn,
		opening:    cfg.Opening,
		dispatcher: dispatcher,
		history:    NewHistory(size),
		out:        out,
	}
}

// Run sends the opening sequence, then receives until the connection fails.
// It always returns a non-nil error.
func (s *Session) Run(ctx context.Context) error {
	for i, msg := range s.opening {
		if err := s.Send(ctx, msg); err != nil {
			return fmt.Errorf("send opening message %d of %d: %w", i+1, len(s.opening), err)
		}
	}

	for {
		payload, err := s.conn.Receive(ctx)
		if err != nil {
			return fmt.Errorf("receive: %w", err)
		}
		s.received.Add(1)
		s.history.Add(payload)

		if err := s.print(payload); err != nil {
			return fmt.Errorf("write output: %w", err)
		}

		// Without handlers frames are only printed, never parsed.
		if s.dispatcher.Len() == 0 {
			continue
		}

		msg, err := protocol.Parse(payload)
		if err != nil {
			return err
		}
		if err := s.dispatcher.Dispatch(ctx, msg, replier{s}); err != nil {
			action, _ := msg.Action()
			return fmt.Errorf("handle %s: %w", action, err)
		}
	}
}

// Send encodes msg and writes it to the connection.
func (s *Session) Send(ctx context.Context, msg *protocol.Message) error {
	data, err := msg.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	if err := s.conn.Send(ctx, data); err != nil {
		return err
	}
	s.sent.Add(1)

	action, _ := msg.Action()
	log.Info().Str("action", string(action)).Msg("sent")
	return nil
}

// Recent returns up to n of the latest inbound frames, oldest first.
func (s *Session) Recent(n int) []string {
	return s.history.Recent(n)
}

// Stats returns the frame counters.
func (s *Session) Stats() Stats {
	return Stats{
		Sent:     s.sent.Load(),
		Received: s.received.Load(),
		Replied:  s.replied.Load(),
	}
}

func (s *Session) print(payload []byte) error {
	s.outMu.Lock()
	defer s.outMu.Unlock()

	if _, err := s.out.Write(payload); err != nil {
		return err
	}
	_, err := io.WriteString(s.out, "\n")
	return err
}

// replier counts handler replies separately from plain sends.
type replier struct {
	s *Session
}

func (r replier) Send(ctx context.Context, msg *protocol.Message) error {
	if err := r.s.Send(ctx, msg); err != nil {
		return err
	}
	r.s.replied.Add(1)
	return nil
}
