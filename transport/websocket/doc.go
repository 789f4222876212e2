// Package websocket provides the client side WebSocket transport to a room server.
//
// The websocket package implements:
//   - Dialing a room join URL with a bounded opening handshake
//   - Sending one text frame per message
//   - Blocking receives with no read deadline
//   - Classification of closures and resets as ErrClosed
//
// Connection Model:
//
// A Conn wraps exactly one gorilla/websocket connection for the lifetime of
// the process. There is no reconnect: once Receive or Send reports ErrClosed
// the Conn is finished and callers are expected to exit.
//
// Concurrency:
//
// Send may be called from several goroutines; writes are serialised because
// the underlying connection supports only one concurrent writer. Receive must
// be called from a single goroutine. Close may be called at any time and
// unblocks a pending Receive.
//
// Usage:
//
//	conn, err := websocket.Dial(ctx, "ws://0.0.0.0:6040/api/room/join/dssn/abdan", websocket.Options{})
//	if err != nil {
//		return err
//	}
//	defer conn.Close()
//
//	if err := conn.Send(ctx, []byte(`{"action":"MuteAllUser"}`)); err != nil {
//		return err
//	}
//	frame, err := conn.Receive(ctx)
//
// Cancellation:
//
// Cancelling the context passed to Receive closes the connection, which is
// the only way to interrupt a blocked read.
package websocket
