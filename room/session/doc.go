// Package session runs the client side of one room connection.
//
// A Session owns the connection for the lifetime of the process:
//
//  1. The opening sequence is sent in order. The first failed send ends the
//     session; nothing after it is attempted.
//  2. The receive loop then blocks on the connection. Every frame is written
//     verbatim, followed by a newline, to the output.
//  3. When the dispatcher has handlers, the frame is parsed and routed by its
//     action. A frame that is not a JSON object with an action ends the
//     session with protocol.ErrMalformedMessage.
//  4. Any receive error ends the session. There is no reconnect.
//
// Usage:
//
//	conn, err := websocket.Dial(ctx, joinURL, websocket.Options{})
//	if err != nil {
//		return err
//	}
//	sess := session.New(conn, session.Config{
//		Opening:    script.Opening(inv, params),
//		Dispatcher: script.Handlers(inv.Mode, params),
//		Output:     os.Stdout,
//	})
//	return sess.Run(ctx)
//
// Concurrency:
//
// Run must be called once. Send may be called concurrently with Run, which is
// how the MCP bridge drives the room while frames are being received.
package session
