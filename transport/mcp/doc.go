// Package mcp exposes a live room connection as a Model Context Protocol server.
//
// The mcp package implements:
//   - One MCP tool per action the client can emit
//   - A recent_messages tool returning the latest inbound frames
//   - A stdio transport for running next to an MCP capable agent
//
// Architecture:
//
// The Bridge is a thin layer over a running room session. Every tool call
// builds one protocol message and sends it over the session's connection;
// nothing is buffered or retried. Inbound frames keep flowing through the
// session's receive loop while tools are being called.
//
// Available Tools:
//   - click_aya:         select a verse index (aya)
//   - mute_all_users:    mute every participant
//   - mute_user:         mute one participant (uuid)
//   - move_sura:         navigate to a chapter (id_quran)
//   - offer_correction:  request a correction workflow (uuid)
//   - answer_correction: answer a correction request (uuid, result)
//   - recent_messages:   latest frames received from the room (limit)
//
// Usage:
//
//	bridge := mcp.NewBridge(room, sess, version)
//	go sess.Run(ctx)
//	if err := bridge.ServeStdio(ctx, os.Stdin, os.Stdout); err != nil {
//		log.Fatal().Err(err).Msg("mcp stdio server")
//	}
//
// Error Handling:
//
// Invalid arguments and send failures are reported as tool errors, so the
// calling agent sees them as results rather than protocol failures.
package mcp
