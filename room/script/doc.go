// Package script decides what a room client says and how it reacts.
//
// A client runs in exactly one Mode:
//   - Initiator:  "<room-id>", sends OfferCorrection carrying the room id
//   - RoomMaster: "room_master <room-id>", drives the room and answers corrections
//   - User:       "user <room-id>", sends OfferCorrection for the participant
//   - Bridge:     "mcp <room-id>", sends nothing on its own; tools drive it
//
// Each mode has a fixed opening sequence (Opening) that is sent right after
// the connection is established, and a Dispatcher holding one Handler per
// inbound action it reacts to (Handlers). Actions without a handler are only
// printed by the session.
//
// The literals the opening sequences use (participant id, verse and chapter
// indices, correction result) come from Params.
package script
