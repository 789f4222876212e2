// Package protocol defines the JSON action messages exchanged with a room server.
//
// The protocol package provides:
//   - Message, an insertion-ordered JSON object keyed by "action"
//   - Constructors for every action the client emits
//   - Parsing of inbound frames with pass-through of unknown fields
//   - The in-place OfferCorrection to AnswerCorrection rewrite
//   - Join URL construction for a room endpoint
//
// Message Format:
//
// Every frame is a single JSON object with a required string "action" field.
// The remaining fields depend on the action:
//   - ClickAya:         {"action":"ClickAya","aya":1}
//   - MuteAllUser:      {"action":"MuteAllUser"}
//   - MuteUser:         {"action":"MuteUser","uuid":"abdan"}
//   - MoveSura:         {"action":"MoveSura","id_quran":1}
//   - OfferCorrection:  {"action":"OfferCorrection","uuid":"abdan"}
//   - AnswerCorrection: {"action":"AnswerCorrection","uuid":"abdan","result":true}
//
// Messages are not versioned or schema-validated. Inbound objects keep their
// key order and any fields the client does not know about, so a message can be
// mutated and sent back without losing data.
//
// Usage:
//
//	msg, err := protocol.Parse(frame)
//	if err != nil {
//		return err
//	}
//	if action, _ := msg.Action(); action == protocol.OfferCorrection {
//		_ = protocol.Answer(msg, true)
//	}
//	data, err := msg.MarshalJSON()
package protocol
