package script

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/wricardo/mcp-training/roomclient/room/protocol"
)

// CorrectionResponder answers every OfferCorrection by sending the same
// object back as an AnswerCorrection carrying Result.
type CorrectionResponder struct {
	Result bool
}

func (c CorrectionResponder) Handle(ctx context.Context, msg *protocol.Message, reply Sender) error {
	if err := protocol.Answer(msg, c.Result); err != nil {
		return err
	}

	var uuid string
	_, _ = msg.Get(protocol.FieldUUID, &uuid)

	if err := reply.Send(ctx, msg); err != nil {
		return fmt.Errorf("answer correction: %w", err)
	}
	log.Info().Str("uuid", uuid).Bool("result", c.Result).Msg("answered correction")
	return nil
}
