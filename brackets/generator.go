package brackets

import "context"

type GenerateRoundParams struct {
	Round string
	// ParticipantIDs are the registrations still in contention, in seeding order.
	ParticipantIDs []int
}

type RoundGenerator interface {
	GenerateRound(ctx context.Context, params GenerateRoundParams) ([]Pairing, error)

	GetName() string
}
