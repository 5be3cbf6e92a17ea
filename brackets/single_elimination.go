package brackets

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// Pairing is one fixture of a generated round. Participant2ID is nil for a bye.
type Pairing struct {
	Round          string
	OrderInRound   int
	Participant1ID int
	Participant2ID *int
}

func (p Pairing) IsBye() bool {
	return p.Participant2ID == nil
}

var ErrNotEnoughParticipants = errors.New("not enough participants to generate a round (minimum 2)")

type SingleEliminationGenerator struct {
}

func NewSingleEliminationGenerator() RoundGenerator {
	return &SingleEliminationGenerator{}
}

func (g *SingleEliminationGenerator) GetName() string {
	return "SingleElimination"
}

// GenerateRound pairs participants in order: 1v2, 3v4, ... An odd participant
// out gets a bye in the last fixture.
func (g *SingleEliminationGenerator) GenerateRound(ctx context.Context, params GenerateRoundParams) ([]Pairing, error) {
	n := len(params.ParticipantIDs)
	if n < 2 {
		return nil, ErrNotEnoughParticipants
	}

	seen := make(map[int]struct{}, n)
	for _, id := range params.ParticipantIDs {
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("participant %d appears twice in round %s", id, params.Round)
		}
		seen[id] = struct{}{}
	}

	pairings := make([]Pairing, 0, (n+1)/2)
	for i := 0; i < n; i += 2 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p := Pairing{
			Round:          params.Round,
			OrderInRound:   len(pairings) + 1,
			Participant1ID: params.ParticipantIDs[i],
		}
		if i+1 < n {
			opponent := params.ParticipantIDs[i+1]
			p.Participant2ID = &opponent
		}
		pairings = append(pairings, p)
	}
	return pairings, nil
}

// RoundsToDecide returns how many elimination rounds n participants need.
func RoundsToDecide(n int) int {
	if n < 2 {
		return 0
	}
	return int(math.Ceil(math.Log2(float64(n))))
}
