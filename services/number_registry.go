package services

import (
	"fmt"

	"gorm.io/gorm"
)

// SubmissionRef identifies the submission requesting a number so its own row
// can be excluded from the availability sweep.
type SubmissionRef struct {
	Kind SubmissionKind
	ID   int
}

type numberSlot struct {
	Kind   SubmissionKind
	Field  string
	Table  string
	Column string
	IDCol  string
}

// numberSlots is the declarative list of every (kind, field) combination that
// stores document numbers. The whole institution shares one numbering space,
// so the sweep covers every slot regardless of the requesting kind.
var numberSlots = []numberSlot{
	{KindTitleRequest, "decree number", "title_requests", "decree_number", "title_request_id"},
	{KindTitleRequest, "invitation number", "title_requests", "invitation_number", "title_request_id"},
	{KindProposalDefense, "decree number", "proposal_defenses", "decree_number", "proposal_defense_id"},
	{KindProposalDefense, "invitation number", "proposal_defenses", "invitation_number", "proposal_defense_id"},
	{KindProposalDefense, "second invitation number", "proposal_defenses", "second_invitation_number", "proposal_defense_id"},
	{KindFinalDefense, "decree number", "final_defenses", "decree_number", "final_defense_id"},
	{KindFinalDefense, "invitation number", "final_defenses", "invitation_number", "final_defense_id"},
	{KindFinalDefense, "second invitation number", "final_defenses", "second_invitation_number", "final_defense_id"},
}

// CheckNumberAvailable sweeps every number-bearing column of every submission
// kind and returns the first stored number the candidate is a prefix of.
// Numbers share a common institutional suffix, so prefix matching up to the
// slash after the integer is the true discriminator, not exact equality.
// A nil conflict means the candidate is free.
func CheckNumberAvailable(tx *gorm.DB, candidate string, exclude SubmissionRef) (*NumberConflictError, error) {
	for _, slot := range numberSlots {
		query := tx.Table(slot.Table).
			Where(slot.Column+" LIKE ?", candidate+"%").
			Where("delete_at IS NULL")
		if exclude.ID > 0 && exclude.Kind == slot.Kind {
			query = query.Where(slot.IDCol+" <> ?", exclude.ID)
		}

		var existing []string
		if err := query.Limit(1).Pluck(slot.Column, &existing).Error; err != nil {
			return nil, fmt.Errorf("failed to check %s of %s: %w", slot.Field, slot.Kind, err)
		}
		if len(existing) > 0 {
			return &NumberConflictError{Kind: slot.Kind, Field: slot.Field, Number: existing[0]}, nil
		}
	}
	return nil, nil
}
