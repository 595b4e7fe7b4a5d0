package services

import (
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

// AllocationRequest describes one conflict-free set of related numbers:
// a decree number plus one or more invitation numbers chained after it.
type AllocationRequest struct {
	// DecreeSeed is the integer digits supplied by staff for the decree number.
	DecreeSeed string
	// InvitationSeed optionally restarts the invitation chain at an
	// independent integer. When empty, invitations chain from the decree.
	InvitationSeed string
	// Count is the total number of documents to mint, decree included.
	// Arity is a parameter: two-number and three-number flows share this path.
	Count int
	// InheritFrom is an existing formatted number on the submission whose
	// prefix and suffix carry over. Malformed stored numbers fall back to the
	// synthesized default rather than failing the request.
	InheritFrom string
	// Exclude is the submission the numbers are being allocated for.
	Exclude SubmissionRef
	// Now supplies the clock for the suffix when there is nothing to inherit.
	Now time.Time
}

// NumberSet is a fully formatted, conflict-checked allocation result.
type NumberSet struct {
	Decree      string   `json:"decree_number"`
	Invitations []string `json:"invitation_numbers"`
}

// All returns the set in allocation order, decree first.
func (s *NumberSet) All() []string {
	return append([]string{s.Decree}, s.Invitations...)
}

// AllocateNumbers builds the candidate set from the seeds and validates each
// member against the registry. The first conflict aborts the whole
// allocation; numbers are never partially reserved.
func AllocateNumbers(tx *gorm.DB, req AllocationRequest) (*NumberSet, error) {
	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}
	if req.Count < 1 {
		req.Count = 1
	}

	seed, err := parseSeed(req.DecreeSeed, "decree number seed")
	if err != nil {
		return nil, err
	}

	decree := ParsedNumber{Prefix: DefaultNumberPrefix, Value: seed, Suffix: SuffixFor(now)}
	if req.InheritFrom != "" {
		if parsed, parseErr := ParseNumber(req.InheritFrom); parseErr == nil {
			decree.Prefix = parsed.Prefix
			decree.Suffix = parsed.Suffix
		}
	}

	invitationBase := decree.Next(1)
	if req.InvitationSeed != "" {
		invitationSeed, seedErr := parseSeed(req.InvitationSeed, "invitation number seed")
		if seedErr != nil {
			return nil, seedErr
		}
		invitationBase = ParsedNumber{Prefix: decree.Prefix, Value: invitationSeed, Suffix: decree.Suffix}
	}

	set := &NumberSet{Decree: decree.String()}
	for i := 0; i < req.Count-1; i++ {
		set.Invitations = append(set.Invitations, invitationBase.Next(i).String())
	}

	for _, candidate := range set.All() {
		conflict, checkErr := CheckNumberAvailable(tx, candidate, req.Exclude)
		if checkErr != nil {
			return nil, checkErr
		}
		if conflict != nil {
			return nil, conflict
		}
	}

	return set, nil
}

func parseSeed(digits, field string) (int, error) {
	trimmed := strings.TrimSpace(digits)
	if trimmed == "" {
		return 0, &MissingRequiredFieldError{Field: field}
	}
	value, err := strconv.Atoi(trimmed)
	if err != nil || value < 0 {
		return 0, &MissingRequiredFieldError{Field: field}
	}
	return value, nil
}
