package services

import (
	"database/sql/driver"
	"errors"
	"testing"
	"time"
)

var allocClock = time.Date(2024, time.May, 20, 10, 0, 0, 0, time.UTC)

func TestAllocateNumbersChainsFromDecreeSeed(t *testing.T) {
	exclude := SubmissionRef{Kind: KindTitleRequest, ID: 7}

	var steps []*queryStep
	steps = append(steps, sweepSteps("B.200/Un.13/FST/PP.00.9/05/2024", exclude)...)
	steps = append(steps, sweepSteps("B.201/Un.13/FST/PP.00.9/05/2024", exclude)...)

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	set, err := AllocateNumbers(db, AllocationRequest{
		DecreeSeed: "200",
		Count:      2,
		Exclude:    exclude,
		Now:        allocClock,
	})
	if err != nil {
		t.Fatalf("AllocateNumbers returned error: %v", err)
	}

	if set.Decree != "B.200/Un.13/FST/PP.00.9/05/2024" {
		t.Errorf("decree: got %q", set.Decree)
	}
	if len(set.Invitations) != 1 || set.Invitations[0] != "B.201/Un.13/FST/PP.00.9/05/2024" {
		t.Errorf("invitations: got %v", set.Invitations)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAllocateNumbersIndependentInvitationSeed(t *testing.T) {
	exclude := SubmissionRef{Kind: KindFinalDefense, ID: 3}

	var steps []*queryStep
	for _, candidate := range []string{
		"B.90/Un.13/FST/PP.00.9/05/2024",
		"B.700/Un.13/FST/PP.00.9/05/2024",
		"B.701/Un.13/FST/PP.00.9/05/2024",
	} {
		steps = append(steps, sweepSteps(candidate, exclude)...)
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	set, err := AllocateNumbers(db, AllocationRequest{
		DecreeSeed:     "90",
		InvitationSeed: "700",
		Count:          3,
		Exclude:        exclude,
		Now:            allocClock,
	})
	if err != nil {
		t.Fatalf("AllocateNumbers returned error: %v", err)
	}

	want := []string{"B.700/Un.13/FST/PP.00.9/05/2024", "B.701/Un.13/FST/PP.00.9/05/2024"}
	if set.Decree != "B.90/Un.13/FST/PP.00.9/05/2024" || len(set.Invitations) != 2 {
		t.Fatalf("unexpected set: %+v", set)
	}
	for i, invitation := range want {
		if set.Invitations[i] != invitation {
			t.Errorf("invitation %d: got %q want %q", i, set.Invitations[i], invitation)
		}
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAllocateNumbersAbortsOnFirstConflict(t *testing.T) {
	// A title request already holds B.100; allocating seed 100 for a
	// proposal defense must fail naming the title request's decree field.
	stored := "B.100/Un.13/FST/PP.00.9/05/2024"

	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: slotPattern(numberSlots[0]),
			args:    []driver.Value{stored + "%"},
			columns: []string{numberSlots[0].Column},
			rows:    [][]driver.Value{{stored}},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	_, err := AllocateNumbers(db, AllocationRequest{
		DecreeSeed: "100",
		Count:      3,
		Exclude:    SubmissionRef{Kind: KindProposalDefense, ID: 2},
		Now:        allocClock,
	})

	var conflict *NumberConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected NumberConflictError, got %v", err)
	}
	if conflict.Kind != KindTitleRequest || conflict.Field != "decree number" {
		t.Errorf("conflict tuple: got (%s, %s)", conflict.Kind, conflict.Field)
	}

	// Nothing beyond the first colliding candidate was checked.
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAllocateNumbersConflictOnLaterCandidate(t *testing.T) {
	exclude := SubmissionRef{Kind: KindTitleRequest, ID: 1}
	stored := "B.201/Un.13/FST/PP.00.9/05/2024"

	var steps []*queryStep
	steps = append(steps, sweepSteps("B.200/Un.13/FST/PP.00.9/05/2024", exclude)...)
	// Slot 0 matches the excluding kind, so the query carries the own-row
	// exclusion argument too.
	steps = append(steps, &queryStep{
		kind:    kindQuery,
		pattern: slotPattern(numberSlots[0]),
		args:    []driver.Value{stored + "%", int64(exclude.ID)},
		columns: []string{numberSlots[0].Column},
		rows:    [][]driver.Value{{stored}},
	})

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	_, err := AllocateNumbers(db, AllocationRequest{
		DecreeSeed: "200",
		Count:      2,
		Exclude:    exclude,
		Now:        allocClock,
	})

	var conflict *NumberConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected NumberConflictError, got %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAllocateNumbersRequiresSeedDigits(t *testing.T) {
	db, _, cleanup := newScriptedGormDB(t, nil)
	defer cleanup()

	for _, seed := range []string{"", "   ", "abc", "-5"} {
		_, err := AllocateNumbers(db, AllocationRequest{DecreeSeed: seed, Count: 2, Now: allocClock})
		var missing *MissingRequiredFieldError
		if !errors.As(err, &missing) {
			t.Errorf("seed %q: expected MissingRequiredFieldError, got %v", seed, err)
		}
	}
}

func TestAllocateNumbersInheritsSuffixFromExistingNumber(t *testing.T) {
	exclude := SubmissionRef{Kind: KindFinalDefense, ID: 9}

	var steps []*queryStep
	steps = append(steps, sweepSteps("B.300/Un.13/FST/PP.00.9/01/2020", exclude)...)
	steps = append(steps, sweepSteps("B.301/Un.13/FST/PP.00.9/01/2020", exclude)...)

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	set, err := AllocateNumbers(db, AllocationRequest{
		DecreeSeed:  "300",
		Count:       2,
		InheritFrom: "B.9/Un.13/FST/PP.00.9/01/2020",
		Exclude:     exclude,
		Now:         allocClock,
	})
	if err != nil {
		t.Fatalf("AllocateNumbers returned error: %v", err)
	}
	if set.Decree != "B.300/Un.13/FST/PP.00.9/01/2020" {
		t.Errorf("decree did not inherit suffix: %q", set.Decree)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAllocateNumbersFallsBackWhenInheritedNumberMalformed(t *testing.T) {
	exclude := SubmissionRef{Kind: KindTitleRequest, ID: 5}

	var steps []*queryStep
	steps = append(steps, sweepSteps("B.400/Un.13/FST/PP.00.9/05/2024", exclude)...)
	steps = append(steps, sweepSteps("B.401/Un.13/FST/PP.00.9/05/2024", exclude)...)

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	set, err := AllocateNumbers(db, AllocationRequest{
		DecreeSeed:  "400",
		Count:       2,
		InheritFrom: "not a document number",
		Exclude:     exclude,
		Now:         allocClock,
	})
	if err != nil {
		t.Fatalf("AllocateNumbers returned error: %v", err)
	}
	if set.Decree != "B.400/Un.13/FST/PP.00.9/05/2024" {
		t.Errorf("decree: got %q", set.Decree)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
