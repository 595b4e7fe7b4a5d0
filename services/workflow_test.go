package services

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"thesis-management-api/models"
)

var workflowClock = time.Date(2024, time.May, 20, 10, 0, 0, 0, time.UTC)

func TestTransitionTableLegality(t *testing.T) {
	type pair struct {
		status Status
		action Action
	}
	legal := map[pair]Status{
		{StatusSubmitted, ActionReceive}:       StatusUnderStaffReview,
		{StatusUnderStaffReview, ActionVerify}: StatusUnderChairReview,
		{StatusUnderStaffReview, ActionReject}: StatusRejected,
		{StatusUnderChairReview, ActionFinish}: StatusApproved,
		{StatusUnderChairReview, ActionReject}: StatusRejected,
	}

	statuses := []Status{StatusSubmitted, StatusUnderStaffReview, StatusUnderChairReview, StatusApproved, StatusRejected}
	actions := []Action{ActionReceive, ActionVerify, ActionReject, ActionFinish}

	for _, status := range statuses {
		for _, action := range actions {
			rule, ok := transitionTable[status][action]
			next, want := legal[pair{status, action}]
			if ok != want {
				t.Errorf("(%s, %s): legality got %v want %v", status, action, ok, want)
				continue
			}
			if ok && rule.next != next {
				t.Errorf("(%s, %s): next got %s want %s", status, action, rule.next, next)
			}
		}
	}

	// Terminal states permit nothing.
	for _, status := range []Status{StatusApproved, StatusRejected} {
		if len(transitionTable[status]) != 0 {
			t.Errorf("%s must be terminal", status)
		}
	}
}

func loadRowStep(kind SubmissionKind, values []driver.Value) *queryStep {
	cfg := kindConfigs[kind]
	columns := []string{"id", "student_id", "status", "rejection_note", "decree_number", "invitation_number"}
	if len(cfg.numberColumns) > 2 {
		columns = append(columns, "second_invitation_number")
	}

	var rows [][]driver.Value
	if values != nil {
		rows = [][]driver.Value{values}
	}

	return &queryStep{
		kind:    kindQuery,
		pattern: regexp.MustCompile(fmt.Sprintf(`SELECT .* FROM .?%s.? WHERE %s = \?`, cfg.table, cfg.idColumn)),
		columns: columns,
		rows:    rows,
	}
}

func updateStep(kind SubmissionKind) *queryStep {
	return &queryStep{
		kind:    kindExec,
		pattern: regexp.MustCompile(fmt.Sprintf(`UPDATE .?%s.? SET`, kindConfigs[kind].table)),
	}
}

func historyStep() *queryStep {
	return &queryStep{
		kind:    kindExec,
		pattern: regexp.MustCompile(`INSERT INTO .?status_histories.?`),
	}
}

func TestTransitionSubmissionNotFound(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, []*queryStep{
		loadRowStep(KindTitleRequest, nil),
	})
	defer cleanup()

	_, err := TransitionSubmission(db, KindTitleRequest, 99, TransitionRequest{
		Action:    ActionVerify,
		ActorRole: models.RoleStaff,
		Now:       workflowClock,
	})

	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTransitionSubmissionIllegalFromTerminalState(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, []*queryStep{
		loadRowStep(KindTitleRequest, []driver.Value{int64(1), int64(7), "approved", nil, nil, nil}),
	})
	defer cleanup()

	_, err := TransitionSubmission(db, KindTitleRequest, 1, TransitionRequest{
		Action:    ActionVerify,
		ActorRole: models.RoleStaff,
		Now:       workflowClock,
	})

	var invalid *InvalidTransitionError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}
	if invalid.From != StatusApproved || invalid.Action != ActionVerify {
		t.Errorf("unexpected error detail: %+v", invalid)
	}

	// Nothing was written: the load is the only statement consumed.
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTransitionSubmissionRejectsWrongRole(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, []*queryStep{
		loadRowStep(KindProposalDefense, []driver.Value{int64(2), int64(7), "under_staff_review", nil, nil, nil, nil}),
	})
	defer cleanup()

	_, err := TransitionSubmission(db, KindProposalDefense, 2, TransitionRequest{
		Action:    ActionVerify,
		ActorRole: models.RoleChair,
		Now:       workflowClock,
	})

	var invalid *InvalidTransitionError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRejectWithoutNoteFailsWithoutMutation(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, []*queryStep{
		loadRowStep(KindProposalDefense, []driver.Value{int64(2), int64(7), "under_staff_review", nil, nil, nil, nil}),
	})
	defer cleanup()

	_, err := TransitionSubmission(db, KindProposalDefense, 2, TransitionRequest{
		Action:    ActionReject,
		ActorRole: models.RoleStaff,
		Now:       workflowClock,
	})

	var missing *MissingRequiredFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingRequiredFieldError, got %v", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRejectClearsNumbersAndRecordsHistory(t *testing.T) {
	decree := "B.100/Un.13/FST/PP.00.9/05/2024"
	invitation := "B.101/Un.13/FST/PP.00.9/05/2024"
	second := "B.102/Un.13/FST/PP.00.9/05/2024"

	db, state, cleanup := newScriptedGormDB(t, []*queryStep{
		loadRowStep(KindFinalDefense, []driver.Value{int64(4), int64(7), "under_chair_review", nil, decree, invitation, second}),
		updateStep(KindFinalDefense),
		historyStep(),
	})
	defer cleanup()

	result, err := TransitionSubmission(db, KindFinalDefense, 4, TransitionRequest{
		Action:    ActionReject,
		Note:      "missing supervisor approval sheet",
		ActorID:   11,
		ActorRole: models.RoleChair,
		Now:       workflowClock,
	})
	if err != nil {
		t.Fatalf("TransitionSubmission returned error: %v", err)
	}

	if result.Status != StatusRejected {
		t.Errorf("status: got %s", result.Status)
	}
	if result.Numbers != nil {
		t.Errorf("rejected transition must not return numbers, got %+v", result.Numbers)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestVerifyAllocatesChainAndAdvances(t *testing.T) {
	exclude := SubmissionRef{Kind: KindTitleRequest, ID: 1}

	steps := []*queryStep{
		loadRowStep(KindTitleRequest, []driver.Value{int64(1), int64(7), "under_staff_review", nil, nil, nil}),
	}
	steps = append(steps, sweepSteps("B.200/Un.13/FST/PP.00.9/05/2024", exclude)...)
	steps = append(steps, sweepSteps("B.201/Un.13/FST/PP.00.9/05/2024", exclude)...)
	steps = append(steps, updateStep(KindTitleRequest), historyStep())

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	result, err := TransitionSubmission(db, KindTitleRequest, 1, TransitionRequest{
		Action:     ActionVerify,
		DecreeSeed: "200",
		ActorID:    5,
		ActorRole:  models.RoleStaff,
		Now:        workflowClock,
	})
	if err != nil {
		t.Fatalf("TransitionSubmission returned error: %v", err)
	}

	if result.Status != StatusUnderChairReview {
		t.Errorf("status: got %s", result.Status)
	}
	if result.Numbers == nil || result.Numbers.Decree != "B.200/Un.13/FST/PP.00.9/05/2024" {
		t.Fatalf("numbers: got %+v", result.Numbers)
	}
	if len(result.Numbers.Invitations) != 1 || result.Numbers.Invitations[0] != "B.201/Un.13/FST/PP.00.9/05/2024" {
		t.Errorf("invitations: got %v", result.Numbers.Invitations)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestVerifyReturnsExistingNumbersWithoutReallocation(t *testing.T) {
	decree := "B.300/Un.13/FST/PP.00.9/04/2024"
	invitation := "B.301/Un.13/FST/PP.00.9/04/2024"

	// No registry sweep: the stored set is reused as-is.
	db, state, cleanup := newScriptedGormDB(t, []*queryStep{
		loadRowStep(KindTitleRequest, []driver.Value{int64(1), int64(7), "under_staff_review", nil, decree, invitation}),
		updateStep(KindTitleRequest),
		historyStep(),
	})
	defer cleanup()

	result, err := TransitionSubmission(db, KindTitleRequest, 1, TransitionRequest{
		Action:     ActionVerify,
		DecreeSeed: "999",
		ActorID:    5,
		ActorRole:  models.RoleStaff,
		Now:        workflowClock,
	})
	if err != nil {
		t.Fatalf("TransitionSubmission returned error: %v", err)
	}

	if result.Numbers == nil || result.Numbers.Decree != decree {
		t.Fatalf("expected stored decree %q, got %+v", decree, result.Numbers)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFinishRequiresIndependentInvitationSeed(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, []*queryStep{
		loadRowStep(KindFinalDefense, []driver.Value{int64(4), int64(7), "under_chair_review", nil, nil, nil, nil}),
	})
	defer cleanup()

	_, err := TransitionSubmission(db, KindFinalDefense, 4, TransitionRequest{
		Action:     ActionFinish,
		DecreeSeed: "90",
		ActorID:    11,
		ActorRole:  models.RoleChair,
		Now:        workflowClock,
	})

	var missing *MissingRequiredFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingRequiredFieldError, got %v", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFinishAllocatesFromTwoSeeds(t *testing.T) {
	exclude := SubmissionRef{Kind: KindFinalDefense, ID: 4}

	steps := []*queryStep{
		loadRowStep(KindFinalDefense, []driver.Value{int64(4), int64(7), "under_chair_review", nil, nil, nil, nil}),
	}
	for _, candidate := range []string{
		"B.90/Un.13/FST/PP.00.9/05/2024",
		"B.700/Un.13/FST/PP.00.9/05/2024",
		"B.701/Un.13/FST/PP.00.9/05/2024",
	} {
		steps = append(steps, sweepSteps(candidate, exclude)...)
	}
	steps = append(steps, updateStep(KindFinalDefense), historyStep())

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	result, err := TransitionSubmission(db, KindFinalDefense, 4, TransitionRequest{
		Action:         ActionFinish,
		DecreeSeed:     "90",
		InvitationSeed: "700",
		ActorID:        11,
		ActorRole:      models.RoleChair,
		Now:            workflowClock,
	})
	if err != nil {
		t.Fatalf("TransitionSubmission returned error: %v", err)
	}

	if result.Status != StatusApproved {
		t.Errorf("status: got %s", result.Status)
	}
	if result.Numbers == nil || result.Numbers.Decree != "B.90/Un.13/FST/PP.00.9/05/2024" {
		t.Fatalf("numbers: got %+v", result.Numbers)
	}
	want := []string{"B.700/Un.13/FST/PP.00.9/05/2024", "B.701/Un.13/FST/PP.00.9/05/2024"}
	for i, invitation := range want {
		if result.Numbers.Invitations[i] != invitation {
			t.Errorf("invitation %d: got %q want %q", i, result.Numbers.Invitations[i], invitation)
		}
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestVerifyConflictLeavesStatusUnchanged(t *testing.T) {
	stored := "B.100/Un.13/FST/PP.00.9/05/2024"

	// The sweep hits the stored title-request decree on its very first slot,
	// so no further slot queries run.
	steps := []*queryStep{
		loadRowStep(KindProposalDefense, []driver.Value{int64(2), int64(7), "under_staff_review", nil, nil, nil, nil}),
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

	_, err := TransitionSubmission(db, KindProposalDefense, 2, TransitionRequest{
		Action:     ActionVerify,
		DecreeSeed: "100",
		ActorID:    5,
		ActorRole:  models.RoleStaff,
		Now:        workflowClock,
	})

	var conflict *NumberConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected NumberConflictError, got %v", err)
	}
	if conflict.Kind != KindTitleRequest || conflict.Field != "decree number" {
		t.Errorf("conflict tuple: got (%s, %s)", conflict.Kind, conflict.Field)
	}

	// No update and no history row: the transition rolled back whole.
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestParseActionAndKind(t *testing.T) {
	if action, ok := ParseAction(" verify "); !ok || action != ActionVerify {
		t.Errorf("ParseAction: got (%v, %v)", action, ok)
	}
	if _, ok := ParseAction("APPROVE"); ok {
		t.Error("ParseAction accepted unknown action")
	}
	if kind, ok := ParseSubmissionKind("Final_Defense"); !ok || kind != KindFinalDefense {
		t.Errorf("ParseSubmissionKind: got (%v, %v)", kind, ok)
	}
	if _, ok := ParseSubmissionKind("thesis"); ok {
		t.Error("ParseSubmissionKind accepted unknown kind")
	}
}
