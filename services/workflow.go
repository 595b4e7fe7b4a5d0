package services

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"thesis-management-api/models"
)

// SubmissionKind names the three record types sharing one numbering space.
type SubmissionKind string

const (
	KindTitleRequest    SubmissionKind = "title_request"
	KindProposalDefense SubmissionKind = "proposal_defense"
	KindFinalDefense    SubmissionKind = "final_defense"
)

// ParseSubmissionKind maps a URL segment onto a SubmissionKind.
func ParseSubmissionKind(raw string) (SubmissionKind, bool) {
	switch SubmissionKind(strings.ToLower(strings.TrimSpace(raw))) {
	case KindTitleRequest:
		return KindTitleRequest, true
	case KindProposalDefense:
		return KindProposalDefense, true
	case KindFinalDefense:
		return KindFinalDefense, true
	}
	return "", false
}

// Status is the closed set of submission lifecycle states.
type Status string

const (
	StatusSubmitted        Status = "submitted"
	StatusUnderStaffReview Status = "under_staff_review"
	StatusUnderChairReview Status = "under_chair_review"
	StatusApproved         Status = "approved"
	StatusRejected         Status = "rejected"
)

// Action is a workflow operation requested by staff or the program chair.
type Action string

const (
	ActionReceive Action = "RECEIVE"
	ActionVerify  Action = "VERIFY"
	ActionReject  Action = "REJECT"
	ActionFinish  Action = "FINISH"
)

// ParseAction maps a request body action onto an Action.
func ParseAction(raw string) (Action, bool) {
	switch Action(strings.ToUpper(strings.TrimSpace(raw))) {
	case ActionReceive:
		return ActionReceive, true
	case ActionVerify:
		return ActionVerify, true
	case ActionReject:
		return ActionReject, true
	case ActionFinish:
		return ActionFinish, true
	}
	return "", false
}

type kindConfig struct {
	table    string
	idColumn string
	// numberColumns lists the document-number columns in chain order:
	// decree first, then the invitation letters. Its length is the
	// allocation arity for the kind.
	numberColumns []string
}

var kindConfigs = map[SubmissionKind]kindConfig{
	KindTitleRequest: {
		table:         "title_requests",
		idColumn:      "title_request_id",
		numberColumns: []string{"decree_number", "invitation_number"},
	},
	KindProposalDefense: {
		table:         "proposal_defenses",
		idColumn:      "proposal_defense_id",
		numberColumns: []string{"decree_number", "invitation_number", "second_invitation_number"},
	},
	KindFinalDefense: {
		table:         "final_defenses",
		idColumn:      "final_defense_id",
		numberColumns: []string{"decree_number", "invitation_number", "second_invitation_number"},
	},
}

type transitionRule struct {
	next         Status
	roles        []int
	requiresNote bool
	// allocate mints a number set during the transition.
	allocate bool
	// renumber accepts an independent invitation seed (final approval may
	// correct the invitation numbering instead of chaining from the decree).
	renumber     bool
	clearNumbers bool
}

// transitionTable is the full (status, action) -> rule map. Anything absent
// here is an invalid transition.
var transitionTable = map[Status]map[Action]transitionRule{
	StatusSubmitted: {
		ActionReceive: {next: StatusUnderStaffReview, roles: []int{models.RoleStaff}},
	},
	StatusUnderStaffReview: {
		ActionVerify: {next: StatusUnderChairReview, roles: []int{models.RoleStaff}, allocate: true},
		ActionReject: {next: StatusRejected, roles: []int{models.RoleStaff}, requiresNote: true, clearNumbers: true},
	},
	StatusUnderChairReview: {
		ActionFinish: {next: StatusApproved, roles: []int{models.RoleChair}, allocate: true, renumber: true},
		ActionReject: {next: StatusRejected, roles: []int{models.RoleChair}, requiresNote: true, clearNumbers: true},
	},
}

// TransitionRequest carries one requested workflow action.
type TransitionRequest struct {
	Action         Action
	Note           string
	DecreeSeed     string
	InvitationSeed string
	ActorID        int
	ActorRole      int
	Now            time.Time
}

// TransitionResult reports the committed outcome of a transition.
type TransitionResult struct {
	Kind         SubmissionKind `json:"kind"`
	SubmissionID int            `json:"submission_id"`
	StudentID    int            `json:"-"`
	Status       Status         `json:"status"`
	Numbers      *NumberSet     `json:"numbers,omitempty"`
}

// submissionRow is the kind-independent projection the workflow operates on.
type submissionRow struct {
	ID                     int
	StudentID              int
	Status                 Status
	RejectionNote          *string
	DecreeNumber           *string
	InvitationNumber       *string
	SecondInvitationNumber *string
}

// TransitionSubmission validates and applies one workflow action. The load,
// the availability sweep, the number write and the status change run inside a
// single serializable transaction so concurrent allocations cannot both pass
// the check-then-set race.
func TransitionSubmission(db *gorm.DB, kind SubmissionKind, id int, req TransitionRequest) (*TransitionResult, error) {
	cfg, ok := kindConfigs[kind]
	if !ok {
		return nil, &NotFoundError{Kind: kind, ID: id}
	}

	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}

	tx := db.Begin(&sql.TxOptions{Isolation: sql.LevelSerializable})
	if tx.Error != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	row, err := loadSubmissionRow(tx, cfg, kind, id)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	rule, ok := transitionTable[row.Status][req.Action]
	if !ok {
		tx.Rollback()
		return nil, &InvalidTransitionError{Kind: kind, From: row.Status, Action: req.Action}
	}
	if !roleAllowed(rule.roles, req.ActorRole) {
		tx.Rollback()
		return nil, &InvalidTransitionError{Kind: kind, From: row.Status, Action: req.Action, Reason: "actor role not permitted"}
	}

	note := strings.TrimSpace(req.Note)
	if rule.requiresNote && note == "" {
		tx.Rollback()
		return nil, &MissingRequiredFieldError{Field: "rejection note"}
	}

	updates := map[string]interface{}{
		"status":    string(rule.next),
		"update_at": now,
	}

	var numbers *NumberSet
	if rule.allocate {
		alreadySet := existingNumbers(cfg, row) != nil
		numbers, err = allocateForRow(tx, cfg, kind, row, rule, req, now)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		// Idempotent: number columns are written only while still unset.
		if !alreadySet {
			for i, column := range cfg.numberColumns {
				updates[column] = numbers.All()[i]
			}
		}
	}

	if rule.clearNumbers {
		for _, column := range cfg.numberColumns {
			updates[column] = nil
		}
	}
	if rule.requiresNote {
		updates["rejection_note"] = note
	}

	if err := tx.Table(cfg.table).
		Where(cfg.idColumn+" = ?", row.ID).
		Updates(updates).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to update %s %d: %w", kind, id, err)
	}

	oldStatus := string(row.Status)
	history := models.StatusHistory{
		SubmissionKind: string(kind),
		SubmissionID:   row.ID,
		OldStatus:      &oldStatus,
		NewStatus:      string(rule.next),
		ChangedBy:      req.ActorID,
		CreatedAt:      now,
	}
	if note != "" {
		history.Reason = &note
	}
	historyNote := fmt.Sprintf("action=%s", req.Action)
	history.Notes = &historyNote

	if err := tx.Create(&history).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to log status history: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit transition: %w", err)
	}

	return &TransitionResult{
		Kind:         kind,
		SubmissionID: row.ID,
		StudentID:    row.StudentID,
		Status:       rule.next,
		Numbers:      numbers,
	}, nil
}

func loadSubmissionRow(tx *gorm.DB, cfg kindConfig, kind SubmissionKind, id int) (*submissionRow, error) {
	columns := []string{
		cfg.idColumn + " AS id",
		"student_id",
		"status",
		"rejection_note",
		"decree_number",
		"invitation_number",
	}
	if len(cfg.numberColumns) > 2 {
		columns = append(columns, "second_invitation_number")
	}

	var row submissionRow
	result := tx.Table(cfg.table).
		Select(strings.Join(columns, ", ")).
		Where(cfg.idColumn+" = ?", id).
		Where("delete_at IS NULL").
		Limit(1).
		Scan(&row)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to load %s %d: %w", kind, id, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, &NotFoundError{Kind: kind, ID: id}
	}
	return &row, nil
}

func allocateForRow(tx *gorm.DB, cfg kindConfig, kind SubmissionKind, row *submissionRow, rule transitionRule, req TransitionRequest, now time.Time) (*NumberSet, error) {
	// A submission that already carries its full number set keeps it: the
	// transition still proceeds but nothing is re-minted and any supplied
	// seeds are ignored. In the normal flow FINISH therefore reuses the
	// numbers minted at verification; fresh seeds only take effect when the
	// fields are still null (numbers cleared by an earlier rejection).
	if existing := existingNumbers(cfg, row); existing != nil {
		return existing, nil
	}

	alloc := AllocationRequest{
		DecreeSeed: req.DecreeSeed,
		Count:      len(cfg.numberColumns),
		Exclude:    SubmissionRef{Kind: kind, ID: row.ID},
		Now:        now,
	}
	if rule.renumber {
		if strings.TrimSpace(req.InvitationSeed) == "" {
			return nil, &MissingRequiredFieldError{Field: "invitation number seed"}
		}
		alloc.InvitationSeed = req.InvitationSeed
	}
	if row.DecreeNumber != nil {
		alloc.InheritFrom = *row.DecreeNumber
	}

	return AllocateNumbers(tx, alloc)
}

func existingNumbers(cfg kindConfig, row *submissionRow) *NumberSet {
	stored := []*string{row.DecreeNumber, row.InvitationNumber}
	if len(cfg.numberColumns) > 2 {
		stored = append(stored, row.SecondInvitationNumber)
	}
	for _, value := range stored {
		if value == nil {
			return nil
		}
	}
	set := &NumberSet{Decree: *stored[0]}
	for _, value := range stored[1:] {
		set.Invitations = append(set.Invitations, *value)
	}
	return set
}

func roleAllowed(roles []int, role int) bool {
	for _, allowed := range roles {
		if allowed == role {
			return true
		}
	}
	return false
}
