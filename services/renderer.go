package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// DocumentPayload is everything the render service needs to produce an
// official letter: the submission, the resolved people, and the numbers
// already validated and allocated by the workflow.
type DocumentPayload struct {
	Kind              string     `json:"kind"`
	SubmissionID      int        `json:"submission_id"`
	StudentName       string     `json:"student_name"`
	StudentNumber     string     `json:"student_number,omitempty"`
	Title             string     `json:"title"`
	DecreeNumber      string     `json:"decree_number"`
	InvitationNumbers []string   `json:"invitation_numbers,omitempty"`
	SupervisorName    string     `json:"supervisor_name,omitempty"`
	ExaminerNames     []string   `json:"examiner_names,omitempty"`
	ScheduledAt       *time.Time `json:"scheduled_at,omitempty"`
	ScheduledAtText   string     `json:"scheduled_at_text,omitempty"`
	Venue             string     `json:"venue,omitempty"`
}

// DocumentRenderer turns an approved submission into a PDF byte stream.
// Rendering happens after the transition commits and is never part of the
// transactional boundary.
type DocumentRenderer interface {
	RenderPDF(ctx context.Context, payload DocumentPayload) ([]byte, error)
}

type httpRenderer struct {
	baseURL string
	client  *http.Client
}

// NewHTTPRenderer builds a renderer backed by the external render service
// configured through RENDER_SERVICE_URL.
func NewHTTPRenderer() DocumentRenderer {
	return &httpRenderer{
		baseURL: os.Getenv("RENDER_SERVICE_URL"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (r *httpRenderer) RenderPDF(ctx context.Context, payload DocumentPayload) ([]byte, error) {
	if r.baseURL == "" {
		return nil, fmt.Errorf("render service not configured (RENDER_SERVICE_URL)")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode render payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/render", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build render request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/pdf")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("render service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("render service returned %s", resp.Status)
	}

	pdf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read rendered document: %w", err)
	}
	return pdf, nil
}
