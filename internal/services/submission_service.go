package services

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/volkiswipe/umfrage/internal/models"
)

// SubmissionStore is the persistence gateway the submission workflow writes
// through. The whole save must be atomic.
type SubmissionStore interface {
	SaveSubmission(p *models.Participant, responses []models.Response) (int64, error)
}

// SubmissionRequest is the decoded /api POST payload. Responses keeps the raw
// wire shape (question id keys as strings) so the service can validate both
// sides of the map against the catalog rules.
type SubmissionRequest struct {
	Name          string
	Email         string
	Timestamp     string
	Responses     map[string]string
	ParticipantID int64
	IsAutoSave    bool
	SendEmail     bool
}

// SubmissionResult carries what the handler needs for the HTTP reply and the
// optional summary mail.
type SubmissionResult struct {
	ParticipantID  int64
	ResponsesCount int
	IsAutoSave     bool
	Name           string
	Email          string
	SendEmail      bool
	Responses      map[int]models.ResponseValue
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// SubmissionService validates survey payloads and drives the persistence
// gateway. Timestamps are normalized into loc before storage.
type SubmissionService struct {
	store SubmissionStore
	loc   *time.Location
}

func NewSubmissionService(store SubmissionStore, loc *time.Location) *SubmissionService {
	if loc == nil {
		loc = time.UTC
	}
	return &SubmissionService{store: store, loc: loc}
}

// storageTimeFormat is the fixed DATETIME layout rows are stored in.
const storageTimeFormat = "2006-01-02 15:04:05"

// Save validates req rule by rule (first violation wins, nothing touches the
// database before validation passes) and persists the submission atomically.
func (s *SubmissionService) Save(req *SubmissionRequest) (*SubmissionResult, error) {
	if req == nil {
		return nil, NewInvalidError("invalid payload")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, NewInvalidError("name required")
	}
	ts, err := time.Parse(time.RFC3339, strings.TrimSpace(req.Timestamp))
	if err != nil {
		return nil, NewInvalidError("invalid timestamp")
	}
	email := strings.TrimSpace(req.Email)
	if req.SendEmail && email != "" && !emailPattern.MatchString(email) {
		return nil, NewInvalidError("invalid email")
	}

	responses, err := parseResponses(req.Responses)
	if err != nil {
		return nil, err
	}

	p := &models.Participant{
		ID:          req.ParticipantID,
		Name:        name,
		Email:       email,
		SubmittedAt: ts.In(s.loc).Format(storageTimeFormat),
	}
	rows := make([]models.Response, 0, len(responses))
	for qid, v := range responses {
		rows = append(rows, models.Response{QuestionID: qid, Value: v})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].QuestionID < rows[j].QuestionID })

	id, err := s.store.SaveSubmission(p, rows)
	if err != nil {
		if errors.Is(err, models.ErrParticipantNotFound) {
			return nil, NewInvalidError("unknown participant id")
		}
		return nil, NewInternalError(fmt.Sprintf("could not save submission: %v", err))
	}

	return &SubmissionResult{
		ParticipantID:  id,
		ResponsesCount: len(rows),
		IsAutoSave:     req.IsAutoSave,
		Name:           name,
		Email:          email,
		SendEmail:      req.SendEmail,
		Responses:      responses,
	}, nil
}

// parseResponses converts the wire map into typed (question id, value) pairs,
// rejecting anything outside the closed enumeration at the boundary.
func parseResponses(raw map[string]string) (map[int]models.ResponseValue, error) {
	out := make(map[int]models.ResponseValue, len(raw))
	for key, value := range raw {
		qid, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil || qid <= 0 {
			return nil, NewInvalidError("invalid question id")
		}
		v := models.ResponseValue(value)
		if !v.Valid() {
			return nil, NewInvalidError("invalid response value")
		}
		out[qid] = v
	}
	return out, nil
}
