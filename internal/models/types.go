package models

import "errors"

// ErrParticipantNotFound is returned by the persistence gateway when a
// re-save references an id that does not exist.
var ErrParticipantNotFound = errors.New("participant not found")

// ResponseValue is the fixed four-value importance scale residents rate
// questions on. The wire and storage representation is the German snake_case
// string, matching the survey front end.
type ResponseValue string

const (
	ResponseSehrWichtig ResponseValue = "sehr_wichtig"
	ResponseWichtig     ResponseValue = "wichtig"
	ResponseUnwichtig   ResponseValue = "unwichtig"
	ResponseEgal        ResponseValue = "egal"
)

// ResponseValues lists the scale in display order (most to least important).
var ResponseValues = []ResponseValue{
	ResponseSehrWichtig,
	ResponseWichtig,
	ResponseUnwichtig,
	ResponseEgal,
}

// Valid reports whether v is a member of the closed enumeration.
func (v ResponseValue) Valid() bool {
	switch v {
	case ResponseSehrWichtig, ResponseWichtig, ResponseUnwichtig, ResponseEgal:
		return true
	}
	return false
}

// Participant is one survey respondent and their submission metadata.
// SubmittedAt holds the normalized storage form ("2006-01-02 15:04:05" in the
// configured timezone), not the raw client timestamp.
type Participant struct {
	ID          int64
	Name        string
	Email       string // optional unless a summary mail was requested
	SubmittedAt string
}

// Question is one prompt of the catalog. The catalog is seeded externally and
// read-only from this system's perspective.
type Question struct {
	ID        int
	Category  string
	Text      string
	SortOrder int
	Active    bool
}

// Response is one participant's rating of one question.
type Response struct {
	ParticipantID int64
	QuestionID    int
	Value         ResponseValue
}

// StatRow is one (question, value) count from the aggregated statistics.
type StatRow struct {
	QuestionID int           `json:"question_id"`
	Value      ResponseValue `json:"response_value"`
	Count      int           `json:"count"`
}

// ValueCount is the per-value distribution over all responses.
type ValueCount struct {
	Value ResponseValue `json:"response_value"`
	Count int           `json:"count"`
}

// QuestionCount ranks a question by how often it was marked important.
type QuestionCount struct {
	QuestionID int    `json:"question_id"`
	Text       string `json:"text"`
	Count      int    `json:"count"`
}

// ExportRow is one tuple of the participants LEFT JOIN responses export.
// QuestionID and Value are nil for participants without any responses.
type ExportRow struct {
	ParticipantID int64
	Name          string
	Email         string
	SubmittedAt   string
	QuestionID    *int
	Value         *string
}
