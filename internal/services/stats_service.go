package services

import (
	"crypto/subtle"
	"fmt"
	"math"

	"github.com/volkiswipe/umfrage/internal/models"
)

type StatsStore interface {
	CountParticipants() (int, error)
	CountResponses() (int, error)
	ResponseStatistics() ([]models.StatRow, error)
	ResponseDistribution() ([]models.ValueCount, error)
	TopQuestions(limit int) ([]models.QuestionCount, error)
	RecentParticipants(limit int) ([]models.Participant, error)
}

// Statistics is the token-guarded API payload.
type Statistics struct {
	ParticipantCount int              `json:"participantCount"`
	Rows             []models.StatRow `json:"statistics"`
}

// DistributionRow adds the percentage share for the dashboard table.
type DistributionRow struct {
	Value   models.ResponseValue
	Count   int
	Percent float64
}

// DashboardData aggregates everything the admin dashboard renders.
type DashboardData struct {
	ParticipantCount   int
	ResponseCount      int
	AvgResponses       float64
	Distribution       []DistributionRow
	TopQuestions       []models.QuestionCount
	RecentParticipants []models.Participant
}

// StatsService computes aggregates over stored responses. Read access is
// authorized by the shared secret token, checked before any query runs.
type StatsService struct {
	store StatsStore
	token string
}

func NewStatsService(store StatsStore, token string) *StatsService {
	return &StatsService{store: store, token: token}
}

// Authorize compares the presented token against the configured secret. The
// comparison is constant-time so unauthorized callers learn nothing from
// response timing.
func (s *StatsService) Authorize(token string) error {
	if s.token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(s.token)) != 1 {
		return NewUnauthorizedError("unauthorized")
	}
	return nil
}

// Statistics returns the participant count and the per-question response
// counts for token-authenticated API consumers.
func (s *StatsService) Statistics(token string) (*Statistics, error) {
	if err := s.Authorize(token); err != nil {
		return nil, err
	}
	count, err := s.store.CountParticipants()
	if err != nil {
		return nil, NewInternalError(fmt.Sprintf("could not count participants: %v", err))
	}
	rows, err := s.store.ResponseStatistics()
	if err != nil {
		return nil, NewInternalError(fmt.Sprintf("could not load statistics: %v", err))
	}
	return &Statistics{ParticipantCount: count, Rows: rows}, nil
}

// Dashboard collects the aggregates for the admin page. The caller is
// expected to have an authenticated session already.
func (s *StatsService) Dashboard() (*DashboardData, error) {
	participants, err := s.store.CountParticipants()
	if err != nil {
		return nil, NewInternalError(fmt.Sprintf("could not count participants: %v", err))
	}
	responses, err := s.store.CountResponses()
	if err != nil {
		return nil, NewInternalError(fmt.Sprintf("could not count responses: %v", err))
	}
	dist, err := s.store.ResponseDistribution()
	if err != nil {
		return nil, NewInternalError(fmt.Sprintf("could not load distribution: %v", err))
	}
	top, err := s.store.TopQuestions(10)
	if err != nil {
		return nil, NewInternalError(fmt.Sprintf("could not load top questions: %v", err))
	}
	recent, err := s.store.RecentParticipants(10)
	if err != nil {
		return nil, NewInternalError(fmt.Sprintf("could not load recent participants: %v", err))
	}

	data := &DashboardData{
		ParticipantCount:   participants,
		ResponseCount:      responses,
		TopQuestions:       top,
		RecentParticipants: recent,
	}
	if participants > 0 {
		data.AvgResponses = round1(float64(responses) / float64(participants))
	}
	for _, v := range dist {
		row := DistributionRow{Value: v.Value, Count: v.Count}
		if responses > 0 {
			row.Percent = round1(float64(v.Count) / float64(responses) * 100)
		}
		data.Distribution = append(data.Distribution, row)
	}
	return data, nil
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
