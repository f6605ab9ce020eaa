package services

import (
	"testing"

	"github.com/volkiswipe/umfrage/internal/models"
)

type stubStatsStore struct {
	participants int
	responses    int
	stats        []models.StatRow
	distribution []models.ValueCount
	top          []models.QuestionCount
	recent       []models.Participant
}

func (s *stubStatsStore) CountParticipants() (int, error)               { return s.participants, nil }
func (s *stubStatsStore) CountResponses() (int, error)                  { return s.responses, nil }
func (s *stubStatsStore) ResponseStatistics() ([]models.StatRow, error) { return s.stats, nil }
func (s *stubStatsStore) ResponseDistribution() ([]models.ValueCount, error) {
	return s.distribution, nil
}
func (s *stubStatsStore) TopQuestions(int) ([]models.QuestionCount, error) { return s.top, nil }
func (s *stubStatsStore) RecentParticipants(int) ([]models.Participant, error) {
	return s.recent, nil
}

func TestAuthorizeExactMatchOnly(t *testing.T) {
	svc := NewStatsService(&stubStatsStore{}, "secret-token")
	for _, bad := range []string{"", "secret", "secret-token ", "secret-tokenX", "xsecret-token", "SECRET-TOKEN"} {
		if err := svc.Authorize(bad); err == nil {
			t.Fatalf("token %q accepted, want rejection", bad)
		}
	}
	if err := svc.Authorize("secret-token"); err != nil {
		t.Fatalf("correct token rejected: %v", err)
	}
}

func TestAuthorizeEmptyConfiguredToken(t *testing.T) {
	svc := NewStatsService(&stubStatsStore{}, "")
	if err := svc.Authorize(""); err == nil {
		t.Fatal("empty configured token must reject everything")
	}
}

func TestStatisticsRequiresToken(t *testing.T) {
	store := &stubStatsStore{participants: 3}
	svc := NewStatsService(store, "tok")

	_, err := svc.Statistics("wrong")
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorUnauthorized {
		t.Fatalf("got %v, want unauthorized", err)
	}

	stats, err := svc.Statistics("tok")
	if err != nil {
		t.Fatalf("Statistics: %v", err)
	}
	if stats.ParticipantCount != 3 {
		t.Fatalf("participant count = %d, want 3", stats.ParticipantCount)
	}
}

func TestStatisticsCountsSumPerQuestion(t *testing.T) {
	store := &stubStatsStore{
		stats: []models.StatRow{
			{QuestionID: 1, Value: models.ResponseEgal, Count: 2},
			{QuestionID: 1, Value: models.ResponseSehrWichtig, Count: 3},
			{QuestionID: 2, Value: models.ResponseWichtig, Count: 4},
		},
	}
	svc := NewStatsService(store, "tok")
	stats, err := svc.Statistics("tok")
	if err != nil {
		t.Fatalf("Statistics: %v", err)
	}
	sums := map[int]int{}
	for _, row := range stats.Rows {
		sums[row.QuestionID] += row.Count
	}
	if sums[1] != 5 || sums[2] != 4 {
		t.Fatalf("per-question sums = %v, want map[1:5 2:4]", sums)
	}
}

func TestDashboardAggregates(t *testing.T) {
	store := &stubStatsStore{
		participants: 4,
		responses:    10,
		distribution: []models.ValueCount{
			{Value: models.ResponseSehrWichtig, Count: 7},
			{Value: models.ResponseEgal, Count: 3},
		},
	}
	svc := NewStatsService(store, "tok")
	data, err := svc.Dashboard()
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if data.AvgResponses != 2.5 {
		t.Fatalf("avg responses = %v, want 2.5", data.AvgResponses)
	}
	if data.Distribution[0].Percent != 70 {
		t.Fatalf("percent = %v, want 70", data.Distribution[0].Percent)
	}
	if data.Distribution[1].Percent != 30 {
		t.Fatalf("percent = %v, want 30", data.Distribution[1].Percent)
	}
}

func TestDashboardEmptyDatabase(t *testing.T) {
	svc := NewStatsService(&stubStatsStore{}, "tok")
	data, err := svc.Dashboard()
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if data.AvgResponses != 0 {
		t.Fatalf("avg on empty db = %v, want 0", data.AvgResponses)
	}
}
