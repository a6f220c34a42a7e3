package services

import (
	"testing"
	"time"

	"github.com/chiromo-health/cmhs-backend/internal/database"
	"github.com/chiromo-health/cmhs-backend/internal/models"
	"github.com/redis/go-redis/v9"
)

// answersWithSum builds n answers (values 0-3) totalling sum.
func answersWithSum(t *testing.T, n, sum int) []int {
	t.Helper()
	if sum > n*3 {
		t.Fatalf("cannot reach sum %d with %d answers", sum, n)
	}
	answers := make([]int, n)
	for i := 0; i < n && sum > 0; i++ {
		v := sum
		if v > 3 {
			v = 3
		}
		answers[i] = v
		sum -= v
	}
	return answers
}

func TestScoreAssessment_Determinism(t *testing.T) {
	answers := []int{1, 2, 0, 3, 1, 0, 2, 1, 1}

	score1, sev1, err := ScoreAssessment(models.TestDepression, answers)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	score2, sev2, err := ScoreAssessment(models.TestDepression, answers)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if score1 != score2 || sev1 != sev2 {
		t.Errorf("same answers gave different results: (%d,%s) vs (%d,%s)", score1, sev1, score2, sev2)
	}
	if score1 != 11 {
		t.Errorf("expected score 11, got %d", score1)
	}
}

func TestScoreAssessment_ThresholdBoundaries(t *testing.T) {
	// One canonical table for all test types: <=4 minimal, <=9 mild,
	// <=14 moderate, else severe.
	cases := []struct {
		sum  int
		want string
	}{
		{0, models.SeverityMinimal},
		{4, models.SeverityMinimal},
		{5, models.SeverityMild},
		{9, models.SeverityMild},
		{10, models.SeverityModerate},
		{14, models.SeverityModerate},
		{15, models.SeveritySevere},
		{27, models.SeveritySevere},
	}

	for _, tc := range cases {
		score, severity, err := ScoreAssessment(models.TestDepression, answersWithSum(t, 9, tc.sum))
		if err != nil {
			t.Fatalf("sum %d: unexpected error: %v", tc.sum, err)
		}
		if score != tc.sum {
			t.Errorf("sum %d: got score %d", tc.sum, score)
		}
		if severity != tc.want {
			t.Errorf("score %d: expected %s, got %s", tc.sum, tc.want, severity)
		}
	}
}

func TestScoreAssessment_QuestionCounts(t *testing.T) {
	cases := []struct {
		testType string
		count    int
	}{
		{models.TestDepression, 9},
		{models.TestAnxiety, 7},
		{models.TestBipolar, 13},
		{models.TestSubstance, 10},
	}

	for _, tc := range cases {
		if _, _, err := ScoreAssessment(tc.testType, make([]int, tc.count)); err != nil {
			t.Errorf("%s with %d answers: unexpected error: %v", tc.testType, tc.count, err)
		}
		if _, _, err := ScoreAssessment(tc.testType, make([]int, tc.count+1)); err != ErrValidation {
			t.Errorf("%s with %d answers: expected ErrValidation, got %v", tc.testType, tc.count+1, err)
		}
	}
}

func TestScoreAssessment_InvalidInput(t *testing.T) {
	if _, _, err := ScoreAssessment("phrenology", make([]int, 9)); err != ErrValidation {
		t.Errorf("unknown test type: expected ErrValidation, got %v", err)
	}
	if _, _, err := ScoreAssessment(models.TestAnxiety, []int{0, 1, 2, 4, 0, 0, 0}); err != ErrValidation {
		t.Errorf("answer above range: expected ErrValidation, got %v", err)
	}
	if _, _, err := ScoreAssessment(models.TestAnxiety, []int{0, 1, 2, -1, 0, 0, 0}); err != ErrValidation {
		t.Errorf("negative answer: expected ErrValidation, got %v", err)
	}
}

// A Redis outage must surface as an error, not as a consumed token.
func TestFetchGuestResultSurfacesRedisFailure(t *testing.T) {
	prev := database.RedisClient
	database.RedisClient = redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1", // nothing listens here
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() {
		database.RedisClient.Close()
		database.RedisClient = prev
	})

	result, err := FetchGuestResult("some-token")
	if err == nil {
		t.Fatal("expected an error when Redis is unreachable")
	}
	if result != nil {
		t.Errorf("result = %+v, want nil alongside the error", result)
	}
}
