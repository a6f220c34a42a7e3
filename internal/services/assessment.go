package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/chiromo-health/cmhs-backend/internal/database"
	"github.com/chiromo-health/cmhs-backend/internal/models"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Question counts per test type. Answers are integer-coded 0-3 per question.
var assessmentQuestions = map[string]int{
	models.TestDepression: 9,  // PHQ-9
	models.TestAnxiety:    7,  // GAD-7
	models.TestBipolar:    13, // MDQ
	models.TestSubstance:  10, // DAST-10
}

const (
	maxAnswerValue = 3

	// GuestResultKeyPrefix is the Redis key prefix for guest assessment results
	GuestResultKeyPrefix = "assessment_result:"
	// GuestResultTTL: guest results are rendered once and then discarded
	GuestResultTTL = 30 * time.Minute
)

// ScoreAssessment sums the answers and classifies the total into a severity
// bucket. One canonical threshold table applies to every test type:
// <=4 minimal, <=9 mild, <=14 moderate, else severe. Deterministic, no I/O.
func ScoreAssessment(testType string, answers []int) (int, string, error) {
	want, ok := assessmentQuestions[testType]
	if !ok || len(answers) != want {
		return 0, "", ErrValidation
	}

	score := 0
	for _, a := range answers {
		if a < 0 || a > maxAnswerValue {
			return 0, "", ErrValidation
		}
		score += a
	}

	return score, classifySeverity(score), nil
}

func classifySeverity(score int) string {
	switch {
	case score <= 4:
		return models.SeverityMinimal
	case score <= 9:
		return models.SeverityMild
	case score <= 14:
		return models.SeverityModerate
	default:
		return models.SeveritySevere
	}
}

// SaveAssessmentResult persists a result for an authenticated patient.
func SaveAssessmentResult(patientID uuid.UUID, testType string, score int, severity string) (*models.AssessmentResult, error) {
	result := &models.AssessmentResult{
		PatientID: &patientID,
		TestType:  testType,
		Score:     score,
		Severity:  severity,
	}
	err := database.PostgresDB.QueryRow(`
		INSERT INTO assessment_results (patient_id, test_type, score, severity)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, patientID, testType, score, severity).Scan(&result.ID, &result.CreatedAt)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListAssessmentResults returns a patient's past results, newest first.
func ListAssessmentResults(patientID uuid.UUID) ([]models.AssessmentResult, error) {
	rows, err := database.PostgresDB.Query(`
		SELECT id, created_at, test_type, score, severity
		FROM assessment_results
		WHERE patient_id = $1
		ORDER BY created_at DESC
	`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []models.AssessmentResult{}
	for rows.Next() {
		r := models.AssessmentResult{PatientID: &patientID}
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.TestType, &r.Score, &r.Severity); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// StoreGuestResult holds an anonymous result in Redis under a fresh token.
// Returns the token the guest uses to fetch it once.
func StoreGuestResult(testType string, score int, severity string) (string, error) {
	token := uuid.NewString()
	payload, err := json.Marshal(models.AssessmentResult{
		TestType: testType,
		Score:    score,
		Severity: severity,
	})
	if err != nil {
		return "", err
	}

	ctx := context.Background()
	if err := database.RedisClient.Set(ctx, GuestResultKeyPrefix+token, payload, GuestResultTTL).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// FetchGuestResult returns a guest result and deletes it, so it renders
// exactly once. Returns nil if the token is unknown or already consumed.
func FetchGuestResult(token string) (*models.AssessmentResult, error) {
	if token == "" {
		return nil, nil
	}

	ctx := context.Background()
	key := GuestResultKeyPrefix + token
	val, err := database.RedisClient.GetDel(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil // unknown, expired or already consumed
	}
	if err != nil {
		return nil, err
	}

	var result models.AssessmentResult
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		return nil, err
	}
	return &result, nil
}
