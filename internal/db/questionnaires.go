package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mhollis/taxdoc/internal/types"
)

// Form types accepted by the store. "quick" is the main questionnaire,
// "strategy" the strategy-selector follow-up.
const (
	FormTypeQuick    = "quick"
	FormTypeStrategy = "strategy"
)

// ErrQuestionnaireNotFound indicates no submission exists for the client and
// form type.
var ErrQuestionnaireNotFound = errors.New("questionnaire not found")

// SaveQuestionnaire stores one submitted questionnaire and returns its id.
func (db *DB) SaveQuestionnaire(ctx context.Context, clientID uuid.UUID, formType string, record types.QuestionnaireRecord) (uuid.UUID, error) {
	payload, err := json.Marshal(record)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to encode questionnaire: %w", err)
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO questionnaires (client_id, form_type, payload)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		clientID, formType, payload,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save questionnaire: %w", err)
	}
	return id, nil
}

// LatestQuestionnaire returns the most recent submission for the client and
// form type, or ErrQuestionnaireNotFound.
func (db *DB) LatestQuestionnaire(ctx context.Context, clientID uuid.UUID, formType string) (types.QuestionnaireRecord, error) {
	var payload []byte
	err := db.pool.QueryRow(ctx,
		`SELECT payload FROM questionnaires
		 WHERE client_id = $1 AND form_type = $2
		 ORDER BY submitted_at DESC
		 LIMIT 1`,
		clientID, formType,
	).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrQuestionnaireNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load questionnaire: %w", err)
	}

	var record types.QuestionnaireRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, fmt.Errorf("failed to decode questionnaire: %w", err)
	}
	return record, nil
}
