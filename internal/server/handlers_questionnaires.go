package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mhollis/taxdoc/internal/schemas"
	"github.com/mhollis/taxdoc/internal/types"
)

// SubmitQuestionnaireRequest is the request body for POST /questionnaires.
type SubmitQuestionnaireRequest struct {
	ClientID string                    `json:"client_id" validate:"required,uuid4"`
	FormType string                    `json:"form_type" validate:"required,oneof=quick strategy"`
	Record   types.QuestionnaireRecord `json:"record" validate:"required"`
}

// handleSubmitQuestionnaire validates and stores a questionnaire submission.
func (s *Server) handleSubmitQuestionnaire(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "questionnaire store not configured", "")
		return
	}

	var req SubmitQuestionnaireRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	if err := schemas.ValidateQuestionnaire(req.Record); err != nil {
		s.errorResponse(w, HTTPStatus(err), "invalid questionnaire", err.Error())
		return
	}

	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid client id", err.Error())
		return
	}

	id, err := s.store.SaveQuestionnaire(r.Context(), clientID, req.FormType, req.Record)
	if err != nil {
		s.logger.Error("failed to save questionnaire", zap.Error(err))
		s.errorResponse(w, HTTPStatus(err), "failed to save questionnaire", err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]string{"id": id.String()})
}
