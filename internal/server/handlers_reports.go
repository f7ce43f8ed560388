package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mhollis/taxdoc/internal/db"
	"github.com/mhollis/taxdoc/internal/pipeline"
	"github.com/mhollis/taxdoc/internal/schemas"
	"github.com/mhollis/taxdoc/internal/types"
)

// GenerateReportRequest is the request body for POST /reports.
type GenerateReportRequest struct {
	Questionnaire1 types.QuestionnaireRecord `json:"questionnaire1" validate:"required"`
	Questionnaire2 types.QuestionnaireRecord `json:"questionnaire2,omitempty"`
	ClientName     string                    `json:"client_name,omitempty" validate:"omitempty,max=200"`
}

// handleGenerateReport runs the pipeline on questionnaires supplied inline.
func (s *Server) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	var req GenerateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	for _, record := range []types.QuestionnaireRecord{req.Questionnaire1, req.Questionnaire2} {
		if record == nil {
			continue
		}
		if err := schemas.ValidateQuestionnaire(record); err != nil {
			s.errorResponse(w, HTTPStatus(err), "invalid questionnaire", err.Error())
			return
		}
	}

	s.generateAndWrite(w, r, req.Questionnaire1, req.Questionnaire2, req.ClientName)
}

// handleClientReport runs the pipeline on the client's latest stored
// questionnaires.
func (s *Server) handleClientReport(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "questionnaire store not configured", "")
		return
	}

	clientID, err := uuid.Parse(r.PathValue("client_id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid client id", err.Error())
		return
	}

	quick, err := s.store.LatestQuestionnaire(r.Context(), clientID, db.FormTypeQuick)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), "failed to load questionnaire", err.Error())
		return
	}

	// The strategy selector is optional; many clients only ever submit the
	// quick questionnaire.
	strategy, err := s.store.LatestQuestionnaire(r.Context(), clientID, db.FormTypeStrategy)
	if err != nil && !errors.Is(err, db.ErrQuestionnaireNotFound) {
		s.errorResponse(w, HTTPStatus(err), "failed to load questionnaire", err.Error())
		return
	}

	s.generateAndWrite(w, r, quick, strategy, "")
}

// generateAndWrite runs the pipeline and writes the resulting binary with a
// content type and filename matching the format actually produced.
func (s *Server) generateAndWrite(w http.ResponseWriter, r *http.Request, quick, strategy types.QuestionnaireRecord, clientName string) {
	report, err := pipeline.Generate(r.Context(), quick, strategy, pipeline.Options{
		TemplatePath: s.cfg.TemplatePath,
		ClientName:   clientName,
		Converter:    s.converter,
		Logger:       s.logger,
	})
	if err != nil {
		s.logger.Error("report generation failed", zap.Error(err))
		s.errorResponse(w, HTTPStatus(err), "report generation failed", err.Error())
		return
	}

	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+report.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(report.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(report.Data); err != nil {
		s.logger.Error("failed to write report body", zap.Error(err))
	}
}
