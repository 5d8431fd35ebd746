package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-scorer/internal/kb"
	"github.com/jonathan/resume-scorer/internal/pipeline"
	"github.com/jonathan/resume-scorer/internal/schemas"
	"github.com/jonathan/resume-scorer/internal/skills"
	"github.com/jonathan/resume-scorer/internal/types"
)

const (
	maxBodyBytes = 2 << 20
	defaultTopK  = 10
	maxTopK      = 100
)

// SkillMatchRequest is the body of POST /skills/match. Candidate skills may be
// strings or objects carrying a name, label or skill field.
type SkillMatchRequest struct {
	CandidateSkills []any    `json:"candidate_skills"`
	RequiredSkills  []string `json:"required_skills"`
	PreferredSkills []string `json:"preferred_skills,omitempty"`
}

// MLScoreRequest is the body of POST /ml-score.
type MLScoreRequest struct {
	ResumeText string `json:"resume_text"`
	JDText     string `json:"jd_text"`
}

// KBSearchResponse is the body returned by GET /kb/search.
type KBSearchResponse struct {
	Query   string      `json:"query"`
	Type    string      `json:"type,omitempty"`
	Results []kb.Result `json:"results"`
}

// HealthResponse reports which optional components are wired.
type HealthResponse struct {
	Status string          `json:"status"`
	Checks map[string]bool `json:"checks"`
}

// decodeBody reads the request body, validates it against the named schema
// and unmarshals it into dst.
func decodeBody(w http.ResponseWriter, r *http.Request, schema string, dst any) error {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return &ErrValidation{Field: "body", Message: err.Error()}
	}
	if err := schemas.Validate(schema, data); err != nil {
		return err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return &ErrValidation{Field: "body", Message: err.Error()}
	}
	return nil
}

func decodeAnalysisRequest(w http.ResponseWriter, r *http.Request) (pipeline.Request, error) {
	var req pipeline.Request
	if err := decodeBody(w, r, schemas.AnalysisRequest, &req); err != nil {
		return req, err
	}
	if req.Profile == nil {
		return req, &ErrValidation{Field: "profile", Message: "profile is required"}
	}
	if err := req.Profile.Validate(); err != nil {
		return req, &ErrValidation{Field: "profile", Message: err.Error()}
	}
	if req.Job != nil {
		if err := req.Job.Validate(); err != nil {
			return req, &ErrValidation{Field: "job", Message: err.Error()}
		}
	}
	return req, nil
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Checks: map[string]bool{
			"ml_score": s.deps.ML != nil,
			"kb":       s.deps.KB != nil,
			"store":    s.deps.Store != nil,
		},
	})
}

// handleAnalyze runs the full pipeline and returns every stage's output.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	req, err := decodeAnalysisRequest(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.deps.Pipeline.Run(r.Context(), req, nil)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleAnalyzeStream runs the pipeline and streams progress via SSE
func (s *Server) handleAnalyzeStream(w http.ResponseWriter, r *http.Request) {
	req, err := decodeAnalysisRequest(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	result, err := s.deps.Pipeline.Run(r.Context(), req, func(event pipeline.ProgressEvent) {
		if err := sse.WriteEvent("step", event); err != nil {
			s.logger.Warn("error writing SSE event", zap.Error(err))
		}
	})
	if err != nil {
		s.logger.Warn("streaming analysis failed", zap.Error(err))
		sse.WriteError(err)
		return
	}
	sse.WriteComplete(result)
}

// handleSkillMatch matches candidate skills against required (and optionally
// preferred) skills.
func (s *Server) handleSkillMatch(w http.ResponseWriter, r *http.Request) {
	var req SkillMatchRequest
	if err := decodeBody(w, r, schemas.SkillMatchRequest, &req); err != nil {
		s.writeError(w, err)
		return
	}

	candidates := skills.NormalizeSkillInputs(req.CandidateSkills)
	var result *types.SkillMatchResult
	if len(req.PreferredSkills) > 0 {
		result = s.deps.Matcher.MatchJob(r.Context(), candidates, &types.JobRequirement{
			RequiredSkills:  req.RequiredSkills,
			PreferredSkills: req.PreferredSkills,
		})
	} else {
		result = s.deps.Matcher.Match(r.Context(), candidates, req.RequiredSkills)
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleMLScore scores a résumé against a job description.
func (s *Server) handleMLScore(w http.ResponseWriter, r *http.Request) {
	if s.deps.ML == nil {
		s.writeError(w, &ErrUnavailable{Feature: "ML scoring"})
		return
	}
	var req MLScoreRequest
	if err := decodeBody(w, r, schemas.MLScoreRequest, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if strings.TrimSpace(req.ResumeText) == "" || strings.TrimSpace(req.JDText) == "" {
		s.writeError(w, &ErrValidation{Field: "resume_text", Message: "resume_text and jd_text must not be blank"})
		return
	}
	s.jsonResponse(w, http.StatusOK, s.deps.ML.Score(r.Context(), req.ResumeText, req.JDText))
}

// handleKBSearch runs a semantic search over the knowledge base.
func (s *Server) handleKBSearch(w http.ResponseWriter, r *http.Request) {
	if s.deps.KB == nil {
		s.writeError(w, &ErrUnavailable{Feature: "knowledge base"})
		return
	}
	q := r.URL.Query()
	query := strings.TrimSpace(q.Get("q"))
	if query == "" {
		s.writeError(w, &ErrValidation{Field: "q", Message: "query is required"})
		return
	}
	topK := defaultTopK
	if raw := q.Get("top_k"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxTopK {
			s.writeError(w, &ErrValidation{Field: "top_k", Message: "must be an integer between 1 and 100"})
			return
		}
		topK = n
	}
	typeFilter := q.Get("type")

	results, err := s.deps.KB.Search(r.Context(), query, typeFilter, topK)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if results == nil {
		results = []kb.Result{}
	}
	s.jsonResponse(w, http.StatusOK, KBSearchResponse{Query: query, Type: typeFilter, Results: results})
}

// handleGetAnalysis returns a stored analysis by ID
func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	if s.deps.Store == nil {
		s.writeError(w, &ErrUnavailable{Feature: "analysis storage"})
		return
	}
	idStr := r.PathValue("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		s.writeError(w, &ErrValidation{Field: "id", Message: "invalid analysis ID format"})
		return
	}

	a, err := s.deps.Store.GetAnalysis(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if a == nil {
		s.writeError(w, &ErrNotFound{Resource: "analysis", ID: idStr})
		return
	}
	s.jsonResponse(w, http.StatusOK, a)
}
