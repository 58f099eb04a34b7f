// Package httpadapter exposes the matching pipeline over HTTP. Both
// match endpoints accept a multipart PDF upload and return ranked,
// explained matches as JSON.
package httpadapter

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/resumatch/resumatch/internal/core/domain"
	"github.com/resumatch/resumatch/internal/core/ports"
	"github.com/resumatch/resumatch/internal/core/usecase"
	"github.com/resumatch/resumatch/internal/observability/metrics"
)

const (
	defaultTopN  = 10
	maxTopN      = 50
	maxUploadLen = 10 << 20

	previewChars = 200
)

type Router struct {
	service   string
	matcher   *usecase.Matcher
	explainer *usecase.Explainer
	extractor ports.TextExtractor
	catalog   *usecase.Catalog
	metrics   *metrics.HTTPServerMetrics
	limiter   *rateLimiter
}

func NewRouter(
	service string,
	matcher *usecase.Matcher,
	explainer *usecase.Explainer,
	extractor ports.TextExtractor,
	catalog *usecase.Catalog,
	m *metrics.HTTPServerMetrics,
	rps float64,
	burst int,
) *Router {
	return &Router{
		service:   service,
		matcher:   matcher,
		explainer: explainer,
		extractor: extractor,
		catalog:   catalog,
		metrics:   m,
		limiter:   newRateLimiter(rps, burst),
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", rt.root)
	mux.HandleFunc("/healthz", rt.healthz)
	mux.Handle("/metrics", rt.metrics.Handler())
	mux.HandleFunc("/v1/match/jobs", rt.matchJobs)
	mux.HandleFunc("/v1/match/candidates", rt.matchCandidates)

	var handler http.Handler = mux
	handler = rt.limiter.middleware(handler)
	handler = rt.metrics.Middleware(rt.service, handler)
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	handler = recoveryMiddleware(handler)
	return handler
}

func (rt *Router) root(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"service": rt.service,
		"models":  domain.Backends(),
		"endpoints": []string{
			"POST /v1/match/jobs",
			"POST /v1/match/candidates",
			"GET /healthz",
			"GET /metrics",
		},
	})
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	models := make(map[string]bool, len(domain.Backends()))
	for _, b := range domain.Backends() {
		models[string(b)] = rt.matcher.BackendLoaded(b)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"jobs":          rt.catalog.JobCount(),
		"resumes":       rt.catalog.ResumeCount(),
		"models_loaded": models,
	})
}

// jobMatchResponse is one entry of the resume→jobs direction.
type jobMatchResponse struct {
	Rank               int    `json:"rank"`
	Title              string `json:"title"`
	Company            string `json:"company"`
	Location           string `json:"location"`
	DescriptionPreview string `json:"description_preview"`
	JobDescription     string `json:"job_description"`
	domain.MatchSummary
}

type candidateMatchResponse struct {
	Rank          int    `json:"rank"`
	CandidateID   string `json:"candidate_id"`
	Category      string `json:"category"`
	ResumePreview string `json:"resume_preview"`
	ResumeText    string `json:"resume_text"`
	domain.MatchSummary
	Feedback *domain.CandidateFeedback `json:"candidate_feedback,omitempty"`
}

type matchEnvelope struct {
	Matches      any    `json:"matches"`
	ModelUsed    string `json:"model_used"`
	TotalMatches int    `json:"total_matches"`
}

func (rt *Router) matchJobs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	backend, topN, ok := rt.matchParams(w, r)
	if !ok {
		return
	}

	text, ok := rt.extractUpload(w, r)
	if !ok {
		return
	}

	start := time.Now()
	resume := usecase.ProcessResume(text)

	matches, err := rt.matcher.ResumeToJobs(r.Context(), resume, backend, topN)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]jobMatchResponse, 0, len(matches))
	for _, match := range matches {
		out = append(out, jobMatchResponse{
			Rank:               match.Rank,
			Title:              match.Job.Title,
			Company:            match.Job.Company,
			Location:           match.Job.Location,
			DescriptionPreview: preview(match.Job.Description),
			JobDescription:     match.Job.Description,
			MatchSummary:       rt.explainer.Explain(r.Context(), match.Job, resume, match.Score),
		})
	}

	rt.metrics.RecordMatchRequest(rt.service, "jobs", string(backend), len(out), time.Since(start))
	writeJSON(w, http.StatusOK, matchEnvelope{
		Matches:      out,
		ModelUsed:    string(backend),
		TotalMatches: len(out),
	})
}

func (rt *Router) matchCandidates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	backend, topN, ok := rt.matchParams(w, r)
	if !ok {
		return
	}
	withFeedback := parseBool(r.URL.Query().Get("feedback"))

	text, ok := rt.extractUpload(w, r)
	if !ok {
		return
	}

	start := time.Now()
	job := usecase.ProcessJob(text)

	matches, outcome, err := rt.matcher.JobToCandidates(r.Context(), job, backend, topN)
	if err != nil {
		writeError(w, err)
		return
	}
	rt.metrics.RecordCategoryFilter(rt.service, string(outcome))

	out := make([]candidateMatchResponse, 0, len(matches))
	for _, match := range matches {
		entry := candidateMatchResponse{
			Rank:          match.Rank,
			CandidateID:   string(match.Resume.ID),
			Category:      match.Resume.Category,
			ResumePreview: preview(match.Resume.Text),
			ResumeText:    match.Resume.Text,
			MatchSummary:  rt.explainer.Explain(r.Context(), job, match.Resume, match.Score),
		}
		if withFeedback {
			feedback := usecase.Feedback(job, match.Resume, entry.MatchSummary.Score, usecase.DefaultFeedbackThreshold)
			entry.Feedback = &feedback
		}
		out = append(out, entry)
	}

	rt.metrics.RecordMatchRequest(rt.service, "candidates", string(backend), len(out), time.Since(start))
	writeJSON(w, http.StatusOK, matchEnvelope{
		Matches:      out,
		ModelUsed:    string(backend),
		TotalMatches: len(out),
	})
}

// matchParams validates the shared model and top_n query parameters.
func (rt *Router) matchParams(w http.ResponseWriter, r *http.Request) (domain.Backend, int, bool) {
	backend, err := domain.ParseBackend(r.URL.Query().Get("model"))
	if err != nil {
		writeError(w, err)
		return "", 0, false
	}

	topN := defaultTopN
	if raw := r.URL.Query().Get("top_n"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxTopN {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": fmt.Sprintf("top_n must be an integer between 1 and %d", maxTopN),
			})
			return "", 0, false
		}
		topN = n
	}
	return backend, topN, true
}

// extractUpload reads the multipart file field and extracts its text.
func (rt *Router) extractUpload(w http.ResponseWriter, r *http.Request) (string, bool) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return "", false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadLen))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "failed to read uploaded file"})
		return "", false
	}

	text, err := rt.extractor.Extract(r.Context(), header.Filename, data)
	if err != nil {
		writeError(w, err)
		return "", false
	}
	return text, true
}

func preview(text string) string {
	if len(text) <= previewChars {
		return text
	}
	return text[:previewChars] + "..."
}

func parseBool(raw string) bool {
	v, err := strconv.ParseBool(raw)
	return err == nil && v
}
