package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"tushle/internal/logging"
	"tushle/internal/services/groq"
	"tushle/internal/store"
	"tushle/internal/trending"
)

// Trending.

func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	field := r.URL.Query().Get("field")
	result, err := s.aggregator.Trending(r.Context(), field)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleTrendingRefresh(w http.ResponseWriter, r *http.Request) {
	field := r.URL.Query().Get("field")
	result, err := s.aggregator.Refresh(r.Context(), field)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleTrendingSources(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"configured": s.cfg.Trending.Sources,
		"simulated":  trending.SimulatedSourceNames(),
	})
}

// Content posts.

type contentRequest struct {
	Title        string  `json:"title"`
	Content      string  `json:"content"`
	Platform     string  `json:"platform"`
	Status       string  `json:"status"`
	ScheduledFor *string `json:"scheduled_for"`
}

func (s *Server) handleListContent(w http.ResponseWriter, r *http.Request) {
	status := store.ContentStatus(trimLower(r.URL.Query().Get("status")))
	posts, err := s.store.ListContentPosts(r.Context(), status, queryPage(r))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"posts": posts})
}

func (s *Server) handleCreateContent(w http.ResponseWriter, r *http.Request) {
	var req contentRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		s.writeError(w, http.StatusBadRequest, "title required")
		return
	}
	scheduled, err := parseDate(req.ScheduledFor)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid scheduled_for")
		return
	}
	post := &store.ContentPost{
		Title:        strings.TrimSpace(req.Title),
		Content:      req.Content,
		Platform:     trimLower(req.Platform),
		Status:       store.ContentStatus(trimLower(req.Status)),
		ScheduledFor: scheduled,
	}
	if post.Status == "" && scheduled != nil {
		post.Status = store.ContentScheduled
	}
	if err := s.store.CreateContentPost(r.Context(), post); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, post)
}

func (s *Server) handleUpdateContent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	post, err := s.store.GetContentPost(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	var req contentRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Title != "" {
		post.Title = strings.TrimSpace(req.Title)
	}
	if req.Content != "" {
		post.Content = req.Content
	}
	if req.Platform != "" {
		post.Platform = trimLower(req.Platform)
	}
	if req.Status != "" {
		newStatus := store.ContentStatus(trimLower(req.Status))
		if newStatus == store.ContentPublished && post.Status != store.ContentPublished {
			now := store.Now()
			post.PublishedAt = &now
		}
		post.Status = newStatus
	}
	if req.ScheduledFor != nil {
		scheduled, err := parseDate(req.ScheduledFor)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid scheduled_for")
			return
		}
		post.ScheduledFor = scheduled
	}
	if err := s.store.UpdateContentPost(r.Context(), post); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, post)
}

// AI endpoints fall back to deterministic output when the LLM is
// unavailable, so they always answer.

type scriptRequest struct {
	Topic          string `json:"topic"`
	VideoStyle     string `json:"video_style"`
	TargetDuration int    `json:"target_duration"`
}

func (s *Server) handleListScripts(w http.ResponseWriter, r *http.Request) {
	scripts, err := s.store.ListAIScripts(r.Context(), queryPage(r))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"scripts": scripts})
}

func (s *Server) handleGenerateScript(w http.ResponseWriter, r *http.Request) {
	var req scriptRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.Topic = strings.TrimSpace(req.Topic)
	if req.Topic == "" {
		s.writeError(w, http.StatusBadRequest, "topic required")
		return
	}
	if req.VideoStyle == "" {
		req.VideoStyle = "engaging"
	}
	if req.TargetDuration <= 0 {
		req.TargetDuration = 60
	}

	generated := true
	content, err := s.llm.GenerateScript(r.Context(), req.Topic, req.VideoStyle, req.TargetDuration)
	if err != nil {
		if !errors.Is(err, groq.ErrNoAPIKey) {
			s.logger.Warn("script generation fell back", logging.Error(err))
		}
		content = groq.FallbackScript(req.Topic, req.VideoStyle, req.TargetDuration)
		generated = false
	}

	script := &store.AIScript{
		Topic:          req.Topic,
		ScriptContent:  content,
		VideoStyle:     req.VideoStyle,
		TargetDuration: req.TargetDuration,
	}
	if err := s.store.CreateAIScript(r.Context(), script); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]any{
		"script":       script,
		"ai_generated": generated,
	})
}

func (s *Server) handleExtractKeywords(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		s.writeError(w, http.StatusBadRequest, "text required")
		return
	}
	keywords, err := s.llm.ExtractKeywords(r.Context(), req.Text)
	if err != nil {
		keywords = groq.FallbackKeywords(req.Text)
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"keywords": keywords})
}

func (s *Server) handleAnalyzeTopic(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Topic string `json:"topic"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Topic) == "" {
		s.writeError(w, http.StatusBadRequest, "topic required")
		return
	}
	analysis, err := s.llm.AnalyzeTopic(r.Context(), req.Topic)
	if err != nil {
		analysis = groq.FallbackAnalysis(req.Topic)
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"analysis": analysis})
}

// Reports.

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	reportRows, err := s.store.ListReports(r.Context(), queryPage(r))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"reports": reportRows})
}

func (s *Server) handleBusinessReport(w http.ResponseWriter, r *http.Request) {
	me := currentUser(r.Context())

	summary, err := s.store.SummarizeRevenue(r.Context())
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	metrics := summaryText(summary)
	recommendations, err := s.llm.Recommendations(r.Context(), metrics)
	if err != nil {
		recommendations = groq.FallbackRecommendations()
	}

	report, err := s.reports.GenerateBusinessReport(r.Context(), me.Email, recommendations)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	if err := s.notifier.NotifyReportReady(r.Context(), report.Title, report.FilePath); err != nil {
		s.logger.Warn("report notification failed", "error", err)
	}
	s.writeJSON(w, http.StatusCreated, report)
}

func (s *Server) handleTrendingReport(w http.ResponseWriter, r *http.Request) {
	me := currentUser(r.Context())
	field := r.URL.Query().Get("field")

	result, err := s.aggregator.Trending(r.Context(), field)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	report, err := s.reports.GenerateTrendingReport(r.Context(), result, me.Email)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	if err := s.notifier.NotifyReportReady(r.Context(), report.Title, report.FilePath); err != nil {
		s.logger.Warn("report notification failed", "error", err)
	}
	s.writeJSON(w, http.StatusCreated, report)
}

func (s *Server) handleDownloadReport(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	report, err := s.store.GetReport(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	if report.Status != store.ReportCompleted || report.FilePath == "" {
		s.writeError(w, http.StatusConflict, "report not ready")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	http.ServeFile(w, r, report.FilePath)
}

// summaryText flattens revenue totals into the prose the LLM prompt expects.
func summaryText(summary *store.RevenueSummary) string {
	return fmt.Sprintf(
		"Total invoiced: $%.2f. Collected: $%.2f. Outstanding: $%.2f. Overdue: $%.2f. Invoices: %d.",
		float64(summary.TotalCents)/100,
		float64(summary.PaidCents)/100,
		float64(summary.OutstandingCents)/100,
		float64(summary.OverdueCents)/100,
		summary.InvoiceCount)
}

func (s *Server) handleTestNotification(w http.ResponseWriter, r *http.Request) {
	if err := s.notifier.TestNotification(r.Context()); err != nil {
		s.writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}
