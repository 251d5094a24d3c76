package server

import (
	"net/http"
	"strconv"
	"time"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.store.DashboardSnapshot(r.Context(), time.Now())
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) handleRevenueAnalytics(w http.ResponseWriter, r *http.Request) {
	months := 12
	if v, err := strconv.Atoi(r.URL.Query().Get("months")); err == nil && v > 0 {
		months = v
	}
	points, err := s.store.MonthlyRevenue(r.Context(), months)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	summary, err := s.store.SummarizeRevenue(r.Context())
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"summary": summary,
		"monthly": points,
	})
}

func (s *Server) handleLeadSources(w http.ResponseWriter, r *http.Request) {
	sources, err := s.store.LeadSources(r.Context())
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"sources": sources})
}

func (s *Server) handleListPerformance(w http.ResponseWriter, r *http.Request) {
	snaps, err := s.store.ListPerformanceSnapshots(r.Context(), queryInt64(r, "employee_id"), queryPage(r))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"snapshots": snaps})
}

func (s *Server) handleEmployeePerformance(w http.ResponseWriter, r *http.Request) {
	employeeID, err := pathID(r, "employee_id")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := s.store.GetUser(r.Context(), employeeID); err != nil {
		s.writeStoreError(w, err)
		return
	}
	snaps, err := s.store.ListPerformanceSnapshots(r.Context(), employeeID, queryPage(r))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"snapshots": snaps})
}
