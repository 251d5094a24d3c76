package server

import (
	"net/http"
	"strings"
	"time"

	"tushle/internal/store"
)

// Tasks.

type taskRequest struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	TaskType       string   `json:"task_type"`
	Status         string   `json:"status"`
	Priority       string   `json:"priority"`
	DueDate        *string  `json:"due_date"`
	AssignedToID   *int64   `json:"assigned_to_id"`
	ClientID       *int64   `json:"client_id"`
	EstimatedHours *float64 `json:"estimated_hours"`
	ActualHours    *float64 `json:"actual_hours"`
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	filter := store.TaskFilter{
		Status:       store.TaskStatus(trimLower(r.URL.Query().Get("status"))),
		Priority:     store.Priority(trimLower(r.URL.Query().Get("priority"))),
		AssignedToID: queryInt64(r, "assigned_to_id"),
		ClientID:     queryInt64(r, "client_id"),
	}
	tasks, err := s.store.ListTasks(r.Context(), filter, queryPage(r))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		s.writeError(w, http.StatusBadRequest, "title required")
		return
	}
	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid due_date")
		return
	}
	me := currentUser(r.Context())
	task := &store.Task{
		Title:        strings.TrimSpace(req.Title),
		Description:  strings.TrimSpace(req.Description),
		TaskType:     trimLower(req.TaskType),
		Status:       store.TaskStatus(trimLower(req.Status)),
		Priority:     store.Priority(trimLower(req.Priority)),
		DueDate:      dueDate,
		AssignedToID: req.AssignedToID,
		CreatedByID:  &me.ID,
		ClientID:     req.ClientID,
	}
	if req.EstimatedHours != nil {
		task.EstimatedHours = *req.EstimatedHours
	}
	if err := s.store.CreateTask(r.Context(), task); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, task)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	task, err := s.store.GetTask(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	task, err := s.store.GetTask(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	var req taskRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Title != "" {
		task.Title = strings.TrimSpace(req.Title)
	}
	if req.Description != "" {
		task.Description = strings.TrimSpace(req.Description)
	}
	if req.TaskType != "" {
		task.TaskType = trimLower(req.TaskType)
	}
	if req.Status != "" {
		task.Status = store.TaskStatus(trimLower(req.Status))
	}
	if req.Priority != "" {
		task.Priority = store.Priority(trimLower(req.Priority))
	}
	if req.DueDate != nil {
		dueDate, err := parseDate(req.DueDate)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid due_date")
			return
		}
		task.DueDate = dueDate
	}
	if req.AssignedToID != nil {
		task.AssignedToID = req.AssignedToID
	}
	if req.ClientID != nil {
		task.ClientID = req.ClientID
	}
	if req.EstimatedHours != nil {
		task.EstimatedHours = *req.EstimatedHours
	}
	if req.ActualHours != nil {
		task.ActualHours = *req.ActualHours
	}
	if err := s.store.UpdateTask(r.Context(), task); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.DeleteTask(r.Context(), id); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Meetings.

type meetingRequest struct {
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	MeetingType      string  `json:"meeting_type"`
	StartTime        string  `json:"start_time"`
	EndTime          string  `json:"end_time"`
	Location         string  `json:"location"`
	AssignedToID     *int64  `json:"assigned_to_id"`
	ClientID         *int64  `json:"client_id"`
	LeadID           *int64  `json:"lead_id"`
	Status           string  `json:"status"`
	MeetingNotes     string  `json:"meeting_notes"`
	FollowUpRequired *bool   `json:"follow_up_required"`
	Attendees        []string `json:"attendees"`
}

func (s *Server) handleListMeetings(w http.ResponseWriter, r *http.Request) {
	filter := store.MeetingFilter{
		Status:       store.MeetingStatus(trimLower(r.URL.Query().Get("status"))),
		AssignedToID: queryInt64(r, "assigned_to_id"),
		ClientID:     queryInt64(r, "client_id"),
	}
	if from := r.URL.Query().Get("from"); from != "" {
		if parsed, err := time.Parse(time.RFC3339, from); err == nil {
			filter.From = parsed
		}
	}
	if to := r.URL.Query().Get("to"); to != "" {
		if parsed, err := time.Parse(time.RFC3339, to); err == nil {
			filter.To = parsed
		}
	}
	meetings, err := s.store.ListMeetings(r.Context(), filter, queryPage(r))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"meetings": meetings})
}

func (s *Server) handleCreateMeeting(w http.ResponseWriter, r *http.Request) {
	var req meetingRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		s.writeError(w, http.StatusBadRequest, "title required")
		return
	}
	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid start_time")
		return
	}
	end, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid end_time")
		return
	}
	me := currentUser(r.Context())
	meeting := &store.Meeting{
		Title:        strings.TrimSpace(req.Title),
		Description:  strings.TrimSpace(req.Description),
		MeetingType:  trimLower(req.MeetingType),
		StartTime:    store.NewTime(start),
		EndTime:      store.NewTime(end),
		Location:     strings.TrimSpace(req.Location),
		AssignedToID: req.AssignedToID,
		CreatedByID:  &me.ID,
		ClientID:     req.ClientID,
		LeadID:       req.LeadID,
		Status:       store.MeetingStatus(trimLower(req.Status)),
		MeetingNotes: strings.TrimSpace(req.MeetingNotes),
	}
	if meeting.MeetingType == "" {
		meeting.MeetingType = "general"
	}
	if len(req.Attendees) > 0 {
		meeting.AttendeesJSON = encodeStrings(req.Attendees)
	}
	if err := s.store.CreateMeeting(r.Context(), meeting); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, meeting)
}

func (s *Server) handleGetMeeting(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	meeting, err := s.store.GetMeeting(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, meeting)
}

func (s *Server) handleUpdateMeeting(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	meeting, err := s.store.GetMeeting(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	var req meetingRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Title != "" {
		meeting.Title = strings.TrimSpace(req.Title)
	}
	if req.Description != "" {
		meeting.Description = strings.TrimSpace(req.Description)
	}
	if req.StartTime != "" {
		start, err := time.Parse(time.RFC3339, req.StartTime)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid start_time")
			return
		}
		meeting.StartTime = store.NewTime(start)
	}
	if req.EndTime != "" {
		end, err := time.Parse(time.RFC3339, req.EndTime)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid end_time")
			return
		}
		meeting.EndTime = store.NewTime(end)
	}
	if req.Location != "" {
		meeting.Location = strings.TrimSpace(req.Location)
	}
	if req.Status != "" {
		meeting.Status = store.MeetingStatus(trimLower(req.Status))
	}
	if req.MeetingNotes != "" {
		meeting.MeetingNotes = strings.TrimSpace(req.MeetingNotes)
	}
	if req.FollowUpRequired != nil {
		meeting.FollowUpRequired = *req.FollowUpRequired
	}
	if req.AssignedToID != nil {
		meeting.AssignedToID = req.AssignedToID
	}
	if len(req.Attendees) > 0 {
		meeting.AttendeesJSON = encodeStrings(req.Attendees)
	}
	if err := s.store.UpdateMeeting(r.Context(), meeting); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, meeting)
}

func (s *Server) handleDeleteMeeting(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.DeleteMeeting(r.Context(), id); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
