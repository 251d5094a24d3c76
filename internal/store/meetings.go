package store

import (
	"context"
	"fmt"
	"time"
)

// CreateMeeting inserts a calendar entry.
func (s *Store) CreateMeeting(ctx context.Context, meeting *Meeting) error {
	if meeting.Status == "" {
		meeting.Status = MeetingScheduled
	}
	if !meeting.Status.Valid() {
		return fmt.Errorf("%w: meeting status %q", ErrInvalidStatus, meeting.Status)
	}
	if meeting.EndTime.Before(meeting.StartTime.Time) {
		return fmt.Errorf("meeting ends before it starts")
	}
	if meeting.AttendeesJSON == "" {
		meeting.AttendeesJSON = "[]"
	}
	now := Now()
	meeting.CreatedAt = now
	meeting.UpdatedAt = now
	id, err := s.insert(ctx, `
		INSERT INTO meetings (title, description, meeting_type, start_time, end_time, location, assigned_to_id, created_by_id, client_id, lead_id, status, attendees_json, meeting_notes, follow_up_required, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		meeting.Title, meeting.Description, meeting.MeetingType, meeting.StartTime,
		meeting.EndTime, meeting.Location, meeting.AssignedToID, meeting.CreatedByID,
		meeting.ClientID, meeting.LeadID, meeting.Status, meeting.AttendeesJSON,
		meeting.MeetingNotes, meeting.FollowUpRequired, meeting.CreatedAt, meeting.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create meeting: %w", err)
	}
	meeting.ID = id
	return nil
}

// GetMeeting loads a meeting by id.
func (s *Store) GetMeeting(ctx context.Context, id int64) (*Meeting, error) {
	var meeting Meeting
	if err := s.get(ctx, &meeting, "SELECT * FROM meetings WHERE id = ?", id); err != nil {
		return nil, notFound(err)
	}
	return &meeting, nil
}

// MeetingFilter narrows ListMeetings.
type MeetingFilter struct {
	Status       MeetingStatus
	AssignedToID int64
	ClientID     int64
	From         time.Time
	To           time.Time
}

// ListMeetings returns meetings matching the filter ordered by start time.
func (s *Store) ListMeetings(ctx context.Context, filter MeetingFilter, page Page) ([]Meeting, error) {
	page = page.normalize()
	query := "SELECT * FROM meetings WHERE 1=1"
	args := []any{}
	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, filter.Status)
	}
	if filter.AssignedToID != 0 {
		query += " AND assigned_to_id = ?"
		args = append(args, filter.AssignedToID)
	}
	if filter.ClientID != 0 {
		query += " AND client_id = ?"
		args = append(args, filter.ClientID)
	}
	if !filter.From.IsZero() {
		query += " AND start_time >= ?"
		args = append(args, NewTime(filter.From))
	}
	if !filter.To.IsZero() {
		query += " AND start_time < ?"
		args = append(args, NewTime(filter.To))
	}
	query += " ORDER BY start_time, id LIMIT ? OFFSET ?"
	args = append(args, page.Limit, page.Offset)

	meetings := []Meeting{}
	if err := s.list(ctx, &meetings, query, args...); err != nil {
		return nil, fmt.Errorf("list meetings: %w", err)
	}
	return meetings, nil
}

// UpdateMeeting saves mutable meeting fields.
func (s *Store) UpdateMeeting(ctx context.Context, meeting *Meeting) error {
	if !meeting.Status.Valid() {
		return fmt.Errorf("%w: meeting status %q", ErrInvalidStatus, meeting.Status)
	}
	meeting.UpdatedAt = Now()
	affected, err := s.exec(ctx, `
		UPDATE meetings SET title = ?, description = ?, meeting_type = ?, start_time = ?, end_time = ?, location = ?, assigned_to_id = ?, client_id = ?, lead_id = ?, status = ?, attendees_json = ?, meeting_notes = ?, follow_up_required = ?, updated_at = ?
		WHERE id = ?`,
		meeting.Title, meeting.Description, meeting.MeetingType, meeting.StartTime,
		meeting.EndTime, meeting.Location, meeting.AssignedToID, meeting.ClientID,
		meeting.LeadID, meeting.Status, meeting.AttendeesJSON, meeting.MeetingNotes,
		meeting.FollowUpRequired, meeting.UpdatedAt, meeting.ID)
	if err != nil {
		return fmt.Errorf("update meeting: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteMeeting removes a meeting.
func (s *Store) DeleteMeeting(ctx context.Context, id int64) error {
	affected, err := s.exec(ctx, "DELETE FROM meetings WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete meeting: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// MeetingStats summarizes one employee's meetings over a period.
type MeetingStats struct {
	Scheduled int
	Completed int
	NoShow    int
}

// MeetingStatsForEmployee aggregates meeting counts for one assignee.
func (s *Store) MeetingStatsForEmployee(ctx context.Context, employeeID int64, start, end time.Time) (*MeetingStats, error) {
	row := struct {
		Scheduled int `db:"scheduled"`
		Completed int `db:"completed"`
		NoShow    int `db:"no_show"`
	}{}
	err := s.get(ctx, &row, `
		SELECT
			COUNT(1) AS scheduled,
			COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0) AS completed,
			COALESCE(SUM(CASE WHEN status = 'no_show' THEN 1 ELSE 0 END), 0) AS no_show
		FROM meetings
		WHERE assigned_to_id = ? AND start_time >= ? AND start_time < ?`,
		employeeID, NewTime(start), NewTime(end))
	if err != nil {
		return nil, fmt.Errorf("meeting stats: %w", err)
	}
	return &MeetingStats{Scheduled: row.Scheduled, Completed: row.Completed, NoShow: row.NoShow}, nil
}
