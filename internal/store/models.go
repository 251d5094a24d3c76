package store

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// Time stores timestamps as RFC 3339 text under SQLite while scanning
// natively under Postgres. The zero value marshals as an empty string.
type Time struct {
	time.Time
}

// Now returns the current UTC instant truncated to microseconds, which both
// backends round-trip losslessly.
func Now() Time {
	return Time{Time: time.Now().UTC().Truncate(time.Microsecond)}
}

// NewTime wraps a time.Time for storage.
func NewTime(t time.Time) Time {
	return Time{Time: t.UTC()}
}

// Scan implements sql.Scanner.
func (t *Time) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time = time.Time{}
		return nil
	case time.Time:
		t.Time = v.UTC()
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	default:
		return fmt.Errorf("scan Time: unsupported type %T", src)
	}
}

func (t *Time) parse(s string) error {
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("scan Time: %w", err)
	}
	t.Time = parsed.UTC()
	return nil
}

// Value implements driver.Valuer.
func (t Time) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return t.UTC().Format(time.RFC3339Nano), nil
}

// MarshalJSON renders RFC 3339 or null for the zero value.
func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return t.Time.UTC().MarshalJSON()
}

// UnmarshalJSON accepts RFC 3339 or null.
func (t *Time) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		t.Time = time.Time{}
		return nil
	}
	return t.Time.UnmarshalJSON(data)
}

// Role identifies a user's access level.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// Valid reports whether the role is one of the known levels.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// User is an operator account. Passwords are stored as bcrypt hashes and
// never leave the store layer.
type User struct {
	ID             int64  `db:"id" json:"id"`
	Email          string `db:"email" json:"email"`
	HashedPassword string `db:"hashed_password" json:"-"`
	FullName       string `db:"full_name" json:"full_name"`
	Role           Role   `db:"role" json:"role"`
	IsActive       bool   `db:"is_active" json:"is_active"`
	CreatedAt      Time   `db:"created_at" json:"created_at"`
	UpdatedAt      Time   `db:"updated_at" json:"updated_at"`
}

// ClientStatus tracks where a client sits in its lifecycle.
type ClientStatus string

const (
	ClientPending  ClientStatus = "pending"
	ClientActive   ClientStatus = "active"
	ClientInactive ClientStatus = "inactive"
	ClientChurned  ClientStatus = "churned"
)

func (s ClientStatus) Valid() bool {
	switch s {
	case ClientPending, ClientActive, ClientInactive, ClientChurned:
		return true
	}
	return false
}

// Client is a paying customer owned by a user.
type Client struct {
	ID              int64        `db:"id" json:"id"`
	Name            string       `db:"name" json:"name"`
	Email           string       `db:"email" json:"email"`
	Phone           string       `db:"phone" json:"phone"`
	Company         string       `db:"company" json:"company"`
	Status          ClientStatus `db:"status" json:"status"`
	OnboardingStage string       `db:"onboarding_stage" json:"onboarding_stage"`
	OwnerID         int64        `db:"owner_id" json:"owner_id"`
	CreatedAt       Time         `db:"created_at" json:"created_at"`
	UpdatedAt       Time         `db:"updated_at" json:"updated_at"`
}

// InvoiceStatus tracks billing progress.
type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "draft"
	InvoiceSent      InvoiceStatus = "sent"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceOverdue   InvoiceStatus = "overdue"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceDraft, InvoiceSent, InvoicePaid, InvoiceOverdue, InvoiceCancelled:
		return true
	}
	return false
}

// Invoice bills a client. Amounts are integer cents to avoid float drift.
type Invoice struct {
	ID            int64         `db:"id" json:"id"`
	InvoiceNumber string        `db:"invoice_number" json:"invoice_number"`
	ClientID      int64         `db:"client_id" json:"client_id"`
	UserID        int64         `db:"user_id" json:"user_id"`
	AmountCents   int64         `db:"amount_cents" json:"amount_cents"`
	Status        InvoiceStatus `db:"status" json:"status"`
	DueDate       *Time         `db:"due_date" json:"due_date"`
	PaidDate      *Time         `db:"paid_date" json:"paid_date"`
	Description   string        `db:"description" json:"description"`
	CreatedAt     Time          `db:"created_at" json:"created_at"`
	UpdatedAt     Time          `db:"updated_at" json:"updated_at"`
}

// LeadStatus tracks a prospect through the pipeline.
type LeadStatus string

const (
	LeadNew        LeadStatus = "new"
	LeadContacted  LeadStatus = "contacted"
	LeadQualified  LeadStatus = "qualified"
	LeadProposal   LeadStatus = "proposal"
	LeadClosedWon  LeadStatus = "closed_won"
	LeadClosedLost LeadStatus = "closed_lost"
	LeadConverted  LeadStatus = "converted"
)

func (s LeadStatus) Valid() bool {
	switch s {
	case LeadNew, LeadContacted, LeadQualified, LeadProposal,
		LeadClosedWon, LeadClosedLost, LeadConverted:
		return true
	}
	return false
}

// Priority is shared by leads and tasks.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Lead is a sales prospect. A closed_won lead can be converted into an
// active client exactly once.
type Lead struct {
	ID                  int64      `db:"id" json:"id"`
	Name                string     `db:"name" json:"name"`
	Email               string     `db:"email" json:"email"`
	Phone               string     `db:"phone" json:"phone"`
	Company             string     `db:"company" json:"company"`
	Source              string     `db:"source" json:"source"`
	Status              LeadStatus `db:"status" json:"status"`
	Priority            Priority   `db:"priority" json:"priority"`
	AssignedToID        *int64     `db:"assigned_to_id" json:"assigned_to_id"`
	CreatedByID         *int64     `db:"created_by_id" json:"created_by_id"`
	EstimatedValueCents int64      `db:"estimated_value_cents" json:"estimated_value_cents"`
	Notes               string     `db:"notes" json:"notes"`
	LastContactDate     *Time      `db:"last_contact_date" json:"last_contact_date"`
	NextFollowUpDate    *Time      `db:"next_follow_up_date" json:"next_follow_up_date"`
	CreatedAt           Time       `db:"created_at" json:"created_at"`
	UpdatedAt           Time       `db:"updated_at" json:"updated_at"`
}

// TaskStatus tracks execution of a work item.
type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in_progress"
	TaskReview     TaskStatus = "review"
	TaskCompleted  TaskStatus = "completed"
	TaskCancelled  TaskStatus = "cancelled"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskTodo, TaskInProgress, TaskReview, TaskCompleted, TaskCancelled:
		return true
	}
	return false
}

// Task is a unit of work assigned to a user, optionally tied to a client.
type Task struct {
	ID             int64      `db:"id" json:"id"`
	Title          string     `db:"title" json:"title"`
	Description    string     `db:"description" json:"description"`
	TaskType       string     `db:"task_type" json:"task_type"`
	Status         TaskStatus `db:"status" json:"status"`
	Priority       Priority   `db:"priority" json:"priority"`
	DueDate        *Time      `db:"due_date" json:"due_date"`
	AssignedToID   *int64     `db:"assigned_to_id" json:"assigned_to_id"`
	CreatedByID    *int64     `db:"created_by_id" json:"created_by_id"`
	ClientID       *int64     `db:"client_id" json:"client_id"`
	EstimatedHours float64    `db:"estimated_hours" json:"estimated_hours"`
	ActualHours    float64    `db:"actual_hours" json:"actual_hours"`
	MetadataJSON   string     `db:"metadata_json" json:"metadata_json"`
	CreatedAt      Time       `db:"created_at" json:"created_at"`
	UpdatedAt      Time       `db:"updated_at" json:"updated_at"`
}

// MeetingStatus tracks the outcome of a scheduled meeting.
type MeetingStatus string

const (
	MeetingScheduled MeetingStatus = "scheduled"
	MeetingCompleted MeetingStatus = "completed"
	MeetingCancelled MeetingStatus = "cancelled"
	MeetingNoShow    MeetingStatus = "no_show"
)

func (s MeetingStatus) Valid() bool {
	switch s {
	case MeetingScheduled, MeetingCompleted, MeetingCancelled, MeetingNoShow:
		return true
	}
	return false
}

// Meeting is a calendar entry linked to a client or a lead.
type Meeting struct {
	ID               int64         `db:"id" json:"id"`
	Title            string        `db:"title" json:"title"`
	Description      string        `db:"description" json:"description"`
	MeetingType      string        `db:"meeting_type" json:"meeting_type"`
	StartTime        Time          `db:"start_time" json:"start_time"`
	EndTime          Time          `db:"end_time" json:"end_time"`
	Location         string        `db:"location" json:"location"`
	AssignedToID     *int64        `db:"assigned_to_id" json:"assigned_to_id"`
	CreatedByID      *int64        `db:"created_by_id" json:"created_by_id"`
	ClientID         *int64        `db:"client_id" json:"client_id"`
	LeadID           *int64        `db:"lead_id" json:"lead_id"`
	Status           MeetingStatus `db:"status" json:"status"`
	AttendeesJSON    string        `db:"attendees_json" json:"attendees_json"`
	MeetingNotes     string        `db:"meeting_notes" json:"meeting_notes"`
	FollowUpRequired bool          `db:"follow_up_required" json:"follow_up_required"`
	CreatedAt        Time          `db:"created_at" json:"created_at"`
	UpdatedAt        Time          `db:"updated_at" json:"updated_at"`
}

// ContentStatus tracks a social post through publication.
type ContentStatus string

const (
	ContentDraft     ContentStatus = "draft"
	ContentScheduled ContentStatus = "scheduled"
	ContentPublished ContentStatus = "published"
	ContentFailed    ContentStatus = "failed"
)

func (s ContentStatus) Valid() bool {
	switch s {
	case ContentDraft, ContentScheduled, ContentPublished, ContentFailed:
		return true
	}
	return false
}

// ContentPost is a social media post, possibly AI generated.
type ContentPost struct {
	ID             int64         `db:"id" json:"id"`
	Title          string        `db:"title" json:"title"`
	Content        string        `db:"content" json:"content"`
	Platform       string        `db:"platform" json:"platform"`
	Status         ContentStatus `db:"status" json:"status"`
	ScheduledFor   *Time         `db:"scheduled_for" json:"scheduled_for"`
	PublishedAt    *Time         `db:"published_at" json:"published_at"`
	EngagementJSON string        `db:"engagement_json" json:"engagement_json"`
	AIGenerated    bool          `db:"ai_generated" json:"ai_generated"`
	CreatedAt      Time          `db:"created_at" json:"created_at"`
}

// AIScript is a generated video script kept for later editing.
type AIScript struct {
	ID             int64  `db:"id" json:"id"`
	Topic          string `db:"topic" json:"topic"`
	ScriptContent  string `db:"script_content" json:"script_content"`
	VideoStyle     string `db:"video_style" json:"video_style"`
	TargetDuration int    `db:"target_duration" json:"target_duration"`
	Status         string `db:"status" json:"status"`
	MetadataJSON   string `db:"metadata_json" json:"metadata_json"`
	CreatedAt      Time   `db:"created_at" json:"created_at"`
}

// ReportStatus tracks asynchronous report generation.
type ReportStatus string

const (
	ReportGenerating ReportStatus = "generating"
	ReportCompleted  ReportStatus = "completed"
	ReportFailed     ReportStatus = "failed"
)

// Report records a generated PDF and the data behind it.
type Report struct {
	ID         int64        `db:"id" json:"id"`
	Title      string       `db:"title" json:"title"`
	ReportType string       `db:"report_type" json:"report_type"`
	ClientID   *int64       `db:"client_id" json:"client_id"`
	DataJSON   string       `db:"data_json" json:"data_json"`
	FilePath   string       `db:"file_path" json:"file_path"`
	Status     ReportStatus `db:"status" json:"status"`
	CreatedAt  Time         `db:"created_at" json:"created_at"`
}

// PortalSubmission is a project request filed by a client through the
// public portal.
type PortalSubmission struct {
	ID                     int64  `db:"id" json:"id"`
	ClientID               int64  `db:"client_id" json:"client_id"`
	ProjectRequirements    string `db:"project_requirements" json:"project_requirements"`
	BudgetRange            string `db:"budget_range" json:"budget_range"`
	Timeline               string `db:"timeline" json:"timeline"`
	AdditionalInfo         string `db:"additional_info" json:"additional_info"`
	PreferredContactMethod string `db:"preferred_contact_method" json:"preferred_contact_method"`
	UrgencyLevel           string `db:"urgency_level" json:"urgency_level"`
	Status                 string `db:"status" json:"status"`
	CreatedAt              Time   `db:"created_at" json:"created_at"`
	UpdatedAt              Time   `db:"updated_at" json:"updated_at"`
}

// EmployeePerformance is a monthly snapshot of one employee's metrics with
// the weighted score and rating band computed at snapshot time.
type EmployeePerformance struct {
	ID                      int64   `db:"id" json:"id"`
	EmployeeID              int64   `db:"employee_id" json:"employee_id"`
	PeriodStart             Time    `db:"period_start" json:"period_start"`
	PeriodEnd               Time    `db:"period_end" json:"period_end"`
	TotalTasksAssigned      int     `db:"total_tasks_assigned" json:"total_tasks_assigned"`
	TasksCompleted          int     `db:"tasks_completed" json:"tasks_completed"`
	TasksOverdue            int     `db:"tasks_overdue" json:"tasks_overdue"`
	AvgTaskCompletionHours  float64 `db:"avg_task_completion_hours" json:"avg_task_completion_hours"`
	TotalEstimatedHours     float64 `db:"total_estimated_hours" json:"total_estimated_hours"`
	TotalActualHours        float64 `db:"total_actual_hours" json:"total_actual_hours"`
	LeadsAssigned           int     `db:"leads_assigned" json:"leads_assigned"`
	LeadsContacted          int     `db:"leads_contacted" json:"leads_contacted"`
	LeadsQualified          int     `db:"leads_qualified" json:"leads_qualified"`
	LeadsConverted          int     `db:"leads_converted" json:"leads_converted"`
	TotalEstimatedDealCents int64   `db:"total_estimated_deal_cents" json:"total_estimated_deal_cents"`
	TotalActualDealCents    int64   `db:"total_actual_deal_cents" json:"total_actual_deal_cents"`
	MeetingsScheduled       int     `db:"meetings_scheduled" json:"meetings_scheduled"`
	MeetingsCompleted       int     `db:"meetings_completed" json:"meetings_completed"`
	MeetingsNoShow          int     `db:"meetings_no_show" json:"meetings_no_show"`
	ClientsManaged          int     `db:"clients_managed" json:"clients_managed"`
	PerformanceScore        float64 `db:"performance_score" json:"performance_score"`
	Rating                  string  `db:"rating" json:"rating"`
	CreatedAt               Time    `db:"created_at" json:"created_at"`
}

// Page bounds list queries.
type Page struct {
	Limit  int
	Offset int
}

func (p Page) normalize() Page {
	if p.Limit <= 0 || p.Limit > 500 {
		p.Limit = 100
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
