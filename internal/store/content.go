package store

import (
	"context"
	"fmt"
)

// CreateContentPost inserts a social post.
func (s *Store) CreateContentPost(ctx context.Context, post *ContentPost) error {
	if post.Status == "" {
		post.Status = ContentDraft
	}
	if !post.Status.Valid() {
		return fmt.Errorf("%w: content status %q", ErrInvalidStatus, post.Status)
	}
	if post.EngagementJSON == "" {
		post.EngagementJSON = "{}"
	}
	post.CreatedAt = Now()
	id, err := s.insert(ctx, `
		INSERT INTO content_posts (title, content, platform, status, scheduled_for, published_at, engagement_json, ai_generated, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		post.Title, post.Content, post.Platform, post.Status, post.ScheduledFor,
		post.PublishedAt, post.EngagementJSON, post.AIGenerated, post.CreatedAt)
	if err != nil {
		return fmt.Errorf("create content post: %w", err)
	}
	post.ID = id
	return nil
}

// GetContentPost loads a post by id.
func (s *Store) GetContentPost(ctx context.Context, id int64) (*ContentPost, error) {
	var post ContentPost
	if err := s.get(ctx, &post, "SELECT * FROM content_posts WHERE id = ?", id); err != nil {
		return nil, notFound(err)
	}
	return &post, nil
}

// ListContentPosts returns posts, optionally filtered by status, newest first.
func (s *Store) ListContentPosts(ctx context.Context, status ContentStatus, page Page) ([]ContentPost, error) {
	page = page.normalize()
	query := "SELECT * FROM content_posts WHERE 1=1"
	args := []any{}
	if status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, page.Limit, page.Offset)

	posts := []ContentPost{}
	if err := s.list(ctx, &posts, query, args...); err != nil {
		return nil, fmt.Errorf("list content posts: %w", err)
	}
	return posts, nil
}

// UpdateContentPost saves mutable post fields.
func (s *Store) UpdateContentPost(ctx context.Context, post *ContentPost) error {
	if !post.Status.Valid() {
		return fmt.Errorf("%w: content status %q", ErrInvalidStatus, post.Status)
	}
	affected, err := s.exec(ctx, `
		UPDATE content_posts SET title = ?, content = ?, platform = ?, status = ?, scheduled_for = ?, published_at = ?, engagement_json = ?
		WHERE id = ?`,
		post.Title, post.Content, post.Platform, post.Status, post.ScheduledFor,
		post.PublishedAt, post.EngagementJSON, post.ID)
	if err != nil {
		return fmt.Errorf("update content post: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateAIScript stores a generated video script.
func (s *Store) CreateAIScript(ctx context.Context, script *AIScript) error {
	if script.Status == "" {
		script.Status = "draft"
	}
	if script.MetadataJSON == "" {
		script.MetadataJSON = "{}"
	}
	script.CreatedAt = Now()
	id, err := s.insert(ctx, `
		INSERT INTO ai_scripts (topic, script_content, video_style, target_duration, status, metadata_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		script.Topic, script.ScriptContent, script.VideoStyle, script.TargetDuration,
		script.Status, script.MetadataJSON, script.CreatedAt)
	if err != nil {
		return fmt.Errorf("create ai script: %w", err)
	}
	script.ID = id
	return nil
}

// ListAIScripts returns stored scripts, newest first.
func (s *Store) ListAIScripts(ctx context.Context, page Page) ([]AIScript, error) {
	page = page.normalize()
	scripts := []AIScript{}
	err := s.list(ctx, &scripts,
		"SELECT * FROM ai_scripts ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?",
		page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("list ai scripts: %w", err)
	}
	return scripts, nil
}

// CreateReport records a report row, normally in generating status.
func (s *Store) CreateReport(ctx context.Context, report *Report) error {
	if report.Status == "" {
		report.Status = ReportGenerating
	}
	if report.DataJSON == "" {
		report.DataJSON = "{}"
	}
	report.CreatedAt = Now()
	id, err := s.insert(ctx, `
		INSERT INTO reports (title, report_type, client_id, data_json, file_path, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		report.Title, report.ReportType, report.ClientID, report.DataJSON,
		report.FilePath, report.Status, report.CreatedAt)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	report.ID = id
	return nil
}

// GetReport loads a report by id.
func (s *Store) GetReport(ctx context.Context, id int64) (*Report, error) {
	var report Report
	if err := s.get(ctx, &report, "SELECT * FROM reports WHERE id = ?", id); err != nil {
		return nil, notFound(err)
	}
	return &report, nil
}

// ListReports returns reports, newest first.
func (s *Store) ListReports(ctx context.Context, page Page) ([]Report, error) {
	page = page.normalize()
	reports := []Report{}
	err := s.list(ctx, &reports,
		"SELECT * FROM reports ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?",
		page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return reports, nil
}

// FinishReport marks generation complete or failed and records the file.
func (s *Store) FinishReport(ctx context.Context, id int64, status ReportStatus, filePath, dataJSON string) error {
	affected, err := s.exec(ctx,
		"UPDATE reports SET status = ?, file_path = ?, data_json = ? WHERE id = ?",
		status, filePath, dataJSON, id)
	if err != nil {
		return fmt.Errorf("finish report: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
