package client

import "context"

// Dashboard retrieves the student dashboard summary
func (c *Client) Dashboard(ctx context.Context) (*DashboardSummary, error) {
	var summary DashboardSummary
	if err := c.doRequest(ctx, "GET", "/api/dashboard", nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// ListSubjects returns the subjects available for the student's class
func (c *Client) ListSubjects(ctx context.Context) ([]Subject, error) {
	var subjects []Subject
	if err := c.doRequest(ctx, "GET", "/api/subjects", nil, &subjects); err != nil {
		return nil, err
	}
	return subjects, nil
}

// GetProgress returns the per-subject completion summary for the
// authenticated student
func (c *Client) GetProgress(ctx context.Context) ([]SubjectProgress, error) {
	var progress []SubjectProgress
	if err := c.doRequest(ctx, "GET", "/api/progress", nil, &progress); err != nil {
		return nil, err
	}
	return progress, nil
}

// ListAnnouncements returns dashboard announcements, newest first
func (c *Client) ListAnnouncements(ctx context.Context) ([]Announcement, error) {
	var announcements []Announcement
	if err := c.doRequest(ctx, "GET", "/api/announcements", nil, &announcements); err != nil {
		return nil, err
	}
	return announcements, nil
}
