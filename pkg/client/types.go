package client

import "time"

// Subscription status values the API reports on a user record.
const (
	SubscriptionTrial     = "trial"
	SubscriptionActive    = "active"
	SubscriptionExpired   = "expired"
	SubscriptionCancelled = "cancelled"
)

// User represents a Brainac account as returned by the API. Class is the
// grade level the student is enrolled in.
type User struct {
	UID                 string     `json:"uid"`
	Email               string     `json:"email"`
	DisplayName         string     `json:"displayName"`
	Class               int        `json:"class"`
	Role                string     `json:"role,omitempty"`
	SubscriptionStatus  string     `json:"subscriptionStatus"`
	TrialEndDate        *time.Time `json:"trialEndDate,omitempty"`
	SubscriptionEndDate *time.Time `json:"subscriptionEndDate,omitempty"`
	CreatedAt           *time.Time `json:"createdAt,omitempty"`
	UpdatedAt           *time.Time `json:"updatedAt,omitempty"`
}

// SubscriptionStatus is a point-in-time read of the caller's subscription
// state. It is never cached client-side; gating decisions fetch it fresh.
type SubscriptionStatus struct {
	IsExpired           bool       `json:"isExpired"`
	NeedsSubscription   bool       `json:"needsSubscription"`
	Status              string     `json:"status,omitempty"`
	TrialEndDate        *time.Time `json:"trialEndDate,omitempty"`
	SubscriptionEndDate *time.Time `json:"subscriptionEndDate,omitempty"`
}

// Plan represents a subscription plan shown on the upsell page
type Plan struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Currency    string   `json:"currency"`
	Interval    string   `json:"interval"`
	Features    []string `json:"features,omitempty"`
	IsPopular   bool     `json:"isPopular"`
	IsCurrent   bool     `json:"isCurrent"`
}

// Subject represents a course subject available for the student's class
type Subject struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Class        int     `json:"class"`
	ChapterCount int     `json:"chapterCount"`
	Progress     float64 `json:"progress"`
}

// SubjectProgress is the per-subject completion summary on the dashboard
type SubjectProgress struct {
	SubjectID      string  `json:"subjectId"`
	SubjectName    string  `json:"subjectName"`
	CompletedCount int     `json:"completedCount"`
	TotalCount     int     `json:"totalCount"`
	Percent        float64 `json:"percent"`
}

// DashboardSummary aggregates the student dashboard panels
type DashboardSummary struct {
	StreakDays   int               `json:"streakDays"`
	Points       int               `json:"points"`
	Rank         int               `json:"rank"`
	StudyMinutes int               `json:"studyMinutes"`
	Subjects     []SubjectProgress `json:"subjects,omitempty"`
}

// Announcement is a dashboard notice published by the back office
type Announcement struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

// ListOptions contains common options for list operations
type ListOptions struct {
	Page     int    `json:"page,omitempty"`
	PageSize int    `json:"pageSize,omitempty"`
	Search   string `json:"search,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Version   string    `json:"version,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
