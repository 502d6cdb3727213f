// Package session is the single source of truth for who is logged in.
// It bridges the remote authentication API with the local credential
// store and exposes the login, signup, logout and profile-refresh
// operations behind an explicit state machine.
package session

import (
	"strings"
	"time"

	"github.com/brainac-app/brainac/pkg/client"
)

// Session is the in-memory representation of the authenticated student
// and their subscription metadata. Its JSON form is what gets persisted
// as the session-user-record entry.
type Session struct {
	UID                string     `json:"uid"`
	Email              string     `json:"email"`
	FirstName          string     `json:"firstName"`
	LastName           string     `json:"lastName"`
	Grade              int        `json:"grade"`
	SubscriptionStatus string     `json:"subscriptionStatus"`
	TrialEndsAt        *time.Time `json:"trialEndsAt,omitempty"`
	SubscriptionEndsAt *time.Time `json:"subscriptionEndsAt,omitempty"`
	CreatedAt          *time.Time `json:"createdAt,omitempty"`
	UpdatedAt          *time.Time `json:"updatedAt,omitempty"`
}

// FullName joins the name halves, tolerating an empty last name.
func (s *Session) FullName() string {
	if s.LastName == "" {
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}

// SplitDisplayName splits a combined display name on the first space.
// A single-word name yields an empty last name.
func SplitDisplayName(displayName string) (first, last string) {
	displayName = strings.TrimSpace(displayName)
	if i := strings.IndexByte(displayName, ' '); i >= 0 {
		return displayName[:i], strings.TrimSpace(displayName[i+1:])
	}
	return displayName, ""
}

// FromUser builds a Session from an API user record, splitting the
// display name into its halves.
func FromUser(u *client.User) Session {
	first, last := SplitDisplayName(u.DisplayName)
	return Session{
		UID:                u.UID,
		Email:              u.Email,
		FirstName:          first,
		LastName:           last,
		Grade:              u.Class,
		SubscriptionStatus: u.SubscriptionStatus,
		TrialEndsAt:        u.TrialEndDate,
		SubscriptionEndsAt: u.SubscriptionEndDate,
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
	}
}
