package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// AdminService handles back-office API calls. All endpoints require an
// account with the admin role; other callers get a 403.
type AdminService struct {
	client *Client
}

// StudentListOptions contains options for listing students
type StudentListOptions struct {
	ListOptions
	Class              *int    `json:"class,omitempty"`
	SubscriptionStatus *string `json:"subscriptionStatus,omitempty"`
}

// ListStudents retrieves registered students
func (s *AdminService) ListStudents(ctx context.Context, opts *StudentListOptions) ([]User, error) {
	query := url.Values{}

	if opts != nil {
		if opts.Page > 0 {
			query.Set("page", strconv.Itoa(opts.Page))
		}
		if opts.PageSize > 0 {
			query.Set("pageSize", strconv.Itoa(opts.PageSize))
		}
		if opts.Search != "" {
			query.Set("search", opts.Search)
		}
		if opts.Class != nil {
			query.Set("class", strconv.Itoa(*opts.Class))
		}
		if opts.SubscriptionStatus != nil {
			query.Set("subscriptionStatus", *opts.SubscriptionStatus)
		}
	}

	path := "/api/admin/students"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var students []User
	if err := s.client.doRequest(ctx, "GET", path, nil, &students); err != nil {
		return nil, err
	}
	return students, nil
}

// GetStudent retrieves a single student by UID
func (s *AdminService) GetStudent(ctx context.Context, uid string) (*User, error) {
	var student User
	path := fmt.Sprintf("/api/admin/students/%s", url.PathEscape(uid))
	if err := s.client.doRequest(ctx, "GET", path, nil, &student); err != nil {
		return nil, err
	}
	return &student, nil
}
