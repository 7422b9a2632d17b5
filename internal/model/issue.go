package model

import (
	"fmt"
	"time"
)

// IssueType classifies a user report.
type IssueType string

const (
	IssueBug     IssueType = "BUG"
	IssueFeature IssueType = "FEATURE"
	IssueContent IssueType = "CONTENT"
	IssueOther   IssueType = "OTHER"
)

// ParseIssueType matches the enum value exactly.
func ParseIssueType(s string) (IssueType, error) {
	switch t := IssueType(s); t {
	case IssueBug, IssueFeature, IssueContent, IssueOther:
		return t, nil
	}
	return "", fmt.Errorf("invalid issue type %q", s)
}

// IssueStatus tracks triage progress.
type IssueStatus string

const (
	IssueOpen       IssueStatus = "OPEN"
	IssueInProgress IssueStatus = "IN_PROGRESS"
	IssueFixed      IssueStatus = "FIXED"
	IssueWontFix    IssueStatus = "WONT_FIX"
)

// ParseIssueStatus matches the enum value exactly.
func ParseIssueStatus(s string) (IssueStatus, error) {
	switch st := IssueStatus(s); st {
	case IssueOpen, IssueInProgress, IssueFixed, IssueWontFix:
		return st, nil
	}
	return "", fmt.Errorf("invalid issue status %q", s)
}

// Issue is an anonymous bug, feature or content report.
type Issue struct {
	ID            int64       `json:"id"`
	Type          IssueType   `json:"type"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	PageURL       *string     `json:"page_url"`
	Email         *string     `json:"email"`
	ScreenshotURL *string     `json:"screenshot_url"`
	UserID        *int64      `json:"user_id"`
	UserAgent     *string     `json:"user_agent"`
	Status        IssueStatus `json:"status"`
	AdminNotes    *string     `json:"admin_notes"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}
