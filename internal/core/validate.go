// Package core contains the business logic for taskwell: field validation
// and normalization, due-date urgency classification, and recurrence
// scheduling. Everything in this package is pure; the current time is always
// an explicit argument and no function reads the system clock.
package core

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/avierra/taskwell/pkg/models"
)

// Field limits for task attributes.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 1000
	MaxCategoryLength    = 50
)

// Validation errors. Each normalization failure maps to exactly one of
// these sentinels so callers can branch with errors.Is.
var (
	ErrEmptyTitle           = errors.New("title cannot be empty")
	ErrTitleTooLong         = errors.New("title exceeds maximum length of 200 characters")
	ErrDescriptionTooLong   = errors.New("description exceeds maximum length of 1000 characters")
	ErrInvalidPriority      = errors.New(`priority must be one of "high", "medium", "low"`)
	ErrEmptyCategory        = errors.New("category cannot be empty or whitespace")
	ErrCategoryTooLong      = errors.New("category exceeds maximum length of 50 characters")
	ErrInvalidCategoryChars = errors.New("category may only contain letters, digits, spaces, hyphens, and underscores")
	ErrInvalidDueDate       = errors.New("due date must be a valid date (YYYY-MM-DD, optionally with HH:MM)")
	ErrDueDateInPast        = errors.New("due date must be in the future")
	ErrInvalidRecurrence    = errors.New(`recurrence must be one of "daily", "weekly", "monthly"`)
)

// categoryPattern matches the characters permitted in a category name.
var categoryPattern = regexp.MustCompile(`^[A-Za-z0-9 _-]+$`)

// dueAtLayouts are the accepted due-date input layouts, tried in order.
var dueAtLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Fields carries raw task attribute values for creation or partial update.
// A nil member means the field was not provided and must be left untouched.
type Fields struct {
	Title       *string
	Description *string
	Priority    *string
	Category    *string
	DueAt       *string
	Recurrence  *string
}

// NormalizeTitle trims surrounding whitespace and enforces the title
// constraints. The returned title is the trimmed value.
func NormalizeTitle(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrEmptyTitle
	}
	if len([]rune(trimmed)) > MaxTitleLength {
		return "", ErrTitleTooLong
	}
	return trimmed, nil
}

// NormalizeDescription enforces the description length limit. Empty input
// is allowed and returned unchanged.
func NormalizeDescription(raw string) (string, error) {
	if len([]rune(raw)) > MaxDescriptionLength {
		return "", ErrDescriptionTooLong
	}
	return raw, nil
}

// NormalizePriority validates a raw priority value. The match is
// case-sensitive; "High" is rejected.
func NormalizePriority(raw string) (models.Priority, error) {
	switch models.Priority(raw) {
	case models.PriorityHigh, models.PriorityMedium, models.PriorityLow:
		return models.Priority(raw), nil
	}
	return "", ErrInvalidPriority
}

// NormalizeCategory trims surrounding whitespace and enforces the category
// constraints: non-empty after trimming, at most 50 characters, and drawn
// from letters, digits, spaces, hyphens, and underscores.
func NormalizeCategory(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrEmptyCategory
	}
	if len([]rune(trimmed)) > MaxCategoryLength {
		return "", ErrCategoryTooLong
	}
	if !categoryPattern.MatchString(trimmed) {
		return "", ErrInvalidCategoryChars
	}
	return trimmed, nil
}

// NormalizeDueAt parses a raw due-date string and checks it against now.
// A due date equal to or earlier than now is rejected.
func NormalizeDueAt(raw string, now time.Time) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	for _, layout := range dueAtLayouts {
		parsed, err := time.ParseInLocation(layout, trimmed, now.Location())
		if err != nil {
			continue
		}
		if !parsed.After(now) {
			return time.Time{}, ErrDueDateInPast
		}
		return parsed, nil
	}
	return time.Time{}, ErrInvalidDueDate
}

// NormalizeRecurrence validates a raw recurrence rule.
func NormalizeRecurrence(raw string) (models.Recurrence, error) {
	switch models.Recurrence(raw) {
	case models.RecurDaily, models.RecurWeekly, models.RecurMonthly:
		return models.Recurrence(raw), nil
	}
	return "", ErrInvalidRecurrence
}
