package domain

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// Status is the lifecycle state of a reminder. Scheduled is the initial
// state; Completed and Failed are terminal and only ever set by the server.
type Status string

const (
	StatusScheduled Status = "Scheduled"
	StatusCompleted Status = "Completed"
	StatusFailed    Status = "Failed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// Terminal reports whether no further transition is expected client-side.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// StatusFilter is a Status or the pseudo-value "all" (no filtering).
type StatusFilter string

const StatusFilterAll StatusFilter = "all"

func (f StatusFilter) Valid() bool {
	return f == "" || strings.EqualFold(string(f), string(StatusFilterAll)) || Status(f).Valid()
}

// All reports whether the filter selects every status.
func (f StatusFilter) All() bool {
	return f == "" || strings.EqualFold(string(f), string(StatusFilterAll))
}

// Reminder is the canonical client-side view of a server-owned reminder.
// ScheduledAt, CreatedAt and UpdatedAt are absolute UTC instants; Timezone is
// kept only to reconstruct the local wall-clock edit surface and is never
// used to reinterpret ScheduledAt.
type Reminder struct {
	ID          string
	Title       string
	Message     string
	Phone       string
	ScheduledAt time.Time
	Timezone    string
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
	LastError   string
}

// Due reports whether a scheduled reminder has reached its due instant.
func (r Reminder) Due(now time.Time) bool {
	return r.Status == StatusScheduled && !r.ScheduledAt.After(now)
}

// ListFilter selects a subset of reminders: an optional status and an
// optional free-text query matched against title and message.
type ListFilter struct {
	Status StatusFilter
	Query  string
}

// Normalize trims the query (whitespace-only means absent) and canonicalizes
// an empty status to "all".
func (f ListFilter) Normalize() ListFilter {
	f.Query = strings.TrimSpace(f.Query)
	if f.Status.All() {
		f.Status = StatusFilterAll
	}
	return f
}

// Matches applies the filter client-side, mirroring the server's semantics:
// exact status match and case-insensitive substring search over title and
// message.
func (f ListFilter) Matches(r Reminder) bool {
	f = f.Normalize()
	if !f.Status.All() && r.Status != Status(f.Status) {
		return false
	}
	if f.Query == "" {
		return true
	}
	q := strings.ToLower(f.Query)
	return strings.Contains(strings.ToLower(r.Title), q) ||
		strings.Contains(strings.ToLower(r.Message), q)
}

var phonePattern = regexp.MustCompile(`^\+?[1-9]\d{7,14}$`)

const (
	titleMinLen   = 2
	titleMaxLen   = 60
	messageMaxLen = 500
)

// NewReminder carries the user-supplied fields for a create operation.
// ScheduledAt must already be an absolute UTC instant (the wall-clock string
// it came from is ephemeral edit-surface state).
type NewReminder struct {
	Title       string
	Message     string
	Phone       string
	ScheduledAt time.Time
	Timezone    string
}

// Validate checks the schema constraints and the positive-lead-time rule
// before anything touches the network. It also trims title and message in
// place so the trimmed values are what gets sent.
func (n *NewReminder) Validate(now time.Time) error {
	n.Title = strings.TrimSpace(n.Title)
	n.Message = strings.TrimSpace(n.Message)
	n.Phone = strings.TrimSpace(n.Phone)

	if err := validateTitle(n.Title); err != nil {
		return err
	}
	if err := validateMessage(n.Message); err != nil {
		return err
	}
	if err := ValidatePhone(n.Phone); err != nil {
		return err
	}
	if err := validateTimezone(n.Timezone); err != nil {
		return err
	}
	if !n.ScheduledAt.After(now) {
		return &FieldError{Field: "scheduledAt", Message: "must be in the future"}
	}
	return nil
}

// Patch is a sparse update: nil means "leave unchanged", a set pointer means
// "replace with this value". Status and lastError are server-write-only and
// intentionally have no representation here.
type Patch struct {
	Title       *string
	Message     *string
	Phone       *string
	ScheduledAt *time.Time
	Timezone    *string
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Title == nil && p.Message == nil && p.Phone == nil &&
		p.ScheduledAt == nil && p.Timezone == nil
}

// Validate checks every supplied field, trimming strings in place.
func (p *Patch) Validate(now time.Time) error {
	if p.Title != nil {
		*p.Title = strings.TrimSpace(*p.Title)
		if err := validateTitle(*p.Title); err != nil {
			return err
		}
	}
	if p.Message != nil {
		*p.Message = strings.TrimSpace(*p.Message)
		if err := validateMessage(*p.Message); err != nil {
			return err
		}
	}
	if p.Phone != nil {
		*p.Phone = strings.TrimSpace(*p.Phone)
		if err := ValidatePhone(*p.Phone); err != nil {
			return err
		}
	}
	if p.Timezone != nil {
		if err := validateTimezone(*p.Timezone); err != nil {
			return err
		}
	}
	if p.ScheduledAt != nil && !p.ScheduledAt.After(now) {
		return &FieldError{Field: "scheduledAt", Message: "must be in the future"}
	}
	return nil
}

// Apply copies the patch's set fields onto a reminder.
func (p Patch) Apply(r *Reminder) {
	if p.Title != nil {
		r.Title = *p.Title
	}
	if p.Message != nil {
		r.Message = *p.Message
	}
	if p.Phone != nil {
		r.Phone = *p.Phone
	}
	if p.ScheduledAt != nil {
		r.ScheduledAt = p.ScheduledAt.UTC()
	}
	if p.Timezone != nil {
		r.Timezone = *p.Timezone
	}
}

// ValidatePhone checks the E.164-like constraint: optional +, 8-15 digits,
// first digit 1-9.
func ValidatePhone(phone string) error {
	if !phonePattern.MatchString(phone) {
		return &FieldError{Field: "phone", Message: "must be 8-15 digits with optional leading +, first digit 1-9"}
	}
	return nil
}

func validateTitle(title string) error {
	// Limits are in characters, so multibyte input is counted in runes.
	if n := utf8.RuneCountInString(title); n < titleMinLen || n > titleMaxLen {
		return &FieldError{Field: "title", Message: "must be 2-60 characters"}
	}
	return nil
}

func validateMessage(message string) error {
	if n := utf8.RuneCountInString(message); n == 0 || n > messageMaxLen {
		return &FieldError{Field: "message", Message: "must be 1-500 characters"}
	}
	return nil
}

func validateTimezone(tz string) error {
	if strings.TrimSpace(tz) == "" {
		return &FieldError{Field: "timezone", Message: "is required"}
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return &FieldError{Field: "timezone", Message: "unknown IANA timezone " + tz}
	}
	return nil
}
