package models

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// phonePattern accepts an optional country prefix followed by at least ten
// digits, matching the registration form rule.
var phonePattern = regexp.MustCompile(`^(\+\d{1,3})?[ -]?\d{10,}$`)

// FieldErrors maps field names to human-readable validation messages.
// Validation runs before any repository call; a non-empty map means the
// payload never reaches the backend.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, e[f]))
	}
	return "invalid fields: " + strings.Join(parts, "; ")
}

// ValidateDraft checks a participant payload before creation. ID and
// timestamps are ignored: the backend assigns them.
func (p Participant) ValidateDraft() FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(p.FullName) == "" {
		errs["fullName"] = "full name is required"
	}
	if strings.TrimSpace(p.PhoneNumber) == "" {
		errs["phoneNumber"] = "phone number is required"
	} else if !phonePattern.MatchString(p.PhoneNumber) {
		errs["phoneNumber"] = "phone number is malformed"
	}
	if strings.TrimSpace(p.Nationality) == "" {
		errs["nationality"] = "nationality is required"
	}
	if !p.Level.Valid() {
		errs["level"] = "level must be one of trainee, adjudicator, reader"
	}
	if p.RegistrationDate.IsZero() {
		errs["registrationDate"] = "registration date is required"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateDraft checks a book payload before creation. Referential integrity
// of ReaderID is deliberately not checked here.
func (b Book) ValidateDraft() FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(b.Title) == "" {
		errs["title"] = "title is required"
	}
	if strings.TrimSpace(b.ReaderID) == "" {
		errs["readerId"] = "reader is required"
	}
	if !b.Status.Valid() {
		errs["status"] = "status must be one of on_trial, under_review, sent_for_approval"
	}
	if !b.PublishStatus.Valid() {
		errs["publishStatus"] = "publish status must be one of unpublished, audio_published, video_published"
	}
	if b.ReadingDuration < 0 {
		errs["readingDuration"] = "reading duration must not be negative"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
