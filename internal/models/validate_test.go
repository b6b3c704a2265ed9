package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validParticipant() Participant {
	return Participant{
		FullName:         "أحمد محمد علي",
		PhoneNumber:      "0512345678",
		Nationality:      "سعودي",
		Level:            LevelReader,
		RegistrationDate: time.Date(2025, 5, 15, 0, 0, 0, 0, time.UTC),
	}
}

func validBook() Book {
	return Book{
		Title:           "مختصر صحيح البخاري",
		ReaderID:        "p1",
		Status:          StatusOnTrial,
		PublishStatus:   PublishNone,
		ReadingDuration: 1850,
	}
}

func TestParticipantValidateDraftClean(t *testing.T) {
	require.Nil(t, validParticipant().ValidateDraft())
}

func TestParticipantValidateDraft(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Participant)
		field  string
	}{
		{"missing full name", func(p *Participant) { p.FullName = "  " }, "fullName"},
		{"missing phone", func(p *Participant) { p.PhoneNumber = "" }, "phoneNumber"},
		{"phone with letters", func(p *Participant) { p.PhoneNumber = "05x2345678" }, "phoneNumber"},
		{"phone too short", func(p *Participant) { p.PhoneNumber = "12345" }, "phoneNumber"},
		{"missing nationality", func(p *Participant) { p.Nationality = "" }, "nationality"},
		{"invalid level", func(p *Participant) { p.Level = "expert" }, "level"},
		{"zero registration date", func(p *Participant) { p.RegistrationDate = time.Time{} }, "registrationDate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParticipant()
			tt.mutate(&p)
			errs := p.ValidateDraft()
			require.NotNil(t, errs)
			assert.Contains(t, errs, tt.field)
		})
	}
}

func TestPhonePatternAcceptsCountryPrefix(t *testing.T) {
	for _, phone := range []string{"0512345678", "+966512345678", "+966 5123456789"} {
		p := validParticipant()
		p.PhoneNumber = phone
		assert.Nilf(t, p.ValidateDraft(), "phone %q should be accepted", phone)
	}
}

func TestBookValidateDraftClean(t *testing.T) {
	require.Nil(t, validBook().ValidateDraft())
}

func TestBookValidateDraft(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Book)
		field  string
	}{
		{"missing title", func(b *Book) { b.Title = "" }, "title"},
		{"missing reader", func(b *Book) { b.ReaderID = " " }, "readerId"},
		{"invalid status", func(b *Book) { b.Status = "archived" }, "status"},
		{"invalid publish status", func(b *Book) { b.PublishStatus = "streaming" }, "publishStatus"},
		{"negative duration", func(b *Book) { b.ReadingDuration = -1 }, "readingDuration"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBook()
			tt.mutate(&b)
			errs := b.ValidateDraft()
			require.NotNil(t, errs)
			assert.Contains(t, errs, tt.field)
		})
	}
}

func TestFieldErrorsMessage(t *testing.T) {
	errs := FieldErrors{"title": "title is required", "status": "bad status"}
	assert.Equal(t, "invalid fields: status: bad status; title: title is required", errs.Error())
}

func TestEnumLabels(t *testing.T) {
	assert.Equal(t, "قارئ", LevelReader.Label())
	assert.Equal(t, "طالب", LevelTrainee.Label())
	assert.Equal(t, "قاضي", LevelAdjudicator.Label())
	assert.Equal(t, "تحت التجربة", StatusOnTrial.Label())
	assert.Equal(t, "تحت المراجعة", StatusUnderReview.Label())
	assert.Equal(t, "تم الإرسال للمعتمد", StatusSentForApproval.Label())
	assert.Equal(t, "غير منشور", PublishNone.Label())
	assert.Equal(t, "تم النشر صوتي", PublishAudio.Label())
	assert.Equal(t, "تم النشر مرئي", PublishVideo.Label())
	// Unknown values fall back to the raw code.
	assert.Equal(t, "archived", BookStatus("archived").Label())
}
