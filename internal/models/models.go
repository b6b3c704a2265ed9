package models

import "time"

// ParticipantLevel is the closed set of participant levels.
type ParticipantLevel string

const (
	LevelTrainee     ParticipantLevel = "trainee"
	LevelAdjudicator ParticipantLevel = "adjudicator"
	LevelReader      ParticipantLevel = "reader"
)

// Valid reports whether the level is one of the known values.
func (l ParticipantLevel) Valid() bool {
	switch l {
	case LevelTrainee, LevelAdjudicator, LevelReader:
		return true
	}
	return false
}

// Label returns the Arabic display label shown in reports and exports.
func (l ParticipantLevel) Label() string {
	switch l {
	case LevelTrainee:
		return "طالب"
	case LevelAdjudicator:
		return "قاضي"
	case LevelReader:
		return "قارئ"
	}
	return string(l)
}

// BookStatus is the closed set of book workflow statuses.
type BookStatus string

const (
	StatusOnTrial         BookStatus = "on_trial"
	StatusUnderReview     BookStatus = "under_review"
	StatusSentForApproval BookStatus = "sent_for_approval"
)

func (s BookStatus) Valid() bool {
	switch s {
	case StatusOnTrial, StatusUnderReview, StatusSentForApproval:
		return true
	}
	return false
}

func (s BookStatus) Label() string {
	switch s {
	case StatusOnTrial:
		return "تحت التجربة"
	case StatusUnderReview:
		return "تحت المراجعة"
	case StatusSentForApproval:
		return "تم الإرسال للمعتمد"
	}
	return string(s)
}

// PublishStatus is the closed set of publication states for a book.
type PublishStatus string

const (
	PublishNone  PublishStatus = "unpublished"
	PublishAudio PublishStatus = "audio_published"
	PublishVideo PublishStatus = "video_published"
)

func (p PublishStatus) Valid() bool {
	switch p {
	case PublishNone, PublishAudio, PublishVideo:
		return true
	}
	return false
}

func (p PublishStatus) Label() string {
	switch p {
	case PublishNone:
		return "غير منشور"
	case PublishAudio:
		return "تم النشر صوتي"
	case PublishVideo:
		return "تم النشر مرئي"
	}
	return string(p)
}

// Entity is the common shape of persisted records.
type Entity interface {
	EntityID() string
	Modified() time.Time
}

// Participant represents a program participant.
// ID and the two timestamps are assigned by the authoritative source.
type Participant struct {
	ID               string           `json:"id"`
	FullName         string           `json:"fullName"`
	PhoneNumber      string           `json:"phoneNumber"`
	Nationality      string           `json:"nationality"`
	Level            ParticipantLevel `json:"level"`
	SuggestedBooks   []string         `json:"suggestedBooks"`
	CommitteeOpinion string           `json:"committeeOpinion"`
	RegistrationDate time.Time        `json:"registrationDate"`
	CompletionDate   *time.Time       `json:"completionDate"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

func (p Participant) EntityID() string    { return p.ID }
func (p Participant) Modified() time.Time { return p.UpdatedAt }

// Book represents a literary work assigned to a participant for recording.
// ReaderName is denormalized from the participant; ReaderID referential
// integrity is the caller's responsibility.
type Book struct {
	ID              string        `json:"id"`
	Title           string        `json:"title"`
	Level           string        `json:"level"`
	ReaderID        string        `json:"readerId"`
	ReaderName      string        `json:"readerName"`
	Status          BookStatus    `json:"status"`
	ReviewerNotes   string        `json:"reviewerNotes"`
	AudioReviewer1  string        `json:"audioReviewer1"`
	AudioReviewer2  string        `json:"audioReviewer2"`
	RecordingEditor string        `json:"recordingEditor"`
	ReadingDuration int           `json:"readingDuration"` // seconds
	PublishStatus   PublishStatus `json:"publishStatus"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

func (b Book) EntityID() string    { return b.ID }
func (b Book) Modified() time.Time { return b.UpdatedAt }

// ParticipantPatch is a partial participant update; nil fields are left
// untouched by the backend.
type ParticipantPatch struct {
	FullName         *string           `json:"fullName,omitempty"`
	PhoneNumber      *string           `json:"phoneNumber,omitempty"`
	Nationality      *string           `json:"nationality,omitempty"`
	Level            *ParticipantLevel `json:"level,omitempty"`
	SuggestedBooks   *[]string         `json:"suggestedBooks,omitempty"`
	CommitteeOpinion *string           `json:"committeeOpinion,omitempty"`
	RegistrationDate *time.Time        `json:"registrationDate,omitempty"`
	CompletionDate   *time.Time        `json:"completionDate,omitempty"`
}

// BookPatch is a partial book update; nil fields are left untouched.
type BookPatch struct {
	Title           *string        `json:"title,omitempty"`
	Level           *string        `json:"level,omitempty"`
	ReaderID        *string        `json:"readerId,omitempty"`
	ReaderName      *string        `json:"readerName,omitempty"`
	Status          *BookStatus    `json:"status,omitempty"`
	ReviewerNotes   *string        `json:"reviewerNotes,omitempty"`
	AudioReviewer1  *string        `json:"audioReviewer1,omitempty"`
	AudioReviewer2  *string        `json:"audioReviewer2,omitempty"`
	RecordingEditor *string        `json:"recordingEditor,omitempty"`
	ReadingDuration *int           `json:"readingDuration,omitempty"`
	PublishStatus   *PublishStatus `json:"publishStatus,omitempty"`
}

// ReportFilter holds the optional report predicates; zero values mean no
// constraint.
type ReportFilter struct {
	BookTitle  string     `json:"bookTitle,omitempty"`
	ReaderName string     `json:"readerName,omitempty"`
	Status     BookStatus `json:"status,omitempty"`
	Level      string     `json:"level,omitempty"`
	StartDate  *time.Time `json:"startDate,omitempty"`
	EndDate    *time.Time `json:"endDate,omitempty"`
}

// CalendarEvent is a book projected onto the calendar view. Derived, never
// persisted.
type CalendarEvent struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Date       time.Time  `json:"date"`
	Status     BookStatus `json:"status"`
	ReaderName string     `json:"readerName"`
}

// StatusTally counts books per workflow status. Other holds records carrying
// a value outside the closed enum, so every input record is counted exactly
// once.
type StatusTally struct {
	OnTrial         int `json:"onTrial"`
	UnderReview     int `json:"underReview"`
	SentForApproval int `json:"sentForApproval"`
	Other           int `json:"other"`
	Total           int `json:"total"`
}

// MonthlyStats is the per-status tally for one calendar month of a target
// year. Derived, never persisted.
type MonthlyStats struct {
	Month           string `json:"month"`
	OnTrial         int    `json:"onTrial"`
	UnderReview     int    `json:"underReview"`
	SentForApproval int    `json:"sentForApproval"`
	Other           int    `json:"other"`
	Total           int    `json:"total"`
}

// LevelShare is one slice of the participant level distribution.
type LevelShare struct {
	Level      ParticipantLevel `json:"level"`
	Count      int              `json:"count"`
	Percentage int              `json:"percentage"`
}
