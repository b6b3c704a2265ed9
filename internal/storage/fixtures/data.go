package fixtures

import (
	"time"

	"maktaba/internal/models"
	"maktaba/internal/storage"
)

func ts(value string) time.Time {
	t, err := time.Parse("2006-01-02T15:04:05", value)
	if err != nil {
		panic(err)
	}
	return t
}

func day(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return t
}

func tsPtr(value string) *time.Time {
	t := day(value)
	return &t
}

// Participants is the fixed development dataset of participants.
var Participants = []models.Participant{
	{
		ID:               "p1",
		FullName:         "أحمد محمد علي",
		PhoneNumber:      "0512345678",
		Nationality:      "سعودي",
		Level:            models.LevelReader,
		SuggestedBooks:   []string{"مختصر صحيح البخاري", "رياض الصالحين"},
		CommitteeOpinion: "قارئ متميز وصوته جميل",
		RegistrationDate: day("2025-05-15"),
		CompletionDate:   nil,
		CreatedAt:        ts("2025-05-15T10:30:00"),
		UpdatedAt:        ts("2025-05-15T10:30:00"),
	},
	{
		ID:               "p2",
		FullName:         "عبدالرحمن خالد",
		PhoneNumber:      "0523456789",
		Nationality:      "سعودي",
		Level:            models.LevelTrainee,
		SuggestedBooks:   []string{"الأربعين النووية"},
		CommitteeOpinion: "يحتاج إلى تدريب على تجويد القرآن",
		RegistrationDate: day("2025-06-01"),
		CompletionDate:   nil,
		CreatedAt:        ts("2025-06-01T13:45:00"),
		UpdatedAt:        ts("2025-06-01T13:45:00"),
	},
	{
		ID:               "p3",
		FullName:         "عمر فاروق سعد",
		PhoneNumber:      "0534567890",
		Nationality:      "مصري",
		Level:            models.LevelAdjudicator,
		SuggestedBooks:   []string{"التبيان في آداب حملة القرآن"},
		CommitteeOpinion: "خبير في علوم القرآن",
		RegistrationDate: day("2025-05-20"),
		CompletionDate:   tsPtr("2025-06-20"),
		CreatedAt:        ts("2025-05-20T09:15:00"),
		UpdatedAt:        ts("2025-06-20T14:20:00"),
	},
}

// Books is the fixed development dataset of books.
var Books = []models.Book{
	{
		ID:              "b1",
		Title:           "مختصر صحيح البخاري",
		Level:           "متقدم",
		ReaderID:        "p1",
		ReaderName:      "أحمد محمد علي",
		Status:          models.StatusUnderReview,
		ReviewerNotes:   "تسجيل ممتاز، بعض الأخطاء في مخارج الحروف",
		AudioReviewer1:  "محمد عبدالله",
		AudioReviewer2:  "خالد أحمد",
		RecordingEditor: "عمر علي",
		ReadingDuration: 1850,
		PublishStatus:   models.PublishNone,
		CreatedAt:       ts("2025-05-20T10:00:00"),
		UpdatedAt:       ts("2025-06-15T11:30:00"),
	},
	{
		ID:              "b2",
		Title:           "الأربعين النووية",
		Level:           "مبتدئ",
		ReaderID:        "p2",
		ReaderName:      "عبدالرحمن خالد",
		Status:          models.StatusOnTrial,
		ReviewerNotes:   "",
		AudioReviewer1:  "",
		AudioReviewer2:  "",
		RecordingEditor: "محمد سعيد",
		ReadingDuration: 900,
		PublishStatus:   models.PublishNone,
		CreatedAt:       ts("2025-06-05T14:00:00"),
		UpdatedAt:       ts("2025-06-05T14:00:00"),
	},
	{
		ID:              "b3",
		Title:           "التبيان في آداب حملة القرآن",
		Level:           "متقدم",
		ReaderID:        "p3",
		ReaderName:      "عمر فاروق سعد",
		Status:          models.StatusSentForApproval,
		ReviewerNotes:   "تسجيل ممتاز، جودة صوت عالية",
		AudioReviewer1:  "أحمد علي",
		AudioReviewer2:  "سعد محمد",
		RecordingEditor: "عبدالله سالم",
		ReadingDuration: 2400,
		PublishStatus:   models.PublishAudio,
		CreatedAt:       ts("2025-05-25T09:00:00"),
		UpdatedAt:       ts("2025-06-20T15:45:00"),
	},
}

// BookField resolves query columns for the book dataset.
func BookField(b models.Book, column string) (any, bool) {
	switch column {
	case "id":
		return b.ID, true
	case "title":
		return b.Title, true
	case "level":
		return b.Level, true
	case "reader_id":
		return b.ReaderID, true
	case "reader_name":
		return b.ReaderName, true
	case "status":
		return string(b.Status), true
	case "publish_status":
		return string(b.PublishStatus), true
	case "created_at":
		return b.CreatedAt, true
	case "updated_at":
		return b.UpdatedAt, true
	}
	return nil, false
}

// ParticipantField resolves query columns for the participant dataset.
func ParticipantField(p models.Participant, column string) (any, bool) {
	switch column {
	case "id":
		return p.ID, true
	case "full_name":
		return p.FullName, true
	case "nationality":
		return p.Nationality, true
	case "level":
		return string(p.Level), true
	case "registration_date":
		return p.RegistrationDate, true
	case "created_at":
		return p.CreatedAt, true
	case "updated_at":
		return p.UpdatedAt, true
	}
	return nil, false
}

var (
	_ storage.DataSource[models.Book, models.BookPatch]               = (*Source[models.Book, models.BookPatch])(nil)
	_ storage.DataSource[models.Participant, models.ParticipantPatch] = (*Source[models.Participant, models.ParticipantPatch])(nil)
)

// NewBookSource returns the fixture-backed book data source.
func NewBookSource() *Source[models.Book, models.BookPatch] {
	return NewSource[models.Book, models.BookPatch](Books, BookField)
}

// NewParticipantSource returns the fixture-backed participant data source.
func NewParticipantSource() *Source[models.Participant, models.ParticipantPatch] {
	return NewSource[models.Participant, models.ParticipantPatch](Participants, ParticipantField)
}
