package model

import (
	"errors"
	"time"
)

type LiveClassStatus string

const (
	LiveClassScheduled LiveClassStatus = "scheduled"
	LiveClassActive    LiveClassStatus = "active"
	LiveClassEnded     LiveClassStatus = "ended"
	LiveClassCancelled LiveClassStatus = "cancelled"
)

var (
	// ErrInvalidTransition is returned when a lifecycle method is called in
	// the wrong state.
	ErrInvalidTransition = errors.New("invalid live class state transition")
	ErrClassNotActive    = errors.New("live class is not active")
	ErrClassFull         = errors.New("live class is full")
)

// LiveClassSettings is stored as a JSON column; toggles default to on.
type LiveClassSettings struct {
	EnableChat         bool `json:"enableChat"`
	EnableVideo        bool `json:"enableVideo"`
	EnableAudio        bool `json:"enableAudio"`
	AllowScreenSharing bool `json:"allowScreenSharing"`
	MaxParticipants    int  `json:"maxParticipants"`
}

func DefaultLiveClassSettings() LiveClassSettings {
	return LiveClassSettings{
		EnableChat:         true,
		EnableVideo:        true,
		EnableAudio:        true,
		AllowScreenSharing: true,
		MaxParticipants:    100,
	}
}

// Recording metadata for an ended class, filled from the uploaded file.
type Recording struct {
	URL       string    `json:"url"`
	Duration  float64   `json:"duration"` // seconds
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
}

// LiveClassParticipant is one attendance record. A user may have several
// closed records (joined and left repeatedly) but at most one open record,
// i.e. one with LeftAt unset.
type LiveClassParticipant struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	LiveClassID uint       `gorm:"index;not null" json:"liveClassId"`
	UserID      uint       `gorm:"index;not null" json:"userId"`
	JoinedAt    time.Time  `json:"joinedAt"`
	LeftAt      *time.Time `json:"leftAt,omitempty"`
}

func (LiveClassParticipant) TableName() string {
	return "live_class_participants"
}

// swagger:model LiveClass
type LiveClass struct {
	BaseModel
	Title        string  `gorm:"size:200;not null" json:"title"`
	Description  string  `gorm:"type:text" json:"description"`
	CourseID     uint    `gorm:"index;not null" json:"courseId"`
	Course       *Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	InstructorID uint    `gorm:"index;not null" json:"instructorId"`
	Instructor   *User   `gorm:"foreignKey:InstructorID" json:"instructor,omitempty"`

	ScheduledStartTime time.Time  `gorm:"index;not null" json:"scheduledStartTime"`
	ScheduledEndTime   time.Time  `gorm:"not null" json:"scheduledEndTime"`
	ActualStartTime    *time.Time `json:"actualStartTime,omitempty"`
	ActualEndTime      *time.Time `json:"actualEndTime,omitempty"`

	Status       LiveClassStatus        `gorm:"size:20;default:'scheduled';index" json:"status"`
	Participants []LiveClassParticipant `gorm:"foreignKey:LiveClassID" json:"participants,omitempty"`
	Recording    *Recording             `gorm:"serializer:json" json:"recording,omitempty"`
	Settings     LiveClassSettings      `gorm:"serializer:json" json:"settings"`
}

func (LiveClass) TableName() string {
	return "live_classes"
}

// Start moves scheduled -> active and stamps the actual start time.
func (lc *LiveClass) Start(now time.Time) error {
	if lc.Status != LiveClassScheduled {
		return ErrInvalidTransition
	}
	lc.Status = LiveClassActive
	lc.ActualStartTime = &now
	return nil
}

// End moves active -> ended and stamps the actual end time.
func (lc *LiveClass) End(now time.Time) error {
	if lc.Status != LiveClassActive {
		return ErrInvalidTransition
	}
	lc.Status = LiveClassEnded
	lc.ActualEndTime = &now
	return nil
}

// Cancel is only reachable from scheduled.
func (lc *LiveClass) Cancel() error {
	if lc.Status != LiveClassScheduled {
		return ErrInvalidTransition
	}
	lc.Status = LiveClassCancelled
	return nil
}

// OpenParticipant returns the user's open attendance record, or nil.
func (lc *LiveClass) OpenParticipant(userID uint) *LiveClassParticipant {
	for i := range lc.Participants {
		p := &lc.Participants[i]
		if p.UserID == userID && p.LeftAt == nil {
			return p
		}
	}
	return nil
}

// ActiveParticipantCount counts open attendance records.
func (lc *LiveClass) ActiveParticipantCount() int {
	n := 0
	for i := range lc.Participants {
		if lc.Participants[i].LeftAt == nil {
			n++
		}
	}
	return n
}

// AddParticipant records a join. Joining twice without leaving is a no-op and
// returns false. A user who left earlier gets a fresh record.
func (lc *LiveClass) AddParticipant(userID uint, now time.Time) (bool, error) {
	if lc.Status != LiveClassActive {
		return false, ErrClassNotActive
	}
	if lc.OpenParticipant(userID) != nil {
		return false, nil
	}
	if lc.Settings.MaxParticipants > 0 && lc.ActiveParticipantCount() >= lc.Settings.MaxParticipants {
		return false, ErrClassFull
	}
	lc.Participants = append(lc.Participants, LiveClassParticipant{
		LiveClassID: lc.ID,
		UserID:      userID,
		JoinedAt:    now,
	})
	return true, nil
}

// RemoveParticipant stamps LeftAt on the user's open record. A no-op when the
// user has no open record.
func (lc *LiveClass) RemoveParticipant(userID uint, now time.Time) bool {
	p := lc.OpenParticipant(userID)
	if p == nil {
		return false
	}
	p.LeftAt = &now
	return true
}
