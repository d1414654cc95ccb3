package model

// Attachment is an uploaded file linked to a lesson.
type Attachment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Type string `json:"type"`
}

// swagger:model Lesson
type Lesson struct {
	BaseModel
	Title    string `gorm:"size:200;not null" json:"title"`
	CourseID uint   `gorm:"index;not null" json:"courseId"`
	// Position among siblings. Uniqueness within a course is best effort:
	// enforced on create/update, not transactionally.
	Order       int          `gorm:"column:lesson_order;not null" json:"order"`
	Content     string       `gorm:"type:text" json:"content"`
	Duration    int          `json:"duration"` // minutes
	VideoURL    string       `gorm:"size:255" json:"videoUrl"`
	Attachments []Attachment `gorm:"serializer:json" json:"attachments"`
	IsPublished bool         `gorm:"default:false" json:"isPublished"`
}

func (Lesson) TableName() string {
	return "lessons"
}
