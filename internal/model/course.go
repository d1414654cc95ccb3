package model

type CourseStatus string

const (
	CourseDraft     CourseStatus = "draft"
	CoursePublished CourseStatus = "published"
	CourseArchived  CourseStatus = "archived"
)

type CourseLevel string

const (
	LevelBeginner     CourseLevel = "beginner"
	LevelIntermediate CourseLevel = "intermediate"
	LevelAdvanced     CourseLevel = "advanced"
)

// swagger:model Course
type Course struct {
	BaseModel
	Title         string       `gorm:"size:200;not null" json:"title"`
	Description   string       `gorm:"type:text" json:"description"`
	InstructorID  uint         `gorm:"index;not null" json:"instructorId"`
	Instructor    *User        `gorm:"foreignKey:InstructorID" json:"instructor,omitempty"`
	Category      string       `gorm:"size:50;index" json:"category"`
	Level         CourseLevel  `gorm:"size:20" json:"level"`
	Price         float64      `json:"price"`
	Duration      int          `json:"duration"` // minutes
	Thumbnail     string       `gorm:"size:255;default:'/uploads/courses/default-course.svg'" json:"thumbnail"`
	Prerequisites []string     `gorm:"serializer:json" json:"prerequisites"`
	Objectives    []string     `gorm:"serializer:json" json:"objectives"`
	Status        CourseStatus `gorm:"size:20;default:'draft';index" json:"status"`

	EnrollmentCount int     `gorm:"default:0" json:"enrollmentCount"`
	RatingAverage   float64 `gorm:"default:0" json:"ratingAverage"`
	RatingCount     int     `gorm:"default:0" json:"ratingCount"`

	Lessons []Lesson `gorm:"foreignKey:CourseID" json:"lessons,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}
