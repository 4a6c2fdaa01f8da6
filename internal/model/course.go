package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Course はコース情報。コンテンツツリー全体をJSONカラムに保持します。
// モジュール単位の行分割はせず、保存は常にツリーまるごとの置き換えです。
type Course struct {
	CourseID    uuid.UUID                         `gorm:"type:uuid;primaryKey" json:"course_id"`
	TeacherID   uuid.UUID                         `gorm:"type:uuid;not null;index" json:"teacher_id"`
	Title       string                            `gorm:"not null" json:"title"`
	Description string                            `json:"description"`
	Subject     string                            `gorm:"not null;index" json:"subject"`
	Rating      float64                           `gorm:"default:0" json:"rating"`
	Content     datatypes.JSONType[CourseContent] `json:"content"`
	CreatedAt   time.Time                         `json:"created_at"`
	UpdatedAt   time.Time                         `json:"updated_at"`
	DeletedAt   gorm.DeletedAt                    `gorm:"index" json:"-"` // 論理削除用
}

func (Course) TableName() string {
	return "courses"
}

// SaveCourseRequest はコース作成・更新APIのリクエストボディ (DTO)
// エディタはrootModule+modulesのフラット表現をそのまま送ってきます。
type SaveCourseRequest struct {
	CourseTitle       string             `json:"courseTitle" validate:"required,min=1,max=200"`
	CourseDescription string             `json:"courseDescription" validate:"max=2000"`
	Subject           string             `json:"subject" validate:"required,min=1,max=100"`
	RootModule        Module             `json:"rootModule" validate:"required"`
	Modules           map[string]*Module `json:"modules"`
}

// ToContent はリクエストボディからコンテンツツリーを組み立てます。
func (r *SaveCourseRequest) ToContent() *CourseContent {
	modules := r.Modules
	if modules == nil {
		modules = map[string]*Module{}
	}
	return &CourseContent{
		RootModule: r.RootModule,
		Modules:    modules,
	}
}

// CourseResponse はコース詳細（コンテンツツリー込み）のレスポンスDTO
type CourseResponse struct {
	CourseID       uuid.UUID          `json:"courseId"`
	TeacherID      uuid.UUID          `json:"teacherId"`
	Title          string             `json:"courseTitle"`
	Description    string             `json:"courseDescription"`
	Subject        string             `json:"subject"`
	Rating         float64            `json:"rating"`
	InstructorName string             `json:"instructorName,omitempty"`
	RootModule     Module             `json:"rootModule"`
	Modules        map[string]*Module `json:"modules"`
	TotalModules   int                `json:"totalModules"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// CourseListItem はカタログ一覧の1行。コンテンツツリーは含みません。
type CourseListItem struct {
	CourseID       uuid.UUID `json:"courseId"`
	Title          string    `json:"courseTitle"`
	Description    string    `json:"courseDescription"`
	Subject        string    `json:"subject"`
	Rating         float64   `json:"rating"`
	InstructorName string    `json:"instructorName"`
	CreatedAt      time.Time `json:"created_at"`
}

// CourseWithInstructor はusersテーブルとのJOIN結果を受けるための読み取り専用モデル
type CourseWithInstructor struct {
	Course
	InstructorName string `json:"instructor_name"`
}

func (c *CourseWithInstructor) ToListItem() CourseListItem {
	return CourseListItem{
		CourseID:       c.CourseID,
		Title:          c.Title,
		Description:    c.Description,
		Subject:        c.Subject,
		Rating:         c.Rating,
		InstructorName: c.InstructorName,
		CreatedAt:      c.CreatedAt,
	}
}
