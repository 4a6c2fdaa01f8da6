package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CompletionStatus は受講全体の進捗ステータス
type CompletionStatus string

const (
	CompletionStatusInProgress CompletionStatus = "in-progress"
	CompletionStatusCompleted  CompletionStatus = "completed"
)

// ModuleStatus はモジュール1件分の進捗レコード。
// QuizScoreはnil（未受験）と0点を区別するためポインタで保持します。
type ModuleStatus struct {
	ModuleID  string `json:"moduleId"`
	Completed bool   `json:"completed"`
	TimeSpent int    `json:"timeSpent"` // 秒単位の累計視聴・学習時間
	QuizScore *int   `json:"quizScore,omitempty"`
}

// Enrollment は受講登録。進捗リストはJSONカラムにまとめて保持します。
// (course_id, student_id) の複合ユニーク制約で二重登録をDBレベルで防ぎます。
type Enrollment struct {
	EnrollmentID     uuid.UUID                          `gorm:"type:uuid;primaryKey" json:"enrollment_id"`
	CourseID         uuid.UUID                          `gorm:"type:uuid;not null;uniqueIndex:idx_course_student" json:"course_id"`
	StudentID        uuid.UUID                          `gorm:"type:uuid;not null;uniqueIndex:idx_course_student" json:"student_id"`
	CompletionStatus CompletionStatus                   `gorm:"not null;default:in-progress" json:"completionStatus"`
	ModulesStatus    datatypes.JSONSlice[ModuleStatus]  `json:"modules_status"`
	CreatedAt        time.Time                          `json:"created_at"`
	UpdatedAt        time.Time                          `json:"updated_at"`
	DeletedAt        gorm.DeletedAt                     `gorm:"index" json:"-"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

// CompletionPercentage は完了モジュール数から進捗率(0〜100)を計算します。
// totalModulesが0の場合は0を返し、100を超えないように丸めます。
func (e *Enrollment) CompletionPercentage(totalModules int) float64 {
	if totalModules <= 0 {
		return 0
	}
	completed := 0
	for _, ms := range e.ModulesStatus {
		if ms.Completed {
			completed++
		}
	}
	pct := float64(completed) / float64(totalModules) * 100
	if pct > 100 {
		pct = 100
	}
	return pct
}

// EnrollRequest は受講登録APIのリクエストボディ (DTO)
type EnrollRequest struct {
	CourseID uuid.UUID `json:"courseId" validate:"required"`
}

// ProgressPatch は進捗更新の差分。指定されたフィールドだけをマージします。
// quizScoreは0も有効値なので、nilかどうかで「指定なし」を判定します。
type ProgressPatch struct {
	TimeSpent *int  `json:"timeSpent,omitempty"`
	Completed *bool `json:"completed,omitempty"`
	QuizScore *int  `json:"quizScore,omitempty"`
}

// UpdateProgressRequest は進捗更新APIのリクエストボディ (DTO)
type UpdateProgressRequest struct {
	ModuleID string `json:"moduleId" validate:"required"`
	ProgressPatch
}

// EnrollmentResponse は受講登録1件のレスポンスDTO
type EnrollmentResponse struct {
	EnrollmentID     uuid.UUID        `json:"enrollment_id"`
	CourseID         uuid.UUID        `json:"courseId"`
	StudentID        uuid.UUID        `json:"studentId"`
	CompletionStatus CompletionStatus `json:"completionStatus"`
	ModulesStatus    []ModuleStatus   `json:"modules_status"`
	CreatedAt        time.Time        `json:"created_at"`
}

func (e *Enrollment) ToResponse() *EnrollmentResponse {
	return &EnrollmentResponse{
		EnrollmentID:     e.EnrollmentID,
		CourseID:         e.CourseID,
		StudentID:        e.StudentID,
		CompletionStatus: e.CompletionStatus,
		ModulesStatus:    e.ModulesStatus,
		CreatedAt:        e.CreatedAt,
	}
}

// EnrolledCourseResponse は受講中コース一覧の1件。コース情報と進捗を合成します。
type EnrolledCourseResponse struct {
	CourseID             uuid.UUID        `json:"courseId"`
	Title                string           `json:"courseTitle"`
	Description          string           `json:"courseDescription"`
	Subject              string           `json:"subject"`
	Rating               float64          `json:"rating"`
	InstructorName       string           `json:"instructorName"`
	CompletionStatus     CompletionStatus `json:"completionStatus"`
	ModulesStatus        []ModuleStatus   `json:"modules_status"`
	TotalModules         int              `json:"totalModules"`
	CompletionPercentage float64          `json:"completionPercentage"`
}
