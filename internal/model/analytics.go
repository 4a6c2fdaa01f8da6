package model

import (
	"github.com/google/uuid"
)

// TrendPoint は受講登録トレンドの1日分（日付昇順で返す）
type TrendPoint struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
}

// CourseAnalytics は講師向けダッシュボードのコース1件分の集計結果。
// AverageQuizScoreはクイズ受験者が1人もいない場合nil（N/A）になります。
type CourseAnalytics struct {
	CourseID              uuid.UUID    `json:"courseId"`
	Title                 string       `json:"courseTitle"`
	TotalStudentsEnrolled int          `json:"totalStudentsEnrolled"`
	AverageQuizScore      *float64     `json:"averageQuizScore"`
	EnrollmentTrend       []TrendPoint `json:"enrollmentTrend"`
}
