// internal/service/analytics_service.go
package service

import (
	"context"
	"time"

	"go_5_course_keep/internal/config"
	"go_5_course_keep/internal/middleware"
	"go_5_course_keep/internal/model"
	"go_5_course_keep/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AnalyticsService interface {
	GetCourseAnalytics(ctx context.Context, teacherID uuid.UUID) ([]*model.CourseAnalytics, error)
}

type analyticsService struct {
	db         *gorm.DB
	courseRepo repository.CourseRepository
	enrollRepo repository.EnrollmentRepository
	nowFn      func() time.Time // テストで固定時刻を注入する
}

func NewAnalyticsService(db *gorm.DB, courseRepo repository.CourseRepository, enrollRepo repository.EnrollmentRepository) AnalyticsService {
	return &analyticsService{
		db:         db,
		courseRepo: courseRepo,
		enrollRepo: enrollRepo,
		nowFn:      time.Now,
	}
}

// GetCourseAnalytics は講師の全コースについて受講者数・平均クイズスコア・
// 直近の登録トレンドを集計します。
func (s *analyticsService) GetCourseAnalytics(ctx context.Context, teacherID uuid.UUID) ([]*model.CourseAnalytics, error) {
	logger := middleware.GetLogger(ctx)

	courses, err := s.courseRepo.FindByTeacher(ctx, s.db, teacherID)
	if err != nil {
		logger.Error("Error finding teacher courses for analytics", "error", err, "teacher_id", teacherID)
		return nil, model.ErrInternalServer
	}
	if len(courses) == 0 {
		return []*model.CourseAnalytics{}, nil
	}

	courseIDs := make([]uuid.UUID, 0, len(courses))
	for _, c := range courses {
		courseIDs = append(courseIDs, c.CourseID)
	}
	enrollments, err := s.enrollRepo.FindByCourseIDs(ctx, s.db, courseIDs)
	if err != nil {
		logger.Error("Error finding enrollments for analytics", "error", err, "teacher_id", teacherID)
		return nil, model.ErrInternalServer
	}

	byCourse := make(map[uuid.UUID][]*model.Enrollment, len(courses))
	for _, e := range enrollments {
		byCourse[e.CourseID] = append(byCourse[e.CourseID], e)
	}

	results := make([]*model.CourseAnalytics, 0, len(courses))
	for _, c := range courses {
		list := byCourse[c.CourseID]
		results = append(results, &model.CourseAnalytics{
			CourseID:              c.CourseID,
			Title:                 c.Title,
			TotalStudentsEnrolled: len(list),
			AverageQuizScore:      averageQuizScore(list),
			EnrollmentTrend:       s.enrollmentTrend(list),
		})
	}
	return results, nil
}

// averageQuizScore はクイズスコアを持つ進捗レコード全体の平均を返します。
// 1件もなければnil（クライアント側でN/A表示）。0点も平均に含めます。
func averageQuizScore(enrollments []*model.Enrollment) *float64 {
	sum := 0
	count := 0
	for _, e := range enrollments {
		for _, ms := range e.ModulesStatus {
			if ms.QuizScore != nil {
				sum += *ms.QuizScore
				count++
			}
		}
	}
	if count == 0 {
		return nil
	}
	avg := float64(sum) / float64(count)
	return &avg
}

// enrollmentTrend は直近N日の登録件数を日付昇順で返します。
// 登録のない日は0件として埋めます。日付の区切りは現在時刻のタイムゾーンに
// 揃え、登録時刻も同じゾーンへ変換してから数えます。
func (s *analyticsService) enrollmentTrend(enrollments []*model.Enrollment) []model.TrendPoint {
	now := s.nowFn()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	counts := make(map[string]int, config.EnrollmentTrendDays)
	for _, e := range enrollments {
		counts[e.CreatedAt.In(now.Location()).Format("2006-01-02")]++
	}

	trend := make([]model.TrendPoint, 0, config.EnrollmentTrendDays)
	for i := config.EnrollmentTrendDays - 1; i >= 0; i-- {
		date := today.AddDate(0, 0, -i).Format("2006-01-02")
		trend = append(trend, model.TrendPoint{
			Date:  date,
			Count: counts[date],
		})
	}
	return trend
}
