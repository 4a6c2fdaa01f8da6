// internal/service/enrollment_service_test.go
package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"go_5_course_keep/internal/model"
	"go_5_course_keep/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq int

// --- テストヘルパー関数 (インメモリDBセットアップ) ---
func setupTestDBEnrollment(t *testing.T) *gorm.DB {
	t.Helper()
	testDBSeq++
	dsn := fmt.Sprintf("file:enrolltest%d?mode=memory&cache=shared", testDBSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent), // テスト中はログを抑制
		TranslateError: true,                                  // 重複キーをgorm.ErrDuplicatedKeyへ正規化
	})
	require.NoError(t, err, "failed to connect database for enrollment service testing")

	err = db.AutoMigrate(&model.User{}, &model.Course{}, &model.Enrollment{})
	require.NoError(t, err, "failed to migrate database for enrollment service testing")
	return db
}

// テスト用のコースを作成するヘルパー。text+video+quizの4モジュール構成。
func createTestCourse(t *testing.T, db *gorm.DB, teacherID uuid.UUID) (*model.Course, *model.CourseContent) {
	t.Helper()

	content := model.NewCourseContent()
	_, err := content.AddModule(model.ModuleTypeText, "")
	require.NoError(t, err)
	_, err = content.AddModule(model.ModuleTypeVideo, "")
	require.NoError(t, err)
	_, err = content.AddModule(model.ModuleTypeQuiz, "")
	require.NoError(t, err)

	course := &model.Course{
		CourseID:  uuid.New(),
		TeacherID: teacherID,
		Title:     "Go入門",
		Subject:   "プログラミング",
		Content:   datatypes.NewJSONType(*content),
	}
	require.NoError(t, db.Create(course).Error)
	return course, content
}

func createTestTeacher(t *testing.T, db *gorm.DB, name string) *model.User {
	t.Helper()
	user := &model.User{
		UserID:       uuid.New(),
		Name:         name,
		Email:        name + "@example.com",
		PasswordHash: "x",
		Role:         model.RoleTeacher,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestEnrollmentService_Enroll(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBEnrollment(t)
	teacher := createTestTeacher(t, db, "tanaka")
	course, _ := createTestCourse(t, db, teacher.UserID)

	svc := NewEnrollmentService(db, repository.NewGormEnrollmentRepository(), repository.NewGormCourseRepository())
	studentID := uuid.New()

	t.Run("正常系: 受講登録は作成時点からin-progress", func(t *testing.T) {
		enrollment, err := svc.Enroll(ctx, studentID, course.CourseID)
		require.NoError(t, err)
		assert.Equal(t, model.CompletionStatusInProgress, enrollment.CompletionStatus)
		assert.Empty(t, enrollment.ModulesStatus)

		// DBから読み直しても同じステータス
		reloaded, err := svc.GetStatus(ctx, studentID, course.CourseID)
		require.NoError(t, err)
		assert.Equal(t, model.CompletionStatusInProgress, reloaded.CompletionStatus)
	})

	t.Run("異常系: 二重登録はErrAlreadyEnrolledで行は1件のまま", func(t *testing.T) {
		_, err := svc.Enroll(ctx, studentID, course.CourseID)
		assert.ErrorIs(t, err, model.ErrAlreadyEnrolled)

		var count int64
		require.NoError(t, db.Model(&model.Enrollment{}).
			Where("course_id = ? AND student_id = ?", course.CourseID, studentID).
			Count(&count).Error)
		assert.EqualValues(t, 1, count)
	})

	t.Run("異常系: 存在しないコース", func(t *testing.T) {
		_, err := svc.Enroll(ctx, studentID, uuid.New())
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestEnrollmentService_GetStatus(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBEnrollment(t)
	teacher := createTestTeacher(t, db, "sato")
	course, _ := createTestCourse(t, db, teacher.UserID)

	svc := NewEnrollmentService(db, repository.NewGormEnrollmentRepository(), repository.NewGormCourseRepository())
	studentID := uuid.New()

	t.Run("異常系: 未登録はErrNotEnrolled", func(t *testing.T) {
		_, err := svc.GetStatus(ctx, studentID, course.CourseID)
		assert.ErrorIs(t, err, model.ErrNotEnrolled)
	})

	t.Run("正常系: 登録済みなら取得できる", func(t *testing.T) {
		created, err := svc.Enroll(ctx, studentID, course.CourseID)
		require.NoError(t, err)

		got, err := svc.GetStatus(ctx, studentID, course.CourseID)
		require.NoError(t, err)
		assert.Equal(t, created.EnrollmentID, got.EnrollmentID)
	})
}

func TestEnrollmentService_UpdateProgress(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBEnrollment(t)
	teacher := createTestTeacher(t, db, "suzuki")
	course, content := createTestCourse(t, db, teacher.UserID)

	// root直下: [text, video, quiz]
	textID := content.RootModule.Children[0]
	videoID := content.RootModule.Children[1]
	quizID := content.RootModule.Children[2]

	svc := NewEnrollmentService(db, repository.NewGormEnrollmentRepository(), repository.NewGormCourseRepository())
	studentID := uuid.New()
	_, err := svc.Enroll(ctx, studentID, course.CourseID)
	require.NoError(t, err)

	intPtr := func(v int) *int { return &v }
	boolPtr := func(v bool) *bool { return &v }

	t.Run("正常系: 初回更新でレコードが追記される", func(t *testing.T) {
		enrollment, err := svc.UpdateProgress(ctx, studentID, course.CourseID, &model.UpdateProgressRequest{
			ModuleID:      videoID,
			ProgressPatch: model.ProgressPatch{TimeSpent: intPtr(50)},
		})
		require.NoError(t, err)
		require.Len(t, enrollment.ModulesStatus, 1)
		assert.Equal(t, videoID, enrollment.ModulesStatus[0].ModuleID)
		assert.Equal(t, 50, enrollment.ModulesStatus[0].TimeSpent)
		assert.False(t, enrollment.ModulesStatus[0].Completed)
		assert.Nil(t, enrollment.ModulesStatus[0].QuizScore)
		assert.Equal(t, model.CompletionStatusInProgress, enrollment.CompletionStatus)
	})

	t.Run("正常系: 指定フィールドだけがマージされる", func(t *testing.T) {
		// completedだけ送ってもtimeSpentは保持される
		enrollment, err := svc.UpdateProgress(ctx, studentID, course.CourseID, &model.UpdateProgressRequest{
			ModuleID:      videoID,
			ProgressPatch: model.ProgressPatch{Completed: boolPtr(true)},
		})
		require.NoError(t, err)
		require.Len(t, enrollment.ModulesStatus, 1)
		assert.Equal(t, 50, enrollment.ModulesStatus[0].TimeSpent)
		assert.True(t, enrollment.ModulesStatus[0].Completed)
	})

	t.Run("正常系: 同じ差分の再送は冪等", func(t *testing.T) {
		req := &model.UpdateProgressRequest{
			ModuleID:      textID,
			ProgressPatch: model.ProgressPatch{Completed: boolPtr(true), TimeSpent: intPtr(30)},
		}
		first, err := svc.UpdateProgress(ctx, studentID, course.CourseID, req)
		require.NoError(t, err)
		second, err := svc.UpdateProgress(ctx, studentID, course.CourseID, req)
		require.NoError(t, err)
		assert.Equal(t, first.ModulesStatus, second.ModulesStatus)
		assert.Len(t, second.ModulesStatus, 2)
	})

	t.Run("境界値: quizScore=0は未受験と区別して保存される", func(t *testing.T) {
		enrollment, err := svc.UpdateProgress(ctx, studentID, course.CourseID, &model.UpdateProgressRequest{
			ModuleID:      quizID,
			ProgressPatch: model.ProgressPatch{QuizScore: intPtr(0)},
		})
		require.NoError(t, err)

		var quizStatus *model.ModuleStatus
		for i := range enrollment.ModulesStatus {
			if enrollment.ModulesStatus[i].ModuleID == quizID {
				quizStatus = &enrollment.ModulesStatus[i]
			}
		}
		require.NotNil(t, quizStatus)
		require.NotNil(t, quizStatus.QuizScore, "0点がnil(未受験)として落ちてはいけない")
		assert.Equal(t, 0, *quizStatus.QuizScore)

		// DBから読み直しても保持されている
		reloaded, err := svc.GetStatus(ctx, studentID, course.CourseID)
		require.NoError(t, err)
		for _, ms := range reloaded.ModulesStatus {
			if ms.ModuleID == quizID {
				require.NotNil(t, ms.QuizScore)
				assert.Equal(t, 0, *ms.QuizScore)
			}
		}
	})

	t.Run("異常系: コースに存在しないモジュールID", func(t *testing.T) {
		_, err := svc.UpdateProgress(ctx, studentID, course.CourseID, &model.UpdateProgressRequest{
			ModuleID:      "no-such-module",
			ProgressPatch: model.ProgressPatch{TimeSpent: intPtr(1)},
		})
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})

	t.Run("異常系: 未登録の学生", func(t *testing.T) {
		_, err := svc.UpdateProgress(ctx, uuid.New(), course.CourseID, &model.UpdateProgressRequest{
			ModuleID:      textID,
			ProgressPatch: model.ProgressPatch{TimeSpent: intPtr(1)},
		})
		assert.ErrorIs(t, err, model.ErrNotEnrolled)
	})

	t.Run("正常系: 並行更新でもlost updateしない", func(t *testing.T) {
		concurrentStudent := uuid.New()
		_, err := svc.Enroll(ctx, concurrentStudent, course.CourseID)
		require.NoError(t, err)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			moduleID := textID
			if i%2 == 1 {
				moduleID = videoID
			}
			go func(id string, spent int) {
				defer wg.Done()
				_, err := svc.UpdateProgress(ctx, concurrentStudent, course.CourseID, &model.UpdateProgressRequest{
					ModuleID:      id,
					ProgressPatch: model.ProgressPatch{TimeSpent: intPtr(spent)},
				})
				assert.NoError(t, err)
			}(moduleID, i+1)
		}
		wg.Wait()

		enrollment, err := svc.GetStatus(ctx, concurrentStudent, course.CourseID)
		require.NoError(t, err)
		// 2モジュール分のレコードが重複なく存在する
		assert.Len(t, enrollment.ModulesStatus, 2)
	})
}

func TestEnrollmentService_ListEnrolledCourses(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBEnrollment(t)
	teacher := createTestTeacher(t, db, "yamada")
	course, content := createTestCourse(t, db, teacher.UserID)

	svc := NewEnrollmentService(db, repository.NewGormEnrollmentRepository(), repository.NewGormCourseRepository())
	studentID := uuid.New()

	t.Run("正常系: 受講なしは空リスト", func(t *testing.T) {
		courses, err := svc.ListEnrolledCourses(ctx, studentID)
		require.NoError(t, err)
		assert.Empty(t, courses)
	})

	t.Run("正常系: コース情報と進捗率が合成される", func(t *testing.T) {
		_, err := svc.Enroll(ctx, studentID, course.CourseID)
		require.NoError(t, err)

		// 4モジュール中2つ完了 -> 50%
		completed := true
		for _, id := range content.RootModule.Children[:2] {
			_, err := svc.UpdateProgress(ctx, studentID, course.CourseID, &model.UpdateProgressRequest{
				ModuleID:      id,
				ProgressPatch: model.ProgressPatch{Completed: &completed},
			})
			require.NoError(t, err)
		}

		courses, err := svc.ListEnrolledCourses(ctx, studentID)
		require.NoError(t, err)
		require.Len(t, courses, 1)

		got := courses[0]
		assert.Equal(t, course.CourseID, got.CourseID)
		assert.Equal(t, "Go入門", got.Title)
		assert.Equal(t, "yamada", got.InstructorName)
		assert.Equal(t, 4, got.TotalModules)
		assert.InDelta(t, 50.0, got.CompletionPercentage, 0.001)
		assert.Equal(t, model.CompletionStatusInProgress, got.CompletionStatus)
	})
}
