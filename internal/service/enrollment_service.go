// internal/service/enrollment_service.go
package service

import (
	"context"
	"errors"
	"sync"

	"go_5_course_keep/internal/middleware"
	"go_5_course_keep/internal/model"
	"go_5_course_keep/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EnrollmentService interface {
	Enroll(ctx context.Context, studentID, courseID uuid.UUID) (*model.Enrollment, error)
	GetStatus(ctx context.Context, studentID, courseID uuid.UUID) (*model.Enrollment, error)
	UpdateProgress(ctx context.Context, studentID, courseID uuid.UUID, req *model.UpdateProgressRequest) (*model.Enrollment, error)
	ListEnrolledCourses(ctx context.Context, studentID uuid.UUID) ([]*model.EnrolledCourseResponse, error)
}

type enrollmentService struct {
	db         *gorm.DB // トランザクション用にDB接続を持つ
	enrollRepo repository.EnrollmentRepository
	courseRepo repository.CourseRepository

	// 受講レコード単位のロック。同一(courseID, studentID)への
	// read-modify-writeを直列化し、並行更新のlost updateを防ぐ。
	locks sync.Map // key: courseID+"/"+studentID, value: *sync.Mutex
}

func NewEnrollmentService(db *gorm.DB, enrollRepo repository.EnrollmentRepository, courseRepo repository.CourseRepository) EnrollmentService {
	return &enrollmentService{
		db:         db,
		enrollRepo: enrollRepo,
		courseRepo: courseRepo,
	}
}

func (s *enrollmentService) lockFor(courseID, studentID uuid.UUID) *sync.Mutex {
	key := courseID.String() + "/" + studentID.String()
	mu, _ := s.locks.LoadOrStore(key, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Enroll は受講登録を作成します。登録済みの場合はErrAlreadyEnrolledを返し、
// 既存の行はそのまま残ります（再登録しても進捗は初期化されない）。
func (s *enrollmentService) Enroll(ctx context.Context, studentID, courseID uuid.UUID) (*model.Enrollment, error) {
	logger := middleware.GetLogger(ctx)

	var created *model.Enrollment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. コースの存在確認
		if _, err := s.courseRepo.FindByID(ctx, tx, courseID); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("COURSE_NOT_FOUND", "コースが見つかりません。", "courseId", model.ErrNotFound)
			}
			logger.Error("Error finding course for enrollment", "error", err, "course_id", courseID)
			return model.ErrInternalServer
		}

		// 2. 受講登録を作成。重複は複合ユニーク制約に任せる。
		// ステータスは登録時点からin-progressで始まる
		enrollment := &model.Enrollment{
			EnrollmentID:     uuid.New(),
			CourseID:         courseID,
			StudentID:        studentID,
			CompletionStatus: model.CompletionStatusInProgress,
			ModulesStatus:    []model.ModuleStatus{},
		}
		if err := s.enrollRepo.Create(ctx, tx, enrollment); err != nil {
			if errors.Is(err, model.ErrAlreadyEnrolled) {
				return model.NewAppError("ALREADY_ENROLLED", "すでにこのコースを受講しています。", "courseId", model.ErrAlreadyEnrolled)
			}
			logger.Error("Error creating enrollment", "error", err, "course_id", courseID, "student_id", studentID)
			return model.ErrInternalServer
		}

		created = enrollment
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Enrollment created", "enrollment_id", created.EnrollmentID, "course_id", courseID)
	return created, nil
}

// GetStatus は受講登録1件を返します。未登録は404系のErrNotEnrolledです。
func (s *enrollmentService) GetStatus(ctx context.Context, studentID, courseID uuid.UUID) (*model.Enrollment, error) {
	enrollment, err := s.enrollRepo.FindByPair(ctx, s.db, courseID, studentID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("NOT_ENROLLED", "このコースを受講していません。", "courseId", model.ErrNotEnrolled)
		}
		middleware.GetLogger(ctx).Error("Error finding enrollment", "error", err, "course_id", courseID)
		return nil, model.ErrInternalServer
	}
	return enrollment, nil
}

// UpdateProgress はモジュール1件分の進捗差分をマージして保存します。
// 指定されたフィールドだけを上書きし、省略されたフィールドは保持します。
// quizScoreは0も有効値として書き込みます。該当モジュールのレコードが
// なければ新規に追記します。
func (s *enrollmentService) UpdateProgress(ctx context.Context, studentID, courseID uuid.UUID, req *model.UpdateProgressRequest) (*model.Enrollment, error) {
	logger := middleware.GetLogger(ctx)

	// 同一受講レコードへの並行更新を直列化する
	mu := s.lockFor(courseID, studentID)
	mu.Lock()
	defer mu.Unlock()

	var updated *model.Enrollment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. 受講登録の取得
		enrollment, err := s.enrollRepo.FindByPair(ctx, tx, courseID, studentID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("NOT_ENROLLED", "このコースを受講していません。", "courseId", model.ErrNotEnrolled)
			}
			logger.Error("Error finding enrollment for progress update", "error", err, "course_id", courseID)
			return model.ErrInternalServer
		}

		// 2. モジュールIDがコースコンテンツに存在するか確認
		course, err := s.courseRepo.FindByID(ctx, tx, courseID)
		if err != nil {
			logger.Error("Error finding course for progress update", "error", err, "course_id", courseID)
			return model.ErrInternalServer
		}
		content := course.Content.Data()
		if content.Lookup(req.ModuleID) == nil {
			return model.NewAppError("MODULE_NOT_FOUND", "指定されたモジュールはこのコースに存在しません。", "moduleId", model.ErrInvalidInput)
		}

		// 3. 進捗リストへマージ（なければ追記）
		idx := -1
		for i := range enrollment.ModulesStatus {
			if enrollment.ModulesStatus[i].ModuleID == req.ModuleID {
				idx = i
				break
			}
		}
		if idx < 0 {
			enrollment.ModulesStatus = append(enrollment.ModulesStatus, model.ModuleStatus{ModuleID: req.ModuleID})
			idx = len(enrollment.ModulesStatus) - 1
		}
		ms := &enrollment.ModulesStatus[idx]
		if req.TimeSpent != nil {
			ms.TimeSpent = *req.TimeSpent
		}
		if req.Completed != nil {
			ms.Completed = *req.Completed
		}
		if req.QuizScore != nil {
			// 0点も有効なスコアとして記録する
			score := *req.QuizScore
			ms.QuizScore = &score
		}

		if err := s.enrollRepo.Update(ctx, tx, enrollment); err != nil {
			logger.Error("Error updating enrollment progress", "error", err, "enrollment_id", enrollment.EnrollmentID)
			return model.ErrInternalServer
		}

		updated = enrollment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ListEnrolledCourses は受講中コースの一覧をコース情報・進捗率付きで返します。
func (s *enrollmentService) ListEnrolledCourses(ctx context.Context, studentID uuid.UUID) ([]*model.EnrolledCourseResponse, error) {
	logger := middleware.GetLogger(ctx)

	enrollments, err := s.enrollRepo.FindByStudent(ctx, s.db, studentID)
	if err != nil {
		logger.Error("Error listing enrollments", "error", err, "student_id", studentID)
		return nil, model.ErrInternalServer
	}
	if len(enrollments) == 0 {
		return []*model.EnrolledCourseResponse{}, nil
	}

	courseIDs := make([]uuid.UUID, 0, len(enrollments))
	for _, e := range enrollments {
		courseIDs = append(courseIDs, e.CourseID)
	}
	courses, err := s.courseRepo.FindByIDsWithInstructor(ctx, s.db, courseIDs)
	if err != nil {
		logger.Error("Error listing enrolled courses", "error", err, "student_id", studentID)
		return nil, model.ErrInternalServer
	}
	courseByID := make(map[uuid.UUID]*model.CourseWithInstructor, len(courses))
	for _, c := range courses {
		courseByID[c.CourseID] = c
	}

	responses := make([]*model.EnrolledCourseResponse, 0, len(enrollments))
	for _, e := range enrollments {
		course, ok := courseByID[e.CourseID]
		if !ok {
			// コースが削除済みの受講登録は一覧から除外する
			continue
		}
		content := course.Content.Data()
		total := content.CountModules()
		responses = append(responses, &model.EnrolledCourseResponse{
			CourseID:             course.CourseID,
			Title:                course.Title,
			Description:          course.Description,
			Subject:              course.Subject,
			Rating:               course.Rating,
			InstructorName:       course.InstructorName,
			CompletionStatus:     e.CompletionStatus,
			ModulesStatus:        e.ModulesStatus,
			TotalModules:         total,
			CompletionPercentage: e.CompletionPercentage(total),
		})
	}
	return responses, nil
}
