// internal/service/course_service.go
package service

import (
	"context"
	"errors"

	"go_5_course_keep/internal/middleware"
	"go_5_course_keep/internal/model"
	"go_5_course_keep/internal/repository"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CourseService interface {
	CreateCourse(ctx context.Context, teacherID uuid.UUID, req *model.SaveCourseRequest) (*model.Course, error)
	UpdateCourse(ctx context.Context, teacherID, courseID uuid.UUID, req *model.SaveCourseRequest) (*model.Course, error)
	GetCourse(ctx context.Context, courseID uuid.UUID) (*model.CourseResponse, error)
	ListCourses(ctx context.Context) ([]model.CourseListItem, error)
	ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]*model.Course, error)
	DeleteCourse(ctx context.Context, teacherID, courseID uuid.UUID) error
}

type courseService struct {
	db         *gorm.DB // トランザクション用にDB接続を持つ
	courseRepo repository.CourseRepository
	userRepo   repository.UserRepository
}

func NewCourseService(db *gorm.DB, courseRepo repository.CourseRepository, userRepo repository.UserRepository) CourseService {
	return &courseService{
		db:         db,
		courseRepo: courseRepo,
		userRepo:   userRepo,
	}
}

// CreateCourse はコンテンツツリーを検証してコースを新規作成します。
func (s *courseService) CreateCourse(ctx context.Context, teacherID uuid.UUID, req *model.SaveCourseRequest) (*model.Course, error) {
	logger := middleware.GetLogger(ctx)

	content := req.ToContent()
	if err := content.Validate(); err != nil {
		return nil, err
	}

	var created *model.Course
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		course := &model.Course{
			CourseID:    uuid.New(),
			TeacherID:   teacherID,
			Title:       req.CourseTitle,
			Description: req.CourseDescription,
			Subject:     req.Subject,
			Content:     datatypes.NewJSONType(*content),
		}
		if err := s.courseRepo.Create(ctx, tx, course); err != nil {
			logger.Error("Error creating course", "error", err, "teacher_id", teacherID)
			return model.ErrInternalServer
		}
		created = course
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Course created", "course_id", created.CourseID, "teacher_id", teacherID)
	return created, nil
}

// UpdateCourse はコース情報とコンテンツツリーをまるごと置き換えます。
// 所有者(作成した講師)以外の更新は拒否します。
func (s *courseService) UpdateCourse(ctx context.Context, teacherID, courseID uuid.UUID, req *model.SaveCourseRequest) (*model.Course, error) {
	logger := middleware.GetLogger(ctx)

	content := req.ToContent()
	if err := content.Validate(); err != nil {
		return nil, err
	}

	var updated *model.Course
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		course, err := s.courseRepo.FindByID(ctx, tx, courseID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("COURSE_NOT_FOUND", "コースが見つかりません。", "courseId", model.ErrNotFound)
			}
			logger.Error("Error finding course for update", "error", err, "course_id", courseID)
			return model.ErrInternalServer
		}
		if course.TeacherID != teacherID {
			return model.NewAppError("FORBIDDEN", "自分が作成したコース以外は編集できません。", "", model.ErrForbidden)
		}

		course.Title = req.CourseTitle
		course.Description = req.CourseDescription
		course.Subject = req.Subject
		course.Content = datatypes.NewJSONType(*content)

		if err := s.courseRepo.Update(ctx, tx, course); err != nil {
			logger.Error("Error updating course", "error", err, "course_id", courseID)
			return model.ErrInternalServer
		}
		updated = course
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// GetCourse はコース詳細をコンテンツツリー・講師名付きで返します。
func (s *courseService) GetCourse(ctx context.Context, courseID uuid.UUID) (*model.CourseResponse, error) {
	logger := middleware.GetLogger(ctx)

	course, err := s.courseRepo.FindByID(ctx, s.db, courseID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("COURSE_NOT_FOUND", "コースが見つかりません。", "courseId", model.ErrNotFound)
		}
		logger.Error("Error finding course", "error", err, "course_id", courseID)
		return nil, model.ErrInternalServer
	}

	instructorName := ""
	if teacher, err := s.userRepo.FindByID(ctx, s.db, course.TeacherID); err == nil {
		instructorName = teacher.Name
	}

	content := course.Content.Data()
	return &model.CourseResponse{
		CourseID:       course.CourseID,
		TeacherID:      course.TeacherID,
		Title:          course.Title,
		Description:    course.Description,
		Subject:        course.Subject,
		Rating:         course.Rating,
		InstructorName: instructorName,
		RootModule:     content.RootModule,
		Modules:        content.Modules,
		TotalModules:   content.CountModules(),
		CreatedAt:      course.CreatedAt,
		UpdatedAt:      course.UpdatedAt,
	}, nil
}

// ListCourses はカタログ一覧(講師名付き、コンテンツなし)を返します。
func (s *courseService) ListCourses(ctx context.Context) ([]model.CourseListItem, error) {
	courses, err := s.courseRepo.FindAllWithInstructor(ctx, s.db)
	if err != nil {
		middleware.GetLogger(ctx).Error("Error listing courses", "error", err)
		return nil, model.ErrInternalServer
	}
	items := make([]model.CourseListItem, 0, len(courses))
	for _, c := range courses {
		items = append(items, c.ToListItem())
	}
	return items, nil
}

// ListByTeacher は講師自身のコース一覧を返します。
func (s *courseService) ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]*model.Course, error) {
	courses, err := s.courseRepo.FindByTeacher(ctx, s.db, teacherID)
	if err != nil {
		middleware.GetLogger(ctx).Error("Error listing teacher courses", "error", err, "teacher_id", teacherID)
		return nil, model.ErrInternalServer
	}
	return courses, nil
}

// DeleteCourse はコースを論理削除します。所有者以外は拒否します。
func (s *courseService) DeleteCourse(ctx context.Context, teacherID, courseID uuid.UUID) error {
	logger := middleware.GetLogger(ctx)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		course, err := s.courseRepo.FindByID(ctx, tx, courseID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("COURSE_NOT_FOUND", "コースが見つかりません。", "courseId", model.ErrNotFound)
			}
			logger.Error("Error finding course for delete", "error", err, "course_id", courseID)
			return model.ErrInternalServer
		}
		if course.TeacherID != teacherID {
			return model.NewAppError("FORBIDDEN", "自分が作成したコース以外は削除できません。", "", model.ErrForbidden)
		}
		if err := s.courseRepo.Delete(ctx, tx, courseID); err != nil {
			logger.Error("Error deleting course", "error", err, "course_id", courseID)
			return model.ErrInternalServer
		}
		return nil
	})
}
