// internal/repository/course_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"go_5_course_keep/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CourseRepository interface {
	Create(ctx context.Context, tx *gorm.DB, course *model.Course) error
	FindByID(ctx context.Context, db *gorm.DB, courseID uuid.UUID) (*model.Course, error)
	FindByIDs(ctx context.Context, db *gorm.DB, courseIDs []uuid.UUID) ([]*model.Course, error)
	Update(ctx context.Context, tx *gorm.DB, course *model.Course) error
	Delete(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) error
	FindAllWithInstructor(ctx context.Context, db *gorm.DB) ([]*model.CourseWithInstructor, error)
	FindByIDsWithInstructor(ctx context.Context, db *gorm.DB, courseIDs []uuid.UUID) ([]*model.CourseWithInstructor, error)
	FindByTeacher(ctx context.Context, db *gorm.DB, teacherID uuid.UUID) ([]*model.Course, error)
}

type gormCourseRepository struct {
	// DB接続はService層から渡される想定
}

func NewGormCourseRepository() CourseRepository {
	return &gormCourseRepository{}
}

func (r *gormCourseRepository) Create(ctx context.Context, tx *gorm.DB, course *model.Course) error {
	result := tx.WithContext(ctx).Create(course)
	if result.Error != nil {
		return fmt.Errorf("gormCourseRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormCourseRepository) FindByID(ctx context.Context, db *gorm.DB, courseID uuid.UUID) (*model.Course, error) {
	var course model.Course
	result := db.WithContext(ctx).Where("course_id = ?", courseID).First(&course)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("gormCourseRepository.FindByID: %w", result.Error)
	}
	return &course, nil
}

func (r *gormCourseRepository) FindByIDs(ctx context.Context, db *gorm.DB, courseIDs []uuid.UUID) ([]*model.Course, error) {
	var courses []*model.Course
	if len(courseIDs) == 0 {
		return courses, nil
	}
	result := db.WithContext(ctx).Where("course_id IN ?", courseIDs).Find(&courses)
	if result.Error != nil {
		return nil, fmt.Errorf("gormCourseRepository.FindByIDs: %w", result.Error)
	}
	return courses, nil
}

func (r *gormCourseRepository) Update(ctx context.Context, tx *gorm.DB, course *model.Course) error {
	// コンテンツツリーはJSONカラムごと置き換える
	result := tx.WithContext(ctx).Save(course)
	if result.Error != nil {
		return fmt.Errorf("gormCourseRepository.Update: %w", result.Error)
	}
	return nil
}

func (r *gormCourseRepository) Delete(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) error {
	// 論理削除 (DeletedAtをセット)
	result := tx.WithContext(ctx).Where("course_id = ?", courseID).Delete(&model.Course{})
	if result.Error != nil {
		return fmt.Errorf("gormCourseRepository.Delete: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

// FindAllWithInstructor はカタログ一覧用に講師名をJOINして全コースを取得します。
func (r *gormCourseRepository) FindAllWithInstructor(ctx context.Context, db *gorm.DB) ([]*model.CourseWithInstructor, error) {
	var courses []*model.CourseWithInstructor
	result := db.WithContext(ctx).
		Model(&model.Course{}).
		Select("courses.*, users.name AS instructor_name").
		Joins("JOIN users ON users.user_id = courses.teacher_id AND users.deleted_at IS NULL").
		Order("courses.created_at DESC").
		Find(&courses)
	if result.Error != nil {
		return nil, fmt.Errorf("gormCourseRepository.FindAllWithInstructor: %w", result.Error)
	}
	return courses, nil
}

func (r *gormCourseRepository) FindByIDsWithInstructor(ctx context.Context, db *gorm.DB, courseIDs []uuid.UUID) ([]*model.CourseWithInstructor, error) {
	var courses []*model.CourseWithInstructor
	if len(courseIDs) == 0 {
		return courses, nil
	}
	result := db.WithContext(ctx).
		Model(&model.Course{}).
		Select("courses.*, users.name AS instructor_name").
		Joins("JOIN users ON users.user_id = courses.teacher_id AND users.deleted_at IS NULL").
		Where("courses.course_id IN ?", courseIDs).
		Find(&courses)
	if result.Error != nil {
		return nil, fmt.Errorf("gormCourseRepository.FindByIDsWithInstructor: %w", result.Error)
	}
	return courses, nil
}

func (r *gormCourseRepository) FindByTeacher(ctx context.Context, db *gorm.DB, teacherID uuid.UUID) ([]*model.Course, error) {
	var courses []*model.Course
	result := db.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		Order("created_at DESC").
		Find(&courses)
	if result.Error != nil {
		return nil, fmt.Errorf("gormCourseRepository.FindByTeacher: %w", result.Error)
	}
	return courses, nil
}
