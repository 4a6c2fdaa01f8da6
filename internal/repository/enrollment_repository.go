// internal/repository/enrollment_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"go_5_course_keep/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type EnrollmentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, enrollment *model.Enrollment) error
	FindByPair(ctx context.Context, db *gorm.DB, courseID, studentID uuid.UUID) (*model.Enrollment, error)
	Update(ctx context.Context, tx *gorm.DB, enrollment *model.Enrollment) error
	FindByStudent(ctx context.Context, db *gorm.DB, studentID uuid.UUID) ([]*model.Enrollment, error)
	FindByCourseIDs(ctx context.Context, db *gorm.DB, courseIDs []uuid.UUID) ([]*model.Enrollment, error)
}

type gormEnrollmentRepository struct {
	// DB接続はService層から渡される想定
}

func NewGormEnrollmentRepository() EnrollmentRepository {
	return &gormEnrollmentRepository{}
}

func (r *gormEnrollmentRepository) Create(ctx context.Context, tx *gorm.DB, enrollment *model.Enrollment) error {
	result := tx.WithContext(ctx).Create(enrollment)
	if result.Error != nil {
		// (course_id, student_id) の複合ユニーク制約違反は登録済みとして返す。
		// TranslateError有効時はgorm.ErrDuplicatedKeyに正規化されるが、
		// ドライバのエラーが素通りするケースに備えてpgconn側も見る。
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return model.ErrAlreadyEnrolled
		}
		var pgErr *pgconn.PgError
		if errors.As(result.Error, &pgErr) && pgErr.Code == "23505" {
			return model.ErrAlreadyEnrolled
		}
		return fmt.Errorf("gormEnrollmentRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormEnrollmentRepository) FindByPair(ctx context.Context, db *gorm.DB, courseID, studentID uuid.UUID) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	result := db.WithContext(ctx).
		Where("course_id = ? AND student_id = ?", courseID, studentID).
		First(&enrollment)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("gormEnrollmentRepository.FindByPair: %w", result.Error)
	}
	return &enrollment, nil
}

func (r *gormEnrollmentRepository) Update(ctx context.Context, tx *gorm.DB, enrollment *model.Enrollment) error {
	// 進捗リストはJSONカラムごと置き換える。存在確認は呼び出し元(Service)で行う想定。
	result := tx.WithContext(ctx).Save(enrollment)
	if result.Error != nil {
		return fmt.Errorf("gormEnrollmentRepository.Update: %w", result.Error)
	}
	return nil
}

func (r *gormEnrollmentRepository) FindByStudent(ctx context.Context, db *gorm.DB, studentID uuid.UUID) ([]*model.Enrollment, error) {
	var enrollments []*model.Enrollment
	result := db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&enrollments)
	if result.Error != nil {
		return nil, fmt.Errorf("gormEnrollmentRepository.FindByStudent: %w", result.Error)
	}
	return enrollments, nil
}

func (r *gormEnrollmentRepository) FindByCourseIDs(ctx context.Context, db *gorm.DB, courseIDs []uuid.UUID) ([]*model.Enrollment, error) {
	var enrollments []*model.Enrollment
	if len(courseIDs) == 0 {
		return enrollments, nil
	}
	result := db.WithContext(ctx).
		Where("course_id IN ?", courseIDs).
		Find(&enrollments)
	if result.Error != nil {
		return nil, fmt.Errorf("gormEnrollmentRepository.FindByCourseIDs: %w", result.Error)
	}
	return enrollments, nil
}
