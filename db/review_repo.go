package db

import (
	"github.com/pkg/errors"
	"github.com/techagentng/roadguard/models"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	CreateReview(review *models.Review) error
	GetAllReviews() ([]models.Review, error)
	UpdateReviewSentiment(id uint, sentiment string) error
	DeleteReview(id uint) error
	GetAverageRating() (float64, error)
	CountBySentiment(sentiment string) (int64, error)
}

type reviewRepo struct {
	DB *gorm.DB
}

func NewReviewRepo(db *GormDB) ReviewRepository {
	return &reviewRepo{db.DB}
}

func (r *reviewRepo) CreateReview(review *models.Review) error {
	if err := r.DB.Create(review).Error; err != nil {
		return errors.Wrap(err, "could not create review")
	}
	return nil
}

func (r *reviewRepo) GetAllReviews() ([]models.Review, error) {
	var reviews []models.Review
	if err := r.DB.Order("created_at desc").Find(&reviews).Error; err != nil {
		return nil, errors.Wrap(err, "could not list reviews")
	}
	return reviews, nil
}

func (r *reviewRepo) UpdateReviewSentiment(id uint, sentiment string) error {
	return r.DB.Model(&models.Review{}).Where("id = ?", id).
		Update("sentiment", sentiment).Error
}

func (r *reviewRepo) DeleteReview(id uint) error {
	result := r.DB.Delete(&models.Review{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *reviewRepo) GetAverageRating() (float64, error) {
	var avg float64
	err := r.DB.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&avg).Error
	return avg, err
}

func (r *reviewRepo) CountBySentiment(sentiment string) (int64, error) {
	var count int64
	err := r.DB.Model(&models.Review{}).Where("sentiment = ?", sentiment).Count(&count).Error
	return count, err
}
