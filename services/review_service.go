package services

import (
	"context"
	"log"
	"net/http"

	"github.com/techagentng/roadguard/db"
	apiError "github.com/techagentng/roadguard/errors"
	"github.com/techagentng/roadguard/models"
	"github.com/techagentng/roadguard/sentiment"
	"gorm.io/gorm"
)

// ReviewService interface
type ReviewService interface {
	CreateReview(ctx context.Context, userID uint, request *models.CreateReviewRequest) (*models.Review, *apiError.Error)
	GetAllReviews(ctx context.Context) ([]models.Review, *apiError.Error)
	DeleteReview(id uint) *apiError.Error
}

// reviewService struct
type reviewService struct {
	reviewRepo db.ReviewRepository
	classifier sentiment.Classifier
}

// NewReviewService instantiate a reviewService
func NewReviewService(reviewRepo db.ReviewRepository, classifier sentiment.Classifier) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		classifier: classifier,
	}
}

// CreateReview stores the review immediately; sentiment labelling is
// best effort and never blocks or fails the write.
func (s *reviewService) CreateReview(ctx context.Context, userID uint, request *models.CreateReviewRequest) (*models.Review, *apiError.Error) {
	review := &models.Review{
		UserID:  userID,
		Rating:  request.Rating,
		Comment: request.Comment,
	}

	if label, err := s.classifier.Predict(ctx, request.Comment); err == nil {
		review.Sentiment = label
	} else {
		log.Printf("sentiment classifier unavailable: %v", err)
	}

	if err := s.reviewRepo.CreateReview(review); err != nil {
		log.Printf("error creating review: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	return review, nil
}

// GetAllReviews lists reviews, backfilling sentiment labels for rows
// written while the classifier was down.
func (s *reviewService) GetAllReviews(ctx context.Context) ([]models.Review, *apiError.Error) {
	reviews, err := s.reviewRepo.GetAllReviews()
	if err != nil {
		log.Printf("error listing reviews: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	for i := range reviews {
		if reviews[i].Sentiment != "" {
			continue
		}
		label, err := s.classifier.Predict(ctx, reviews[i].Comment)
		if err != nil {
			break
		}
		reviews[i].Sentiment = label
		if err := s.reviewRepo.UpdateReviewSentiment(reviews[i].ID, label); err != nil {
			log.Printf("error backfilling sentiment for review %d: %v", reviews[i].ID, err)
		}
	}
	return reviews, nil
}

func (s *reviewService) DeleteReview(id uint) *apiError.Error {
	if err := s.reviewRepo.DeleteReview(id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return apiError.New("review not found", http.StatusNotFound)
		}
		log.Printf("error deleting review %d: %v", id, err)
		return apiError.ErrInternalServerError
	}
	return nil
}
