package services

import (
	"errors"
	"log"
	"net/http"

	"github.com/techagentng/roadguard/db"
	apiError "github.com/techagentng/roadguard/errors"
	"github.com/techagentng/roadguard/models"
	"gorm.io/gorm"
)

// VerificationService interface
type VerificationService interface {
	CastVote(userID uint, postID, voteType string) (*models.VerificationCounts, *apiError.Error)
	GetVoteCounts(postID string) (*models.VerificationCounts, *apiError.Error)
}

// verificationService struct
type verificationService struct {
	verificationRepo db.VerificationRepository
	postRepo         db.PostRepository
	authRepo         db.AuthRepository
}

// NewVerificationService instantiate a verificationService
func NewVerificationService(verificationRepo db.VerificationRepository, postRepo db.PostRepository, authRepo db.AuthRepository) VerificationService {
	return &verificationService{
		verificationRepo: verificationRepo,
		postRepo:         postRepo,
		authRepo:         authRepo,
	}
}

// CastVote records a crowd vote on a report. One vote per user per
// report; repeating the same vote is a no-op, a different vote replaces
// the previous one. Returns both tallies as stored.
func (s *verificationService) CastVote(userID uint, postID, voteType string) (*models.VerificationCounts, *apiError.Error) {
	user, err := s.authRepo.FindUserByID(userID)
	if err != nil {
		return nil, apiError.New("user not found", http.StatusNotFound)
	}
	if !user.HasValidatedID() {
		return nil, apiError.New("identity not verified. validate your national ID before voting", http.StatusForbidden)
	}

	parsed, ok := models.ParseVerificationType(voteType)
	if !ok {
		return nil, apiError.New("invalid vote type. valid choices: CONFIRM, FALSE", http.StatusBadRequest)
	}

	if _, err := s.postRepo.GetPostByID(postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.New("post not found", http.StatusNotFound)
		}
		return nil, apiError.ErrInternalServerError
	}

	counts, err := s.verificationRepo.CastVote(postID, userID, parsed)
	if err != nil {
		log.Printf("error casting vote on post %s: %v", postID, err)
		return nil, apiError.ErrInternalServerError
	}
	return counts, nil
}

func (s *verificationService) GetVoteCounts(postID string) (*models.VerificationCounts, *apiError.Error) {
	if _, err := s.postRepo.GetPostByID(postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.New("post not found", http.StatusNotFound)
		}
		return nil, apiError.ErrInternalServerError
	}

	counts, err := s.verificationRepo.CountVotes(postID)
	if err != nil {
		log.Printf("error counting votes on post %s: %v", postID, err)
		return nil, apiError.ErrInternalServerError
	}
	return counts, nil
}
