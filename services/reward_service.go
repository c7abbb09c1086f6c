package services

import (
	"log"

	"github.com/techagentng/roadguard/db"
	apiError "github.com/techagentng/roadguard/errors"
	"github.com/techagentng/roadguard/models"
)

// RewardService interface
type RewardService interface {
	GetUserBalance(userID uint) (int, *apiError.Error)
	GetAllRewards() ([]models.Reward, *apiError.Error)
	GetTotalPointsIssued() (int, *apiError.Error)
}

// rewardService struct
type rewardService struct {
	rewardRepo db.RewardRepository
}

// NewRewardService instantiate a rewardService
func NewRewardService(rewardRepo db.RewardRepository) RewardService {
	return &rewardService{rewardRepo: rewardRepo}
}

func (s *rewardService) GetUserBalance(userID uint) (int, *apiError.Error) {
	balance, err := s.rewardRepo.GetUserPointBalance(userID)
	if err != nil {
		log.Printf("error reading balance for user %d: %v", userID, err)
		return 0, apiError.ErrInternalServerError
	}
	return balance, nil
}

func (s *rewardService) GetAllRewards() ([]models.Reward, *apiError.Error) {
	rewards, err := s.rewardRepo.GetAllRewards()
	if err != nil {
		log.Printf("error listing rewards: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	return rewards, nil
}

func (s *rewardService) GetTotalPointsIssued() (int, *apiError.Error) {
	total, err := s.rewardRepo.SumAllRewardsBalance()
	if err != nil {
		log.Printf("error summing rewards: %v", err)
		return 0, apiError.ErrInternalServerError
	}
	return total, nil
}
