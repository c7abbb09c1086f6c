package db

import (
	"github.com/pkg/errors"
	"github.com/techagentng/roadguard/models"
	"gorm.io/gorm"
)

type RewardRepository interface {
	GrantReportReward(userID uint, postID string, points int) (int, error)
	GetUserPointBalance(userID uint) (int, error)
	GetAllRewards() ([]models.Reward, error)
	SumAllRewardsBalance() (int, error)
}

type rewardRepo struct {
	DB *gorm.DB
}

func NewRewardRepo(db *GormDB) RewardRepository {
	return &rewardRepo{db.DB}
}

// GrantReportReward appends an audit row and bumps the user's balance in
// one transaction. Returns the new balance. Points never go down here;
// report deletion does not pass through this path.
func (r *rewardRepo) GrantReportReward(userID uint, postID string, points int) (int, error) {
	var balance int

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("id = ?", userID).
			Update("points", gorm.Expr("points + ?", points)).Error; err != nil {
			return err
		}

		var user models.User
		if err := tx.Select("points").First(&user, userID).Error; err != nil {
			return err
		}
		balance = user.Points

		reward := models.Reward{
			UserID:     userID,
			PostID:     postID,
			RewardType: "report_created",
			Point:      points,
			Balance:    balance,
		}
		return tx.Create(&reward).Error
	})
	if err != nil {
		return 0, errors.Wrap(err, "could not grant reward")
	}
	return balance, nil
}

func (r *rewardRepo) GetUserPointBalance(userID uint) (int, error) {
	var user models.User
	if err := r.DB.Select("points").First(&user, userID).Error; err != nil {
		return 0, err
	}
	return user.Points, nil
}

func (r *rewardRepo) GetAllRewards() ([]models.Reward, error) {
	var rewards []models.Reward
	if err := r.DB.Order("created_at desc").Find(&rewards).Error; err != nil {
		return nil, err
	}
	return rewards, nil
}

func (r *rewardRepo) SumAllRewardsBalance() (int, error) {
	var total int
	err := r.DB.Model(&models.Reward{}).
		Select("COALESCE(SUM(point), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}
