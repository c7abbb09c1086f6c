package db

import (
	"errors"

	"github.com/techagentng/roadguard/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VerificationRepository interface {
	CastVote(postID string, userID uint, voteType models.VerificationType) (*models.VerificationCounts, error)
	CountVotes(postID string) (*models.VerificationCounts, error)
}

type verificationRepo struct {
	DB *gorm.DB
}

func NewVerificationRepo(db *GormDB) VerificationRepository {
	return &verificationRepo{db.DB}
}

// CastVote upserts the (post, user) vote and recomputes both tallies inside
// a single transaction. The post row is locked FOR UPDATE for the whole
// sequence so two concurrent casts on the same report serialize: a recount
// can never overwrite a newer vote's effect with a stale count. The recount
// is total rather than an increment so a CONFIRM->FALSE switch moves both
// tallies correctly.
func (v *verificationRepo) CastVote(postID string, userID uint, voteType models.VerificationType) (*models.VerificationCounts, error) {
	counts := &models.VerificationCounts{}

	err := v.DB.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", postID).First(&post).Error; err != nil {
			return err
		}

		var existing models.Verification
		err := tx.Where("post_id = ? AND user_id = ?", postID, userID).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			vote := models.Verification{
				PostID:           postID,
				UserID:           userID,
				VerificationType: voteType,
			}
			if err := tx.Create(&vote).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			if err := tx.Model(&existing).Update("verification_type", voteType).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&models.Verification{}).
			Where("post_id = ? AND verification_type = ?", postID, models.VerificationConfirm).
			Count(&counts.Valid).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Verification{}).
			Where("post_id = ? AND verification_type = ?", postID, models.VerificationFalse).
			Count(&counts.False).Error; err != nil {
			return err
		}

		return tx.Model(&models.Post{}).Where("id = ?", postID).
			Updates(map[string]interface{}{
				"confirm_count": counts.Valid,
				"false_count":   counts.False,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func (v *verificationRepo) CountVotes(postID string) (*models.VerificationCounts, error) {
	counts := &models.VerificationCounts{}
	if err := v.DB.Model(&models.Verification{}).
		Where("post_id = ? AND verification_type = ?", postID, models.VerificationConfirm).
		Count(&counts.Valid).Error; err != nil {
		return nil, err
	}
	if err := v.DB.Model(&models.Verification{}).
		Where("post_id = ? AND verification_type = ?", postID, models.VerificationFalse).
		Count(&counts.False).Error; err != nil {
		return nil, err
	}
	return counts, nil
}
