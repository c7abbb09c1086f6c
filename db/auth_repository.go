package db

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/techagentng/roadguard/models"
	"gorm.io/gorm"
)

// AuthRepository interface
type AuthRepository interface {
	CreateUser(user *models.User) (*models.User, error)
	FindUserByID(id uint) (*models.User, error)
	FindUserByEmail(email string) (*models.User, error)
	IsEmailExist(email string) error
	IsUsernameExist(username string) error
	UpdateUser(user *models.User) error
	RecordValidatedID(userID uint, nin string) error
	ResetPassword(userID uint, hashedPassword string) error
	GetAllUsers() ([]models.User, error)
	CountUsers() (int64, error)
	GetDailyUserCounts(since time.Time) ([]models.DailyCount, error)
	SetUserRole(userID uint, role models.Role) error
	DeleteUserWithRecords(userID uint) ([]string, error)
	AddToBlackList(blacklist *models.Blacklist) error
	IsTokenInBlacklist(token string) bool
}

type authRepo struct {
	DB *gorm.DB
}

// NewAuthRepo instantiates an authRepo over the shared gorm handle.
func NewAuthRepo(db *GormDB) AuthRepository {
	return &authRepo{db.DB}
}

func (a *authRepo) CreateUser(user *models.User) (*models.User, error) {
	if err := a.DB.Create(user).Error; err != nil {
		return nil, errors.Wrap(err, "could not create user")
	}
	return user, nil
}

func (a *authRepo) FindUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := a.DB.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *authRepo) FindUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := a.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *authRepo) IsEmailExist(email string) error {
	var count int64
	if err := a.DB.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return errors.Wrap(err, "gorm count error")
	}
	if count > 0 {
		return fmt.Errorf("email already in use")
	}
	return nil
}

func (a *authRepo) IsUsernameExist(username string) error {
	var count int64
	if err := a.DB.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return errors.Wrap(err, "gorm count error")
	}
	if count > 0 {
		return fmt.Errorf("username already in use")
	}
	return nil
}

func (a *authRepo) UpdateUser(user *models.User) error {
	return a.DB.Save(user).Error
}

// RecordValidatedID stores the national-ID credential and flips the
// verification flag in one update.
func (a *authRepo) RecordValidatedID(userID uint, nin string) error {
	return a.DB.Model(&models.User{}).Where("id = ?", userID).
		Updates(map[string]interface{}{"nin": nin, "is_verified": true}).Error
}

func (a *authRepo) ResetPassword(userID uint, hashedPassword string) error {
	return a.DB.Model(&models.User{}).Where("id = ?", userID).
		Update("hashed_password", hashedPassword).Error
}

func (a *authRepo) GetAllUsers() ([]models.User, error) {
	var users []models.User
	if err := a.DB.Order("created_at desc").Find(&users).Error; err != nil {
		return nil, errors.Wrap(err, "could not list users")
	}
	return users, nil
}

func (a *authRepo) CountUsers() (int64, error) {
	var count int64
	err := a.DB.Model(&models.User{}).Count(&count).Error
	return count, err
}

func (a *authRepo) GetDailyUserCounts(since time.Time) ([]models.DailyCount, error) {
	var counts []models.DailyCount
	err := a.DB.Model(&models.User{}).
		Select("TO_CHAR(created_at, 'YYYY-MM-DD') as day, COUNT(*) as count").
		Where("created_at >= ?", since).
		Group("day").Order("day").
		Scan(&counts).Error
	if err != nil {
		return nil, errors.Wrap(err, "could not count users by day")
	}
	return counts, nil
}

func (a *authRepo) SetUserRole(userID uint, role models.Role) error {
	result := a.DB.Model(&models.User{}).Where("id = ?", userID).Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteUserWithRecords removes an account and everything hanging off it in
// one transaction: votes the user cast, posts the user owns (with their
// votes and rewards), reviews, then the row itself. It returns the image
// paths of the deleted posts so the caller can clean the image store after
// commit.
func (a *authRepo) DeleteUserWithRecords(userID uint) ([]string, error) {
	var imagePaths []string

	err := a.DB.Transaction(func(tx *gorm.DB) error {
		var posts []models.Post
		if err := tx.Where("user_id = ?", userID).Find(&posts).Error; err != nil {
			return err
		}
		for _, p := range posts {
			imagePaths = append(imagePaths, p.ImagePath)
			if err := tx.Where("post_id = ?", p.ID.String()).Delete(&models.Verification{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.Verification{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Post{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Reward{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, userID).Error
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not delete user records")
	}
	return imagePaths, nil
}

func (a *authRepo) AddToBlackList(blacklist *models.Blacklist) error {
	return a.DB.Create(blacklist).Error
}

func (a *authRepo) IsTokenInBlacklist(token string) bool {
	var count int64
	a.DB.Model(&models.Blacklist{}).Where("token = ?", token).Count(&count)
	return count > 0
}
