package db

import (
	"time"

	"github.com/pkg/errors"
	"github.com/techagentng/roadguard/models"
	"gorm.io/gorm"
)

type PostRepository interface {
	SavePost(post *models.Post) error
	GetPostByID(id string) (*models.Post, error)
	GetAllPosts(sort string) ([]models.Post, error)
	FilterPostsByLocation(province, city, district string) ([]models.Post, error)
	GetPostsByStatus(status models.PostStatus) ([]models.Post, error)
	GetDistinctLocations() (*models.PostLocations, error)
	CountPosts() (int64, error)
	CountPostsByStatus(status models.PostStatus) (int64, error)
	CountPostsBySeverity(sev models.Severity) (int64, error)
	GetDailyPostCounts(since time.Time) ([]models.DailyCount, error)
	UpdatePostStatus(id string, status models.PostStatus) (*models.Post, error)
	DeletePostWithVotes(id string) error
}

type postRepo struct {
	DB *gorm.DB
}

func NewPostRepo(db *GormDB) PostRepository {
	return &postRepo{db.DB}
}

func (p *postRepo) SavePost(post *models.Post) error {
	if err := p.DB.Create(post).Error; err != nil {
		return errors.Wrap(err, "could not save post")
	}
	return nil
}

func (p *postRepo) GetPostByID(id string) (*models.Post, error) {
	var post models.Post
	if err := p.DB.Where("id = ?", id).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// GetAllPosts returns the feed. "terbaru" (default) is newest first,
// "trending" ranks by vote volume excluding finished reports, "selesai"
// shows finished reports only.
func (p *postRepo) GetAllPosts(sort string) ([]models.Post, error) {
	var posts []models.Post
	q := p.DB.Model(&models.Post{})

	switch sort {
	case "trending":
		q = q.Where("status <> ?", models.StatusFinished).
			Order("(confirm_count + false_count) desc").
			Order("created_at desc")
	case "selesai":
		q = q.Where("status = ?", models.StatusFinished).
			Order("created_at desc")
	default:
		q = q.Order("created_at desc")
	}

	if err := q.Find(&posts).Error; err != nil {
		return nil, errors.Wrap(err, "could not list posts")
	}
	return posts, nil
}

func (p *postRepo) FilterPostsByLocation(province, city, district string) ([]models.Post, error) {
	var posts []models.Post
	q := p.DB.Model(&models.Post{})

	if province != "" {
		q = q.Where("province ILIKE ?", "%"+province+"%")
	}
	if city != "" {
		q = q.Where("city ILIKE ?", "%"+city+"%")
	}
	if district != "" {
		q = q.Where("district ILIKE ?", "%"+district+"%")
	}

	if err := q.Order("created_at desc").Find(&posts).Error; err != nil {
		return nil, errors.Wrap(err, "could not filter posts")
	}
	return posts, nil
}

func (p *postRepo) GetPostsByStatus(status models.PostStatus) ([]models.Post, error) {
	var posts []models.Post
	if err := p.DB.Where("status = ?", status).Order("created_at desc").Find(&posts).Error; err != nil {
		return nil, errors.Wrap(err, "could not list posts by status")
	}
	return posts, nil
}

func (p *postRepo) GetDistinctLocations() (*models.PostLocations, error) {
	locations := &models.PostLocations{}

	if err := p.DB.Model(&models.Post{}).
		Where("province <> ''").Distinct().Order("province").
		Pluck("province", &locations.Provinces).Error; err != nil {
		return nil, err
	}
	if err := p.DB.Model(&models.Post{}).
		Where("city <> ''").Distinct().Order("city").
		Pluck("city", &locations.Cities).Error; err != nil {
		return nil, err
	}
	if err := p.DB.Model(&models.Post{}).
		Where("district <> ''").Distinct().Order("district").
		Pluck("district", &locations.Districts).Error; err != nil {
		return nil, err
	}
	return locations, nil
}

func (p *postRepo) CountPosts() (int64, error) {
	var count int64
	err := p.DB.Model(&models.Post{}).Count(&count).Error
	return count, err
}

func (p *postRepo) CountPostsByStatus(status models.PostStatus) (int64, error) {
	var count int64
	err := p.DB.Model(&models.Post{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

func (p *postRepo) CountPostsBySeverity(sev models.Severity) (int64, error) {
	var count int64
	err := p.DB.Model(&models.Post{}).Where("severity = ?", sev).Count(&count).Error
	return count, err
}

func (p *postRepo) GetDailyPostCounts(since time.Time) ([]models.DailyCount, error) {
	var counts []models.DailyCount
	err := p.DB.Model(&models.Post{}).
		Select("TO_CHAR(created_at, 'YYYY-MM-DD') as day, COUNT(*) as count").
		Where("created_at >= ?", since).
		Group("day").Order("day").
		Scan(&counts).Error
	if err != nil {
		return nil, errors.Wrap(err, "could not count posts by day")
	}
	return counts, nil
}

func (p *postRepo) UpdatePostStatus(id string, status models.PostStatus) (*models.Post, error) {
	var post models.Post
	if err := p.DB.Where("id = ?", id).First(&post).Error; err != nil {
		return nil, err
	}
	if err := p.DB.Model(&post).Update("status", status).Error; err != nil {
		return nil, errors.Wrap(err, "could not update post status")
	}
	return &post, nil
}

// DeletePostWithVotes removes the post and its votes in one transaction.
// The stored image is the caller's problem: file removal happens after
// commit and is never allowed to fail the deletion.
func (p *postRepo) DeletePostWithVotes(id string) error {
	return p.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Verification{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Post{}).Error
	})
}
