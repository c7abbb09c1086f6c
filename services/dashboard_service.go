package services

import (
	"log"
	"time"

	"github.com/techagentng/roadguard/db"
	apiError "github.com/techagentng/roadguard/errors"
	"github.com/techagentng/roadguard/models"
)

// DashboardStats is the admin overview payload.
type DashboardStats struct {
	TotalUsers        int64   `json:"total_users"`
	TotalReports      int64   `json:"total_reports"`
	WaitingReports    int64   `json:"waiting_reports"`
	ProcessingReports int64   `json:"processing_reports"`
	FinishedReports   int64   `json:"finished_reports"`
	SeriousReports    int64   `json:"serious_reports"`
	PointsIssued      int     `json:"points_issued"`
	AverageRating     float64 `json:"average_rating"`
}

// GrowthStats is the per-day signup and report series for the admin
// dashboard charts.
type GrowthStats struct {
	Since   string              `json:"since"`
	Users   []models.DailyCount `json:"users"`
	Reports []models.DailyCount `json:"reports"`
}

// DashboardService interface
type DashboardService interface {
	GetStats() (*DashboardStats, *apiError.Error)
	GetGrowth(days int) (*GrowthStats, *apiError.Error)
}

type dashboardService struct {
	authRepo   db.AuthRepository
	postRepo   db.PostRepository
	rewardRepo db.RewardRepository
	reviewRepo db.ReviewRepository
}

// NewDashboardService instantiate a dashboardService
func NewDashboardService(authRepo db.AuthRepository, postRepo db.PostRepository, rewardRepo db.RewardRepository, reviewRepo db.ReviewRepository) DashboardService {
	return &dashboardService{
		authRepo:   authRepo,
		postRepo:   postRepo,
		rewardRepo: rewardRepo,
		reviewRepo: reviewRepo,
	}
}

func (s *dashboardService) GetStats() (*DashboardStats, *apiError.Error) {
	stats := &DashboardStats{}
	var err error

	if stats.TotalUsers, err = s.authRepo.CountUsers(); err != nil {
		log.Printf("dashboard: error counting users: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	if stats.TotalReports, err = s.postRepo.CountPosts(); err != nil {
		log.Printf("dashboard: error counting posts: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	if stats.WaitingReports, err = s.postRepo.CountPostsByStatus(models.StatusWaiting); err != nil {
		return nil, apiError.ErrInternalServerError
	}
	if stats.ProcessingReports, err = s.postRepo.CountPostsByStatus(models.StatusProcessing); err != nil {
		return nil, apiError.ErrInternalServerError
	}
	if stats.FinishedReports, err = s.postRepo.CountPostsByStatus(models.StatusFinished); err != nil {
		return nil, apiError.ErrInternalServerError
	}
	if stats.SeriousReports, err = s.postRepo.CountPostsBySeverity(models.SeveritySerious); err != nil {
		return nil, apiError.ErrInternalServerError
	}
	if stats.PointsIssued, err = s.rewardRepo.SumAllRewardsBalance(); err != nil {
		return nil, apiError.ErrInternalServerError
	}
	if stats.AverageRating, err = s.reviewRepo.GetAverageRating(); err != nil {
		return nil, apiError.ErrInternalServerError
	}
	return stats, nil
}

// GetGrowth returns daily signup and report counts over the trailing
// window. A non-positive window falls back to 30 days.
func (s *dashboardService) GetGrowth(days int) (*GrowthStats, *apiError.Error) {
	if days <= 0 {
		days = 30
	}
	since := time.Now().UTC().AddDate(0, 0, -days).Truncate(24 * time.Hour)

	users, err := s.authRepo.GetDailyUserCounts(since)
	if err != nil {
		log.Printf("dashboard: error counting users by day: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	reports, err := s.postRepo.GetDailyPostCounts(since)
	if err != nil {
		log.Printf("dashboard: error counting posts by day: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	return &GrowthStats{
		Since:   since.Format("2006-01-02"),
		Users:   users,
		Reports: reports,
	}, nil
}
