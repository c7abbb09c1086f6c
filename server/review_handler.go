package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	errs "github.com/techagentng/roadguard/errors"
	"github.com/techagentng/roadguard/models"
	"github.com/techagentng/roadguard/server/response"
)

func (s *Server) handleCreateReview() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		var request models.CreateReviewRequest
		if err := decode(c, &request); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New("rating must be between 1 and 5", http.StatusBadRequest))
			return
		}

		review, apiErr := s.ReviewService.CreateReview(c.Request.Context(), userID, &request)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "review submitted", http.StatusCreated, review, nil)
	}
}

func (s *Server) handleGetAllReviews() gin.HandlerFunc {
	return func(c *gin.Context) {
		reviews, apiErr := s.ReviewService.GetAllReviews(c.Request.Context())
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "", http.StatusOK, reviews, nil)
	}
}

func (s *Server) handleDeleteReview() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New("invalid review id", http.StatusBadRequest))
			return
		}

		if apiErr := s.ReviewService.DeleteReview(uint(id)); apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "review deleted", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleGetPointBalance() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		balance, apiErr := s.RewardService.GetUserBalance(userID)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "", http.StatusOK, gin.H{"points": balance}, nil)
	}
}

func (s *Server) handleGetAllRewards() gin.HandlerFunc {
	return func(c *gin.Context) {
		rewards, apiErr := s.RewardService.GetAllRewards()
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		total, apiErr := s.RewardService.GetTotalPointsIssued()
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "", http.StatusOK, gin.H{"rewards": rewards, "total_points": total}, nil)
	}
}

func (s *Server) handleDashboardStats() gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, apiErr := s.DashboardService.GetStats()
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "", http.StatusOK, stats, nil)
	}
}

func (s *Server) handleDashboardGrowth() gin.HandlerFunc {
	return func(c *gin.Context) {
		days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New("days must be a number", http.StatusBadRequest))
			return
		}

		growth, apiErr := s.DashboardService.GetGrowth(days)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "", http.StatusOK, growth, nil)
	}
}
