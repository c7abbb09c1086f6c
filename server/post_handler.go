package server

import (
	"io"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	errs "github.com/techagentng/roadguard/errors"
	"github.com/techagentng/roadguard/models"
	"github.com/techagentng/roadguard/server/response"
	"github.com/techagentng/roadguard/services"
)

// handleCreatePost accepts the multipart submission form. Field
// validation is deliberately left to the service so failures surface in
// a fixed order regardless of which field is malformed.
func (s *Server) handleCreatePost() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		input := &services.CreatePostInput{
			Image:     readFormImage(c),
			Latitude:  parseCoord(c.PostForm("latitude")),
			Longitude: parseCoord(c.PostForm("longitude")),
			Address:   c.PostForm("address"),
			Province:  c.PostForm("province"),
			City:      c.PostForm("city"),
			District:  c.PostForm("district"),
			Caption:   c.PostForm("caption"),
		}

		post, apiErr := s.PostService.CreatePost(c.Request.Context(), userID, input)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "report submitted", http.StatusOK, post, nil)
	}
}

func readFormImage(c *gin.Context) []byte {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return nil
	}
	file, err := fileHeader.Open()
	if err != nil {
		return nil
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil
	}
	return data
}

// parseCoord maps an unparseable value to NaN, which fails coordinate
// validation downstream.
func parseCoord(s string) float64 {
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func (s *Server) handleGetPost() gin.HandlerFunc {
	return func(c *gin.Context) {
		post, apiErr := s.PostService.GetPost(c.Param("id"))
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "", http.StatusOK, post, nil)
	}
}

func (s *Server) handleGetAllPosts() gin.HandlerFunc {
	return func(c *gin.Context) {
		posts, apiErr := s.PostService.GetAllPosts(c.DefaultQuery("sort", "terbaru"))
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "", http.StatusOK, posts, nil)
	}
}

func (s *Server) handleFilterPosts() gin.HandlerFunc {
	return func(c *gin.Context) {
		posts, apiErr := s.PostService.FilterPostsByLocation(
			c.Query("province"),
			c.Query("city"),
			c.Query("district"),
		)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "", http.StatusOK, posts, nil)
	}
}

func (s *Server) handleGetPostsByStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		posts, apiErr := s.PostService.GetPostsByStatus(c.Query("status"))
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "", http.StatusOK, posts, nil)
	}
}

func (s *Server) handleGetPostLocations() gin.HandlerFunc {
	return func(c *gin.Context) {
		locations, apiErr := s.PostService.GetPostLocations()
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "", http.StatusOK, locations, nil)
	}
}

func (s *Server) handleUpdatePostStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		var request models.UpdateStatusRequest
		if err := decode(c, &request); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New(models.InvalidStatusMessage(), http.StatusBadRequest))
			return
		}

		post, apiErr := s.PostService.UpdatePostStatus(user, c.Param("id"), request.Status)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "status updated", http.StatusOK, post, nil)
	}
}

func (s *Server) handleDeletePost() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		if apiErr := s.PostService.DeletePost(user, c.Param("id")); apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "report deleted", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleCastVote() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		var request models.CastVoteRequest
		if err := decode(c, &request); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New("invalid vote type. valid choices: CONFIRM, FALSE", http.StatusBadRequest))
			return
		}

		counts, apiErr := s.VerificationService.CastVote(userID, c.Param("id"), request.Type)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "vote recorded", http.StatusOK, counts, nil)
	}
}

func (s *Server) handleGetVoteCounts() gin.HandlerFunc {
	return func(c *gin.Context) {
		counts, apiErr := s.VerificationService.GetVoteCounts(c.Param("id"))
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "", http.StatusOK, counts, nil)
	}
}
