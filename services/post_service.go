package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang/geo/s2"
	"github.com/google/uuid"
	"github.com/techagentng/roadguard/config"
	"github.com/techagentng/roadguard/db"
	"github.com/techagentng/roadguard/detector"
	apiError "github.com/techagentng/roadguard/errors"
	"github.com/techagentng/roadguard/models"
	"github.com/techagentng/roadguard/severity"
	"github.com/techagentng/roadguard/storage"
	"gorm.io/gorm"
)

// CreatePostInput carries one report submission through the pipeline.
type CreatePostInput struct {
	Image     []byte
	Latitude  float64
	Longitude float64
	Address   string
	Province  string
	City      string
	District  string
	Caption   string
}

// PostService interface
type PostService interface {
	CreatePost(ctx context.Context, userID uint, input *CreatePostInput) (*models.PostResponse, *apiError.Error)
	GetPost(id string) (*models.PostResponse, *apiError.Error)
	GetAllPosts(sort string) ([]models.PostResponse, *apiError.Error)
	FilterPostsByLocation(province, city, district string) ([]models.PostResponse, *apiError.Error)
	GetPostsByStatus(status string) ([]models.PostResponse, *apiError.Error)
	GetPostLocations() (*models.PostLocations, *apiError.Error)
	UpdatePostStatus(user *models.User, postID, status string) (*models.PostResponse, *apiError.Error)
	DeletePost(user *models.User, postID string) *apiError.Error
}

// postService struct
type postService struct {
	Config     *config.Config
	postRepo   db.PostRepository
	authRepo   db.AuthRepository
	rewardRepo db.RewardRepository
	detector   detector.Detector
	store      storage.ImageStore
}

// NewPostService instantiate a postService
func NewPostService(postRepo db.PostRepository, authRepo db.AuthRepository, rewardRepo db.RewardRepository, det detector.Detector, store storage.ImageStore, conf *config.Config) PostService {
	return &postService{
		Config:     conf,
		postRepo:   postRepo,
		authRepo:   authRepo,
		rewardRepo: rewardRepo,
		detector:   det,
		store:      store,
	}
}

// CreatePost runs the full submission pipeline: identity gate, input
// checks, damage classification, image persistence, report row, reward.
// Preconditions are checked strictly in that order so callers always get
// the identity failure first.
func (s *postService) CreatePost(ctx context.Context, userID uint, input *CreatePostInput) (*models.PostResponse, *apiError.Error) {
	user, err := s.authRepo.FindUserByID(userID)
	if err != nil {
		return nil, apiError.New("user not found", http.StatusNotFound)
	}
	if !user.HasValidatedID() {
		return nil, apiError.New("identity not verified. validate your national ID before reporting", http.StatusForbidden)
	}

	if len(input.Image) == 0 {
		return nil, apiError.New("image is required", http.StatusBadRequest)
	}
	if !validCoordinates(input.Latitude, input.Longitude) {
		return nil, apiError.New("invalid coordinates", http.StatusBadRequest)
	}

	width, height, err := storage.DecodeBounds(input.Image)
	if err != nil {
		return nil, apiError.New("could not decode image", http.StatusBadRequest)
	}

	detections, err := s.detector.Detect(ctx, input.Image)
	if err != nil {
		log.Printf("detector error: %v", err)
		var apiErr *apiError.Error
		if errors.As(err, &apiErr) {
			return nil, apiErr
		}
		return nil, apiError.ErrServiceUnavailable
	}

	verdict, damageCount := severity.Analyze(detections, width, height)
	if verdict == models.SeveritySafe {
		return nil, apiError.New("no road damage detected in the image", http.StatusNotAcceptable)
	}

	imageName, err := s.store.Save(ctx, input.Image)
	if err != nil {
		log.Printf("error saving image: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	caption := input.Caption
	if caption == "" {
		caption = fmt.Sprintf("Detected %d damage spots (%s)", damageCount, verdict)
	}

	post := &models.Post{
		ID:           uuid.New(),
		UserID:       user.ID,
		UserFullname: user.Fullname,
		ImagePath:    imageName,
		Latitude:     input.Latitude,
		Longitude:    input.Longitude,
		Address:      input.Address,
		Province:     input.Province,
		City:         input.City,
		District:     input.District,
		DamageCount:  damageCount,
		Severity:     verdict,
		Caption:      caption,
		Status:       models.StatusWaiting,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.postRepo.SavePost(post); err != nil {
		log.Printf("error saving post: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	if _, err := s.rewardRepo.GrantReportReward(user.ID, post.ID.String(), models.ReportCreationPoints); err != nil {
		// The report stands; points reconcile from the audit trail.
		log.Printf("error granting reward for post %s: %v", post.ID, err)
	}

	resp := post.Response(s.store.URL(post.ImagePath))
	return &resp, nil
}

func validCoordinates(lat, long float64) bool {
	return s2.LatLngFromDegrees(lat, long).IsValid()
}

func (s *postService) GetPost(id string) (*models.PostResponse, *apiError.Error) {
	post, err := s.postRepo.GetPostByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.New("post not found", http.StatusNotFound)
		}
		return nil, apiError.ErrInternalServerError
	}
	resp := post.Response(s.store.URL(post.ImagePath))
	return &resp, nil
}

func (s *postService) GetAllPosts(sort string) ([]models.PostResponse, *apiError.Error) {
	posts, err := s.postRepo.GetAllPosts(sort)
	if err != nil {
		log.Printf("error listing posts: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	return s.renderPosts(posts), nil
}

func (s *postService) FilterPostsByLocation(province, city, district string) ([]models.PostResponse, *apiError.Error) {
	posts, err := s.postRepo.FilterPostsByLocation(province, city, district)
	if err != nil {
		log.Printf("error filtering posts: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	return s.renderPosts(posts), nil
}

func (s *postService) GetPostsByStatus(status string) ([]models.PostResponse, *apiError.Error) {
	if status == "" || strings.EqualFold(status, "all") {
		return s.GetAllPosts("terbaru")
	}

	parsed, ok := models.ParsePostStatus(status)
	if !ok {
		return nil, apiError.New(models.InvalidStatusMessage(), http.StatusBadRequest)
	}
	posts, err := s.postRepo.GetPostsByStatus(parsed)
	if err != nil {
		log.Printf("error listing posts by status: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	return s.renderPosts(posts), nil
}

func (s *postService) GetPostLocations() (*models.PostLocations, *apiError.Error) {
	locations, err := s.postRepo.GetDistinctLocations()
	if err != nil {
		log.Printf("error listing post locations: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	return locations, nil
}

// UpdatePostStatus moves a report through the handling workflow. Only
// STAFF and ADMIN may set a status; any of the three states may be set
// at any time, including backwards.
func (s *postService) UpdatePostStatus(user *models.User, postID, status string) (*models.PostResponse, *apiError.Error) {
	if !user.Role.CanSetStatus() {
		return nil, apiError.New("only staff may update report status", http.StatusForbidden)
	}

	parsed, ok := models.ParsePostStatus(status)
	if !ok {
		return nil, apiError.New(models.InvalidStatusMessage(), http.StatusBadRequest)
	}

	post, err := s.postRepo.UpdatePostStatus(postID, parsed)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.New("post not found", http.StatusNotFound)
		}
		log.Printf("error updating post status: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	resp := post.Response(s.store.URL(post.ImagePath))
	return &resp, nil
}

// DeletePost removes a report. The owner and ADMIN may delete; the image
// file is cleaned up after the rows are gone and a failed file removal
// only logs.
func (s *postService) DeletePost(user *models.User, postID string) *apiError.Error {
	post, err := s.postRepo.GetPostByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apiError.New("post not found", http.StatusNotFound)
		}
		return apiError.ErrInternalServerError
	}

	if post.UserID != user.ID && !user.Role.IsAdmin() {
		return apiError.New("you may only delete your own reports", http.StatusForbidden)
	}

	if err := s.postRepo.DeletePostWithVotes(postID); err != nil {
		log.Printf("error deleting post %s: %v", postID, err)
		return apiError.ErrInternalServerError
	}

	if err := s.store.Remove(context.Background(), post.ImagePath); err != nil {
		log.Printf("could not remove image %s: %v", post.ImagePath, err)
	}
	return nil
}

func (s *postService) renderPosts(posts []models.Post) []models.PostResponse {
	responses := make([]models.PostResponse, 0, len(posts))
	for i := range posts {
		responses = append(responses, posts[i].Response(s.store.URL(posts[i].ImagePath)))
	}
	return responses
}
