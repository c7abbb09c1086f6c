package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	errs "github.com/techagentng/roadguard/errors"
	"github.com/techagentng/roadguard/models"
	"github.com/techagentng/roadguard/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakePostService struct {
	services.PostService
	createInput  *services.CreatePostInput
	createResp   *models.PostResponse
	createErr    *errs.Error
	statusUser   *models.User
	statusValue  string
	statusResp   *models.PostResponse
	statusErr    *errs.Error
	listSort     string
	listResponse []models.PostResponse
}

func (f *fakePostService) CreatePost(ctx context.Context, userID uint, input *services.CreatePostInput) (*models.PostResponse, *errs.Error) {
	f.createInput = input
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createResp, nil
}

func (f *fakePostService) GetAllPosts(sort string) ([]models.PostResponse, *errs.Error) {
	f.listSort = sort
	return f.listResponse, nil
}

func (f *fakePostService) UpdatePostStatus(user *models.User, postID, status string) (*models.PostResponse, *errs.Error) {
	f.statusUser = user
	f.statusValue = status
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	return f.statusResp, nil
}

type fakeVerificationService struct {
	services.VerificationService
	castType string
	counts   *models.VerificationCounts
	err      *errs.Error
}

func (f *fakeVerificationService) CastVote(userID uint, postID, voteType string) (*models.VerificationCounts, *errs.Error) {
	f.castType = voteType
	if f.err != nil {
		return nil, f.err
	}
	return f.counts, nil
}

// injectUser stands in for Authorize in handler tests.
func injectUser(user *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user", user)
		c.Set("userID", user.ID)
		c.Next()
	}
}

func testUser(role models.Role) *models.User {
	u := &models.User{Fullname: "Test User", Role: role}
	u.ID = 1
	return u
}

func envelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHandleCreatePostUnauthorized(t *testing.T) {
	s := &Server{PostService: &fakePostService{}}
	r := gin.New()
	r.POST("/upload", s.handleCreatePost())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/upload", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandleCreatePostPassesForm(t *testing.T) {
	svc := &fakePostService{createResp: &models.PostResponse{ID: "x"}}
	s := &Server{PostService: svc}
	r := gin.New()
	r.POST("/upload", injectUser(testUser(models.RoleCitizen)), s.handleCreatePost())

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("image", "road.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("not-a-real-jpeg"))
	require.NoError(t, err)
	require.NoError(t, form.WriteField("latitude", "-6.2"))
	require.NoError(t, form.WriteField("longitude", "106.8"))
	require.NoError(t, form.WriteField("caption", "pothole"))
	require.NoError(t, form.Close())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.createInput)
	assert.Equal(t, []byte("not-a-real-jpeg"), svc.createInput.Image)
	assert.InDelta(t, -6.2, svc.createInput.Latitude, 1e-9)
	assert.InDelta(t, 106.8, svc.createInput.Longitude, 1e-9)
	assert.Equal(t, "pothole", svc.createInput.Caption)
}

func TestHandleCreatePostUnparseableCoordinates(t *testing.T) {
	svc := &fakePostService{createErr: errs.New("invalid coordinates", http.StatusBadRequest)}
	s := &Server{PostService: svc}
	r := gin.New()
	r.POST("/upload", injectUser(testUser(models.RoleCitizen)), s.handleCreatePost())

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	require.NoError(t, form.WriteField("latitude", "north-ish"))
	require.NoError(t, form.WriteField("longitude", "106.8"))
	require.NoError(t, form.Close())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	// The handler forwards garbage as NaN so validation stays in one place.
	require.NotNil(t, svc.createInput)
	assert.NotEqual(t, svc.createInput.Latitude, svc.createInput.Latitude)
}

func TestHandleUpdatePostStatus(t *testing.T) {
	resp := &models.PostResponse{ID: "p1", Status: models.StatusProcessing}
	svc := &fakePostService{statusResp: resp}
	s := &Server{PostService: svc}
	r := gin.New()
	r.PUT("/posts/:id/status", injectUser(testUser(models.RoleStaff)), s.handleUpdatePostStatus())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/posts/p1/status", strings.NewReader(`{"status":"PROCESSING"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "PROCESSING", svc.statusValue)
	assert.Equal(t, models.RoleStaff, svc.statusUser.Role)
}

func TestHandleUpdatePostStatusForbidden(t *testing.T) {
	svc := &fakePostService{statusErr: errs.New("only staff may update report status", http.StatusForbidden)}
	s := &Server{PostService: svc}
	r := gin.New()
	r.PUT("/posts/:id/status", injectUser(testUser(models.RoleCitizen)), s.handleUpdatePostStatus())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/posts/p1/status", strings.NewReader(`{"status":"PROCESSING"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	body := envelope(t, w)
	assert.Contains(t, body["errors"], "staff")
}

func TestHandleUpdatePostStatusMissingBody(t *testing.T) {
	s := &Server{PostService: &fakePostService{}}
	r := gin.New()
	r.PUT("/posts/:id/status", injectUser(testUser(models.RoleStaff)), s.handleUpdatePostStatus())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/posts/p1/status", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleCastVote(t *testing.T) {
	svc := &fakeVerificationService{counts: &models.VerificationCounts{Valid: 2, False: 0}}
	s := &Server{VerificationService: svc}
	r := gin.New()
	r.POST("/posts/:id/verify", injectUser(testUser(models.RoleCitizen)), s.handleCastVote())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/posts/p1/verify", strings.NewReader(`{"type":"CONFIRM"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "CONFIRM", svc.castType)
}

func TestHandleCastVoteMissingType(t *testing.T) {
	s := &Server{VerificationService: &fakeVerificationService{}}
	r := gin.New()
	r.POST("/posts/:id/verify", injectUser(testUser(models.RoleCitizen)), s.handleCastVote())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/posts/p1/verify", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type fakeRewardService struct {
	services.RewardService
	rewards []models.Reward
	total   int
}

func (f *fakeRewardService) GetAllRewards() ([]models.Reward, *errs.Error) {
	return f.rewards, nil
}

func (f *fakeRewardService) GetTotalPointsIssued() (int, *errs.Error) {
	return f.total, nil
}

func TestRoutesMountedUnderAPI(t *testing.T) {
	svc := &fakePostService{listResponse: []models.PostResponse{}}
	s := &Server{PostService: svc}
	r := gin.New()
	s.defineRoutes(r)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/posts", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDecodeTranslatesValidationErrors(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"password":"x"}`))

	var req models.LoginRequest
	err := decode(c, &req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Email is a required field")
}

func TestDecodeTrimsConformFields(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/",
		strings.NewReader(`{"fullname":"  Budi  ","username":"budi","email":"budi@example.com"}`))

	var user models.User
	require.NoError(t, decode(c, &user))
	assert.Equal(t, "Budi", user.Fullname)
}

func TestHandleGetAllRewardsIncludesTotal(t *testing.T) {
	s := &Server{RewardService: &fakeRewardService{total: 120}}
	r := gin.New()
	r.GET("/admin/rewards", s.handleGetAllRewards())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/rewards", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := envelope(t, w)
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(120), data["total_points"])
}

func TestHandleGetAllPostsDefaultSort(t *testing.T) {
	svc := &fakePostService{listResponse: []models.PostResponse{}}
	s := &Server{PostService: svc}
	r := gin.New()
	r.GET("/posts", s.handleGetAllPosts())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "terbaru", svc.listSort)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/posts?sort=trending", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, "trending", svc.listSort)
}
