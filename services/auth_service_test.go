package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techagentng/roadguard/config"
	"github.com/techagentng/roadguard/models"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserStore struct {
	fakeAuthRepo
	recordedNIN string
	deletedID   uint
	imagePaths  []string
	roleSetID   uint
	roleSet     models.Role
}

func (f *fakeUserStore) RecordValidatedID(userID uint, nin string) error {
	f.recordedNIN = nin
	return nil
}

func (f *fakeUserStore) DeleteUserWithRecords(userID uint) ([]string, error) {
	f.deletedID = userID
	return f.imagePaths, nil
}

func (f *fakeUserStore) SetUserRole(userID uint, role models.Role) error {
	f.roleSetID = userID
	f.roleSet = role
	return nil
}

type fakeMailer struct {
	recipient string
	link      string
}

func (f *fakeMailer) SendResetPassword(recipient, resetLink string) (string, error) {
	f.recipient = recipient
	f.link = resetLink
	return "queued", nil
}

func newTestAuthService(repo *fakeUserStore, store *fakeStore) AuthService {
	return NewAuthService(repo, &fakeMailer{}, store, &config.Config{JWTSecret: "test-secret"})
}

func TestLoginUser(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.DefaultCost)
	require.NoError(t, err)

	user := verifiedUser()
	user.Email = "budi@example.com"
	user.HashedPassword = string(hashed)

	svc := newTestAuthService(&fakeUserStore{fakeAuthRepo: fakeAuthRepo{user: user}}, &fakeStore{})

	resp, apiErr := svc.LoginUser(&models.LoginRequest{Email: user.Email, Password: "hunter22"})
	require.Nil(t, apiErr)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, user.Email, resp.Email)

	_, apiErr = svc.LoginUser(&models.LoginRequest{Email: user.Email, Password: "wrong"})
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}

func TestVerifyIdentity(t *testing.T) {
	user := verifiedUser()
	user.NIN = ""
	user.IsVerified = false

	repo := &fakeUserStore{fakeAuthRepo: fakeAuthRepo{user: user}}
	svc := newTestAuthService(repo, &fakeStore{})

	apiErr := svc.VerifyIdentity(1, "1234567890123456")
	require.Nil(t, apiErr)
	assert.Equal(t, "1234567890123456", repo.recordedNIN)
}

func TestVerifyIdentityAlreadyVerified(t *testing.T) {
	repo := &fakeUserStore{fakeAuthRepo: fakeAuthRepo{user: verifiedUser()}}
	svc := newTestAuthService(repo, &fakeStore{})

	apiErr := svc.VerifyIdentity(1, "6543210987654321")
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Empty(t, repo.recordedNIN)
}

func TestDeleteUserSelfDeleteRefused(t *testing.T) {
	repo := &fakeUserStore{fakeAuthRepo: fakeAuthRepo{user: verifiedUser()}}
	svc := newTestAuthService(repo, &fakeStore{})

	apiErr := svc.DeleteUser(7, 7)
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Zero(t, repo.deletedID)
}

func TestDeleteUserCleansImages(t *testing.T) {
	repo := &fakeUserStore{
		fakeAuthRepo: fakeAuthRepo{user: verifiedUser()},
		imagePaths:   []string{"a.jpg", "b.jpg"},
	}
	store := &fakeStore{}
	svc := newTestAuthService(repo, store)

	require.Nil(t, svc.DeleteUser(99, 1))
	assert.Equal(t, uint(1), repo.deletedID)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, store.removed)
}

func TestAdminSetUserRole(t *testing.T) {
	target := verifiedUser()
	repo := &fakeUserStore{fakeAuthRepo: fakeAuthRepo{user: target}}
	svc := newTestAuthService(repo, &fakeStore{})

	_, apiErr := svc.AdminSetUserRole(9, 1, "staff")
	require.Nil(t, apiErr)
	assert.Equal(t, uint(1), repo.roleSetID)
	assert.Equal(t, models.RoleStaff, repo.roleSet)
}

func TestAdminSetUserRoleGuards(t *testing.T) {
	repo := &fakeUserStore{fakeAuthRepo: fakeAuthRepo{user: verifiedUser()}}
	svc := newTestAuthService(repo, &fakeStore{})

	// Admins cannot reassign their own role.
	_, apiErr := svc.AdminSetUserRole(9, 9, "CITIZEN")
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)

	_, apiErr = svc.AdminSetUserRole(9, 1, "SUPERUSER")
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Zero(t, repo.roleSetID)
}

func TestResetPasswordMismatch(t *testing.T) {
	svc := newTestAuthService(&fakeUserStore{}, &fakeStore{})

	apiErr := svc.ResetPassword(&models.ResetPassword{
		Password:        "newpassword",
		ConfirmPassword: "different",
	}, "whatever")
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
}

type fakeReviewRepo struct {
	created   *models.Review
	reviews   []models.Review
	backfills map[uint]string
}

func (f *fakeReviewRepo) CreateReview(review *models.Review) error {
	f.created = review
	return nil
}

func (f *fakeReviewRepo) GetAllReviews() ([]models.Review, error) {
	return f.reviews, nil
}

func (f *fakeReviewRepo) UpdateReviewSentiment(id uint, sentiment string) error {
	if f.backfills == nil {
		f.backfills = map[uint]string{}
	}
	f.backfills[id] = sentiment
	return nil
}

func (f *fakeReviewRepo) DeleteReview(id uint) error { return nil }

func (f *fakeReviewRepo) GetAverageRating() (float64, error) { return 0, nil }

func (f *fakeReviewRepo) CountBySentiment(sentiment string) (int64, error) { return 0, nil }

type fakeClassifier struct {
	label string
	err   error
}

func (f *fakeClassifier) Predict(ctx context.Context, text string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.label, nil
}

func TestCreateReviewLabelsSentiment(t *testing.T) {
	repo := &fakeReviewRepo{}
	svc := NewReviewService(repo, &fakeClassifier{label: "positive"})

	review, apiErr := svc.CreateReview(context.Background(), 1, &models.CreateReviewRequest{
		Rating:  5,
		Comment: "fast response, road fixed in a week",
	})
	require.Nil(t, apiErr)
	assert.Equal(t, "positive", review.Sentiment)
	require.NotNil(t, repo.created)
}

func TestCreateReviewSurvivesClassifierOutage(t *testing.T) {
	repo := &fakeReviewRepo{}
	svc := NewReviewService(repo, &fakeClassifier{err: assert.AnError})

	review, apiErr := svc.CreateReview(context.Background(), 1, &models.CreateReviewRequest{
		Rating:  2,
		Comment: "no response for a month",
	})
	require.Nil(t, apiErr)
	assert.Empty(t, review.Sentiment)
	require.NotNil(t, repo.created)
}

func TestGetAllReviewsBackfillsSentiment(t *testing.T) {
	unlabeled := models.Review{Rating: 3, Comment: "okay"}
	unlabeled.ID = 4
	labeled := models.Review{Rating: 5, Comment: "great", Sentiment: "positive"}
	labeled.ID = 5

	repo := &fakeReviewRepo{reviews: []models.Review{unlabeled, labeled}}
	svc := NewReviewService(repo, &fakeClassifier{label: "neutral"})

	reviews, apiErr := svc.GetAllReviews(context.Background())
	require.Nil(t, apiErr)
	assert.Equal(t, "neutral", reviews[0].Sentiment)
	assert.Equal(t, "positive", reviews[1].Sentiment)
	assert.Equal(t, map[uint]string{4: "neutral"}, repo.backfills)
}
