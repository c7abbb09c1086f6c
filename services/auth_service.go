package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/techagentng/roadguard/config"
	"github.com/techagentng/roadguard/db"
	apiError "github.com/techagentng/roadguard/errors"
	"github.com/techagentng/roadguard/models"
	"github.com/techagentng/roadguard/services/jwt"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService interface
type AuthService interface {
	SignupUser(user *models.User) (*models.User, error)
	LoginUser(loginRequest *models.LoginRequest) (*models.LoginResponse, *apiError.Error)
	GoogleLoginUser(loginRequest *models.GoogleLoginRequest) (*models.LoginResponse, *apiError.Error)
	VerifyIdentity(userID uint, nin string) *apiError.Error
	GetUserProfile(userID uint) (*models.User, error)
	EditUserProfile(userID uint, details *models.EditProfileRequest) (*models.User, *apiError.Error)
	GetAllUsers() ([]models.User, error)
	AdminCreateUser(request *models.AdminCreateUserRequest) (*models.User, *apiError.Error)
	AdminSetUserRole(callerID, targetID uint, role string) (*models.User, *apiError.Error)
	DeleteUser(callerID, targetID uint) *apiError.Error
	SendPasswordResetEmail(request *models.ForgotPassword, resetBaseURL string) *apiError.Error
	ResetPassword(request *models.ResetPassword, token string) *apiError.Error
	LogoutUser(accessToken string) *apiError.Error
}

// authService struct
type authService struct {
	Config   *config.Config
	authRepo db.AuthRepository
	mail     Mailer
	store    ImageRemover
}

// Mailer sends the transactional mail this service needs.
type Mailer interface {
	SendResetPassword(recipient, resetLink string) (string, error)
}

// ImageRemover is the slice of the image store needed for account
// deletion cleanup.
type ImageRemover interface {
	Remove(ctx context.Context, name string) error
}

// NewAuthService instantiate an authService
func NewAuthService(authRepo db.AuthRepository, mail Mailer, store ImageRemover, conf *config.Config) AuthService {
	return &authService{
		Config:   conf,
		authRepo: authRepo,
		mail:     mail,
		store:    store,
	}
}

func (s *authService) SignupUser(user *models.User) (*models.User, error) {
	if err := models.ValidateWhiteSpaces(user); err != nil {
		return nil, apiError.New(err.Error(), http.StatusBadRequest)
	}

	if err := s.authRepo.IsEmailExist(user.Email); err != nil {
		log.Printf("SignupUser error: %v", err)
		return nil, apiError.New("email already in use", http.StatusBadRequest)
	}
	if err := s.authRepo.IsUsernameExist(user.Username); err != nil {
		log.Printf("SignupUser error: %v", err)
		return nil, apiError.New("username already in use", http.StatusBadRequest)
	}

	if err := models.ValidatePassword(user.Password); err != nil {
		return nil, apiError.New(err.Error(), http.StatusBadRequest)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("SignupUser error hashing password: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	user.HashedPassword = string(hashedPassword)
	user.Password = ""
	user.Role = models.RoleCitizen

	created, err := s.authRepo.CreateUser(user)
	if err != nil {
		log.Printf("SignupUser error creating user: %v", err)
		return nil, apiError.GetUniqueContraintError(err)
	}
	return created, nil
}

// LoginUser logs in a user and returns the login response
func (s *authService) LoginUser(loginRequest *models.LoginRequest) (*models.LoginResponse, *apiError.Error) {
	foundUser, err := s.authRepo.FindUserByEmail(loginRequest.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.New("invalid email or password", http.StatusUnprocessableEntity)
		}
		log.Printf("error finding user by email: %v", err)
		return nil, apiError.New("unable to find user", http.StatusInternalServerError)
	}

	if err := foundUser.VerifyPassword(loginRequest.Password); err != nil {
		log.Printf("invalid password for user %s", foundUser.Email)
		return nil, apiError.ErrInvalidPassword
	}

	return s.buildLoginResponse(foundUser)
}

// GoogleLoginUser signs a Google-verified identity in, creating the
// account on first contact. Social accounts carry no local password.
func (s *authService) GoogleLoginUser(loginRequest *models.GoogleLoginRequest) (*models.LoginResponse, *apiError.Error) {
	foundUser, err := s.authRepo.FindUserByEmail(loginRequest.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.createGoogleUser(loginRequest)
		}
		log.Printf("error finding user by email: %v", err)
		return nil, apiError.New("unable to find user", http.StatusInternalServerError)
	}
	return s.buildLoginResponse(foundUser)
}

func (s *authService) createGoogleUser(loginRequest *models.GoogleLoginRequest) (*models.LoginResponse, *apiError.Error) {
	username := strings.Split(loginRequest.Email, "@")[0]
	if len(username) < 2 {
		username += "user"
	}

	newUser := &models.User{
		Email:    loginRequest.Email,
		Fullname: loginRequest.Fullname,
		Username: username,
		IsSocial: true,
		Role:     models.RoleCitizen,
	}

	created, err := s.authRepo.CreateUser(newUser)
	if err != nil {
		log.Printf("error creating google user %s: %v", loginRequest.Email, err)
		return nil, apiError.New("unable to create user", http.StatusInternalServerError)
	}
	return s.buildLoginResponse(created)
}

func (s *authService) buildLoginResponse(user *models.User) (*models.LoginResponse, *apiError.Error) {
	accessToken, refreshToken, err := jwt.GenerateTokenPair(user.Email, s.Config.JWTSecret, user.ID, string(user.Role))
	if err != nil {
		log.Printf("error generating token pair for user %s: %v", user.Email, err)
		return nil, apiError.ErrInternalServerError
	}

	return &models.LoginResponse{
		UserResponse: user.Response(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// VerifyIdentity records the national-ID credential, unlocking report
// submission and voting for the account.
func (s *authService) VerifyIdentity(userID uint, nin string) *apiError.Error {
	user, err := s.authRepo.FindUserByID(userID)
	if err != nil {
		return apiError.New("user not found", http.StatusNotFound)
	}
	if user.HasValidatedID() {
		return apiError.New("identity already verified", http.StatusBadRequest)
	}
	if err := s.authRepo.RecordValidatedID(userID, nin); err != nil {
		log.Printf("error recording validated id for user %d: %v", userID, err)
		return apiError.ErrInternalServerError
	}
	return nil
}

func (s *authService) GetUserProfile(userID uint) (*models.User, error) {
	return s.authRepo.FindUserByID(userID)
}

func (s *authService) EditUserProfile(userID uint, details *models.EditProfileRequest) (*models.User, *apiError.Error) {
	user, err := s.authRepo.FindUserByID(userID)
	if err != nil {
		return nil, apiError.New("user not found", http.StatusNotFound)
	}

	if details.Fullname != "" {
		user.Fullname = details.Fullname
	}
	if details.Phone != "" {
		user.Phone = details.Phone
	}
	if details.Bio != "" {
		user.Bio = details.Bio
	}
	if details.Password != "" {
		if err := models.ValidatePassword(details.Password); err != nil {
			return nil, apiError.New(err.Error(), http.StatusBadRequest)
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(details.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("error hashing password: %v", err)
			return nil, apiError.ErrInternalServerError
		}
		user.HashedPassword = string(hashed)
	}

	if err := s.authRepo.UpdateUser(user); err != nil {
		log.Printf("error updating user %d: %v", userID, err)
		return nil, apiError.ErrInternalServerError
	}
	return user, nil
}

func (s *authService) GetAllUsers() ([]models.User, error) {
	users, err := s.authRepo.GetAllUsers()
	if err != nil {
		return nil, fmt.Errorf("error getting all users: %w", err)
	}
	return users, nil
}

// AdminCreateUser provisions an account with an explicit role, typically
// a STAFF identity for the public-works desk.
func (s *authService) AdminCreateUser(request *models.AdminCreateUserRequest) (*models.User, *apiError.Error) {
	role := models.RoleCitizen
	if request.Role != "" {
		parsed, ok := models.ParseRole(request.Role)
		if !ok {
			return nil, apiError.New("invalid role", http.StatusBadRequest)
		}
		role = parsed
	}

	user := &models.User{
		Fullname: request.Fullname,
		Username: request.Username,
		Email:    request.Email,
		Password: request.Password,
		Phone:    request.Phone,
		Bio:      request.Bio,
		Points:   request.Points,
	}

	created, err := s.SignupUser(user)
	if err != nil {
		var apiErr *apiError.Error
		if errors.As(err, &apiErr) {
			return nil, apiErr
		}
		return nil, apiError.ErrInternalServerError
	}

	if role != models.RoleCitizen {
		created.Role = role
		if err := s.authRepo.UpdateUser(created); err != nil {
			log.Printf("error assigning role to user %d: %v", created.ID, err)
			return nil, apiError.ErrInternalServerError
		}
	}
	return created, nil
}

// AdminSetUserRole reassigns an existing account's role. Admins cannot
// change their own role, so the instance always keeps at least one admin.
func (s *authService) AdminSetUserRole(callerID, targetID uint, role string) (*models.User, *apiError.Error) {
	if callerID == targetID {
		return nil, apiError.New("cannot change your own role", http.StatusBadRequest)
	}

	parsed, ok := models.ParseRole(role)
	if !ok {
		return nil, apiError.New("invalid role", http.StatusBadRequest)
	}

	if err := s.authRepo.SetUserRole(targetID, parsed); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.New("user not found", http.StatusNotFound)
		}
		log.Printf("error setting role for user %d: %v", targetID, err)
		return nil, apiError.ErrInternalServerError
	}

	user, err := s.authRepo.FindUserByID(targetID)
	if err != nil {
		return nil, apiError.ErrInternalServerError
	}
	return user, nil
}

// DeleteUser removes an account and its records. An admin deleting their
// own account is refused so the instance cannot lock itself out.
func (s *authService) DeleteUser(callerID, targetID uint) *apiError.Error {
	if callerID == targetID {
		return apiError.New("cannot delete your own account", http.StatusBadRequest)
	}

	if _, err := s.authRepo.FindUserByID(targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apiError.New("user not found", http.StatusNotFound)
		}
		return apiError.ErrInternalServerError
	}

	imagePaths, err := s.authRepo.DeleteUserWithRecords(targetID)
	if err != nil {
		log.Printf("error deleting user %d: %v", targetID, err)
		return apiError.ErrInternalServerError
	}

	for _, path := range imagePaths {
		if err := s.store.Remove(context.Background(), path); err != nil {
			log.Printf("could not remove image %s: %v", path, err)
		}
	}
	return nil
}

func (s *authService) SendPasswordResetEmail(request *models.ForgotPassword, resetBaseURL string) *apiError.Error {
	user, err := s.authRepo.FindUserByEmail(request.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Do not reveal which addresses have accounts.
			return nil
		}
		return apiError.ErrInternalServerError
	}

	token, err := jwt.GeneratePasswordResetToken(user.ID, s.Config.JWTSecret)
	if err != nil {
		log.Printf("error generating reset token for user %d: %v", user.ID, err)
		return apiError.ErrInternalServerError
	}

	resetLink := fmt.Sprintf("%s/reset-password?token=%s", resetBaseURL, token)
	if _, err := s.mail.SendResetPassword(user.Email, resetLink); err != nil {
		log.Printf("error sending reset email to %s: %v", user.Email, err)
		return apiError.ErrInternalServerError
	}
	return nil
}

func (s *authService) ResetPassword(request *models.ResetPassword, token string) *apiError.Error {
	if request.Password != request.ConfirmPassword {
		return apiError.New("passwords do not match", http.StatusBadRequest)
	}
	if err := models.ValidatePassword(request.Password); err != nil {
		return apiError.New(err.Error(), http.StatusBadRequest)
	}

	userID, err := jwt.ValidatePasswordResetToken(token, s.Config.JWTSecret)
	if err != nil {
		return apiError.New("invalid or expired reset token", http.StatusUnauthorized)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("error hashing password: %v", err)
		return apiError.ErrInternalServerError
	}
	if err := s.authRepo.ResetPassword(userID, string(hashed)); err != nil {
		log.Printf("error resetting password for user %d: %v", userID, err)
		return apiError.ErrInternalServerError
	}
	return nil
}

// LogoutUser revokes the presented access token.
func (s *authService) LogoutUser(accessToken string) *apiError.Error {
	blacklist := &models.Blacklist{Token: accessToken}
	if err := s.authRepo.AddToBlackList(blacklist); err != nil {
		log.Printf("error blacklisting token: %v", err)
		return apiError.ErrInternalServerError
	}
	return nil
}
