package models

import (
	"errors"

	goval "github.com/go-passwd/validator"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/leebenson/conform"
	"golang.org/x/crypto/bcrypt"
)

// User represents an account: a citizen reporter/voter or a staff identity.
type User struct {
	Model
	Fullname       string `json:"fullname" binding:"required,min=2" conform:"trim"`
	Username       string `json:"username" gorm:"unique;not null" binding:"required,min=2" conform:"trim"`
	Email          string `json:"email" gorm:"unique;not null" binding:"required,email" conform:"email"`
	Password       string `json:"password,omitempty" gorm:"-" validate:"omitempty,min=6"`
	HashedPassword string `json:"-"`
	Phone          string `json:"phone"`
	Bio            string `json:"bio"`
	// NIN is the validated national-ID credential. While it is empty the
	// account may neither submit reports nor cast votes.
	NIN        string `json:"-"`
	IsVerified bool   `json:"is_verified"`
	IsSocial   bool   `json:"-"`
	Role       Role   `json:"role" gorm:"type:varchar(20);default:'CITIZEN'"`
	// Points only ever grows; report creation is the single writer.
	Points int `json:"points" gorm:"default:0"`
}

// HasValidatedID is the identity-gate read side.
func (u *User) HasValidatedID() bool {
	return u.IsVerified && u.NIN != ""
}

// VerifyPassword verifies the collected password with the user's hashed password
func (u *User) VerifyPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(password))
}

func ValidatePassword(password string) error {
	passwordValidator := goval.New(goval.MinLength(6, errors.New("password cant be less than 6 characters")),
		goval.MaxLength(64, errors.New("password cant be more than 64 characters")))
	return passwordValidator.Validate(password)
}

// ValidateWhiteSpaces trims conform-tagged string fields in place.
func ValidateWhiteSpaces(data interface{}) error {
	return conform.Strings(data)
}

// TranslateError renders field-validation failures through the given
// translator, one error per failed field. Non-validation errors yield nil.
func TranslateError(err error, trans ut.Translator) (errs []error) {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil
	}
	for _, e := range fieldErrs {
		errs = append(errs, errors.New(e.Translate(trans)))
	}
	return errs
}

type UserResponse struct {
	ID       uint   `json:"id"`
	Fullname string `json:"fullname"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Bio      string `json:"bio"`
	Role     Role   `json:"role"`
	Verified bool   `json:"is_verified"`
	Points   int    `json:"points"`
}

// Response strips the credential fields off a User.
func (u *User) Response() UserResponse {
	return UserResponse{
		ID:       u.ID,
		Fullname: u.Fullname,
		Username: u.Username,
		Email:    u.Email,
		Phone:    u.Phone,
		Bio:      u.Bio,
		Role:     u.Role,
		Verified: u.IsVerified,
		Points:   u.Points,
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	UserResponse
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type GoogleLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Fullname string `json:"name" binding:"required"`
	GoogleID string `json:"google_id" binding:"required"`
}

type VerifyIdentityRequest struct {
	NIN string `json:"nin" binding:"required,len=16,numeric"`
}

type EditProfileRequest struct {
	Fullname string `json:"fullname"`
	Phone    string `json:"phone"`
	Bio      string `json:"bio"`
	Password string `json:"password"`
}

type AdminCreateUserRequest struct {
	Fullname string `json:"fullname" binding:"required,min=2"`
	Username string `json:"username" binding:"required,min=2"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Phone    string `json:"phone"`
	Bio      string `json:"bio"`
	Role     string `json:"role"`
	Points   int    `json:"points"`
}

// UpdateRoleRequest reassigns an account's role.
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

type ForgotPassword struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPassword struct {
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// Blacklist holds access tokens revoked by logout.
type Blacklist struct {
	Model
	Token string `json:"token" gorm:"index"`
}
