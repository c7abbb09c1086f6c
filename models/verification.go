package models

import "strings"

// VerificationType is one identity's assertion about a post: the damage is
// still there (CONFIRM) or absent/resolved (FALSE).
type VerificationType string

const (
	VerificationConfirm VerificationType = "CONFIRM"
	VerificationFalse   VerificationType = "FALSE"
)

func ParseVerificationType(s string) (VerificationType, bool) {
	switch VerificationType(strings.ToUpper(strings.TrimSpace(s))) {
	case VerificationConfirm:
		return VerificationConfirm, true
	case VerificationFalse:
		return VerificationFalse, true
	}
	return "", false
}

// Verification is a single vote. The unique index keeps at most one row per
// (post, user); a re-cast updates the type in place.
type Verification struct {
	Model
	PostID           string           `json:"post_id" gorm:"type:uuid;not null;uniqueIndex:idx_post_user_vote"`
	UserID           uint             `json:"user_id" gorm:"not null;uniqueIndex:idx_post_user_vote"`
	VerificationType VerificationType `json:"verification_type" gorm:"type:varchar(10);not null"`
}

type CastVoteRequest struct {
	Type string `json:"type" binding:"required"`
}
