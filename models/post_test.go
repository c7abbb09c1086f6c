package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestParsePostStatus(t *testing.T) {
	tests := []struct {
		in   string
		want PostStatus
		ok   bool
	}{
		{"WAITING", StatusWaiting, true},
		{"processing", StatusProcessing, true},
		{" finished ", StatusFinished, true},
		{"done", "", false},
		{"", "", false},
	}
	for _, tc := range tests {
		got, ok := ParsePostStatus(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestParseVerificationType(t *testing.T) {
	got, ok := ParseVerificationType("confirm")
	assert.True(t, ok)
	assert.Equal(t, VerificationConfirm, got)

	got, ok = ParseVerificationType("FALSE")
	assert.True(t, ok)
	assert.Equal(t, VerificationFalse, got)

	_, ok = ParseVerificationType("maybe")
	assert.False(t, ok)
}

func TestPostResponse(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	post := Post{
		ID:           uuid.New(),
		UserID:       7,
		UserFullname: "Siti Rahma",
		ImagePath:    "abc.jpg",
		Severity:     SeveritySerious,
		DamageCount:  3,
		Status:       StatusWaiting,
		ConfirmCount: 2,
		FalseCount:   1,
		CreatedAt:    created,
	}

	resp := post.Response("https://img.example/abc.jpg")
	assert.Equal(t, post.ID.String(), resp.ID)
	assert.Equal(t, "Siti Rahma", resp.UploadedBy)
	assert.Equal(t, "https://img.example/abc.jpg", resp.ImageURL)
	assert.Equal(t, int64(2), resp.Verification.Valid)
	assert.Equal(t, int64(1), resp.Verification.False)
	assert.Equal(t, "2026-03-14 09:26", resp.Date)
}

func TestPostResponseUnknownUploader(t *testing.T) {
	post := Post{ID: uuid.New()}
	resp := post.Response("")
	assert.Equal(t, "Unknown", resp.UploadedBy)
}

func TestInvalidStatusMessage(t *testing.T) {
	msg := InvalidStatusMessage()
	assert.Contains(t, msg, "WAITING")
	assert.Contains(t, msg, "PROCESSING")
	assert.Contains(t, msg, "FINISHED")
}

func TestHasValidatedID(t *testing.T) {
	u := User{}
	assert.False(t, u.HasValidatedID())

	u.IsVerified = true
	assert.False(t, u.HasValidatedID())

	u.NIN = "1234567890123456"
	assert.True(t, u.HasValidatedID())
}
