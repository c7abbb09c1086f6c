package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Severity is the classifier verdict for a report.
type Severity string

const (
	// SeveritySafe is the zero-detection outcome. It is never persisted:
	// submissions that classify as SAFE are rejected before a Post exists.
	SeveritySafe       Severity = "SAFE"
	SeveritySerious    Severity = "SERIOUS"
	SeverityNotSerious Severity = "NOT_SERIOUS"
)

// PostStatus is the staff handling state, independent of crowd voting.
type PostStatus string

const (
	StatusWaiting    PostStatus = "WAITING"
	StatusProcessing PostStatus = "PROCESSING"
	StatusFinished   PostStatus = "FINISHED"
)

// ValidPostStatuses is enumerated in validation errors.
var ValidPostStatuses = []PostStatus{StatusWaiting, StatusProcessing, StatusFinished}

// ParsePostStatus accepts any casing and normalizes onto the closed set.
func ParsePostStatus(s string) (PostStatus, bool) {
	switch PostStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusWaiting:
		return StatusWaiting, true
	case StatusProcessing:
		return StatusProcessing, true
	case StatusFinished:
		return StatusFinished, true
	}
	return "", false
}

// Post is a single report of observed road-surface damage.
type Post struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	UserID       uint       `json:"user_id" gorm:"index;not null"`
	UserFullname string     `json:"fullname"`
	ImagePath    string     `json:"image_path" gorm:"not null"`
	Latitude     float64    `json:"latitude" gorm:"not null"`
	Longitude    float64    `json:"longitude" gorm:"not null"`
	Address      string     `json:"address"`
	Province     string     `json:"province" gorm:"index"`
	City         string     `json:"city" gorm:"index"`
	District     string     `json:"district" gorm:"index"`
	DamageCount  int        `json:"damage_count" gorm:"not null"`
	Severity     Severity   `json:"severity" gorm:"type:varchar(20);not null"`
	Caption      string     `json:"caption"`
	Status       PostStatus `json:"status" gorm:"type:varchar(20);default:'WAITING'"`
	// ConfirmCount and FalseCount cache the live verification rows for this
	// post. The verification repository rewrites both inside the same
	// transaction as every vote upsert.
	ConfirmCount int       `json:"confirm_count" gorm:"default:0"`
	FalseCount   int       `json:"false_count" gorm:"default:0"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// VerificationCounts is the tally pair returned after a vote.
type VerificationCounts struct {
	Valid int64 `json:"valid"`
	False int64 `json:"false"`
}

// PostResponse is the wire representation of a Post.
type PostResponse struct {
	ID           string             `json:"id"`
	UserID       uint               `json:"user_id"`
	UploadedBy   string             `json:"uploaded_by"`
	ImageURL     string             `json:"image_url"`
	Latitude     float64            `json:"lat"`
	Longitude    float64            `json:"long"`
	Address      string             `json:"address"`
	Province     string             `json:"province"`
	City         string             `json:"city"`
	District     string             `json:"district"`
	Severity     Severity           `json:"severity"`
	DamageCount  int                `json:"damage_count"`
	Caption      string             `json:"caption"`
	Status       PostStatus         `json:"status"`
	Verification VerificationCounts `json:"verification"`
	Date         string             `json:"date"`
}

// Response renders the post with its image resolved to a URL.
func (p *Post) Response(imageURL string) PostResponse {
	uploadedBy := p.UserFullname
	if uploadedBy == "" {
		uploadedBy = "Unknown"
	}
	return PostResponse{
		ID:          p.ID.String(),
		UserID:      p.UserID,
		UploadedBy:  uploadedBy,
		ImageURL:    imageURL,
		Latitude:    p.Latitude,
		Longitude:   p.Longitude,
		Address:     p.Address,
		Province:    p.Province,
		City:        p.City,
		District:    p.District,
		Severity:    p.Severity,
		DamageCount: p.DamageCount,
		Caption:     p.Caption,
		Status:      p.Status,
		Verification: VerificationCounts{
			Valid: int64(p.ConfirmCount),
			False: int64(p.FalseCount),
		},
		Date: p.CreatedAt.UTC().Format("2006-01-02 15:04"),
	}
}

// PostLocations lists the distinct location values across posts, for the
// map filter dropdowns.
type PostLocations struct {
	Provinces []string `json:"provinces"`
	Cities    []string `json:"cities"`
	Districts []string `json:"districts"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// DailyCount is one day's worth of new rows, for the dashboard growth
// series.
type DailyCount struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

// InvalidStatusMessage enumerates the accepted values for a 400 response.
func InvalidStatusMessage() string {
	names := make([]string, len(ValidPostStatuses))
	for i, s := range ValidPostStatuses {
		names[i] = string(s)
	}
	return fmt.Sprintf("invalid status. valid choices: %s", strings.Join(names, ", "))
}
