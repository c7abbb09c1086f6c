package models

// Reward is an audit row for points granted on report creation. The
// authoritative balance lives on the user and only ever grows; deleting a
// report does not claw its reward back.
type Reward struct {
	Model
	UserID     uint   `json:"user_id" gorm:"index;not null"`
	PostID     string `json:"post_id" gorm:"type:uuid"`
	RewardType string `json:"reward_type"`
	Point      int    `json:"point"`
	Balance    int    `json:"balance"`
}

// ReportCreationPoints is granted once per successful upload.
const ReportCreationPoints = 10
