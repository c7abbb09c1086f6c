package models

// Review is app feedback left by a user, labeled by the external sentiment
// classifier when it is reachable.
type Review struct {
	Model
	UserID    uint   `json:"user_id" gorm:"index;not null"`
	Rating    int    `json:"rating" gorm:"not null"`
	Comment   string `json:"comment" gorm:"type:text"`
	Sentiment string `json:"sentiment" gorm:"type:varchar(20)"`
}

type CreateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}
