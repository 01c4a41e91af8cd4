package model

type FeedbackType string

const (
	FeedbackSuggestion FeedbackType = "sugerencia"
	FeedbackBug        FeedbackType = "bug"
)

// swagger:model Feedback
type Feedback struct {
	BaseModel
	UserID    uint         `gorm:"index;not null" json:"userId"`
	User      *User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Type      FeedbackType `gorm:"size:20;not null" json:"type"`
	Message   string       `gorm:"type:text;not null" json:"message"`
	Page      string       `gorm:"size:255;not null" json:"page"`
	Replied   bool         `gorm:"default:false" json:"replied"`
	ReplyText string       `gorm:"type:text" json:"replyText,omitempty"`
}

func (Feedback) TableName() string {
	return "feedbacks"
}
