package model

// swagger:model Attempt
type Attempt struct {
	BaseModel
	UserID           uint            `gorm:"index;not null" json:"userId"`
	TestDefinitionID uint            `gorm:"index;not null" json:"testDef"`
	TestDefinition   *TestDefinition `gorm:"foreignKey:TestDefinitionID" json:"testDefData,omitempty"`
	Answers          []AttemptAnswer `gorm:"foreignKey:AttemptID" json:"answers,omitempty"`
	Correct          int             `gorm:"not null" json:"aciertos"`
	Incorrect        int             `gorm:"not null" json:"fallos"`
	Blank            int             `gorm:"not null" json:"vacias"`
	// 0-10, two decimals, computed server-side on submission. Immutable after.
	Score           float64 `gorm:"not null" json:"score"`
	DurationMinutes int     `gorm:"default:0" json:"duration"`
}

func (Attempt) TableName() string {
	return "attempts"
}

// AttemptAnswer records one answered question. Blank questions have no row;
// the counts on Attempt account for them.
type AttemptAnswer struct {
	ID         uint `gorm:"primaryKey;autoIncrement" json:"-"`
	AttemptID  uint `gorm:"index;not null" json:"-"`
	QuestionID uint `gorm:"index;not null" json:"question"`
	Selected   int  `gorm:"not null" json:"answer"` // canonical option index
	IsCorrect  bool `gorm:"not null" json:"isCorrect"`
}

func (AttemptAnswer) TableName() string {
	return "attempt_answers"
}
