package model

// swagger:model TestDefinition
type TestDefinition struct {
	BaseModel
	CategoryID uint      `gorm:"index;not null" json:"category"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"categoryData,omitempty"`
	Title      string    `gorm:"size:255;not null" json:"title"`
	// Temporary definitions are one-off generated simulacros owned by a single
	// user; they never count towards category progress.
	IsTemporary bool  `gorm:"default:false;index" json:"isTemporary"`
	OwnerID     *uint `gorm:"index" json:"ownerId,omitempty"`

	// Populated by the repository in stored order; not a gorm association.
	Questions []Question `gorm:"-" json:"questions,omitempty"`
}

func (TestDefinition) TableName() string {
	return "test_definitions"
}

// TestQuestion is the ordered join between a definition and its questions.
// Questions are shared across definitions, so rows here are the only thing
// keeping a question alive (see the orphan cleanup in TestService).
type TestQuestion struct {
	ID               uint `gorm:"primaryKey;autoIncrement" json:"-"`
	TestDefinitionID uint `gorm:"index:idx_test_question,unique;not null" json:"testDefinitionId"`
	QuestionID       uint `gorm:"index:idx_test_question,unique;index;not null" json:"questionId"`
	Position         int  `gorm:"not null" json:"position"`
}

func (TestQuestion) TableName() string {
	return "test_questions"
}
