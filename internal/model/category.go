package model

// swagger:model Category
type Category struct {
	BaseModel
	Name        string `gorm:"size:255;unique;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
}

func (Category) TableName() string {
	return "categories"
}
