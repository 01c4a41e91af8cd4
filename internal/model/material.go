package model

// Material is a temario document (typically a PDF) attached to a category,
// stored through the StorageService.
// swagger:model Material
type Material struct {
	BaseModel
	CategoryID  uint   `gorm:"index;not null" json:"category"`
	Title       string `gorm:"size:255;not null" json:"title"`
	ObjectName  string `gorm:"size:255;not null" json:"objectName"`
	ContentType string `gorm:"size:100" json:"contentType"`
	Size        int64  `gorm:"default:0" json:"size"`
	UploaderID  uint   `gorm:"index" json:"uploaderId"`
}

func (Material) TableName() string {
	return "materials"
}
