package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// Option is a single answer choice. The canonical order of a question's
// options is the stored order; any shuffling happens client-side.
type Option struct {
	Text string `json:"text"`
}

type OptionList []Option

func (o OptionList) Value() (driver.Value, error) {
	return json.Marshal(o)
}

func (o *OptionList) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, o)
	case string:
		return json.Unmarshal([]byte(v), o)
	case nil:
		*o = nil
		return nil
	}
	return errors.New("unsupported type for OptionList")
}

// swagger:model Question
type Question struct {
	BaseModel
	Text       string     `gorm:"type:text;not null" json:"text"`
	Options    OptionList `gorm:"type:json" json:"options"`
	Correct    int        `gorm:"not null" json:"correct"` // index into Options
	Topic      string     `gorm:"size:100;not null;default:'General'" json:"topic"`
	TopicTitle string     `gorm:"size:255;not null;default:'General'" json:"topicTitle"`
	Validated  bool       `gorm:"default:false" json:"validated"`
}

func (Question) TableName() string {
	return "questions"
}
