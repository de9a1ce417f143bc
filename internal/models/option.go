package models

import "time"

// Option is a single named row of site-wide key/value storage.
type Option struct {
	Name      string    `json:"name" gorm:"primaryKey;column:option_name"`
	Value     string    `json:"value" gorm:"column:option_value;not null"`
	Autoload  bool      `json:"autoload" gorm:"default:true"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for Option Model
func (Option) TableName() string {
	return "options"
}
