package entity

// Setting is a key/value row for runtime metadata, e.g. the active model
// name under the "model_name" key.
type Setting struct {
	Key   string `gorm:"primaryKey" json:"key"`
	Value string `json:"value"`
}

// TableName specifies the table name for the Setting model.
func (Setting) TableName() string {
	return "settings"
}
