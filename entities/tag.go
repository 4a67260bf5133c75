package entities

type Tag struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"uniqueIndex" json:"name"`
	Color string `gorm:"uniqueIndex" json:"color"`
	Slug  string `gorm:"uniqueIndex" json:"slug"`

	Timestamp
}
