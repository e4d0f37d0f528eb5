package models

type Category struct {
	ID       uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string    `gorm:"unique;not null" json:"name"`
	Slug     string    `gorm:"unique;not null" json:"slug"`
	ParentID *uint     `gorm:"index" json:"parent_id,omitempty"`
	Products []Product `gorm:"many2many:product_categories" json:"products,omitempty"`
}
