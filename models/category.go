package models

// Category belongs to an OperationType. Its name is unique within that type.
type Category struct {
	ID     uint          `gorm:"primaryKey"`
	Name   string        `gorm:"size:64;not null;uniqueIndex:uq_categories_name_type"`
	TypeID uint          `gorm:"not null;uniqueIndex:uq_categories_name_type"`
	Type   OperationType `gorm:"foreignKey:TypeID"`
}

func (Category) TableName() string {
	return "categories"
}

// Subcategory belongs to a Category. Its name is unique within that
// category. Subcategories are owned by their category: deleting the category
// deletes them.
type Subcategory struct {
	ID         uint     `gorm:"primaryKey"`
	Name       string   `gorm:"size:64;not null;uniqueIndex:uq_subcategories_name_category"`
	CategoryID uint     `gorm:"not null;uniqueIndex:uq_subcategories_name_category"`
	Category   Category `gorm:"foreignKey:CategoryID"`
}

func (Subcategory) TableName() string {
	return "subcategories"
}
