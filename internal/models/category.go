package models

// CategoryType represents the type of category
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// Category represents a transaction category. Transactions reference
// categories by name, not by foreign key, so renaming or deleting a
// category never rewrites history.
type Category struct {
	Base
	UserID    string       `gorm:"type:uuid;not null;uniqueIndex:idx_categories_user_name" json:"user_id"`
	Name      string       `gorm:"not null;uniqueIndex:idx_categories_user_name" json:"name"`
	Type      CategoryType `gorm:"not null" json:"type"`
	IsDefault bool         `gorm:"default:false" json:"is_default"`
}
