package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "finanza/internal/errors"
	"finanza/internal/models"
	"finanza/internal/pagination"
)

// Default category names seeded for every new user. The app grew up
// bilingual, so the seed set keeps the Spanish names users already have.
var (
	defaultExpenseCategories = []string{"Comida", "Transporte", "Servicios", "Alquiler", "Salud", "Entretenimiento", "Otros"}
	defaultIncomeCategories  = []string{"Salario", "Freelance", "Inversiones", "Otros"}
)

// categoryService handles category-related business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// CreateCategory creates a new category for the user. Names are unique per
// user regardless of type.
func (s *categoryService) CreateCategory(userID, name string, categoryType models.CategoryType) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}

	var count int64
	s.db.Model(&models.Category{}).Where("user_id = ? AND name = ?", userID, name).Count(&count)
	if count > 0 {
		return nil, apperrors.ErrDuplicateCategory
	}

	// A soft-deleted category still occupies the unique (user, name) slot;
	// re-creating the name brings that row back.
	var category models.Category
	err := s.db.Unscoped().Where("user_id = ? AND name = ?", userID, name).First(&category).Error
	if err == nil {
		category.Type = categoryType
		category.IsDefault = false
		category.DeletedAt = gorm.DeletedAt{}
		if err := s.db.Unscoped().Model(&category).Updates(map[string]any{
			"type":       category.Type,
			"is_default": category.IsDefault,
			"deleted_at": nil,
		}).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return &category, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	category = models.Category{
		UserID: userID,
		Name:   name,
		Type:   categoryType,
	}

	if err := s.db.Create(&category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// GetUserCategories returns a paginated list of the user's categories,
// optionally restricted to one type.
func (s *categoryService) GetUserCategories(userID string, categoryType *models.CategoryType, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error) {
	page.Defaults()

	base := s.db.Model(&models.Category{}).Where("user_id = ?", userID)
	if categoryType != nil {
		base = base.Where("type = ?", *categoryType)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var categories []models.Category
	if err := base.Order("name ASC").Scopes(pagination.Paginate(page)).Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(categories, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// DeleteCategory soft deletes a category. Transactions keep the category
// name they were recorded with.
func (s *categoryService) DeleteCategory(userID, categoryID string) error {
	var category models.Category
	if err := s.db.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrCategoryNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Delete(&category).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// SeedDefaults creates the default category set for a new user.
func (s *categoryService) SeedDefaults(userID string) error {
	categories := make([]models.Category, 0, len(defaultExpenseCategories)+len(defaultIncomeCategories))
	for _, name := range defaultExpenseCategories {
		categories = append(categories, models.Category{UserID: userID, Name: name, Type: models.CategoryTypeExpense, IsDefault: true})
	}
	for _, name := range defaultIncomeCategories {
		if name == "Otros" {
			// Names are unique per user, the expense seed already owns it.
			continue
		}
		categories = append(categories, models.Category{UserID: userID, Name: name, Type: models.CategoryTypeIncome, IsDefault: true})
	}

	if err := s.db.Create(&categories).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
