package kunena

import (
	"gorm.io/gorm"

	"github.com/zlatoverst/fireboard-import/internal/domain/kunena"
)

// CategoryRepository provides read access to <prefix>fb_categories
type CategoryRepository interface {
	// FindAllOrdered returns categories ordered by (parent, id) ascending,
	// so a parent always precedes its children.
	FindAllOrdered() ([]*kunena.Category, error)
}

type categoryRepository struct {
	db     *gorm.DB
	prefix string
}

// NewCategoryRepository creates a CategoryRepository over the given table prefix
func NewCategoryRepository(db *gorm.DB, prefix string) CategoryRepository {
	return &categoryRepository{db: db, prefix: prefix}
}

func (r *categoryRepository) FindAllOrdered() ([]*kunena.Category, error) {
	var categories []*kunena.Category
	err := r.db.Table(r.prefix + "fb_categories").
		Select("id, parent, name, description, ordering").
		Order("parent, id").
		Find(&categories).Error
	return categories, err
}
