package importer

import (
	"github.com/zlatoverst/fireboard-import/internal/domain"
	"github.com/zlatoverst/fireboard-import/internal/domain/kunena"
	"github.com/zlatoverst/fireboard-import/internal/markup"
	"github.com/zlatoverst/fireboard-import/pkg/logger"
)

// importCategories creates the category tree. Rows arrive ordered by
// (parent, id), so a parent is always imported before its children and
// the parent lookup below can never miss for a well-formed tree.
func (im *Importer) importCategories() error {
	log := logger.WithStage("categories")

	rows, err := im.repos.Categories.FindAllOrdered()
	if err != nil {
		return err
	}

	log.Info().Int("count", len(rows)).Msg("creating categories")
	return im.target.CreateCategories(rows, im.buildCategoryRecord)
}

func (im *Importer) buildCategoryRecord(c *kunena.Category) *domain.CategoryRecord {
	rec := &domain.CategoryRecord{
		ID:          c.ID,
		Name:        markup.Normalize(c.Name),
		Description: markup.Normalize(c.Description),
		Position:    c.Ordering,
	}
	if c.Parent > 0 {
		if parentID, ok := im.target.CategoryIDFromImportedCategoryID(c.Parent); ok {
			rec.ParentCategoryID = parentID
		}
	}
	return rec
}
