package target

import (
	"github.com/zlatoverst/fireboard-import/internal/domain"
	"github.com/zlatoverst/fireboard-import/internal/domain/kunena"
)

// PostOptions carries batch progress for post creation.
type PostOptions struct {
	Total  int64
	Offset int
}

// Client is the import side of the pipeline: idempotent, id-mapped
// creation plus lookups over what was already imported. Builders return
// nil to skip an item.
type Client interface {
	CreateUsers(users []*domain.ImportUser, build func(*domain.ImportUser) *domain.UserRecord) error
	CreateCategories(rows []*kunena.Category, build func(*kunena.Category) *domain.CategoryRecord) error
	CreatePosts(rows []*kunena.Message, opts PostOptions, build func(*kunena.Message) *domain.PostRecord) error

	// CreateUpload stores one local file under the given owner and returns
	// the resulting upload, or nil when the target refused it.
	CreateUpload(ownerID int, path, filename string) (*domain.Upload, error)

	// CreateAdmin creates the post-import admin account.
	CreateAdmin(email, username string) error

	UserIDFromImportedUserID(id int) (int, bool)
	CategoryIDFromImportedCategoryID(id int) (int, bool)
	TopicLookupFromImportedPostID(id int) *domain.TopicRef

	// AllRecordsExist reports whether every id of the given entity kind
	// has already been imported.
	AllRecordsExist(kind string, ids []int) bool
}
