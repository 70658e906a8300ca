package kunena

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/zlatoverst/fireboard-import/internal/domain/kunena"
)

// MessageRepository provides batched read access to forum posts
// (<prefix>fb_messages joined with <prefix>fb_messages_text).
type MessageRepository interface {
	Count() (int64, error)
	// FindBatch returns one page of posts ordered by id ascending, with
	// bodies joined in. Ascending id order guarantees a post's parent is
	// seen before the post itself.
	FindBatch(limit, offset int) ([]*kunena.Message, error)
}

type messageRepository struct {
	db          *gorm.DB
	prefix      string
	parentField string
}

// NewMessageRepository creates a MessageRepository. parentField is the
// parent-post column name ("parent" or "parent_id" depending on the
// schema version).
func NewMessageRepository(db *gorm.DB, prefix, parentField string) MessageRepository {
	return &messageRepository{db: db, prefix: prefix, parentField: parentField}
}

func (r *messageRepository) Count() (int64, error) {
	var count int64
	err := r.db.Table(r.prefix + "fb_messages").Count(&count).Error
	return count, err
}

func (r *messageRepository) FindBatch(limit, offset int) ([]*kunena.Message, error) {
	var messages []*kunena.Message
	query := fmt.Sprintf(`
		SELECT m.id id,
		       m.thread thread,
		       m.%s parent,
		       m.catid catid,
		       m.userid userid,
		       m.subject subject,
		       m.time time,
		       t.message message
		FROM %sfb_messages m,
		     %sfb_messages_text t
		WHERE m.id = t.mesid
		ORDER BY m.id
		LIMIT ? OFFSET ?`, r.parentField, r.prefix, r.prefix)
	err := r.db.Raw(query, limit, offset).Scan(&messages).Error
	return messages, err
}
