package kunena

import (
	"gorm.io/gorm"

	"github.com/zlatoverst/fireboard-import/internal/domain/kunena"
)

// AttachmentRepository provides read access to <prefix>fb_attachments
type AttachmentRepository interface {
	FindByMessageID(mesID int) ([]*kunena.Attachment, error)
}

type attachmentRepository struct {
	db     *gorm.DB
	prefix string
}

// NewAttachmentRepository creates an AttachmentRepository over the given table prefix
func NewAttachmentRepository(db *gorm.DB, prefix string) AttachmentRepository {
	return &attachmentRepository{db: db, prefix: prefix}
}

func (r *attachmentRepository) FindByMessageID(mesID int) ([]*kunena.Attachment, error) {
	var attachments []*kunena.Attachment
	err := r.db.Table(r.prefix+"fb_attachments").
		Select("mesid, filelocation").
		Where("mesid = ?", mesID).
		Find(&attachments).Error
	return attachments, err
}
