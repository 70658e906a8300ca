package importer

import (
	"path/filepath"
	"strings"

	"github.com/zlatoverst/fireboard-import/pkg/logger"
)

// linkAttachments resolves a post's attachments to local files, uploads
// the ones that exist, and returns the markup to append: one fragment
// per line, in attachment query order. Missing files and failed uploads
// are skipped; an attachment must never abort its post.
func (im *Importer) linkAttachments(postID, ownerID int) string {
	attachments, err := im.repos.Attachments.FindByMessageID(postID)
	if err != nil {
		log := logger.WithPost(postID)
		log.Warn().Err(err).Msg("attachment query failed")
		return ""
	}

	var b strings.Builder
	for _, a := range attachments {
		fragment := im.uploadAttachment(postID, ownerID, a.FileLocation)
		if fragment != "" {
			b.WriteString("\n")
			b.WriteString(fragment)
		}
	}
	return b.String()
}

// uploadAttachment turns one stored file location into upload markup, or
// "" when the file is gone or the upload failed.
func (im *Importer) uploadAttachment(postID, ownerID int, fileLocation string) string {
	local := cleanAttachmentPath(fileLocation, im.cfg.Uploads.CleanPaths)
	filename := filepath.Base(local)
	path := filepath.Join(im.cfg.Uploads.Path, local)

	if !im.files.Exists(path) {
		return ""
	}

	upload, err := im.target.CreateUpload(ownerID, path, filename)
	if err != nil {
		log := logger.WithPost(postID)
		log.Warn().Err(err).Str("file", filename).Msg("attachment upload failed")
		return ""
	}
	if upload == nil || !upload.Persisted {
		return ""
	}
	return upload.Markup(filename)
}

// cleanAttachmentPath strips the historical absolute path prefixes from a
// stored file location. Every prefix is attempted unconditionally; all
// but the matching one are no-ops.
func cleanAttachmentPath(fileLocation string, prefixes []string) string {
	p := fileLocation
	for _, prefix := range prefixes {
		p = strings.Replace(p, prefix, "", 1)
	}
	return p
}
