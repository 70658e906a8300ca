package importer

import (
	"strings"
	"time"

	"github.com/zlatoverst/fireboard-import/internal/domain"
	"github.com/zlatoverst/fireboard-import/internal/domain/kunena"
	"github.com/zlatoverst/fireboard-import/internal/markup"
	"github.com/zlatoverst/fireboard-import/internal/target"
	"github.com/zlatoverst/fireboard-import/pkg/logger"
)

// importPosts streams posts in fixed-size pages ordered by source id.
// A page whose every id already exists in the target is skipped whole.
// That dedup is page-granular, not per-row: a partially imported page is
// reprocessed entirely and relies on the target's per-id idempotency.
func (im *Importer) importPosts() error {
	log := logger.WithStage("posts")

	total, err := im.repos.Messages.Count()
	if err != nil {
		return err
	}
	log.Info().Int64("total", total).Msg("creating topics and posts")

	batchSize := im.cfg.Import.BatchSize
	for offset := 0; ; offset += batchSize {
		rows, err := im.repos.Messages.FindBatch(batchSize, offset)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			break
		}

		ids := make([]int, len(rows))
		for i, m := range rows {
			ids[i] = m.ID
		}
		if im.target.AllRecordsExist("posts", ids) {
			log.Info().Int("offset", offset).Msg("page already imported, skipping")
			continue
		}

		opts := target.PostOptions{Total: total, Offset: offset}
		if err := im.target.CreatePosts(rows, opts, im.buildPostRecord); err != nil {
			return err
		}
	}
	return nil
}

// buildPostRecord maps one source post to the target shape, or nil to
// skip it. Thread roots open a topic in their mapped category; replies
// attach to the topic their parent landed in. A reply whose parent was
// never imported is dropped, not retried.
func (im *Importer) buildPostRecord(m *kunena.Message) *domain.PostRecord {
	rec := &domain.PostRecord{
		ID:        m.ID,
		UserID:    -1,
		Raw:       im.composeBody(m),
		CreatedAt: time.Unix(m.Time, 0),
	}
	if userID, ok := im.target.UserIDFromImportedUserID(m.UserID); ok {
		rec.UserID = userID
	}

	if m.Parent == 0 {
		if categoryID, ok := im.target.CategoryIDFromImportedCategoryID(m.CatID); ok {
			rec.Category = categoryID
		}
		rec.Title = markup.Normalize(m.Subject)
		return rec
	}

	parent := im.target.TopicLookupFromImportedPostID(m.Parent)
	if parent == nil {
		log := logger.WithPost(m.ID)
		log.Warn().
			Int("parent_id", m.Parent).
			Str("subject", truncate(m.Subject, 40)).
			Msg("parent post doesn't exist, skipping")
		return nil
	}

	rec.TopicID = parent.TopicID
	if parent.PostNumber > 1 {
		rec.ReplyToPostNumber = parent.PostNumber
	}
	return rec
}

// composeBody runs the body pipeline: normalize, HTML conversion,
// dialect rewrite, attachment links appended one per line, then a final
// backslash strip. The strip runs last so escape artifacts in uploaded
// filenames are removed too.
func (im *Importer) composeBody(m *kunena.Message) string {
	raw := markup.Normalize(m.Message)
	if raw == "" {
		return raw
	}

	body, err := im.converter.Run(raw)
	if err != nil {
		log := logger.WithPost(m.ID)
		log.Warn().Err(err).Msg("html conversion degraded to raw body")
	}
	body = im.rewriter.Rewrite(body)

	ownerID := -1
	if userID, ok := im.target.UserIDFromImportedUserID(m.UserID); ok {
		ownerID = userID
	}
	body += im.linkAttachments(m.ID, ownerID)
	return strings.ReplaceAll(body, `\`, "")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
