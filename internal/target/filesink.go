package target

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zlatoverst/fireboard-import/internal/domain"
	"github.com/zlatoverst/fireboard-import/internal/domain/kunena"
	"github.com/zlatoverst/fireboard-import/pkg/logger"
)

// FileSink is an offline Client: it appends one JSONL file per entity
// kind under its directory, copies uploads in, and keeps the id maps and
// topic bookkeeping in memory. It backs dry runs and tests, and its
// output matches what the target platform's bulk loader ingests.
type FileSink struct {
	dir string

	mu    sync.Mutex
	files map[string]*os.File

	users      map[int]int
	categories map[int]int
	posts      map[int]bool
	topics     map[int]domain.TopicRef // imported post id -> topic position
	topicPosts map[int]int             // target topic id -> last post number

	nextUserID     int
	nextCategoryID int
	nextTopicID    int
}

// NewFileSink creates a FileSink writing under dir.
func NewFileSink(dir string) (*FileSink, error) {
	if err := os.MkdirAll(filepath.Join(dir, "uploads"), 0o755); err != nil {
		return nil, err
	}
	return &FileSink{
		dir:        dir,
		files:      make(map[string]*os.File),
		users:      make(map[int]int),
		categories: make(map[int]int),
		posts:      make(map[int]bool),
		topics:     make(map[int]domain.TopicRef),
		topicPosts: make(map[int]int),
	}, nil
}

// Close closes all entity files.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var firstErr error
	for _, f := range s.files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.files = make(map[string]*os.File)
	return firstErr
}

func (s *FileSink) write(kind string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.files[kind]
	if !ok {
		var err error
		f, err = os.OpenFile(filepath.Join(s.dir, kind+".jsonl"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		s.files[kind] = f
	}

	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = f.Write(data)
	return err
}

// CreateUsers builds and records each user, then runs its post-create
// action with the assigned target id.
func (s *FileSink) CreateUsers(users []*domain.ImportUser, build func(*domain.ImportUser) *domain.UserRecord) error {
	for _, u := range users {
		rec := build(u)
		if rec == nil {
			continue
		}
		s.nextUserID++
		targetID := s.nextUserID
		s.users[rec.ID] = targetID
		if err := s.write("users", rec); err != nil {
			return err
		}
		if rec.PostCreate != nil {
			rec.PostCreate(targetID)
		}
	}
	return nil
}

// CreateCategories builds and records each category in the given order,
// so parent-first input keeps the tree invariant.
func (s *FileSink) CreateCategories(rows []*kunena.Category, build func(*kunena.Category) *domain.CategoryRecord) error {
	for _, row := range rows {
		rec := build(row)
		if rec == nil {
			continue
		}
		s.nextCategoryID++
		s.categories[rec.ID] = s.nextCategoryID
		if err := s.write("categories", rec); err != nil {
			return err
		}
	}
	return nil
}

// CreatePosts builds and records each post, assigning topic ids to roots
// and post numbers within topics, and logs batch progress.
func (s *FileSink) CreatePosts(rows []*kunena.Message, opts PostOptions, build func(*kunena.Message) *domain.PostRecord) error {
	log := logger.WithStage("posts")

	created := 0
	for _, row := range rows {
		rec := build(row)
		if rec == nil {
			continue
		}

		var ref domain.TopicRef
		if rec.IsTopic() {
			s.nextTopicID++
			ref = domain.TopicRef{TopicID: s.nextTopicID, PostNumber: 1}
		} else {
			n := s.topicPosts[rec.TopicID] + 1
			ref = domain.TopicRef{TopicID: rec.TopicID, PostNumber: n}
		}
		s.topicPosts[ref.TopicID] = ref.PostNumber
		s.topics[rec.ID] = ref
		s.posts[rec.ID] = true

		if err := s.write("posts", rec); err != nil {
			return err
		}
		created++
	}

	log.Info().
		Int("created", created).
		Int("skipped", len(rows)-created).
		Int("offset", opts.Offset).
		Int64("total", opts.Total).
		Msg("batch done")
	return nil
}

// CreateUpload copies the file into the sink's uploads directory under a
// fresh name, keeping the original extension.
func (s *FileSink) CreateUpload(ownerID int, path, filename string) (*domain.Upload, error) {
	src, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	name := uuid.NewString() + filepath.Ext(filename)
	rel := filepath.Join("uploads", name)
	dst, err := os.Create(filepath.Join(s.dir, rel))
	if err != nil {
		return nil, err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return nil, err
	}

	upload := &domain.Upload{
		ID:        name,
		URL:       "/" + filepath.ToSlash(rel),
		Persisted: true,
	}
	return upload, s.write("upload_log", map[string]any{
		"owner_id": ownerID,
		"source":   path,
		"filename": filename,
		"url":      upload.URL,
	})
}

// CreateAdmin records the post-import admin account.
func (s *FileSink) CreateAdmin(email, username string) error {
	if email == "" || username == "" {
		return fmt.Errorf("admin account needs email and username")
	}
	s.nextUserID++
	return s.write("users", &domain.UserRecord{
		ID:        -s.nextUserID, // no source id; negative keeps it out of the imported-id space
		Email:     email,
		Username:  username,
		Name:      username,
		Admin:     true,
		CreatedAt: time.Now(),
	})
}

// UserIDFromImportedUserID maps a source user id to its target id.
func (s *FileSink) UserIDFromImportedUserID(id int) (int, bool) {
	v, ok := s.users[id]
	return v, ok
}

// CategoryIDFromImportedCategoryID maps a source category id to its target id.
func (s *FileSink) CategoryIDFromImportedCategoryID(id int) (int, bool) {
	v, ok := s.categories[id]
	return v, ok
}

// TopicLookupFromImportedPostID returns where an imported post landed,
// or nil when the id was never imported.
func (s *FileSink) TopicLookupFromImportedPostID(id int) *domain.TopicRef {
	ref, ok := s.topics[id]
	if !ok {
		return nil
	}
	return &ref
}

// AllRecordsExist reports whether every id of the kind is already
// imported. Only "posts" is tracked; other kinds report false so their
// runs are never skipped.
func (s *FileSink) AllRecordsExist(kind string, ids []int) bool {
	if kind != "posts" || len(ids) == 0 {
		return false
	}
	for _, id := range ids {
		if !s.posts[id] {
			return false
		}
	}
	return true
}

var _ Client = (*FileSink)(nil)
