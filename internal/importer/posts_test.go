package importer

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/zlatoverst/fireboard-import/internal/config"
	"github.com/zlatoverst/fireboard-import/internal/domain"
	"github.com/zlatoverst/fireboard-import/internal/domain/kunena"
	"github.com/zlatoverst/fireboard-import/internal/target"
)

// --- Mock target client ---

type mockTarget struct {
	mock.Mock
}

func (m *mockTarget) CreateUsers(users []*domain.ImportUser, build func(*domain.ImportUser) *domain.UserRecord) error {
	return m.Called(users, build).Error(0)
}

func (m *mockTarget) CreateCategories(rows []*kunena.Category, build func(*kunena.Category) *domain.CategoryRecord) error {
	return m.Called(rows, build).Error(0)
}

func (m *mockTarget) CreatePosts(rows []*kunena.Message, opts target.PostOptions, build func(*kunena.Message) *domain.PostRecord) error {
	return m.Called(rows, opts, build).Error(0)
}

func (m *mockTarget) CreateUpload(ownerID int, path, filename string) (*domain.Upload, error) {
	args := m.Called(ownerID, path, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Upload), args.Error(1)
}

func (m *mockTarget) CreateAdmin(email, username string) error {
	return m.Called(email, username).Error(0)
}

func (m *mockTarget) UserIDFromImportedUserID(id int) (int, bool) {
	args := m.Called(id)
	return args.Int(0), args.Bool(1)
}

func (m *mockTarget) CategoryIDFromImportedCategoryID(id int) (int, bool) {
	args := m.Called(id)
	return args.Int(0), args.Bool(1)
}

func (m *mockTarget) TopicLookupFromImportedPostID(id int) *domain.TopicRef {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*domain.TopicRef)
}

func (m *mockTarget) AllRecordsExist(kind string, ids []int) bool {
	args := m.Called(kind, ids)
	return args.Bool(0)
}

// --- Mock repositories ---

type mockMessageRepo struct {
	mock.Mock
}

func (m *mockMessageRepo) Count() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockMessageRepo) FindBatch(limit, offset int) ([]*kunena.Message, error) {
	args := m.Called(limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*kunena.Message), args.Error(1)
}

type mockAttachmentRepo struct {
	mock.Mock
}

func (m *mockAttachmentRepo) FindByMessageID(mesID int) ([]*kunena.Attachment, error) {
	args := m.Called(mesID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*kunena.Attachment), args.Error(1)
}

// --- Test doubles for the body pipeline ---

type identityConverter struct{}

func (identityConverter) Run(body string) (string, error) { return body, nil }

type fakeFiles map[string]bool

func (f fakeFiles) Exists(path string) bool { return f[path] }

func newTestImporter(client target.Client, repos Repos) *Importer {
	im := New(config.Default(), repos, client)
	im.converter = identityConverter{}
	im.files = fakeFiles{}
	return im
}

// --- Tests ---

func TestBuildPostRecord_RootTopic(t *testing.T) {
	client := new(mockTarget)
	attachments := new(mockAttachmentRepo)
	im := newTestImporter(client, Repos{Attachments: attachments})

	client.On("UserIDFromImportedUserID", 10).Return(4, true)
	client.On("CategoryIDFromImportedCategoryID", 3).Return(12, true)
	attachments.On("FindByMessageID", 1).Return([]*kunena.Attachment{}, nil)

	rec := im.buildPostRecord(&kunena.Message{
		ID:      1,
		Parent:  0,
		CatID:   3,
		UserID:  10,
		Subject: "Hello world",
		Time:    1204329600,
		Message: "[b]welcome[/b]",
	})

	assert.NotNil(t, rec)
	assert.Equal(t, 1, rec.ID)
	assert.Equal(t, 4, rec.UserID)
	assert.Equal(t, 12, rec.Category)
	assert.Equal(t, "Hello world", rec.Title)
	assert.Zero(t, rec.TopicID, "a thread root must not carry a topic id")
	assert.Equal(t, "**welcome**", rec.Raw)
	assert.Equal(t, time.Unix(1204329600, 0), rec.CreatedAt)
	client.AssertExpectations(t)
}

func TestBuildPostRecord_Reply(t *testing.T) {
	client := new(mockTarget)
	attachments := new(mockAttachmentRepo)
	im := newTestImporter(client, Repos{Attachments: attachments})

	client.On("UserIDFromImportedUserID", 10).Return(4, true)
	client.On("TopicLookupFromImportedPostID", 5).Return(&domain.TopicRef{TopicID: 7, PostNumber: 3})
	attachments.On("FindByMessageID", 2).Return([]*kunena.Attachment{}, nil)

	rec := im.buildPostRecord(&kunena.Message{
		ID: 2, Parent: 5, UserID: 10, Subject: "Re: Hello", Message: "me too",
	})

	assert.NotNil(t, rec)
	assert.Equal(t, 7, rec.TopicID)
	assert.Equal(t, 3, rec.ReplyToPostNumber)
	assert.Empty(t, rec.Title)
	assert.Zero(t, rec.Category)
}

func TestBuildPostRecord_ReplyToFirstPost(t *testing.T) {
	client := new(mockTarget)
	attachments := new(mockAttachmentRepo)
	im := newTestImporter(client, Repos{Attachments: attachments})

	client.On("UserIDFromImportedUserID", 10).Return(4, true)
	client.On("TopicLookupFromImportedPostID", 5).Return(&domain.TopicRef{TopicID: 7, PostNumber: 1})
	attachments.On("FindByMessageID", 2).Return([]*kunena.Attachment{}, nil)

	rec := im.buildPostRecord(&kunena.Message{
		ID: 2, Parent: 5, UserID: 10, Message: "direct topic reply",
	})

	assert.NotNil(t, rec)
	assert.Equal(t, 7, rec.TopicID)
	assert.Zero(t, rec.ReplyToPostNumber, "replies to the first post carry no explicit reply target")
}

func TestBuildPostRecord_MissingParentSkips(t *testing.T) {
	client := new(mockTarget)
	attachments := new(mockAttachmentRepo)
	im := newTestImporter(client, Repos{Attachments: attachments})

	client.On("UserIDFromImportedUserID", 10).Return(0, false)
	client.On("TopicLookupFromImportedPostID", 404).Return(nil)
	attachments.On("FindByMessageID", 2).Return([]*kunena.Attachment{}, nil)

	rec := im.buildPostRecord(&kunena.Message{
		ID: 2, Parent: 404, UserID: 10, Subject: "orphan", Message: "lost",
	})

	assert.Nil(t, rec, "post with unresolvable parent must be dropped")
}

func TestBuildPostRecord_UnknownAuthorGetsSentinel(t *testing.T) {
	client := new(mockTarget)
	attachments := new(mockAttachmentRepo)
	im := newTestImporter(client, Repos{Attachments: attachments})

	client.On("UserIDFromImportedUserID", 999).Return(0, false)
	client.On("CategoryIDFromImportedCategoryID", 3).Return(12, true)
	attachments.On("FindByMessageID", 1).Return([]*kunena.Attachment{}, nil)

	rec := im.buildPostRecord(&kunena.Message{
		ID: 1, Parent: 0, CatID: 3, UserID: 999, Subject: "anon", Message: "hi",
	})

	assert.NotNil(t, rec)
	assert.Equal(t, -1, rec.UserID)
}

func TestComposeBody_StripsBackslashesAfterAttachments(t *testing.T) {
	client := new(mockTarget)
	attachments := new(mockAttachmentRepo)
	im := newTestImporter(client, Repos{Attachments: attachments})

	existing := filepath.Join("tmp/uploads", `images/fbfiles/we\ird.jpg`)
	im.files = fakeFiles{existing: true}

	client.On("UserIDFromImportedUserID", 10).Return(4, true)
	attachments.On("FindByMessageID", 1).Return([]*kunena.Attachment{
		{MesID: 1, FileLocation: `images/fbfiles/we\ird.jpg`},
	}, nil)
	client.On("CreateUpload", 4, existing, `we\ird.jpg`).
		Return(&domain.Upload{ID: "u1", URL: "/uploads/u1.jpg", Persisted: true}, nil)

	body := im.composeBody(&kunena.Message{ID: 1, UserID: 10, Message: `escaped \* star`})

	assert.Equal(t, "escaped * star\n![weird.jpg](/uploads/u1.jpg)", body,
		"the backslash strip must run after attachment markup is appended")
}

func TestImportPosts_SkipsFullyImportedPage(t *testing.T) {
	client := new(mockTarget)
	messages := new(mockMessageRepo)
	im := newTestImporter(client, Repos{Messages: messages})

	page := []*kunena.Message{
		{ID: 1, Subject: "a"},
		{ID: 2, Subject: "b"},
	}
	messages.On("Count").Return(int64(2), nil)
	messages.On("FindBatch", 1000, 0).Return(page, nil)
	messages.On("FindBatch", 1000, 1000).Return([]*kunena.Message{}, nil)
	client.On("AllRecordsExist", "posts", []int{1, 2}).Return(true)

	err := im.importPosts()

	assert.NoError(t, err)
	client.AssertNotCalled(t, "CreatePosts", mock.Anything, mock.Anything, mock.Anything)
	messages.AssertExpectations(t)
}

func TestImportPosts_ProcessesFreshPage(t *testing.T) {
	client := new(mockTarget)
	messages := new(mockMessageRepo)
	im := newTestImporter(client, Repos{Messages: messages})

	page := []*kunena.Message{{ID: 1, Subject: "a"}}
	messages.On("Count").Return(int64(1), nil)
	messages.On("FindBatch", 1000, 0).Return(page, nil)
	messages.On("FindBatch", 1000, 1000).Return([]*kunena.Message{}, nil)
	client.On("AllRecordsExist", "posts", []int{1}).Return(false)
	client.On("CreatePosts", page, target.PostOptions{Total: 1, Offset: 0}, mock.Anything).Return(nil)

	err := im.importPosts()

	assert.NoError(t, err)
	client.AssertExpectations(t)
}
