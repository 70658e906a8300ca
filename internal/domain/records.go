package domain

import "time"

// TopicRef is the result of looking up an already-imported post by its
// source id: the topic it landed in and its position within that topic.
type TopicRef struct {
	TopicID    int `json:"topic_id"`
	PostNumber int `json:"post_number"`
}

// ImportUser is the merged per-user record built from a Joomla account
// row overlaid with its Kunena profile row. Built once before any post
// processing and read-only afterward.
type ImportUser struct {
	ID        int
	Username  string
	Name      string
	Email     string
	UserType  string
	Blocked   bool
	Admin     bool
	CreatedAt time.Time

	// Forum-profile fields; HasProfile marks users that actually used the
	// forum. Only those are imported.
	HasProfile bool
	ShowOnline bool
	Bio        string
	Birthdate  string
	Gender     int
	AvatarRef  string
	Rank       int
	Moderator  bool
	Suspended  bool
}

// UserRecord is the target-shaped user payload handed to the import
// collaborator. PostCreate, when set, runs after the user exists in the
// target and receives the target user id.
type UserRecord struct {
	ID            int        `json:"id"`
	Email         string     `json:"email"`
	Username      string     `json:"username"`
	Name          string     `json:"name"`
	CreatedAt     time.Time  `json:"created_at"`
	BioRaw        string     `json:"bio_raw,omitempty"`
	Moderator     bool       `json:"moderator"`
	Admin         bool       `json:"admin"`
	SuspendedAt   *time.Time `json:"suspended_at,omitempty"`
	SuspendedTill *time.Time `json:"suspended_till,omitempty"`

	PostCreate func(targetUserID int) `json:"-"`
}

// CategoryRecord is the target-shaped category payload.
type CategoryRecord struct {
	ID               int    `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description,omitempty"`
	Position         int    `json:"position"`
	ParentCategoryID int    `json:"parent_category_id,omitempty"`
}

// PostRecord is the target-shaped post payload. Thread roots carry
// Category and Title; replies carry TopicID and, when replying to a
// non-first post, ReplyToPostNumber.
type PostRecord struct {
	ID                int       `json:"id"`
	UserID            int       `json:"user_id"`
	Raw               string    `json:"raw"`
	CreatedAt         time.Time `json:"created_at"`
	Category          int       `json:"category,omitempty"`
	Title             string    `json:"title,omitempty"`
	TopicID           int       `json:"topic_id,omitempty"`
	ReplyToPostNumber int       `json:"reply_to_post_number,omitempty"`
}

// IsTopic reports whether the record opens a new topic rather than
// replying into an existing one.
func (p *PostRecord) IsTopic() bool {
	return p.TopicID == 0
}
