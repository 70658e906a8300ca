package importer

import (
	"fmt"
	"os"

	"github.com/zlatoverst/fireboard-import/internal/config"
	"github.com/zlatoverst/fireboard-import/internal/markup"
	kunenarepo "github.com/zlatoverst/fireboard-import/internal/repository/kunena"
	"github.com/zlatoverst/fireboard-import/internal/target"
	"github.com/zlatoverst/fireboard-import/pkg/logger"
)

// BodyConverter is the HTML-to-Markdown step of the body pipeline.
type BodyConverter interface {
	Run(body string) (string, error)
}

// FileChecker answers whether a local file exists. Attachment and avatar
// resolution go through it so tests can fake the filesystem.
type FileChecker interface {
	Exists(path string) bool
}

// OSFiles is the real-filesystem FileChecker.
type OSFiles struct{}

// Exists reports whether path is an existing regular file
func (OSFiles) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Repos bundles the legacy-database repositories the importer reads from.
type Repos struct {
	Users       kunenarepo.UserRepository
	Profiles    kunenarepo.ProfileRepository
	Categories  kunenarepo.CategoryRepository
	Messages    kunenarepo.MessageRepository
	Attachments kunenarepo.AttachmentRepository
}

// Importer drives the one-shot migration: merged users first, then
// categories parent-first, then posts in ascending-id batches, then the
// admin account. Single-threaded by design; every external call blocks.
type Importer struct {
	cfg       *config.Config
	repos     Repos
	target    target.Client
	converter BodyConverter
	rewriter  *markup.Rewriter
	files     FileChecker
}

// New wires an Importer against the given repositories and import client.
func New(cfg *config.Config, repos Repos, client target.Client) *Importer {
	resolver := markup.NewResolver(client, cfg.Source.ForumDomain, cfg.Source.LinkLabel, cfg.Source.ValidateLinks)
	return &Importer{
		cfg:       cfg,
		repos:     repos,
		target:    client,
		converter: markup.NewConverter(),
		rewriter:  markup.NewRewriter(resolver, cfg.Source.ForumDomain),
		files:     OSFiles{},
	}
}

// Run executes the stages selected by target: "users", "categories",
// "posts", or "all" for the whole import. A single stage assumes the
// earlier stages' id mappings already exist in the client; the admin
// account is only created on a full run. Per-item failures are logged
// and skipped inside each stage; only stage-level database errors abort.
func (im *Importer) Run(target string) error {
	switch target {
	case "users":
		return im.importUsers()
	case "categories":
		return im.importCategories()
	case "posts":
		return im.importPosts()
	case "all", "":
		if err := im.importUsers(); err != nil {
			return err
		}
		if err := im.importCategories(); err != nil {
			return err
		}
		if err := im.importPosts(); err != nil {
			return err
		}
		im.createAdmin()
		return nil
	default:
		return fmt.Errorf("unknown import target %q (want users, categories, posts or all)", target)
	}
}

// createAdmin creates the post-import admin account. Failure is logged
// and does not abort the run: everything already imported stays.
func (im *Importer) createAdmin() {
	err := im.target.CreateAdmin(im.cfg.Admin.Email, target.SuggestUsername(im.cfg.Admin.Name))
	if err != nil {
		logger.GetLogger().Error().Err(err).Msg("failed to create admin user")
	}
}
