package importer

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/zlatoverst/fireboard-import/internal/domain"
	"github.com/zlatoverst/fireboard-import/internal/domain/kunena"
	"github.com/zlatoverst/fireboard-import/internal/markup"
	"github.com/zlatoverst/fireboard-import/internal/target"
	"github.com/zlatoverst/fireboard-import/pkg/logger"
)

// suspensionYears is how far out suspended/blocked accounts stay
// suspended; effectively forever, instead of deleting them.
const suspensionYears = 100

var usernameStrip = regexp.MustCompile(`[^A-Za-z0-9_]`)

// importUsers merges the two legacy user tables and creates every user
// that actually used the forum. The merged map is released afterwards:
// author identity is resolved through the target's id mapping from here
// on, and post volume may dwarf the user count.
func (im *Importer) importUsers() error {
	log := logger.WithStage("users")

	log.Info().Msg("fetching Joomla users")
	base, err := im.repos.Users.FindAll()
	if err != nil {
		return err
	}

	log.Info().Msg("fetching Kunena profiles")
	profiles, err := im.repos.Profiles.FindAll()
	if err != nil {
		return err
	}

	users := mergeUsers(base, profiles)

	candidates := make([]*domain.ImportUser, 0, len(users))
	for _, u := range users {
		if u.HasProfile {
			candidates = append(candidates, u)
		}
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].ID < candidates[j].ID })

	log.Info().Int("count", len(candidates)).Msg("creating users")
	if err := im.target.CreateUsers(candidates, im.buildUserRecord); err != nil {
		return err
	}

	// The merged map dies with this frame; nothing retains user rows
	// while posts stream through.
	return nil
}

// mergeUsers joins Joomla account rows with Kunena profile rows keyed by
// user id. Accounts need a positive id, username and email; profile rows
// without a matching account contribute nothing.
func mergeUsers(base []*kunena.User, profiles []*kunena.Profile) map[int]*domain.ImportUser {
	users := make(map[int]*domain.ImportUser, len(base))

	for _, u := range base {
		if u.ID <= 0 || u.Username == "" || u.Email == "" {
			continue
		}
		users[u.ID] = &domain.ImportUser{
			ID:        u.ID,
			Username:  sanitizeUsername(u.Username, u.Email),
			Name:      u.Name,
			Email:     u.Email,
			UserType:  u.UserType,
			Blocked:   u.IsBlocked(),
			Admin:     u.IsAdmin(),
			CreatedAt: u.RegisterDate,
		}
	}

	for _, p := range profiles {
		u, ok := users[p.UserID]
		if !ok {
			continue
		}
		u.HasProfile = true
		u.ShowOnline = p.ShowOnline == 1
		u.Bio = p.Signature
		u.Birthdate = p.Birthdate
		u.Gender = p.Gender
		u.AvatarRef = p.Avatar
		u.Rank = p.Rank
		u.Moderator = p.Moderator == 1
		u.Suspended = p.Ban == 1
	}

	return users
}

// sanitizeUsername strips a legacy username to the allowed character set
// and forces it into the target's length bounds; too-short results fall
// back to a suggestion from the email, then get repeat-padded.
func sanitizeUsername(username, email string) string {
	name := strings.ReplaceAll(username, " ", "_")
	name = usernameStrip.ReplaceAllString(name, "")
	if len(name) > target.MaxUsernameLength {
		name = name[:target.MaxUsernameLength]
	}
	if len(name) < target.MinUsernameLength {
		name = target.SuggestUsername(email)
	}
	if len(name) < target.MinUsernameLength && name != "" {
		name = strings.Repeat(name, target.MinUsernameLength)
	}
	return name
}

// buildUserRecord maps one merged user to the target shape. Suspended or
// blocked accounts get a long-dated suspension, and their avatar import
// becomes a no-op.
func (im *Importer) buildUserRecord(u *domain.ImportUser) *domain.UserRecord {
	rec := &domain.UserRecord{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		Name:      markup.Normalize(u.Name),
		CreatedAt: u.CreatedAt,
		BioRaw:    markup.Normalize(u.Bio),
		Moderator: u.Moderator,
		Admin:     u.Admin,
	}

	if u.Suspended || u.Blocked {
		now := time.Now()
		till := now.AddDate(suspensionYears, 0, 0)
		rec.SuspendedAt = &now
		rec.SuspendedTill = &till
	}

	suspended := u.Suspended
	avatarRef := u.AvatarRef
	importedID := u.ID
	rec.PostCreate = func(targetUserID int) {
		if suspended || avatarRef == "" {
			return
		}
		im.importAvatar(importedID, targetUserID, avatarRef)
	}
	return rec
}

// importAvatar uploads a user's legacy avatar file if it still exists
// locally. Any failure is logged and swallowed.
func (im *Importer) importAvatar(importedID, targetUserID int, avatarRef string) {
	log := logger.WithStage("users")

	path := filepath.Join(im.cfg.Uploads.AvatarPrefix, avatarRef)
	if !im.files.Exists(path) {
		return
	}

	upload, err := im.target.CreateUpload(targetUserID, path, filepath.Base(path))
	if err != nil {
		log.Warn().Err(err).Int("user_id", importedID).Str("avatar", avatarRef).Msg("avatar upload failed")
		return
	}
	if upload == nil || !upload.Persisted {
		log.Warn().Int("user_id", importedID).Str("avatar", avatarRef).Msg("avatar upload not persisted")
	}
}
