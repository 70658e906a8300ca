package kunena

import (
	"gorm.io/gorm"

	"github.com/zlatoverst/fireboard-import/internal/domain/kunena"
)

// UserRepository provides read access to the Joomla <prefix>users table
type UserRepository interface {
	FindAll() ([]*kunena.User, error)
	Count() (int64, error)
}

type userRepository struct {
	db     *gorm.DB
	prefix string
}

// NewUserRepository creates a UserRepository over the given table prefix
func NewUserRepository(db *gorm.DB, prefix string) UserRepository {
	return &userRepository{db: db, prefix: prefix}
}

func (r *userRepository) FindAll() ([]*kunena.User, error) {
	var users []*kunena.User
	err := r.db.Table(r.prefix + "users").
		Select("id, name, username, email, usertype, block, registerDate").
		Find(&users).Error
	return users, err
}

func (r *userRepository) Count() (int64, error) {
	var count int64
	err := r.db.Table(r.prefix + "users").Count(&count).Error
	return count, err
}

// ProfileRepository provides read access to <prefix>fb_users
type ProfileRepository interface {
	FindAll() ([]*kunena.Profile, error)
}

type profileRepository struct {
	db     *gorm.DB
	prefix string
}

// NewProfileRepository creates a ProfileRepository over the given table prefix
func NewProfileRepository(db *gorm.DB, prefix string) ProfileRepository {
	return &profileRepository{db: db, prefix: prefix}
}

func (r *profileRepository) FindAll() ([]*kunena.Profile, error) {
	var profiles []*kunena.Profile
	err := r.db.Table(r.prefix + "fb_users").
		Select("userid, showOnline, rank, birthdate, gender, avatar, signature, moderator, ban").
		Find(&profiles).Error
	return profiles, err
}
