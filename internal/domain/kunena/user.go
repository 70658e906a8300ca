package kunena

import "time"

// User represents a row of the Joomla users table (<prefix>users).
// Table names carry a configurable prefix, so repositories select the
// table explicitly instead of relying on TableName.
type User struct {
	ID           int       `gorm:"column:id;primaryKey"`
	Name         string    `gorm:"column:name"`
	Username     string    `gorm:"column:username"`
	Email        string    `gorm:"column:email"`
	UserType     string    `gorm:"column:usertype"`
	Block        int       `gorm:"column:block"`
	RegisterDate time.Time `gorm:"column:registerDate"`
}

// IsBlocked reports whether the Joomla account is blocked
func (u *User) IsBlocked() bool {
	return u.Block == 1
}

// IsAdmin reports whether the Joomla usertype marks an administrator
func (u *User) IsAdmin() bool {
	return u.UserType == "Administrator" || u.UserType == "Super Administrator"
}

// Profile represents a row of the Kunena/Fireboard user table
// (<prefix>fb_users), keyed by the same user id as User.
type Profile struct {
	UserID     int    `gorm:"column:userid;primaryKey"`
	ShowOnline int    `gorm:"column:showOnline"`
	Rank       int    `gorm:"column:rank"`
	Birthdate  string `gorm:"column:birthdate"`
	Gender     int    `gorm:"column:gender"`
	Avatar     string `gorm:"column:avatar"`
	Signature  string `gorm:"column:signature"`
	Moderator  int    `gorm:"column:moderator"`
	Ban        int    `gorm:"column:ban"`
}
