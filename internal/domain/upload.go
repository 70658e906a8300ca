package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Upload is the collaborator's result of storing one file in the target.
type Upload struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	Persisted bool   `json:"persisted"`
}

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
}

// Markup returns the post-body fragment embedding the upload: an inline
// image for image files, a plain link otherwise.
func (u *Upload) Markup(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if imageExtensions[ext] {
		return fmt.Sprintf("![%s](%s)", filename, u.URL)
	}
	return fmt.Sprintf("[%s](%s)", filename, u.URL)
}
