package importer

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zlatoverst/fireboard-import/internal/config"
	"github.com/zlatoverst/fireboard-import/internal/domain"
	"github.com/zlatoverst/fireboard-import/internal/domain/kunena"
)

func TestCleanAttachmentPath(t *testing.T) {
	prefixes := config.Default().Uploads.CleanPaths

	tests := []struct {
		name     string
		location string
		expected string
	}{
		{
			name:     "first historical prefix stripped",
			location: "/storage/home/srv1435/183528.hoster-test.ru/html//images/fbfiles/pic.jpg",
			expected: "images/fbfiles/pic.jpg",
		},
		{
			name:     "second historical prefix stripped",
			location: "/home/zlatover/public_html/images/fbfiles/doc.pdf",
			expected: "images/fbfiles/doc.pdf",
		},
		{
			name:     "fourth historical prefix stripped",
			location: "/home/elftlru/public_html/zlatoverst/images/fbfiles/a.gif",
			expected: "images/fbfiles/a.gif",
		},
		{
			name:     "relative location untouched",
			location: "images/fbfiles/b.png",
			expected: "images/fbfiles/b.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := cleanAttachmentPath(tt.location, prefixes)
			assert.Equal(t, tt.expected, result)

			// Once stripped and joined, the file must resolve under the
			// uploads root.
			joined := filepath.Join("tmp/uploads", result)
			assert.True(t, strings.HasPrefix(joined, "tmp/uploads"),
				"joined path %q escapes the uploads root", joined)
		})
	}
}

func TestLinkAttachments(t *testing.T) {
	client := new(mockTarget)
	attachments := new(mockAttachmentRepo)
	im := newTestImporter(client, Repos{Attachments: attachments})

	existing := filepath.Join("tmp/uploads", "images/fbfiles/pic.jpg")
	im.files = fakeFiles{existing: true}

	attachments.On("FindByMessageID", 1).Return([]*kunena.Attachment{
		{MesID: 1, FileLocation: "/home/zlatover/public_html/images/fbfiles/pic.jpg"},
		{MesID: 1, FileLocation: "/home/zlatover/public_html/images/fbfiles/gone.jpg"},
	}, nil)
	client.On("CreateUpload", 4, existing, "pic.jpg").
		Return(&domain.Upload{ID: "u1", URL: "/uploads/u1.jpg", Persisted: true}, nil)

	result := im.linkAttachments(1, 4)

	assert.Equal(t, "\n![pic.jpg](/uploads/u1.jpg)", result)
	client.AssertNumberOfCalls(t, "CreateUpload", 1)
}

func TestLinkAttachments_UploadFailureSkipped(t *testing.T) {
	client := new(mockTarget)
	attachments := new(mockAttachmentRepo)
	im := newTestImporter(client, Repos{Attachments: attachments})

	existing := filepath.Join("tmp/uploads", "images/fbfiles/pic.jpg")
	im.files = fakeFiles{existing: true}

	attachments.On("FindByMessageID", 1).Return([]*kunena.Attachment{
		{MesID: 1, FileLocation: "images/fbfiles/pic.jpg"},
	}, nil)
	client.On("CreateUpload", 4, existing, "pic.jpg").
		Return(nil, assert.AnError)

	result := im.linkAttachments(1, 4)

	assert.Empty(t, result, "a failed upload must not abort or emit markup")
}
