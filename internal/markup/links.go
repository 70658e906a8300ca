package markup

import (
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/zlatoverst/fireboard-import/internal/domain"
	"github.com/zlatoverst/fireboard-import/pkg/logger"
)

// TopicLookup maps a previously-imported source post id to its resulting
// topic, or nil when the id was never imported.
type TopicLookup interface {
	TopicLookupFromImportedPostID(id int) *domain.TopicRef
}

// permalinkBase is the target-relative path rewritten forum links point at.
const permalinkBase = "/t/demo/"

var linkIDPattern = regexp.MustCompile(`id=([0-9]+)`)

const checkUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_7_0) AppleWebKit/535.2 (KHTML, like Gecko) Chrome/15.0.854.0 Safari/535.2"

// Resolver rewrites URLs found in post bodies. External links pass
// through as labeled Markdown links; links back into the old forum are
// rewritten into target permalinks via the topic lookup.
type Resolver struct {
	lookup      TopicLookup
	forumDomain string
	label       string
	validate    bool
	client      *http.Client
}

// NewResolver creates a Resolver. label is the generic link label used
// when the markup supplies none. When validate is true, external links
// are HEAD-probed and dead ones logged (the link is kept either way).
func NewResolver(lookup TopicLookup, forumDomain, label string, validate bool) *Resolver {
	if label == "" {
		label = "Ссылка"
	}
	return &Resolver{
		lookup:      lookup,
		forumDomain: forumDomain,
		label:       label,
		validate:    validate,
		client:      http.DefaultClient,
	}
}

// Resolve rewrites one URL into a Markdown link. Forum URLs must carry a
// numeric id parameter; when the id maps to an imported post the link
// points at its topic, otherwise the raw source id is kept so the dead
// link stays traceable. Forum URLs without an id are dropped.
func (r *Resolver) Resolve(rawURL, label string) string {
	if label == "" {
		label = r.label
	}

	if !strings.Contains(rawURL, r.forumDomain) {
		if r.validate && !r.CheckURL(rawURL) {
			logger.GetLogger().Warn().Str("url", rawURL).Msg("external link did not answer HEAD probe")
		}
		return fmt.Sprintf("[%s](%s)", label, rawURL)
	}

	m := linkIDPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return ""
	}

	id, _ := strconv.Atoi(m[1])
	if ref := r.lookup.TopicLookupFromImportedPostID(id); ref != nil {
		return fmt.Sprintf("[%s](%s%d)", label, permalinkBase, ref.TopicID)
	}
	return fmt.Sprintf("[%s](%s%s)", label, permalinkBase, m[1])
}

// CheckURL reports whether the URL answers a HEAD request with 200.
// Blocks on a full HTTP round trip; callers opt in via the resolver's
// validate flag.
func (r *Resolver) CheckURL(rawURL string) bool {
	if rawURL == "" {
		return false
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return false
	}

	req, err := http.NewRequest(http.MethodHead, rawURL, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", checkUserAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
