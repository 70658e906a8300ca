package markup

import (
	"regexp"
	"strings"
)

// tokenKind classifies a piece of scanned post body.
type tokenKind int

const (
	// tokenLiteral is plain text outside any bracket tag.
	tokenLiteral tokenKind = iota
	// tokenContainer is a paired [name]body[/name] or [name=attr]body[/name].
	tokenContainer
	// tokenLone is an opening [name] or [name=attr] with no matching close
	// before the end of its line.
	tokenLone
)

type token struct {
	kind tokenKind
	raw  string
	name string
	attr string
	body string
}

// tokenize splits a body into literal text, container tags and lone tags.
// The grammar deliberately mirrors the dialect's observed limits: tag
// names, attributes and container bodies never span a newline, a close
// tag never opens anything, and the first same-name close terminates a
// container (nested same-name tags are not supported).
func tokenize(s string) []token {
	var tokens []token
	lit := 0 // start of the current literal run

	flush := func(end int) {
		if end > lit {
			tokens = append(tokens, token{kind: tokenLiteral, raw: s[lit:end]})
		}
	}

	i := 0
	for i < len(s) {
		if s[i] != '[' {
			i++
			continue
		}

		inside, closeIdx := scanTag(s, i)
		if closeIdx < 0 {
			i++
			continue
		}

		name, attr := splitTag(inside)
		flush(i)

		tagEnd := closeIdx + 1
		if body, bodyEnd, ok := findClose(s, tagEnd, name); ok {
			tokens = append(tokens, token{
				kind: tokenContainer,
				raw:  s[i:bodyEnd],
				name: name,
				attr: attr,
				body: body,
			})
			i = bodyEnd
		} else {
			tokens = append(tokens, token{
				kind: tokenLone,
				raw:  s[i:tagEnd],
				name: name,
				attr: attr,
			})
			i = tagEnd
		}
		lit = i
	}
	flush(len(s))
	return tokens
}

// scanTag reads the inside of a bracket tag starting at s[open] == '['.
// Returns the tag text and the index of the closing ']', or -1 when the
// bracket does not open a tag (empty, a close tag, another '[' before
// ']', or no ']' on the line).
func scanTag(s string, open int) (string, int) {
	for j := open + 1; j < len(s); j++ {
		switch s[j] {
		case ']':
			inside := s[open+1 : j]
			if inside == "" || inside[0] == '/' {
				return "", -1
			}
			return inside, j
		case '\n', '[':
			return "", -1
		}
	}
	return "", -1
}

// splitTag splits "name=attr" at the first '='. A trailing bare '=' stays
// part of the name, matching the dialect's non-empty attribute rule.
func splitTag(inside string) (name, attr string) {
	eq := strings.IndexByte(inside, '=')
	if eq <= 0 || eq == len(inside)-1 {
		return inside, ""
	}
	return inside[:eq], inside[eq+1:]
}

// findClose looks for "[/name]" between from and the end of the current
// line. Returns the container body and the index just past the close tag.
func findClose(s string, from int, name string) (body string, end int, ok bool) {
	window := s[from:]
	if nl := strings.IndexByte(window, '\n'); nl >= 0 {
		window = window[:nl]
	}
	closing := "[/" + name + "]"
	at := strings.Index(window, closing)
	if at < 0 {
		return "", 0, false
	}
	return window[:at], from + at + len(closing), true
}

// Rewriter converts the bracket-tag dialect in a converted post body into
// target markup, delegating url-shaped tags to the Resolver.
type Rewriter struct {
	resolver    *Resolver
	forumDomain string
	deepLink    *regexp.Regexp
}

// NewRewriter creates a Rewriter. forumDomain is the old forum's domain
// marker: tag bodies mentioning it are discarded, and legacy com_fireboard
// deep links under it are rewritten into target permalinks.
func NewRewriter(resolver *Resolver, forumDomain string) *Rewriter {
	deepLink := regexp.MustCompile(
		`http://` + regexp.QuoteMeta(forumDomain) + `/index\.php.*com_fireboard[&a-zA-Z0-9=#;]+`)
	return &Rewriter{
		resolver:    resolver,
		forumDomain: forumDomain,
		deepLink:    deepLink,
	}
}

// literalPasses are fixed replacements applied before the tag scan.
// [u] has no Markdown equivalent and is dropped; [quote] gets a single
// leading "> " (not per-line quoting, preserving the source forum's
// observed formatting).
var literalPasses = [...]struct{ old, new string }{
	{"[u]", ""},
	{"[/u]", ""},
	{"[quote]", "\n> "},
	{"[/quote]", "\n"},
	{"[b]", "**"},
	{"[/b]", "**"},
	{"[i]", "*"},
	{"[/i]", "*"},
}

// Rewrite runs the full dialect rewrite: literal passes, tag scan with
// per-name dispatch, then the legacy deep-link pass. Backslash escape
// artifacts are left in place; the body composer strips them once the
// attachment markup has been appended.
func (r *Rewriter) Rewrite(body string) string {
	out := body
	for _, p := range literalPasses {
		out = strings.ReplaceAll(out, p.old, p.new)
	}

	var b strings.Builder
	b.Grow(len(out))
	for _, tok := range tokenize(out) {
		b.WriteString(r.rewriteToken(tok))
	}
	out = b.String()

	return r.deepLink.ReplaceAllStringFunc(out, func(match string) string {
		return r.resolver.Resolve(match, "")
	})
}

// rewriteToken maps one token to its replacement text.
func (r *Rewriter) rewriteToken(tok token) string {
	switch tok.kind {
	case tokenContainer:
		switch tok.name {
		case "quote":
			return "> " + tok.body
		case "url":
			if tok.attr == "" {
				return r.resolver.Resolve(tok.body, "")
			}
			return r.resolver.Resolve(tok.attr, tok.body)
		default:
			// Unknown container: keep the content, drop the tag. Bodies
			// that still point at the dead forum are discarded outright.
			if strings.Contains(tok.body, r.forumDomain) {
				return ""
			}
			return tok.body
		}
	default:
		// Literal text and lone tags pass through verbatim.
		return tok.raw
	}
}
