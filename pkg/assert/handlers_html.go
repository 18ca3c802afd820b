package assert

import (
	"context"
	"regexp"
	"strings"
)

func registerHTMLHandlers(r *Registry) {
	r.Register(KindIsHTML, false, handleIsHTML)
	r.Register(KindContainsHTML, false, handleContainsHTML)
}

var (
	tagOpenRe    = regexp.MustCompile(`<(/?)([a-zA-Z][a-zA-Z0-9]*)([^>]*)>`)
	selfCloseRe  = regexp.MustCompile(`<[a-zA-Z][a-zA-Z0-9]*\b[^>]*/>`)
	entityRe     = regexp.MustCompile(`&[a-zA-Z#][a-zA-Z0-9]*;`)
	htmlCommentR = regexp.MustCompile(`<!--[\s\S]*?-->`)
)

// voidElements never require a matching close tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// knownHTMLTags is the whitelist is-html checks tag names against; an
// unrecognized tag name disqualifies the whole document.
var knownHTMLTags = map[string]bool{
	"html": true, "head": true, "body": true, "title": true,
	"div": true, "span": true, "p": true, "a": true, "img": true,
	"ul": true, "ol": true, "li": true, "table": true, "tr": true,
	"td": true, "th": true, "thead": true, "tbody": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"b": true, "i": true, "u": true, "strong": true, "em": true,
	"br": true, "hr": true, "code": true, "pre": true, "blockquote": true,
	"form": true, "input": true, "button": true, "label": true,
	"select": true, "option": true, "textarea": true,
	"nav": true, "header": true, "footer": true, "section": true,
	"article": true, "aside": true, "main": true, "figure": true,
	"figcaption": true, "small": true, "strike": true, "del": true,
	"ins": true, "sub": true, "sup": true, "mark": true, "abbr": true,
	"script": true, "style": true, "link": true, "meta": true,
}

func handleIsHTML(ctx context.Context, a Assertion, ectx EvalContext) (bool, float64, string, error) {
	s := strings.TrimSpace(ectx.OutputString())
	if s == "" || !strings.HasPrefix(s, "<") {
		return false, 0, "Output does not start with an HTML tag", nil
	}
	if strings.HasPrefix(s, "<?xml") {
		return false, 0, "Output is an XML document, not HTML", nil
	}
	if !strings.HasSuffix(s, ">") {
		return false, 0, "Output has trailing content after its last tag", nil
	}

	var stack []string
	matches := tagOpenRe.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return false, 0, "Output contains no recognizable HTML tags", nil
	}
	cursor := 0
	for _, m := range matches {
		// Text between tags must not contain a stray '<' (malformed markup).
		if strings.Contains(s[cursor:m[0]], "<") {
			return false, 0, "Output contains malformed markup", nil
		}
		cursor = m[1]

		closing := s[m[2]:m[3]] == "/"
		name := strings.ToLower(s[m[4]:m[5]])
		selfClosed := strings.HasSuffix(strings.TrimSpace(s[m[6]:m[7]]), "/")

		if !knownHTMLTags[name] {
			return false, 0, "Output contains an unrecognized tag: " + name, nil
		}
		switch {
		case closing:
			if len(stack) == 0 || stack[len(stack)-1] != name {
				return false, 0, "Output has mismatched HTML tags", nil
			}
			stack = stack[:len(stack)-1]
		case voidElements[name] || selfClosed:
			// no stack change
		default:
			stack = append(stack, name)
		}
	}
	if strings.Contains(s[cursor:], "<") {
		return false, 0, "Output contains malformed markup", nil
	}
	if len(stack) != 0 {
		return false, 0, "Output has unclosed HTML tags", nil
	}
	return true, 1, "Output is valid HTML", nil
}

func handleContainsHTML(ctx context.Context, a Assertion, ectx EvalContext) (bool, float64, string, error) {
	s := ectx.OutputString()

	signals := 0
	if hasTagPair(s) {
		signals++
	}
	if selfCloseRe.MatchString(s) {
		signals++
	}
	if entityRe.MatchString(s) {
		signals++
	}
	if htmlCommentR.MatchString(s) {
		signals++
	}

	if signals >= 2 {
		return true, 1, "Output contains HTML markup", nil
	}
	return false, 0, "Output does not contain recognizable HTML markup", nil
}

// hasTagPair reports whether s contains a matching <tag>...</tag> pair,
// using the tag name captured at each candidate opening tag (Go's RE2
// lacks backreferences, so \1 is resolved manually per candidate).
func hasTagPair(s string) bool {
	for _, m := range tagOpenRe.FindAllStringSubmatch(s, -1) {
		if m[1] == "/" {
			continue
		}
		name := m[2]
		closeTag := "</" + name + ">"
		openTag := m[0]
		idx := strings.Index(s, openTag)
		if idx < 0 {
			continue
		}
		if strings.Contains(s[idx+len(openTag):], closeTag) {
			return true
		}
	}
	return false
}
