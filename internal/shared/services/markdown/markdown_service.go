// Package markdown renders Discord-flavoured message markdown to sanitized HTML.
package markdown

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

type MarkdownService interface {
	ToHTML(markdown string) (string, error)
	Sanitize(htmlContent string) string
	ToHTMLSanitized(markdown string) (string, error)
	// DiscordToHTML resolves mentions and spoilers before rendering.
	DiscordToHTML(content string) (string, error)
}

var (
	userMentionRe    = regexp.MustCompile(`<@!?(\d+)>`)
	roleMentionRe    = regexp.MustCompile(`<@&(\d+)>`)
	channelMentionRe = regexp.MustCompile(`<#(\d+)>`)
	customEmojiRe    = regexp.MustCompile(`<a?:(\w+):\d+>`)
	spoilerRe        = regexp.MustCompile(`\|\|(.+?)\|\|`)
)

type markdownServiceImpl struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func NewMarkdownService() MarkdownService {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.Strikethrough,
			extension.Linkify,
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
			// spoiler spans are emitted as raw HTML; bluemonday runs afterwards
			html.WithUnsafe(),
		),
	)

	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code", "span", "div", "pre")

	return &markdownServiceImpl{
		md:     md,
		policy: policy,
	}
}

func (s *markdownServiceImpl) ToHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown to HTML: %w", err)
	}
	return buf.String(), nil
}

func (s *markdownServiceImpl) Sanitize(htmlContent string) string {
	return s.policy.Sanitize(htmlContent)
}

func (s *markdownServiceImpl) ToHTMLSanitized(markdown string) (string, error) {
	out, err := s.ToHTML(markdown)
	if err != nil {
		return "", err
	}
	return s.Sanitize(out), nil
}

func (s *markdownServiceImpl) DiscordToHTML(content string) (string, error) {
	return s.ToHTMLSanitized(expandDiscordSyntax(content))
}

// expandDiscordSyntax rewrites Discord-only tokens into plain markdown/HTML.
// Role mentions go first since <@&id> also matches the user pattern prefix.
func expandDiscordSyntax(content string) string {
	content = roleMentionRe.ReplaceAllString(content, `<span class="mention role">@role:$1</span>`)
	content = userMentionRe.ReplaceAllString(content, `<span class="mention user">@$1</span>`)
	content = channelMentionRe.ReplaceAllString(content, `<span class="mention channel">#$1</span>`)
	content = customEmojiRe.ReplaceAllString(content, ":$1:")
	content = spoilerRe.ReplaceAllString(content, `<span class="spoiler">$1</span>`)
	return content
}
