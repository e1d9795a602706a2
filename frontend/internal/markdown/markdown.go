// Package markdown renders card text to safe HTML for static, read-only
// presentation of a board.
package markdown

import (
	"bytes"
	"cmp"
	"fmt"
	"html"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/brainboard/brainboard/shared/domain"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	goldmark_html "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

var allowedClass = regexp.MustCompile(`^(board|card card-(text|image))$`)

type TextProcessor struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func New() *TextProcessor {
	p := parser.NewParser(
		parser.WithBlockParsers(
			util.Prioritized(parser.NewSetextHeadingParser(), 100),
			util.Prioritized(parser.NewThematicBreakParser(), 200),
			util.Prioritized(parser.NewListParser(), 300),
			util.Prioritized(parser.NewListItemParser(), 400),
			util.Prioritized(parser.NewCodeBlockParser(), 500),
			util.Prioritized(parser.NewATXHeadingParser(), 600),
			util.Prioritized(parser.NewFencedCodeBlockParser(), 700),
			util.Prioritized(parser.NewBlockquoteParser(), 800),
			util.Prioritized(parser.NewParagraphParser(), 1000),
		),
		parser.WithInlineParsers(
			util.Prioritized(parser.NewCodeSpanParser(), 100),
			util.Prioritized(parser.NewLinkParser(), 200),
			util.Prioritized(parser.NewAutoLinkParser(), 300),
			util.Prioritized(parser.NewEmphasisParser(), 500),
		),
		parser.WithParagraphTransformers(
			util.Prioritized(parser.LinkReferenceParagraphTransformer, 100),
		),
	)

	md := goldmark.New(
		goldmark.WithParser(p),
		goldmark.WithRendererOptions(goldmark_html.WithHardWraps()),
		goldmark.WithExtensions(extension.Strikethrough, extension.Linkify),
	)

	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Matching(allowedClass).OnElements("div")
	policy.AllowStyles("left", "top", "width", "height").OnElements("div")
	policy.RequireNoFollowOnLinks(true)
	policy.AllowRelativeURLs(true)

	return &TextProcessor{md: md, policy: policy}
}

// RenderText converts card text to sanitized HTML. Raw HTML in the input is
// escaped by the renderer and stripped again by the sanitizer.
func (tp *TextProcessor) RenderText(text string) string {
	var buf bytes.Buffer
	if err := tp.md.Convert([]byte(text), &buf); err != nil {
		return tp.policy.Sanitize(html.EscapeString(text))
	}
	return strings.TrimSpace(tp.policy.Sanitize(buf.String()))
}

// RenderCard renders one card as an absolutely positioned block in board
// units. Image cards without a persisted size are left unsized.
func (tp *TextProcessor) RenderCard(c domain.Card) string {
	var b strings.Builder
	style := "left: " + px(c.PositionX) + "; top: " + px(c.PositionY)
	if c.Width != nil {
		style += "; width: " + px(*c.Width)
	}
	if c.Height != nil {
		style += "; height: " + px(*c.Height)
	}

	if c.IsImage() {
		src := ""
		if c.ImageURL != nil {
			src = *c.ImageURL
		}
		fmt.Fprintf(&b, `<div class="card card-image" style="%s"><img src="%s" alt=""></div>`, style, html.EscapeString(src))
	} else {
		text := ""
		if c.Text != nil {
			text = *c.Text
		}
		fmt.Fprintf(&b, `<div class="card card-text" style="%s">%s</div>`, style, tp.RenderText(text))
	}
	return tp.policy.Sanitize(b.String())
}

// RenderBoard renders every card in id order.
func (tp *TextProcessor) RenderBoard(cards []domain.Card) string {
	sorted := slices.Clone(cards)
	slices.SortStableFunc(sorted, func(a, b domain.Card) int { return cmp.Compare(a.Id, b.Id) })

	var b strings.Builder
	b.WriteString(`<div class="board">`)
	for _, c := range sorted {
		b.WriteString(tp.RenderCard(c))
	}
	b.WriteString(`</div>`)
	return b.String()
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}
