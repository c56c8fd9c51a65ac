// Copyright (c) 2025 Beijing Volcano Engine Technology Co., Ltd. and/or its affiliates.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package frontend

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/volcengine/vesearch-go/prompts"
	"github.com/volcengine/vesearch-go/proxy"
	"golang.org/x/term"
)

const defaultWidth = 80

type Renderer struct {
	out      io.Writer
	markdown *glamour.TermRenderer
}

type RendererOption func(*rendererOptions)

type rendererOptions struct {
	width int
	style string
}

// WithWidth fixes the wrap width instead of reading it from the terminal.
func WithWidth(w int) RendererOption {
	return func(o *rendererOptions) { o.width = w }
}

// WithStyle selects a glamour standard style such as "dark" or "notty".
func WithStyle(style string) RendererOption {
	return func(o *rendererOptions) { o.style = style }
}

func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return defaultWidth
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}

func NewRenderer(out io.Writer, opts ...RendererOption) (*Renderer, error) {
	o := &rendererOptions{}
	for _, opt := range opts {
		opt(o)
	}
	if o.width <= 0 {
		o.width = terminalWidth()
	}
	wrap := o.width - 10
	if wrap < 20 {
		wrap = o.width
	}

	styleOpt := glamour.WithAutoStyle()
	if o.style != "" {
		styleOpt = glamour.WithStandardStyle(o.style)
	}
	md, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(wrap))
	if err != nil {
		return nil, fmt.Errorf("create markdown renderer: %w", err)
	}
	return &Renderer{out: out, markdown: md}, nil
}

// Markdown lays out a response with headings in lang.
func Markdown(resp *proxy.SearchResponse, lang prompts.Language) string {
	var sb strings.Builder
	sb.WriteString("## " + prompts.Pick(lang, "搜索总结", "Search Summary") + "\n\n")
	sb.WriteString(resp.Summary + "\n\n")
	sb.WriteString("## " + prompts.Pick(lang, "搜索结果", "Search Results") + "\n\n")
	link := prompts.Pick(lang, "链接", "Link")
	for i, r := range resp.Results {
		fmt.Fprintf(&sb, "### %d. %s\n\n", i+1, r.Title)
		if r.Content != "" {
			sb.WriteString(r.Content + "\n\n")
		}
		fmt.Fprintf(&sb, "%s: %s\n\n", link, r.URL)
	}
	return sb.String()
}

// ErrorText is the inline message shown instead of a response.
func ErrorText(err error, lang prompts.Language) string {
	return prompts.Pick(lang, "搜索出错: ", "Error during search: ") + err.Error()
}

func (r *Renderer) Render(resp *proxy.SearchResponse, lang prompts.Language) error {
	return r.print(Markdown(resp, lang))
}

func (r *Renderer) RenderError(err error, lang prompts.Language) error {
	return r.print("**" + ErrorText(err, lang) + "**\n")
}

func (r *Renderer) print(md string) error {
	out, err := r.markdown.Render(md)
	if err != nil {
		// fall back to the raw markdown
		out = md
	}
	_, werr := io.WriteString(r.out, out)
	return werr
}
