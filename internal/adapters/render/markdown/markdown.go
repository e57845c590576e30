package markdown

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
)

const DefaultWidth = 80

var (
	rendererMu sync.Mutex
	renderers  = map[int]*glamour.TermRenderer{}
)

// Render formats a Markdown document, such as a sanction letter, for the
// terminal. Output uses the ASCII style so it stays readable when piped.
func Render(body string, width int) (string, error) {
	body = strings.TrimRight(strings.ReplaceAll(body, "\r\n", "\n"), "\n")
	if strings.TrimSpace(body) == "" {
		return "", nil
	}
	if width < 20 {
		width = DefaultWidth
	}

	rendererMu.Lock()
	defer rendererMu.Unlock()

	renderer, err := markdownRenderer(width)
	if err != nil {
		return "", err
	}

	rendered, err := renderer.Render(body)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}

	return strings.TrimRight(rendered, "\n"), nil
}

// markdownRenderer expects rendererMu to be held. A TermRenderer is not safe
// for concurrent use.
func markdownRenderer(width int) (*glamour.TermRenderer, error) {
	if cached, ok := renderers[width]; ok {
		return cached, nil
	}

	style := styles.ASCIIStyleConfig
	style.Item.BlockPrefix = "- "
	created, err := glamour.NewTermRenderer(
		glamour.WithStyles(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("create markdown renderer: %w", err)
	}
	renderers[width] = created
	return created, nil
}
