package email

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"text/template"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

//go:embed templates/*.md
var embeddedTemplates embed.FS

const (
	templateExt    = ".md"
	headerTemplate = "_header" + templateExt
	footerTemplate = "_footer" + templateExt
)

// ErrTemplateNotFound is returned when no template exists for a name
var ErrTemplateNotFound = errors.New("email template not found")

const layout = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
%s</body>
</html>`

// TemplateManager renders markdown email templates into sanitized HTML.
// Every template is wrapped between the shared header and footer partials.
type TemplateManager struct {
	templates *template.Template
	policy    *bluemonday.Policy
	logger    *zap.Logger
}

// NewTemplateManager loads the templates bundled with the binary
func NewTemplateManager(logger *zap.Logger) (*TemplateManager, error) {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return nil, err
	}
	return NewTemplateManagerFromFS(sub, logger)
}

// NewTemplateManagerFromFS loads every *.md file at the root of fsys.
// fsys must provide the _header.md and _footer.md partials.
func NewTemplateManagerFromFS(fsys fs.FS, logger *zap.Logger) (*TemplateManager, error) {
	tmpl, err := template.New("email").Option("missingkey=error").ParseFS(fsys, "*"+templateExt)
	if err != nil {
		return nil, fmt.Errorf("parse email templates: %w", err)
	}
	for _, partial := range []string{headerTemplate, footerTemplate} {
		if tmpl.Lookup(partial) == nil {
			return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, partial)
		}
	}

	return &TemplateManager{
		templates: tmpl,
		policy:    bluemonday.UGCPolicy(),
		logger:    logger,
	}, nil
}

// Render executes the named template with data and returns an HTML document
func (m *TemplateManager) Render(ctx context.Context, templateName string, data map[string]string) (string, error) {
	if strings.HasPrefix(templateName, "_") || m.templates.Lookup(templateName+templateExt) == nil {
		return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, templateName)
	}

	var md bytes.Buffer
	for _, name := range []string{headerTemplate, templateName + templateExt, footerTemplate} {
		if err := m.templates.ExecuteTemplate(&md, name, data); err != nil {
			return "", fmt.Errorf("render %s: %w", templateName, err)
		}
	}

	body := m.policy.SanitizeBytes(markdownToHTML(md.Bytes()))

	m.logger.Debug("Email template rendered",
		zap.String("template", templateName),
		zap.Int("bytes", len(body)))

	return fmt.Sprintf(layout, body), nil
}

// Templates returns the names of the renderable templates
func (m *TemplateManager) Templates() []string {
	var names []string
	for _, t := range m.templates.Templates() {
		name := t.Name()
		if !strings.HasSuffix(name, templateExt) || strings.HasPrefix(name, "_") {
			continue
		}
		names = append(names, strings.TrimSuffix(name, templateExt))
	}
	sort.Strings(names)
	return names
}

func markdownToHTML(md []byte) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := p.Parse(md)

	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.Render(doc, renderer)
}
