package corpus

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/xxxsen/common/logutil"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"go.uber.org/zap"
)

type directorySource struct {
	dir string
}

// NewDirectorySource reads every .txt, .md and .pdf file under dir.
func NewDirectorySource(dir string) Source {
	return &directorySource{dir: dir}
}

func (d *directorySource) Name() string {
	return "dir:" + d.dir
}

func (d *directorySource) Fetch(ctx context.Context) (string, error) {
	logger := logutil.GetLogger(ctx)
	var files []string
	err := filepath.WalkDir(d.dir, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".txt", ".md", ".markdown", ".pdf":
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("walk corpus dir: %w", err)
	}
	sort.Strings(files)
	parts := make([]string, 0, len(files))
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		content, err := readDocument(path)
		if err != nil {
			logger.Warn("skip corpus file", zap.String("path", path), zap.Error(err))
			continue
		}
		if content = strings.TrimSpace(content); content != "" {
			parts = append(parts, content)
		}
	}
	return strings.Join(parts, "\n\n"), nil
}

func readDocument(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return readPDF(path)
	case ".md", ".markdown":
		raw, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return MarkdownToText(raw), nil
	default:
		raw, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
}

func readPDF(path string) (string, error) {
	f, rdr, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()
	plain, err := rdr.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("read pdf buffer: %w", err)
	}
	return buf.String(), nil
}

// MarkdownToText flattens markdown to prose. Headings end with a period so
// they form their own sentence, and code blocks are dropped.
func MarkdownToText(source []byte) string {
	doc := goldmark.New().Parser().Parse(text.NewReader(source))
	var blocks []string
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		collectBlocks(n, source, &blocks)
	}
	return strings.Join(blocks, "\n")
}

func collectBlocks(n ast.Node, source []byte, out *[]string) {
	switch n.Kind() {
	case ast.KindFencedCodeBlock, ast.KindCodeBlock, ast.KindHTMLBlock, ast.KindThematicBreak:
		return
	case ast.KindHeading:
		if s := inlineText(n, source); s != "" {
			if !strings.HasSuffix(s, ".") {
				s += "."
			}
			*out = append(*out, s)
		}
		return
	case ast.KindParagraph, ast.KindTextBlock:
		if s := inlineText(n, source); s != "" {
			*out = append(*out, s)
		}
		return
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		collectBlocks(c, source, out)
	}
}

func inlineText(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := node.(*ast.Text); ok {
			sb.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}
