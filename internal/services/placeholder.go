package services

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"unicode"

	docx "github.com/fumiama/go-docx"

	"streamforms/internal/apperrors"
	"streamforms/internal/models"
)

// Placeholder syntaxes recognized in template text. Both forms of the same
// normalized key merge into one schema entry.
var (
	singleBracketRe = regexp.MustCompile(`\[([^\]]+)\]`)
	doubleBraceRe   = regexp.MustCompile(`\{\{([^}]+)\}\}`)
	whitespaceRe    = regexp.MustCompile(`\s+`)
)

// PlaceholderService extracts placeholder keys from template documents and
// derives the field schema stored on the template.
type PlaceholderService interface {
	ExtractFromFile(path string) ([]string, error)
	ExtractFromText(text string) []string
	BuildSchema(keys []string) models.JSONMap
	DefaultKeyField(keys []string, current *string) *string
	Label(key string) string
}

type placeholderService struct{}

func NewPlaceholderService() PlaceholderService {
	return &placeholderService{}
}

// ExtractFromFile reads the .docx at path and returns the sorted set of
// unique normalized placeholder keys found in its paragraphs and table
// cells, in document order.
func (s *placeholderService) ExtractFromFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("template file %s: %w", path, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to open template file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat template file: %w", err)
	}

	doc, err := docx.Parse(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to parse docx: %w: %w", apperrors.ErrFormat, err)
	}

	return s.ExtractFromText(collectDocumentText(doc)), nil
}

// ExtractFromText scans one logical text stream for [KEY] and {{KEY}}
// placeholders. Keys are trimmed, internal whitespace runs collapse to a
// single underscore, duplicates merge, and the result is sorted. Keys that
// normalize to the empty string are rejected.
func (s *placeholderService) ExtractFromText(text string) []string {
	set := make(map[string]struct{})

	for _, re := range []*regexp.Regexp{singleBracketRe, doubleBraceRe} {
		for _, match := range re.FindAllStringSubmatch(text, -1) {
			key := normalizeKey(match[1])
			if key == "" {
				continue
			}
			set[key] = struct{}{}
		}
	}

	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}

// BuildSchema maps every key to a human-readable label.
func (s *placeholderService) BuildSchema(keys []string) models.JSONMap {
	schema := make(models.JSONMap, len(keys))
	for _, k := range keys {
		schema[k] = s.Label(k)
	}
	return schema
}

// DefaultKeyField nominates the smallest sorted key as the key field, but
// only when none is set and the key set is non-empty.
func (s *placeholderService) DefaultKeyField(keys []string, current *string) *string {
	if current != nil && *current != "" {
		return current
	}
	if len(keys) == 0 {
		return current
	}
	first := keys[0]
	return &first
}

// Label humanizes a key: underscores become spaces, each word is
// title-cased.
func (s *placeholderService) Label(key string) string {
	words := strings.Fields(strings.ReplaceAll(key, "_", " "))
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

func normalizeKey(raw string) string {
	key := strings.TrimSpace(raw)
	return whitespaceRe.ReplaceAllString(key, "_")
}

// collectDocumentText concatenates the text of every body paragraph and
// every table cell, row-major, separated by newlines.
func collectDocumentText(doc *docx.Docx) string {
	var parts []string

	for _, item := range doc.Document.Body.Items {
		switch it := item.(type) {
		case *docx.Paragraph:
			parts = append(parts, paragraphText(it))
		case *docx.Table:
			for _, row := range it.TableRows {
				for _, cell := range row.TableCells {
					for _, p := range cell.Paragraphs {
						parts = append(parts, paragraphText(p))
					}
				}
			}
		}
	}

	return strings.Join(parts, "\n")
}

func paragraphText(p *docx.Paragraph) string {
	var sb strings.Builder
	for _, child := range p.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				sb.WriteString(t.Text)
			}
		}
	}
	return sb.String()
}
