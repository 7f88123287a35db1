package services

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/flosch/pongo2/v6"
	docx "github.com/fumiama/go-docx"

	"streamforms/internal/apperrors"
	"streamforms/internal/config"
)

// DocxMIMEType is the response content type for rendered documents.
const DocxMIMEType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

const documentXMLPath = "word/document.xml"

// FillerService produces a filled .docx from a template file, the template's
// schema keys and a value mapping. Keys absent from values render as the
// empty string. The returned buffer is complete and positioned at its start.
type FillerService interface {
	Fill(templatePath string, schemaKeys []string, values map[string]string) (*bytes.Buffer, error)
}

// NewFillerService selects the fill strategy once, at construction. The
// structured strategy renders {{KEY}} templates through pongo2; the naive
// strategy does literal replacement of both placeholder forms.
func NewFillerService(engine string) FillerService {
	if engine == config.EngineStructured {
		return &structuredFiller{}
	}
	return &naiveFiller{}
}

// naiveFiller walks body paragraphs and every table cell's paragraphs in
// document order, concatenates each paragraph's run text, replaces [KEY] and
// {{KEY}} for every schema key, and collapses a changed paragraph into a
// single run. Inline formatting boundaries inside changed paragraphs are
// lost; that loss is part of the contract.
type naiveFiller struct{}

func (f *naiveFiller) Fill(templatePath string, schemaKeys []string, values map[string]string) (*bytes.Buffer, error) {
	file, err := os.Open(templatePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("template file %s: %w", templatePath, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to open template file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat template file: %w", err)
	}

	doc, err := docx.Parse(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to parse docx: %w: %w", apperrors.ErrFormat, err)
	}

	for _, item := range doc.Document.Body.Items {
		switch it := item.(type) {
		case *docx.Paragraph:
			replaceInParagraph(it, schemaKeys, values)
		case *docx.Table:
			for _, row := range it.TableRows {
				for _, cell := range row.TableCells {
					for _, p := range cell.Paragraphs {
						replaceInParagraph(p, schemaKeys, values)
					}
				}
			}
		}
	}

	buf := new(bytes.Buffer)
	if _, err := doc.WriteTo(buf); err != nil {
		return nil, fmt.Errorf("failed to save filled document: %w: %w", apperrors.ErrGeneration, err)
	}

	return buf, nil
}

// replaceInParagraph substitutes placeholders in one paragraph. Paragraphs
// without runs, or whose text does not change, are left untouched. When the
// text changes, the run sequence is replaced by a single run holding the new
// text; non-run children (hyperlinks, bookmarks) are preserved.
func replaceInParagraph(p *docx.Paragraph, schemaKeys []string, values map[string]string) {
	var sb strings.Builder
	runs := 0
	for _, child := range p.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		runs++
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				sb.WriteString(t.Text)
			}
		}
	}
	if runs == 0 {
		return
	}

	full := sb.String()
	replaced := full
	for _, key := range schemaKeys {
		value := values[key]
		replaced = strings.ReplaceAll(replaced, "["+key+"]", value)
		replaced = strings.ReplaceAll(replaced, "{{"+key+"}}", value)
	}
	if replaced == full {
		return
	}

	children := make([]interface{}, 0, len(p.Children))
	for _, child := range p.Children {
		if _, ok := child.(*docx.Run); !ok {
			children = append(children, child)
		}
	}
	p.Children = children
	p.AddText(replaced)
}

// structuredFiller renders word/document.xml through pongo2 and rewrites the
// zip container around the rendered part. It assumes templates are authored
// in double-brace syntax; [KEY] placeholders pass through unchanged. A
// placeholder split across formatting runs in the raw XML fails the template
// parse and surfaces as a generation error.
type structuredFiller struct{}

func (f *structuredFiller) Fill(templatePath string, schemaKeys []string, values map[string]string) (*bytes.Buffer, error) {
	reader, err := zip.OpenReader(templatePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("template file %s: %w", templatePath, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to open docx container: %w: %w", apperrors.ErrFormat, err)
	}
	defer reader.Close()

	buf := new(bytes.Buffer)
	writer := zip.NewWriter(buf)

	for _, entry := range reader.File {
		rc, err := entry.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w: %w", entry.Name, apperrors.ErrFormat, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w: %w", entry.Name, apperrors.ErrFormat, err)
		}

		if entry.Name == documentXMLPath {
			data, err = renderDocumentXML(data, schemaKeys, values)
			if err != nil {
				return nil, err
			}
		}

		w, err := writer.CreateHeader(&zip.FileHeader{
			Name:   entry.Name,
			Method: entry.Method,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to write %s: %w: %w", entry.Name, apperrors.ErrGeneration, err)
		}
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w: %w", entry.Name, apperrors.ErrGeneration, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize document: %w: %w", apperrors.ErrGeneration, err)
	}

	return buf, nil
}

// renderDocumentXML executes the document part as a pongo2 template with a
// context covering every schema key. Values are escaped by the engine, which
// keeps the XML well formed.
func renderDocumentXML(src []byte, schemaKeys []string, values map[string]string) ([]byte, error) {
	tpl, err := pongo2.FromString(string(src))
	if err != nil {
		return nil, fmt.Errorf("failed to parse document template: %w: %w", apperrors.ErrGeneration, err)
	}

	ctx := make(pongo2.Context, len(schemaKeys))
	for _, key := range schemaKeys {
		ctx[key] = values[key]
	}

	out, err := tpl.Execute(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to render document template: %w: %w", apperrors.ErrGeneration, err)
	}

	return []byte(out), nil
}
