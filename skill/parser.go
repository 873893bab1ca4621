package skill

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
)

// frontmatterDelimiter encloses the YAML metadata block at the top of a
// skill file.
const frontmatterDelimiter = "---"

// Metadata is the YAML frontmatter of a skill document. Unknown fields
// (version, generated, source_tickets on synthesized skills) are ignored.
type Metadata struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// Document is a fully parsed skill file: frontmatter metadata plus the
// Markdown instruction body.
type Document struct {
	Name        string
	Description string
	Body        string
	Path        string
}

// ParseFile parses a complete skill file from disk.
func ParseFile(path string) (*Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading skill file: %w", err)
	}
	return ParseContent(content, path)
}

// ParseContent parses a skill document from bytes. The content must begin
// with YAML frontmatter between "---" delimiters; leading whitespace is
// ignored. If the frontmatter omits a name, one is derived from the path:
// the parent directory for SKILL.md files, the bare filename otherwise.
func ParseContent(content []byte, path string) (*Document, error) {
	content = bytes.TrimLeft(content, " \t\r\n")
	if !bytes.HasPrefix(content, []byte(frontmatterDelimiter)) {
		return nil, fmt.Errorf("skill file must start with YAML frontmatter (---)")
	}
	content = content[len(frontmatterDelimiter):]

	idx := bytes.Index(content, []byte("\n"+frontmatterDelimiter))
	if idx == -1 {
		return nil, fmt.Errorf("missing closing frontmatter delimiter (---)")
	}
	frontmatter := content[:idx]
	body := bytes.TrimLeft(content[idx+len("\n"+frontmatterDelimiter):], "\r\n")

	var meta Metadata
	if err := yaml.Unmarshal(frontmatter, &meta); err != nil {
		return nil, fmt.Errorf("parsing skill frontmatter: %w", err)
	}
	if meta.Name == "" {
		meta.Name = deriveName(path)
	}
	if meta.Name == "" {
		return nil, fmt.Errorf("skill name is required")
	}
	return &Document{
		Name:        meta.Name,
		Description: meta.Description,
		Body:        strings.TrimSpace(string(body)),
		Path:        path,
	}, nil
}

// ReadMetadata reads only the frontmatter block of a skill file, stopping
// at the closing delimiter. The body is never read, which is what keeps
// the discovery scan cheap.
func ReadMetadata(path string) (*Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening skill file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return nil, fmt.Errorf("empty skill file")
	}
	if strings.TrimSpace(scanner.Text()) != frontmatterDelimiter {
		return nil, fmt.Errorf("skill file must start with YAML frontmatter (---)")
	}

	var lines []string
	closed := false
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == frontmatterDelimiter {
			closed = true
			break
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading skill file: %w", err)
	}
	if !closed {
		return nil, fmt.Errorf("missing closing frontmatter delimiter (---)")
	}

	var meta Metadata
	if err := yaml.Unmarshal([]byte(strings.Join(lines, "\n")), &meta); err != nil {
		return nil, fmt.Errorf("parsing skill frontmatter: %w", err)
	}
	if meta.Name == "" {
		meta.Name = deriveName(path)
	}
	if meta.Name == "" {
		return nil, fmt.Errorf("skill name is required")
	}
	return &meta, nil
}

// StripFrontmatter returns the instruction body of a skill file's content,
// with the frontmatter block removed.
func StripFrontmatter(content []byte) string {
	trimmed := bytes.TrimLeft(content, " \t\r\n")
	if !bytes.HasPrefix(trimmed, []byte(frontmatterDelimiter)) {
		return strings.TrimSpace(string(content))
	}
	rest := trimmed[len(frontmatterDelimiter):]
	idx := bytes.Index(rest, []byte("\n"+frontmatterDelimiter))
	if idx == -1 {
		return strings.TrimSpace(string(content))
	}
	body := rest[idx+len("\n"+frontmatterDelimiter):]
	return strings.TrimSpace(string(bytes.TrimLeft(body, "\r\n")))
}

// Render produces skill file text from a name, description, and body.
// Parsing the result recovers the same name and description.
func Render(name, description, body string) string {
	var b strings.Builder
	b.WriteString(frontmatterDelimiter + "\n")
	fmt.Fprintf(&b, "name: %s\n", YAMLScalar(name))
	fmt.Fprintf(&b, "description: %s\n", YAMLScalar(description))
	b.WriteString(frontmatterDelimiter + "\n\n")
	b.WriteString(strings.TrimSpace(body))
	b.WriteString("\n")
	return b.String()
}

// YAMLScalar quotes a value when needed so it survives a YAML round trip.
// Anything that composes frontmatter by hand must route values through it,
// or a model-supplied description can break the file's parseability.
func YAMLScalar(value string) string {
	if value == "" {
		return `""`
	}
	if strings.ContainsAny(value, ":#\"'\n{}[]&*!|>%@`") {
		return fmt.Sprintf("%q", strings.ReplaceAll(value, "\n", " "))
	}
	return value
}

// deriveName extracts a skill name from a file path: the parent directory
// for SKILL.md files, otherwise the filename without the .md extension.
func deriveName(path string) string {
	base := filepath.Base(path)
	if strings.EqualFold(base, "SKILL.md") {
		return filepath.Base(filepath.Dir(path))
	}
	return strings.TrimSuffix(base, ".md")
}
