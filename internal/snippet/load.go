package snippet

import (
	"fmt"
	"os"
	"strings"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"
)

// fileSnippet mirrors the on-disk TOML layout of a snippet description.
type fileSnippet struct {
	Source      string           `toml:"source"`
	LineStart   int64            `toml:"line-start"`
	Origin      string           `toml:"origin"`
	Title       *int             `toml:"title"`
	Main        *int             `toml:"main"`
	Annotations []fileAnnotation `toml:"annotation"`
}

type fileAnnotation struct {
	Severity string     `toml:"severity"`
	Code     string     `toml:"code"`
	Label    string     `toml:"label"`
	Range    *fileRange `toml:"range"`
}

type fileRange struct {
	Start int64 `toml:"start"`
	End   int64 `toml:"end"`
}

// Load reads and parses a TOML snippet description from disk.
func Load(path string) (*Snippet, error) {
	// #nosec G304 -- path is provided by the caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sn, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sn, nil
}

// Parse decodes a TOML snippet description, normalizes the source text, and
// validates the result.
func Parse(data []byte) (*Snippet, error) {
	data, _ = removeBOM(data)

	var file fileSnippet
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	lineStart, err := safecast.Conv[uint32](file.LineStart)
	if err != nil {
		return nil, fmt.Errorf("line-start %d out of range: %w", file.LineStart, err)
	}

	anns := make([]Annotation, 0, len(file.Annotations))
	for i, fa := range file.Annotations {
		sev, err := ParseSeverity(fa.Severity)
		if err != nil {
			return nil, fmt.Errorf("annotation %d: %w", i, err)
		}
		ann := Annotation{
			Severity: sev,
			Code:     fa.Code,
			Label:    fa.Label,
		}
		if fa.Range != nil {
			start, err := safecast.Conv[uint32](fa.Range.Start)
			if err != nil {
				return nil, fmt.Errorf("annotation %d: range start %d out of range: %w", i, fa.Range.Start, err)
			}
			end, err := safecast.Conv[uint32](fa.Range.End)
			if err != nil {
				return nil, fmt.Errorf("annotation %d: range end %d out of range: %w", i, fa.Range.End, err)
			}
			ann.Range = &Range{Start: start, End: end}
		}
		anns = append(anns, ann)
	}

	sn := &Snippet{
		Source:      normalizeCRLF(file.Source),
		LineStart:   lineStart,
		Origin:      file.Origin,
		Annotations: anns,
		TitleIndex:  file.Title,
		MainIndex:   file.Main,
	}
	if err := sn.Validate(); err != nil {
		return nil, err
	}
	return sn, nil
}

// normalizeCRLF replaces every \r\n with \n, leaving lone \r untouched so
// offsets into the normalized text stay predictable.
func normalizeCRLF(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	return strings.ReplaceAll(s, "\r\n", "\n")
}

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) < 3 {
		return content, false
	}
	if content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}
	return content, false
}
