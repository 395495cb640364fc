package snippet

import (
	"fmt"

	"fortio.org/safecast"
)

// Range is a half-open byte range over the concatenated source text of a
// snippet. Offsets are counted with the separator model of SplitSpans: each
// line owns its characters plus one separator byte, and one extra separator
// byte is assumed between consecutive lines.
type Range struct {
	Start uint32 // в байтах включительно
	End   uint32 // в байтах не включительно
}

// LineCol represents a human-readable position in a snippet.
type LineCol struct {
	Line uint32 // absolute line number (LineStart-based)
	Col  uint32 // 1-based
}

// Annotation is a labeled, severity-tagged byte range over a snippet's source.
// An annotation without a range is carried for header use only and is never
// placed in the body.
type Annotation struct {
	Severity Severity
	Code     string // diagnostic code, "" when absent
	Label    string
	Range    *Range
}

// Snippet is a source excerpt plus its annotations, the unit of input to the
// layout engine.
type Snippet struct {
	Source      string
	LineStart   uint32
	Origin      string // file path or other origin identifier, "" when absent
	Annotations []Annotation

	// TitleIndex and MainIndex optionally designate annotations that drive
	// the header lines. Both must be valid positions into Annotations.
	TitleIndex *int
	MainIndex  *int
}

// New builds a validated snippet.
func New(source string, lineStart uint32, origin string, anns []Annotation) (*Snippet, error) {
	sn := &Snippet{
		Source:      source,
		LineStart:   lineStart,
		Origin:      origin,
		Annotations: anns,
	}
	if err := sn.Validate(); err != nil {
		return nil, err
	}
	return sn, nil
}

// LineSpan is the offset range a materialized line occupies in the
// concatenated source. Start points at the first character of the line;
// End is Start plus the line length plus one separator byte.
type LineSpan struct {
	Start uint32
	End   uint32
}

// SplitLines splits source text into lines. The final line counts only when
// non-empty, so a trailing newline does not produce an extra empty line.
func SplitLines(src string) []string {
	if src == "" {
		return nil
	}
	var lines []string
	start := 0
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			lines = append(lines, src[start:i])
			start = i + 1
		}
	}
	if start < len(src) {
		lines = append(lines, src[start:])
	}
	return lines
}

// SplitSpans computes the offset range of each line under the separator
// model: a line's span covers its bytes plus one separator, and the next
// line starts one byte after the previous span ends. Annotation ranges are
// expressed in this offset space, so the arithmetic here must stay in sync
// with Validate and Locate.
func SplitSpans(lines []string) []LineSpan {
	spans := make([]LineSpan, 0, len(lines))
	var cur uint32
	for _, line := range lines {
		length, err := safecast.Conv[uint32](len(line) + 1)
		if err != nil {
			panic(fmt.Errorf("line length overflow: %w", err))
		}
		spans = append(spans, LineSpan{Start: cur, End: cur + length})
		cur += length + 1
	}
	return spans
}

// Validate checks the snippet for logical inconsistencies: out-of-range
// title/main indices, annotation ranges with End before Start, and ranges
// extending past the concatenated source. Construction paths must call it;
// the layout engine assumes a validated snippet.
func (s *Snippet) Validate() error {
	if err := s.checkIndex("title", s.TitleIndex); err != nil {
		return err
	}
	if err := s.checkIndex("main", s.MainIndex); err != nil {
		return err
	}

	spans := SplitSpans(SplitLines(s.Source))
	var total uint32
	if len(spans) > 0 {
		total = spans[len(spans)-1].End
	}

	for i, ann := range s.Annotations {
		if ann.Range == nil {
			continue
		}
		if ann.Range.End < ann.Range.Start {
			return fmt.Errorf("annotation %d: range end %d before start %d", i, ann.Range.End, ann.Range.Start)
		}
		if ann.Range.End > total {
			return fmt.Errorf("annotation %d: range end %d past end of source (%d)", i, ann.Range.End, total)
		}
	}
	return nil
}

func (s *Snippet) checkIndex(name string, idx *int) error {
	if idx == nil {
		return nil
	}
	if *idx < 0 || *idx >= len(s.Annotations) {
		return fmt.Errorf("%s annotation index %d out of range (have %d annotations)", name, *idx, len(s.Annotations))
	}
	return nil
}

// AnnotationAt returns the annotation designated by an optional index.
func (s *Snippet) AnnotationAt(idx *int) (Annotation, bool) {
	if idx == nil || *idx < 0 || *idx >= len(s.Annotations) {
		return Annotation{}, false
	}
	return s.Annotations[*idx], true
}

// Locate maps a concatenated-source offset to its line and 1-based column.
// Offsets on a line's trailing separator resolve to that line.
func (s *Snippet) Locate(off uint32) (LineCol, bool) {
	spans := SplitSpans(SplitLines(s.Source))
	for i, span := range spans {
		if off >= span.Start && off <= span.End {
			idx, err := safecast.Conv[uint32](i)
			if err != nil {
				panic(fmt.Errorf("line index overflow: %w", err))
			}
			return LineCol{Line: s.LineStart + idx, Col: off - span.Start + 1}, true
		}
	}
	return LineCol{}, false
}
