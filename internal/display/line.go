package display

// Mark is a small glyph attached to a source line's margin, indicating an
// annotation starting at or passing through that line.
type Mark uint8

const (
	// MarkThrough renders as a vertical connector for an annotation passing
	// through or ending on a line.
	MarkThrough Mark = iota
	// MarkStart renders as a branch glyph where a multi-line annotation
	// begins at column 0.
	MarkStart
)

func (m Mark) String() string {
	switch m {
	case MarkThrough:
		return "|"
	case MarkStart:
		return "/"
	}
	return "?"
}

// AnnotationKind classifies a caption line: single-line captions carry the
// annotation's severity, multi-line annotations are bracketed by a start and
// an end caption.
type AnnotationKind uint8

const (
	KindError AnnotationKind = iota
	KindWarning
	KindMultilineStart
	KindMultilineEnd
)

func (k AnnotationKind) String() string {
	switch k {
	case KindError:
		return "error"
	case KindWarning:
		return "warning"
	case KindMultilineStart:
		return "multiline-start"
	case KindMultilineEnd:
		return "multiline-end"
	}
	return "unknown"
}

// ColRange is a line-relative byte column range.
type ColRange struct {
	Start uint32
	End   uint32
}

// Line is one unit of the layout output. The variant set is closed: any
// renderer must handle exactly RawLine, EmptySourceLine, SourceLine,
// AnnotationLine and FoldLine.
type Line interface {
	displayLine()
}

// RawLine is an opaque header string.
type RawLine struct {
	Text string
}

// EmptySourceLine is vertical padding around the body.
type EmptySourceLine struct{}

// SourceLine is a literal source line with zero or more margin marks.
type SourceLine struct {
	Number  uint32
	Marks   []Mark
	Content string
}

// AnnotationLine is a caption/underline row inserted below a source line.
type AnnotationLine struct {
	Marks []Mark
	Cols  ColRange
	Label string
	Kind  AnnotationKind
}

// FoldLine is a placeholder for one or more elided unannotated source lines.
type FoldLine struct{}

func (RawLine) displayLine()         {}
func (EmptySourceLine) displayLine() {}
func (SourceLine) displayLine()      {}
func (AnnotationLine) displayLine()  {}
func (FoldLine) displayLine()        {}

// List is the ordered display-line sequence produced for one snippet.
type List struct {
	Lines []Line
}
