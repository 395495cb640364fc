package displayfmt

import (
	"encoding/json"
	"io"

	"caret/internal/display"
)

// ColsJSON represents a line-relative column range for JSON output.
type ColsJSON struct {
	Start uint32 `json:"start"`
	End   uint32 `json:"end"`
}

// LineJSON represents one display line for JSON output. Kind discriminates
// the variant: raw, empty, source, annotation, or fold.
type LineJSON struct {
	Kind       string    `json:"kind"`
	Text       string    `json:"text,omitempty"`
	Number     uint32    `json:"number,omitempty"`
	Marks      []string  `json:"marks,omitempty"`
	Content    string    `json:"content,omitempty"`
	Cols       *ColsJSON `json:"cols,omitempty"`
	Label      string    `json:"label,omitempty"`
	Annotation string    `json:"annotation,omitempty"`
}

// ListJSON is the root structure of JSON output.
type ListJSON struct {
	Lines []LineJSON `json:"lines"`
	Count int        `json:"count"`
}

// WriteJSON emits a display list as JSON, one entry per display line.
func WriteJSON(w io.Writer, list display.List, opts JSONOpts) error {
	out := ListJSON{
		Lines: make([]LineJSON, 0, len(list.Lines)),
		Count: len(list.Lines),
	}
	for _, ln := range list.Lines {
		out.Lines = append(out.Lines, makeLineJSON(ln))
	}

	enc := json.NewEncoder(w)
	if opts.Indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(out)
}

func makeLineJSON(ln display.Line) LineJSON {
	switch l := ln.(type) {
	case display.RawLine:
		return LineJSON{Kind: "raw", Text: l.Text}
	case display.EmptySourceLine:
		return LineJSON{Kind: "empty"}
	case display.SourceLine:
		return LineJSON{
			Kind:    "source",
			Number:  l.Number,
			Marks:   markNames(l.Marks),
			Content: l.Content,
		}
	case display.AnnotationLine:
		return LineJSON{
			Kind:       "annotation",
			Marks:      markNames(l.Marks),
			Cols:       &ColsJSON{Start: l.Cols.Start, End: l.Cols.End},
			Label:      l.Label,
			Annotation: l.Kind.String(),
		}
	case display.FoldLine:
		return LineJSON{Kind: "fold"}
	}
	return LineJSON{Kind: "unknown"}
}

func markNames(marks []display.Mark) []string {
	if len(marks) == 0 {
		return nil
	}
	out := make([]string, 0, len(marks))
	for _, m := range marks {
		switch m {
		case display.MarkStart:
			out = append(out, "start")
		case display.MarkThrough:
			out = append(out, "through")
		}
	}
	return out
}
