package display

import (
	"fmt"

	"fortio.org/safecast"

	"caret/internal/snippet"
)

// Build converts a snippet into the ordered display-line sequence: header
// lines first, then the padded body. The snippet is not mutated; building
// twice yields identical output.
func Build(sn *snippet.Snippet, opts Options) List {
	header := formatHeader(sn)
	body := layoutBody(sn, opts)

	lines := make([]Line, 0, len(header)+len(body))
	lines = append(lines, header...)
	lines = append(lines, body...)
	return List{Lines: lines}
}

// relation is the geometric relationship between an annotation range and a
// single line's offset span. Exactly one holds per (annotation, line) pair.
type relation uint8

const (
	relNone       relation = iota // never matches (no overlap handled elsewhere)
	relNotReached                 // annotation begins after this line
	relContained                  // starts and ends within this line
	relStartsHere                 // starts here, continues past this line
	relThrough                    // passes through this line entirely
	relEndsHere                   // started earlier, ends within this line
)

// classify tests an annotation range against a line span. The cases are
// checked in priority order; the first match wins.
func classify(r snippet.Range, span snippet.LineSpan) relation {
	switch {
	case r.Start > span.End:
		return relNotReached
	case r.Start >= span.Start && r.End <= span.End:
		return relContained
	case r.Start >= span.Start && r.Start <= span.End && r.End > span.End:
		return relStartsHere
	case r.Start < span.Start && r.End > span.End:
		return relThrough
	case r.Start < span.Start && r.End >= span.Start && r.End <= span.End:
		return relEndsHere
	default:
		return relNone
	}
}

// pendingAnn is an annotation still awaiting full placement. Single-line
// annotations are consumed in one step; multi-line annotations only once
// their end relationship resolves.
type pendingAnn struct {
	rng   snippet.Range
	label string
	sev   snippet.Severity
}

// placement accumulates the layout actions for one source line: margin marks
// to attach and caption lines to insert directly after it, in encounter
// order. The output sequence is materialized only after every annotation has
// been classified.
type placement struct {
	marks   []Mark
	inserts []AnnotationLine
}

func layoutBody(sn *snippet.Snippet, opts Options) []Line {
	lines := snippet.SplitLines(sn.Source)
	spans := snippet.SplitSpans(lines)

	pending := make([]pendingAnn, 0, len(sn.Annotations))
	for _, ann := range sn.Annotations {
		if ann.Range == nil {
			// Header-only annotation, never placed in the body.
			continue
		}
		pending = append(pending, pendingAnn{rng: *ann.Range, label: ann.Label, sev: ann.Severity})
	}

	placements := make([]placement, len(lines))
	for i := range lines {
		pending = placeOnLine(&placements[i], pending, spans[i])
	}

	body := make([]Line, 0, len(lines)+2)
	for i, content := range lines {
		idx, err := safecast.Conv[uint32](i)
		if err != nil {
			panic(fmt.Errorf("line index overflow: %w", err))
		}
		body = append(body, SourceLine{
			Number:  sn.LineStart + idx,
			Marks:   placements[i].marks,
			Content: content,
		})
		for _, caption := range placements[i].inserts {
			body = append(body, caption)
		}
	}

	body = foldBody(body, opts)

	padded := make([]Line, 0, len(body)+2)
	padded = append(padded, EmptySourceLine{})
	padded = append(padded, body...)
	padded = append(padded, EmptySourceLine{})
	return padded
}

// placeOnLine classifies every pending annotation against one line span,
// records the resulting actions, and returns the annotations that remain
// pending for later lines.
func placeOnLine(p *placement, pending []pendingAnn, span snippet.LineSpan) []pendingAnn {
	kept := pending[:0]
	for _, ann := range pending {
		consumed := false
		switch classify(ann.rng, span) {
		case relContained:
			p.inserts = append(p.inserts, AnnotationLine{
				Cols:  ColRange{Start: ann.rng.Start - span.Start, End: ann.rng.End - span.Start},
				Label: ann.label,
				Kind:  kindForSeverity(ann.sev),
			})
			consumed = true

		case relStartsHere:
			if ann.rng.Start == span.Start {
				p.marks = append(p.marks, MarkStart)
			} else {
				col := ann.rng.Start - span.Start
				p.inserts = append(p.inserts, AnnotationLine{
					Marks: []Mark{MarkThrough},
					Cols:  ColRange{Start: col, End: col + 1},
					Label: ann.label,
					Kind:  KindMultilineStart,
				})
			}

		case relThrough:
			p.marks = append(p.marks, MarkThrough)

		case relEndsHere:
			p.marks = append(p.marks, MarkThrough)
			col := ann.rng.End - span.Start
			p.inserts = append(p.inserts, AnnotationLine{
				Marks: []Mark{MarkThrough},
				Cols:  ColRange{Start: col, End: col + 1},
				Label: ann.label,
				Kind:  KindMultilineEnd,
			})
			consumed = true

		case relNotReached, relNone:
			// Leave pending. relNone can only occur for degenerate input
			// and never matches a later line either.
		}
		if !consumed {
			kept = append(kept, ann)
		}
	}
	return kept
}

func kindForSeverity(sev snippet.Severity) AnnotationKind {
	if sev == snippet.SevWarning {
		return KindWarning
	}
	return KindError
}
