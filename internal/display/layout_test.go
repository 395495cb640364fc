package display

import (
	"reflect"
	"strings"
	"testing"

	"caret/internal/snippet"
)

func intPtr(v int) *int { return &v }

func mustSnippet(t *testing.T, sn *snippet.Snippet) *snippet.Snippet {
	t.Helper()
	if err := sn.Validate(); err != nil {
		t.Fatalf("invalid test snippet: %v", err)
	}
	return sn
}

func sourceLines(list List) []SourceLine {
	var out []SourceLine
	for _, ln := range list.Lines {
		if sl, ok := ln.(SourceLine); ok {
			out = append(out, sl)
		}
	}
	return out
}

func TestClassify(t *testing.T) {
	span := snippet.LineSpan{Start: 10, End: 20}
	tests := []struct {
		name string
		rng  snippet.Range
		want relation
	}{
		{name: "starts after line", rng: snippet.Range{Start: 21, End: 30}, want: relNotReached},
		{name: "fully contained", rng: snippet.Range{Start: 12, End: 18}, want: relContained},
		{name: "contained touching both bounds", rng: snippet.Range{Start: 10, End: 20}, want: relContained},
		{name: "starts here continues past", rng: snippet.Range{Start: 15, End: 25}, want: relStartsHere},
		{name: "starts at line end continues past", rng: snippet.Range{Start: 20, End: 25}, want: relStartsHere},
		{name: "passes through", rng: snippet.Range{Start: 5, End: 25}, want: relThrough},
		{name: "ends here", rng: snippet.Range{Start: 5, End: 15}, want: relEndsHere},
		{name: "ends at line start", rng: snippet.Range{Start: 5, End: 10}, want: relEndsHere},
		{name: "entirely before line", rng: snippet.Range{Start: 2, End: 6}, want: relNone},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := classify(tc.rng, span); got != tc.want {
				t.Fatalf("classify(%+v) = %d, want %d", tc.rng, got, tc.want)
			}
		})
	}
}

func TestSourceLineCountMatchesInput(t *testing.T) {
	src := "one\ntwo\nthree\nfour\n"
	sn := mustSnippet(t, &snippet.Snippet{Source: src, LineStart: 1})

	list := Build(sn, Options{}) // folding disabled
	got := sourceLines(list)
	want := snippet.SplitLines(src)
	if len(got) != len(want) {
		t.Fatalf("got %d source lines, want %d", len(got), len(want))
	}
	for i, sl := range got {
		if sl.Content != want[i] {
			t.Fatalf("line %d content = %q, want %q", i, sl.Content, want[i])
		}
		if sl.Number != uint32(i+1) {
			t.Fatalf("line %d number = %d, want %d", i, sl.Number, i+1)
		}
	}
}

func TestSingleLineAnnotationPlacement(t *testing.T) {
	sn := mustSnippet(t, &snippet.Snippet{
		Source:    "abc\ndef\n",
		LineStart: 1,
		Annotations: []snippet.Annotation{
			{Severity: snippet.SevError, Label: "oops", Range: &snippet.Range{Start: 1, End: 2}},
		},
	})

	list := Build(sn, DefaultOptions())
	want := []Line{
		EmptySourceLine{},
		SourceLine{Number: 1, Content: "abc"},
		AnnotationLine{Cols: ColRange{Start: 1, End: 2}, Label: "oops", Kind: KindError},
		SourceLine{Number: 2, Content: "def"},
		EmptySourceLine{},
	}
	if !reflect.DeepEqual(list.Lines, want) {
		t.Fatalf("unexpected layout:\nwant: %#v\n\ngot:  %#v", want, list.Lines)
	}
}

func TestMultilineAnnotationFromColumnZero(t *testing.T) {
	// Starts at column 0 of line 1, ends mid-way into line 2: the start is a
	// margin mark, only the end gets a caption.
	sn := mustSnippet(t, &snippet.Snippet{
		Source:    "abc\ndef\n",
		LineStart: 1,
		Annotations: []snippet.Annotation{
			{Severity: snippet.SevError, Label: "spans", Range: &snippet.Range{Start: 0, End: 6}},
		},
	})

	list := Build(sn, DefaultOptions())
	want := []Line{
		EmptySourceLine{},
		SourceLine{Number: 1, Marks: []Mark{MarkStart}, Content: "abc"},
		SourceLine{Number: 2, Marks: []Mark{MarkThrough}, Content: "def"},
		AnnotationLine{Marks: []Mark{MarkThrough}, Cols: ColRange{Start: 1, End: 2}, Label: "spans", Kind: KindMultilineEnd},
		EmptySourceLine{},
	}
	if !reflect.DeepEqual(list.Lines, want) {
		t.Fatalf("unexpected layout:\nwant: %#v\n\ngot:  %#v", want, list.Lines)
	}
}

func TestMultilineAnnotationStartingMidLine(t *testing.T) {
	// Starts at column 1 of line 1, ends on line 3: a start caption after
	// line 1, a through mark on line 2, an end caption after line 3.
	sn := mustSnippet(t, &snippet.Snippet{
		Source:    "abc\ndef\nghi\n",
		LineStart: 1,
		Annotations: []snippet.Annotation{
			{Severity: snippet.SevWarning, Label: "long", Range: &snippet.Range{Start: 1, End: 11}},
		},
	})

	list := Build(sn, DefaultOptions())
	want := []Line{
		EmptySourceLine{},
		SourceLine{Number: 1, Content: "abc"},
		AnnotationLine{Marks: []Mark{MarkThrough}, Cols: ColRange{Start: 1, End: 2}, Label: "long", Kind: KindMultilineStart},
		SourceLine{Number: 2, Marks: []Mark{MarkThrough}, Content: "def"},
		SourceLine{Number: 3, Marks: []Mark{MarkThrough}, Content: "ghi"},
		AnnotationLine{Marks: []Mark{MarkThrough}, Cols: ColRange{Start: 1, End: 2}, Label: "long", Kind: KindMultilineEnd},
		EmptySourceLine{},
	}
	if !reflect.DeepEqual(list.Lines, want) {
		t.Fatalf("unexpected layout:\nwant: %#v\n\ngot:  %#v", want, list.Lines)
	}
}

func TestTwoAnnotationsOnSameLineKeepEncounterOrder(t *testing.T) {
	sn := mustSnippet(t, &snippet.Snippet{
		Source:    "abcdef\n",
		LineStart: 1,
		Annotations: []snippet.Annotation{
			{Severity: snippet.SevError, Label: "first", Range: &snippet.Range{Start: 0, End: 2}},
			{Severity: snippet.SevWarning, Label: "second", Range: &snippet.Range{Start: 3, End: 5}},
		},
	})

	list := Build(sn, DefaultOptions())
	want := []Line{
		EmptySourceLine{},
		SourceLine{Number: 1, Content: "abcdef"},
		AnnotationLine{Cols: ColRange{Start: 0, End: 2}, Label: "first", Kind: KindError},
		AnnotationLine{Cols: ColRange{Start: 3, End: 5}, Label: "second", Kind: KindWarning},
		EmptySourceLine{},
	}
	if !reflect.DeepEqual(list.Lines, want) {
		t.Fatalf("unexpected layout:\nwant: %#v\n\ngot:  %#v", want, list.Lines)
	}
}

func TestRangelessAnnotationNeverPlaced(t *testing.T) {
	sn := mustSnippet(t, &snippet.Snippet{
		Source:    "abc\n",
		LineStart: 1,
		Annotations: []snippet.Annotation{
			{Severity: snippet.SevError, Label: "header only"},
		},
	})

	list := Build(sn, DefaultOptions())
	for _, ln := range list.Lines {
		if _, ok := ln.(AnnotationLine); ok {
			t.Fatalf("rangeless annotation produced a caption: %#v", list.Lines)
		}
	}
}

func TestFoldCollapsesLongRun(t *testing.T) {
	// 20 lines, one annotation on line 1 and one on line 20: the middle of
	// the unannotated run collapses into exactly one fold, keeping 5 lines
	// after the first caption and 2 before the second.
	var b strings.Builder
	for i := 0; i < 20; i++ {
		b.WriteString("line\n")
	}
	sn := mustSnippet(t, &snippet.Snippet{
		Source:    b.String(),
		LineStart: 1,
		Annotations: []snippet.Annotation{
			{Severity: snippet.SevError, Label: "first", Range: &snippet.Range{Start: 0, End: 2}},
			// Line 20 spans offsets [114, 119).
			{Severity: snippet.SevError, Label: "last", Range: &snippet.Range{Start: 114, End: 116}},
		},
	})

	list := Build(sn, DefaultOptions())

	folds := 0
	for _, ln := range list.Lines {
		if _, ok := ln.(FoldLine); ok {
			folds++
		}
	}
	if folds != 1 {
		t.Fatalf("got %d fold lines, want 1:\n%#v", folds, list.Lines)
	}

	// Body shape: pad, line1, caption, lines 2-6, fold, lines 19-20,
	// caption, pad.
	var numbers []uint32
	for _, ln := range list.Lines {
		if sl, ok := ln.(SourceLine); ok {
			numbers = append(numbers, sl.Number)
		}
	}
	wantNumbers := []uint32{1, 2, 3, 4, 5, 6, 19, 20}
	if !reflect.DeepEqual(numbers, wantNumbers) {
		t.Fatalf("visible line numbers = %v, want %v", numbers, wantNumbers)
	}
}

func TestFoldDisabled(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 20; i++ {
		b.WriteString("line\n")
	}
	sn := mustSnippet(t, &snippet.Snippet{
		Source:    b.String(),
		LineStart: 1,
		Annotations: []snippet.Annotation{
			{Severity: snippet.SevError, Range: &snippet.Range{Start: 114, End: 116}},
		},
	})

	list := Build(sn, Options{FoldThreshold: 0})
	for _, ln := range list.Lines {
		if _, ok := ln.(FoldLine); ok {
			t.Fatalf("folding should be disabled")
		}
	}
	if got := len(sourceLines(list)); got != 20 {
		t.Fatalf("got %d source lines, want 20", got)
	}
}

func TestFoldShortRunStaysIntact(t *testing.T) {
	// 10 plain entries before the caption is exactly the threshold: no fold.
	var b strings.Builder
	for i := 0; i < 10; i++ {
		b.WriteString("line\n")
	}
	sn := mustSnippet(t, &snippet.Snippet{
		Source:    b.String(),
		LineStart: 1,
		Annotations: []snippet.Annotation{
			// Line 10 spans offsets [54, 59).
			{Severity: snippet.SevError, Range: &snippet.Range{Start: 54, End: 56}},
		},
	})

	list := Build(sn, DefaultOptions())
	for _, ln := range list.Lines {
		if _, ok := ln.(FoldLine); ok {
			t.Fatalf("run at the threshold must not fold:\n%#v", list.Lines)
		}
	}
}

func TestPaddingBracketsBody(t *testing.T) {
	tests := []struct {
		name string
		sn   *snippet.Snippet
	}{
		{name: "plain source", sn: &snippet.Snippet{Source: "abc\n", LineStart: 1}},
		{name: "empty source", sn: &snippet.Snippet{Source: "", LineStart: 1}},
		{
			name: "with header",
			sn: &snippet.Snippet{
				Source:      "abc\n",
				LineStart:   1,
				Annotations: []snippet.Annotation{{Severity: snippet.SevError, Label: "t"}},
				TitleIndex:  intPtr(0),
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sn := mustSnippet(t, tc.sn)
			list := Build(sn, DefaultOptions())

			var body []Line
			for _, ln := range list.Lines {
				if _, ok := ln.(RawLine); ok {
					continue
				}
				body = append(body, ln)
			}
			if len(body) < 2 {
				t.Fatalf("body too short: %#v", list.Lines)
			}
			if _, ok := body[0].(EmptySourceLine); !ok {
				t.Fatalf("body does not start with padding: %#v", body[0])
			}
			if _, ok := body[len(body)-1].(EmptySourceLine); !ok {
				t.Fatalf("body does not end with padding: %#v", body[len(body)-1])
			}
		})
	}
}

func TestHeaderTitleDefaults(t *testing.T) {
	sn := mustSnippet(t, &snippet.Snippet{
		Source:      "abc\n",
		LineStart:   1,
		Annotations: []snippet.Annotation{{Severity: snippet.SevError}},
		TitleIndex:  intPtr(0),
	})

	list := Build(sn, DefaultOptions())
	raw, ok := list.Lines[0].(RawLine)
	if !ok {
		t.Fatalf("first line is not a header: %#v", list.Lines[0])
	}
	if raw.Text != "error[E0000]: " {
		t.Fatalf("header = %q, want %q", raw.Text, "error[E0000]: ")
	}
}

func TestHeaderLocationFromMainAnnotation(t *testing.T) {
	sn := mustSnippet(t, &snippet.Snippet{
		Source:    "abc\ndef\n",
		LineStart: 51,
		Origin:    "src/format.rs",
		Annotations: []snippet.Annotation{
			{Severity: snippet.SevError, Range: &snippet.Range{Start: 7, End: 8}},
		},
		MainIndex: intPtr(0),
	})

	list := Build(sn, DefaultOptions())
	raw, ok := list.Lines[0].(RawLine)
	if !ok {
		t.Fatalf("first line is not a header: %#v", list.Lines[0])
	}
	if raw.Text != "  --> src/format.rs:52:3" {
		t.Fatalf("location = %q, want %q", raw.Text, "  --> src/format.rs:52:3")
	}
}

func TestHeaderLocationWithoutRangeFallsBack(t *testing.T) {
	sn := mustSnippet(t, &snippet.Snippet{
		Source:      "abc\n",
		LineStart:   9,
		Annotations: []snippet.Annotation{{Severity: snippet.SevWarning}},
		MainIndex:   intPtr(0),
	})

	list := Build(sn, DefaultOptions())
	raw := list.Lines[0].(RawLine)
	if raw.Text != "  --> :9:1" {
		t.Fatalf("location = %q, want %q", raw.Text, "  --> :9:1")
	}
}

func TestWarningHeader(t *testing.T) {
	sn := mustSnippet(t, &snippet.Snippet{
		Source:      "abc\n",
		LineStart:   1,
		Annotations: []snippet.Annotation{{Severity: snippet.SevWarning, Code: "W0042", Label: "dusty"}},
		TitleIndex:  intPtr(0),
	})

	list := Build(sn, DefaultOptions())
	raw := list.Lines[0].(RawLine)
	if raw.Text != "warning[W0042]: dusty" {
		t.Fatalf("header = %q", raw.Text)
	}
}

func TestBuildIsIdempotent(t *testing.T) {
	sn := mustSnippet(t, &snippet.Snippet{
		Source:    "abc\ndef\nghi\n",
		LineStart: 3,
		Origin:    "x.rs",
		Annotations: []snippet.Annotation{
			{Severity: snippet.SevError, Code: "E0001", Label: "boom", Range: &snippet.Range{Start: 1, End: 11}},
		},
		TitleIndex: intPtr(0),
		MainIndex:  intPtr(0),
	})

	first := Build(sn, DefaultOptions())
	second := Build(sn, DefaultOptions())
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("Build is not idempotent:\nfirst:  %#v\n\nsecond: %#v", first, second)
	}
	if len(sn.Annotations) != 1 || sn.Annotations[0].Range == nil {
		t.Fatalf("Build mutated the snippet: %+v", sn)
	}
}
