package display

import (
	"fmt"

	"caret/internal/snippet"
)

// defaultCode substitutes for a title annotation without a diagnostic code.
const defaultCode = "E0000"

// formatHeader derives up to two introductory lines from the snippet's title
// and main annotations. Pure function of the snippet; never fails.
func formatHeader(sn *snippet.Snippet) []Line {
	var header []Line

	if title, ok := sn.AnnotationAt(sn.TitleIndex); ok {
		code := title.Code
		if code == "" {
			code = defaultCode
		}
		header = append(header, RawLine{
			Text: fmt.Sprintf("%s[%s]: %s", title.Severity, code, title.Label),
		})
	}

	if mainAnn, ok := sn.AnnotationAt(sn.MainIndex); ok {
		// The location is resolved from the main annotation's range start.
		// Annotations without a range fall back to the excerpt's first line.
		row, col := sn.LineStart, uint32(1)
		if mainAnn.Range != nil {
			if lc, ok := sn.Locate(mainAnn.Range.Start); ok {
				row, col = lc.Line, lc.Col
			}
		}
		header = append(header, RawLine{
			Text: fmt.Sprintf("  --> %s:%d:%d", sn.Origin, row, col),
		})
	}

	return header
}
