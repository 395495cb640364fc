package displayfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/unicode/norm"

	"caret/internal/display"
)

// Pretty renders a display list into human-readable text. For each line it
// draws a line-number gutter, margin marks ("/" for a multi-line annotation
// start, "|" for a connector), the source text, and caret underlines with
// labels for caption lines. Underline positioning converts byte columns of
// the preceding source line into display columns, so wide runes stay
// aligned. Color is applied per annotation kind when opts.Color is set.
func Pretty(w io.Writer, list display.List, opts PrettyOpts) error {
	p := printer{w: w}
	st := newStyles(opts.Color)
	gutter := gutterWidth(list)
	markCols := marksWidth(list)

	// Captions position themselves under the most recent source line.
	var lastContent string
	for _, ln := range list.Lines {
		switch l := ln.(type) {
		case display.RawLine:
			p.printf("%s\n", l.Text)

		case display.EmptySourceLine:
			p.printf("%s |\n", strings.Repeat(" ", gutter))

		case display.SourceLine:
			// Content is kept byte-for-byte: caption columns index into it.
			lastContent = l.Content
			p.printf("%*d | %s%s\n", gutter, l.Number, renderMarks(l.Marks, markCols), lastContent)

		case display.AnnotationLine:
			pad, width := underlineFor(lastContent, l.Cols)
			text := strings.Repeat(" ", pad) + st.paint(l.Kind, strings.Repeat("^", width))
			if l.Label != "" {
				text += " " + st.paint(l.Kind, norm.NFC.String(l.Label))
			}
			p.printf("%s | %s%s\n", strings.Repeat(" ", gutter), renderMarks(l.Marks, markCols), text)

		case display.FoldLine:
			p.printf("...\n")
		}
	}
	return p.err
}

// PrettyBoxed renders like Pretty and wraps the result in a rounded border.
func PrettyBoxed(w io.Writer, list display.List, opts PrettyOpts) error {
	var buf strings.Builder
	if err := Pretty(&buf, list, opts); err != nil {
		return err
	}
	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)
	_, err := fmt.Fprintln(w, frame.Render(strings.TrimRight(buf.String(), "\n")))
	return err
}

// printer latches the first write error so rendering code stays linear.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

type styles struct {
	errStyle   *color.Color
	warnStyle  *color.Color
	multiStyle *color.Color
}

func newStyles(enabled bool) styles {
	st := styles{
		errStyle:   color.New(color.FgRed, color.Bold),
		warnStyle:  color.New(color.FgYellow, color.Bold),
		multiStyle: color.New(color.FgBlue),
	}
	for _, c := range []*color.Color{st.errStyle, st.warnStyle, st.multiStyle} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return st
}

func (st styles) paint(kind display.AnnotationKind, text string) string {
	switch kind {
	case display.KindError:
		return st.errStyle.Sprint(text)
	case display.KindWarning:
		return st.warnStyle.Sprint(text)
	default:
		return st.multiStyle.Sprint(text)
	}
}

// gutterWidth is the width of the line-number column: enough digits for the
// largest source line number, at least one.
func gutterWidth(list display.List) int {
	width := 1
	for _, ln := range list.Lines {
		if sl, ok := ln.(display.SourceLine); ok {
			if digits := len(strconv.FormatUint(uint64(sl.Number), 10)); digits > width {
				width = digits
			}
		}
	}
	return width
}

// marksWidth is the display width of the margin-mark region: two columns per
// mark, sized to the line with the most marks so content stays aligned.
func marksWidth(list display.List) int {
	most := 0
	for _, ln := range list.Lines {
		switch l := ln.(type) {
		case display.SourceLine:
			if len(l.Marks) > most {
				most = len(l.Marks)
			}
		case display.AnnotationLine:
			if len(l.Marks) > most {
				most = len(l.Marks)
			}
		}
	}
	return most * 2
}

func renderMarks(marks []display.Mark, width int) string {
	if width == 0 {
		return ""
	}
	var b strings.Builder
	for _, m := range marks {
		b.WriteString(m.String())
		b.WriteByte(' ')
	}
	for b.Len() < width {
		b.WriteByte(' ')
	}
	return b.String()
}

// underlineFor converts a byte-column range over content into a display
// padding and caret width. Columns may point one past the end of the line
// (the separator byte); they clamp to the content.
func underlineFor(content string, cols display.ColRange) (pad, width int) {
	start := int(cols.Start)
	end := int(cols.End)
	if start > len(content) {
		start = len(content)
	}
	if end > len(content) {
		end = len(content)
	}
	if end < start {
		end = start
	}
	pad = runewidth.StringWidth(content[:start])
	width = runewidth.StringWidth(content[start:end])
	if width < 1 {
		width = 1
	}
	return pad, width
}
