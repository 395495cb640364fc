package display

// foldBody collapses long runs of non-caption body entries. Whenever a
// caption line is reached and the run since the previous caption exceeds
// opts.FoldThreshold, the middle of the run is replaced by a single FoldLine:
// the first FoldKeepAfter entries of the run and the FoldKeepBefore entries
// directly before the caption stay visible. The run counter resets at every
// caption line.
func foldBody(body []Line, opts Options) []Line {
	if opts.FoldThreshold <= 0 {
		return body
	}

	out := make([]Line, 0, len(body))
	run := 0
	for _, entry := range body {
		if _, isCaption := entry.(AnnotationLine); !isCaption {
			out = append(out, entry)
			run++
			continue
		}
		if run > opts.FoldThreshold {
			start := len(out) - run + opts.FoldKeepAfter
			end := len(out) - opts.FoldKeepBefore
			if start >= 0 && end > start {
				tail := make([]Line, 0, len(out)-end+1)
				tail = append(tail, FoldLine{})
				tail = append(tail, out[end:]...)
				out = append(out[:start], tail...)
			}
		}
		out = append(out, entry)
		run = 0
	}
	return out
}
