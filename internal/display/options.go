package display

// Options configures body layout. The fold thresholds are deliberately not
// inline literals so callers and tests can override them.
type Options struct {
	// FoldThreshold is the number of consecutive non-caption body entries
	// that must accumulate before a caption line for folding to trigger.
	// Values <= 0 disable folding.
	FoldThreshold int
	// FoldKeepAfter is how many entries stay visible at the start of a
	// folded run, directly after the previous caption line.
	FoldKeepAfter int
	// FoldKeepBefore is how many entries stay visible immediately before
	// the caption line that triggered the fold.
	FoldKeepBefore int
}

// DefaultOptions returns the standard fold configuration.
func DefaultOptions() Options {
	return Options{
		FoldThreshold:  10,
		FoldKeepAfter:  5,
		FoldKeepBefore: 2,
	}
}
