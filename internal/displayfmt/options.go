package displayfmt

// PrettyOpts configures text rendering of a display list.
type PrettyOpts struct {
	Color bool
}

// JSONOpts configures JSON output of a display list.
type JSONOpts struct {
	Indent bool
}
