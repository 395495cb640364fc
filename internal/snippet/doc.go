// Package snippet defines the input model for the layout engine: a source
// excerpt, its starting line number and origin, and a set of labeled,
// severity-tagged byte-range annotations.
//
// # Offset model
//
// Annotation ranges are byte offsets into the concatenated source text. Each
// materialized line contributes its own bytes plus one separator byte, and an
// extra separator byte is assumed between consecutive lines. SplitSpans is
// the single source of truth for this arithmetic; Validate and Locate reuse
// it so header locations and body placement always agree.
//
// # Validation
//
// Logically inconsistent input (reversed ranges, offsets past the end of the
// source, dangling title/main indices) is rejected at construction time with
// a descriptive error rather than silently failing to match any placement
// case downstream. New and Load both validate; callers constructing Snippet
// values by hand should call Validate themselves.
//
// # Consumers
//
//   - internal/display: lays out a snippet into display lines.
//   - internal/displayfmt: renders display lines into text or JSON.
//   - cmd/caret: loads snippet files and drives rendering.
package snippet
