package ingest

// Option applies a configuration option to the parser.
type Option func(*parser)

// WithDelimiter sets the field delimiter (default ',').
func WithDelimiter(d rune) Option {
	return func(p *parser) {
		if d != 0 && d != '"' && d != '\r' && d != '\n' {
			p.delimiter = d
		}
	}
}

// WithMaxWarnings caps how many warnings are retained. Skipped rows are
// still counted past the cap.
func WithMaxWarnings(n int) Option {
	return func(p *parser) {
		if n >= 0 {
			p.maxWarnings = n
		}
	}
}
