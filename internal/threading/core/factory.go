package core

// New returns a ThreadedScheduler when this build supports persistent
// workers and opts.Inline is unset, and an InlineScheduler otherwise.
func New[W any, E any](world W, items ItemSource[E], callback Callback[W, E], opts Options) (Scheduler, error) {
	if opts.Inline || !ThreadsSupported() {
		s, err := NewInlineScheduler(world, items, callback, opts)
		if err != nil {
			return nil, err
		}
		return s, nil
	}

	s, err := NewThreadedScheduler(world, items, callback, opts)
	if err != nil {
		return nil, err
	}
	return s, nil
}
