package threadpool

// reportJobError reports an error produced by panic recovery inside a
// worker.
//
// Job errors do not stop pool execution and are reported via the
// configured handler. If no handler is registered, the error is
// silently ignored.
func (p *Pool) reportJobError(err error) {
	if p.opts.OnJobError != nil {
		p.opts.OnJobError(err)
	}
}
