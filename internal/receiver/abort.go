package receiver

// Abort marks the active request as failed outside the event grammar. It
// covers pre-protocol failures (service unavailable, rejected request) and
// transport drops, which owe no terminal event. Partial content is
// preserved. Aborting with no request in flight is a no-op.
func (r *Receiver) Abort(message string) {
	r.mu.Lock()
	if r.state != Awaiting && r.state != Receiving {
		r.mu.Unlock()
		return
	}
	r.state = Terminal
	r.failed = true
	r.errMsg = message
	onError := r.hooks.OnError
	r.mu.Unlock()

	if onError != nil {
		onError(message)
	}
}
