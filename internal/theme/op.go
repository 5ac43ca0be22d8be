package theme

// Op is an asynchronous theme operation. It completes exactly once.
type Op struct {
	done chan struct{}
	name string
	err  error
}

func newOp() *Op {
	return &Op{done: make(chan struct{})}
}

// failedOp returns an Op that has already completed with err.
func failedOp(err error) *Op {
	op := newOp()
	op.complete("", err)
	return op
}

func (o *Op) complete(name string, err error) {
	o.name = name
	o.err = err
	close(o.done)
}

// Done is closed when the operation has finished.
func (o *Op) Done() <-chan struct{} {
	return o.done
}

// Wait blocks until the operation finishes and returns the affected theme
// name and any error.
func (o *Op) Wait() (string, error) {
	<-o.done
	return o.name, o.err
}

// Err blocks until the operation finishes and returns its error.
func (o *Op) Err() error {
	<-o.done
	return o.err
}

// Then runs fn on its own goroutine once the operation finishes.
func (o *Op) Then(fn func(name string, err error)) {
	go func() {
		fn(o.Wait())
	}()
}
