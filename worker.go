package asqlite

// worker is the single execution context that owns one native database
// handle. Every operation touching the handle is a job enqueued here and
// executed by one dedicated goroutine, in submission order. The handle is
// never accessed from any other goroutine; the engine forbids concurrent
// use of one handle from multiple threads.
type worker struct {
	jobs chan func()
	done chan struct{}
}

func newWorker() *worker {
	w := &worker{
		jobs: make(chan func(), 16),
		done: make(chan struct{}),
	}
	go w.loop()
	return w
}

// loop drains jobs until the channel is closed. Once a job has been
// dequeued it always runs to completion; engine calls are not preemptible
// mid-step.
func (w *worker) loop() {
	defer close(w.done)
	for job := range w.jobs {
		job()
	}
}

// shutdown stops the worker after all previously enqueued jobs have run.
func (w *worker) shutdown() {
	close(w.jobs)
}
