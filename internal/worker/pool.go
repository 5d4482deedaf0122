package worker

import (
	"sync"

	"github.com/etec-programacion-3/biblioteca-backend/internal/metrics"
)

type task func()

// Pool runs queued tasks on a fixed set of goroutines. Used for writes that
// should not block the request path, like audit records.
type Pool struct {
	wg   sync.WaitGroup
	jobs chan task
}

func NewPool(n int) *Pool {
	p := &Pool{jobs: make(chan task, 1024)}
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				job()
				metrics.WorkerQueueDepth.Dec()
			}
		}()
	}
	return p
}

func (p *Pool) Submit(f task) {
	metrics.WorkerQueueDepth.Inc()
	p.jobs <- f
}

// Stop drains the queue and waits for in-flight tasks.
func (p *Pool) Stop() {
	close(p.jobs)
	p.wg.Wait()
}
