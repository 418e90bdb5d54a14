package fluid

import (
	"runtime"
	"sync"
)

// serialThreshold is the minimum row count to use the worker pool.
// Below this, single-threaded is faster due to channel overhead.
const serialThreshold = 64

// rowChunk represents a range of grid rows for a worker to process.
type rowChunk struct {
	start, end int
	fn         func(start, end int)
}

// Dispatcher runs data-parallel grid passes over a persistent worker pool.
// Each Dispatch call is one pass: the rows are split into per-worker chunks
// and the call blocks until every chunk has completed, so a later pass never
// observes a partially written buffer.
type Dispatcher struct {
	numWorkers int

	workChan chan rowChunk
	doneChan chan struct{}
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
}

// NewDispatcher creates a dispatcher with one worker per logical CPU.
// Workers are started lazily on the first large enough pass.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{numWorkers: runtime.GOMAXPROCS(0)}
}

// start launches the persistent worker goroutines.
func (d *Dispatcher) start() {
	if d.running {
		return
	}

	d.workChan = make(chan rowChunk, d.numWorkers)
	d.doneChan = make(chan struct{}, d.numWorkers)
	d.stopChan = make(chan struct{})
	d.running = true

	for i := 0; i < d.numWorkers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
}

// Stop signals all workers to exit and waits for them.
func (d *Dispatcher) Stop() {
	if !d.running {
		return
	}

	close(d.stopChan)
	d.wg.Wait()
	close(d.workChan)
	close(d.doneChan)
	d.running = false
}

// worker runs in a goroutine, processing chunks until stopped.
func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for {
		select {
		case <-d.stopChan:
			return
		case chunk, ok := <-d.workChan:
			if !ok {
				return
			}
			chunk.fn(chunk.start, chunk.end)
			d.doneChan <- struct{}{}
		}
	}
}

// Dispatch applies fn to every row in [0, rows), in parallel for large
// grids. fn must not write outside its row range; it may freely read any
// buffer that no concurrent chunk writes.
func (d *Dispatcher) Dispatch(rows int, fn func(start, end int)) {
	if rows <= 0 {
		return
	}

	if d == nil || rows < serialThreshold {
		fn(0, rows)
		return
	}

	if !d.running {
		d.start()
	}

	chunkSize := (rows + d.numWorkers - 1) / d.numWorkers

	dispatched := 0
	for w := 0; w < d.numWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > rows {
			end = rows
		}
		if start >= end {
			continue
		}

		d.workChan <- rowChunk{start: start, end: end, fn: fn}
		dispatched++
	}

	for i := 0; i < dispatched; i++ {
		<-d.doneChan
	}
}
