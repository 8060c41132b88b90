package game

import (
	"runtime"
	"sync"

	"github.com/pthm-cable/conerace/car"
)

// parallelThreshold is the minimum population to tick on the worker pool.
// Below this, single-threaded is faster due to goroutine overhead.
const parallelThreshold = 64

// workChunk is a range of cars for one worker.
type workChunk struct {
	start, end int
}

// parallelState holds the persistent worker pool. Cars only read the shared
// track, so ticking them concurrently gives the same result as in order.
type parallelState struct {
	cars       []*car.Car
	numWorkers int

	workChan chan workChunk
	doneChan chan struct{}
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
}

func newParallelState() *parallelState {
	return &parallelState{
		numWorkers: runtime.GOMAXPROCS(0),
		cars:       make([]*car.Car, 0, 512),
	}
}

// startWorkers launches persistent worker goroutines.
func (p *parallelState) startWorkers(g *Game) {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(g)
	}
}

// stopWorkers signals all workers to exit and waits for them.
func (p *parallelState) stopWorkers() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

func (p *parallelState) worker(g *Game) {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			for _, c := range p.cars[chunk.start:chunk.end] {
				c.Tick(g.ctx)
			}
			p.doneChan <- struct{}{}
		}
	}
}

// driveParallel is drive for the worker pool.
func (g *Game) driveParallel() int {
	p := g.parallel

	// Gather in population order (single-threaded, the world is not touched by workers)
	p.cars = append(p.cars[:0], g.Cars()...)

	n := len(p.cars)
	if n < parallelThreshold {
		for _, c := range p.cars {
			c.Tick(g.ctx)
		}
	} else {
		p.startWorkers(g)

		chunkSize := (n + p.numWorkers - 1) / p.numWorkers
		chunks := 0
		for start := 0; start < n; start += chunkSize {
			p.workChan <- workChunk{start: start, end: min(start+chunkSize, n)}
			chunks++
		}
		for i := 0; i < chunks; i++ {
			<-p.doneChan
		}
	}

	alive := 0
	for _, c := range p.cars {
		if !c.Dead && !c.ViewOnly {
			alive++
		}
	}
	return alive
}
