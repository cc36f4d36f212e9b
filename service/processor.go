package service

import (
	"context"
	"log"
	"sync"
)

// DocumentProcessor is a fixed worker pool draining document processing
// jobs. Delivery is at-most-once: one attempt per submitted id, no retry.
type DocumentProcessor struct {
	jobs    chan string
	process func(ctx context.Context, documentID string) error
	workers int
	wg      sync.WaitGroup
}

func NewDocumentProcessor(workers, queueSize int, process func(ctx context.Context, documentID string) error) *DocumentProcessor {
	return &DocumentProcessor{
		jobs:    make(chan string, queueSize),
		process: process,
		workers: workers,
	}
}

// Start launches the workers. They drain the queue until ctx is cancelled.
func (p *DocumentProcessor) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run(ctx, i)
	}
}

func (p *DocumentProcessor) run(ctx context.Context, workerID int) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case documentID := <-p.jobs:
			if err := p.process(ctx, documentID); err != nil {
				log.Printf("[worker-%d] document %s: %v", workerID, documentID, err)
			}
		}
	}
}

// Submit queues a document for processing without blocking. It reports
// false when the queue is full, the caller decides what to do with the job.
func (p *DocumentProcessor) Submit(documentID string) bool {
	select {
	case p.jobs <- documentID:
		return true
	default:
		return false
	}
}

// Wait blocks until all workers have stopped after context cancellation.
func (p *DocumentProcessor) Wait() {
	p.wg.Wait()
}
