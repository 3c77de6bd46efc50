package scheduler

import (
	"context"
	"log"
	"time"

	"contas/internal/domain/reminder"
)

// Dispatcher polls for due reminder events and fans their delivery out
// over the worker pool. Because events are claimed atomically, running
// the dispatcher alongside in-process timers (or a second instance)
// never double-delivers.
type Dispatcher struct {
	service      *reminder.Service
	pool         *WorkerPool
	pollInterval time.Duration
	batchSize    int
	cancel       context.CancelFunc
	done         chan struct{}
}

// NewDispatcher builds a dispatcher. A nil pool makes each poll deliver
// the claimed events inline instead of fanning out.
func NewDispatcher(service *reminder.Service, pool *WorkerPool, pollInterval time.Duration, batchSize int) *Dispatcher {
	if pollInterval <= 0 {
		pollInterval = time.Minute
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	return &Dispatcher{
		service:      service,
		pool:         pool,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		done:         make(chan struct{}),
	}
}

// Start launches the polling loop. The first poll runs immediately so
// events that came due while the process was down go out right away.
func (d *Dispatcher) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel

	go func() {
		defer close(d.done)
		log.Printf("Reminder dispatcher started (poll interval %v)", d.pollInterval)

		d.poll(ctx)

		ticker := time.NewTicker(d.pollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Println("Reminder dispatcher stopped")
				return
			case <-ticker.C:
				d.poll(ctx)
			}
		}
	}()
}

func (d *Dispatcher) poll(ctx context.Context) {
	if d.pool == nil {
		if _, err := d.service.DispatchDue(ctx, d.batchSize); err != nil {
			log.Printf("Error dispatching due reminder events: %v", err)
		}
		return
	}

	events, err := d.service.ClaimDue(ctx, d.batchSize)
	if err != nil {
		log.Printf("Error claiming due reminder events: %v", err)
		return
	}

	for _, event := range events {
		if err := d.pool.Submit(NewReminderDeliveryJob(event, d.service)); err != nil {
			// An event we claimed but could not enqueue would otherwise
			// sit fired-but-undelivered forever. Return the claim so the
			// next poll picks it up.
			if relErr := d.service.Release(ctx, event.ID); relErr != nil {
				log.Printf("Error releasing reminder event %s: %v", event.ID, relErr)
			}
		}
	}
}

// Stop halts polling. In-flight jobs finish in the worker pool.
func (d *Dispatcher) Stop() {
	if d.cancel != nil {
		d.cancel()
		<-d.done
	}
}
