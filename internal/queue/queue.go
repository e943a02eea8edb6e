package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/observability"
	apperrors "github.com/kongdonovan/anarchy-and-associates-sub004/pkg/util"
)

// Operation is a unit of mutating work serialized per guild.
type Operation struct {
	GuildID       string
	ActorID       string
	Name          string
	OwnerPriority bool
	Run           func(ctx context.Context) (any, error)
}

// Outcome carries the operation's own result or failure back to the submitter.
type Outcome struct {
	Value any
	Err   error
}

// Queue executes mutating operations one at a time per guild. Within a guild
// the order is FIFO, except that owner-submitted operations move ahead of
// waiting non-owner operations. An operation already executing is never
// preempted. Each operation is bounded by a hard timeout; on expiry the
// submitter gets a timeout error and the guild's queue moves on.
type Queue struct {
	mu      sync.Mutex
	guilds  map[string]*guildQueue
	timeout time.Duration
	logger  *zap.Logger
	metrics *observability.Metrics
	wg      sync.WaitGroup
	closed  bool
}

type guildQueue struct {
	waiting []*task
	running bool
}

type task struct {
	op   Operation
	done chan Outcome
}

// New constructs a queue with the given per-operation timeout.
func New(timeout time.Duration, logger *zap.Logger, metrics *observability.Metrics) *Queue {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Queue{
		guilds:  make(map[string]*guildQueue),
		timeout: timeout,
		logger:  logger,
		metrics: metrics,
	}
}

// EnqueueAsync submits an operation and returns a channel that receives its
// outcome exactly once.
func (q *Queue) EnqueueAsync(op Operation) <-chan Outcome {
	t := &task{op: op, done: make(chan Outcome, 1)}

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		t.done <- Outcome{Err: apperrors.NewConflict("operation queue is shut down", nil)}
		return t.done
	}
	gq, ok := q.guilds[op.GuildID]
	if !ok {
		gq = &guildQueue{}
		q.guilds[op.GuildID] = gq
	}
	gq.insert(t)
	if !gq.running {
		gq.running = true
		q.wg.Add(1)
		go q.drain(op.GuildID, gq)
	}
	q.mu.Unlock()

	return t.done
}

// Enqueue submits an operation and blocks until it completes, times out, or
// the caller's context is canceled. Cancellation abandons the wait only; the
// operation itself still runs in its queue slot.
func (q *Queue) Enqueue(ctx context.Context, op Operation) (any, error) {
	done := q.EnqueueAsync(op)
	select {
	case out := <-done:
		return out.Value, out.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// insert places an owner task ahead of waiting non-owner tasks while keeping
// FIFO order among peers. Callers hold the queue lock.
func (gq *guildQueue) insert(t *task) {
	if !t.op.OwnerPriority {
		gq.waiting = append(gq.waiting, t)
		return
	}
	pos := len(gq.waiting)
	for i, pending := range gq.waiting {
		if !pending.op.OwnerPriority {
			pos = i
			break
		}
	}
	gq.waiting = append(gq.waiting, nil)
	copy(gq.waiting[pos+1:], gq.waiting[pos:])
	gq.waiting[pos] = t
}

func (q *Queue) drain(guildID string, gq *guildQueue) {
	defer q.wg.Done()
	for {
		q.mu.Lock()
		if len(gq.waiting) == 0 {
			gq.running = false
			delete(q.guilds, guildID)
			q.mu.Unlock()
			return
		}
		t := gq.waiting[0]
		gq.waiting = gq.waiting[1:]
		q.mu.Unlock()

		q.execute(guildID, t)
	}
}

// execute runs one operation under the queue timeout. The operation runs in
// its own goroutine so a hung operation cannot stall the guild's queue beyond
// the timeout window; the buffered result channel lets an abandoned operation
// finish without leaking its goroutine.
func (q *Queue) execute(guildID string, t *task) {
	ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
	defer cancel()

	resCh := make(chan Outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				resCh <- Outcome{Err: apperrors.NewInternalError(fmt.Errorf("operation panic: %v", r))}
			}
		}()
		value, err := t.op.Run(ctx)
		resCh <- Outcome{Value: value, Err: err}
	}()

	select {
	case out := <-resCh:
		q.metrics.RecordQueuedOperation(guildID, false)
		t.done <- out
	case <-ctx.Done():
		q.metrics.RecordQueuedOperation(guildID, true)
		q.logger.Warn("queued operation timed out",
			zap.String("guild_id", guildID),
			zap.String("operation", t.op.Name),
			zap.String("actor_id", t.op.ActorID),
		)
		t.done <- Outcome{Err: apperrors.NewTimeout("operation timed out", map[string]any{
			"guild_id":  guildID,
			"operation": t.op.Name,
		})}
	}
}

// Depths reports the number of waiting operations per guild.
func (q *Queue) Depths() map[string]int {
	q.mu.Lock()
	defer q.mu.Unlock()
	depths := make(map[string]int, len(q.guilds))
	for guildID, gq := range q.guilds {
		depths[guildID] = len(gq.waiting)
	}
	return depths
}

// Shutdown stops accepting operations and waits for workers to drain, or for
// the context to expire.
func (q *Queue) Shutdown(ctx context.Context) error {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()

	drained := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(drained)
	}()
	select {
	case <-drained:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
