package worker

import (
	"context"
	"log"
	"strconv"
	"sync"
	"time"

	"pinboard/internal/queue"
)

const (
	DefaultWorkerCount = 1
	DefaultBlock       = 5 * time.Second

	readBatch    = 10
	retryBackoff = time.Second
)

// ManagerConfig sizes the reclaimer pool.
type ManagerConfig struct {
	WorkerCount int
	// Block bounds one XREADGROUP wait, and so how quickly Stop is observed.
	Block time.Duration
}

func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{WorkerCount: DefaultWorkerCount, Block: DefaultBlock}
}

// Manager runs reclaimers that delete stored media announced on the
// media stream. Each reclaimer first drains its own unacknowledged
// deliveries, then follows new events.
type Manager struct {
	consumer queue.Consumer
	handler  *Handler
	cfg      ManagerConfig

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

func NewManager(consumer queue.Consumer, handler *Handler, cfg ManagerConfig) *Manager {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = DefaultWorkerCount
	}
	if cfg.Block <= 0 {
		cfg.Block = DefaultBlock
	}
	return &Manager{consumer: consumer, handler: handler, cfg: cfg}
}

// Start creates the consumer group if needed and launches the reclaimers.
func (m *Manager) Start(ctx context.Context) error {
	if err := m.consumer.EnsureGroup(ctx, queue.StreamMedia, queue.ConsumerGroupMedia); err != nil {
		return err
	}

	ctx, m.cancel = context.WithCancel(ctx)
	for i := 1; i <= m.cfg.WorkerCount; i++ {
		m.wg.Add(1)
		go m.reclaim(ctx, "reclaimer-"+strconv.Itoa(i))
	}

	log.Printf("[Manager] %d reclaimers on stream=%s group=%s",
		m.cfg.WorkerCount, queue.StreamMedia, queue.ConsumerGroupMedia)
	return nil
}

// Stop cancels the reclaimers and waits for them to return.
func (m *Manager) Stop() {
	if m.cancel == nil {
		return
	}
	m.cancel()
	m.wg.Wait()
	log.Printf("[Manager] reclaimers stopped")
}

func (m *Manager) reclaim(ctx context.Context, name string) {
	defer m.wg.Done()

	m.drainPending(ctx, name)

	for ctx.Err() == nil {
		messages, err := m.consumer.Read(ctx, queue.StreamMedia, queue.ConsumerGroupMedia, name, readBatch, m.cfg.Block)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("[%s] read failed: %v", name, err)
			select {
			case <-ctx.Done():
			case <-time.After(retryBackoff):
			}
			continue
		}
		m.process(ctx, name, messages)
	}
}

// drainPending replays deliveries this consumer received but never acked.
func (m *Manager) drainPending(ctx context.Context, name string) {
	for ctx.Err() == nil {
		messages, err := m.consumer.ReadPending(ctx, queue.StreamMedia, queue.ConsumerGroupMedia, name, readBatch)
		if err != nil {
			log.Printf("[%s] pending read failed: %v", name, err)
			return
		}
		if len(messages) == 0 {
			return
		}
		log.Printf("[%s] replaying %d pending events", name, len(messages))
		m.process(ctx, name, messages)
	}
}

// process handles and acks each message. A failed delete is logged and
// still acked.
func (m *Manager) process(ctx context.Context, name string, messages []queue.Message) {
	for _, msg := range messages {
		if err := m.handler.HandleEvent(ctx, msg.Event); err != nil {
			log.Printf("[%s] event %s (%s) failed: %v", name, msg.ID, msg.Event.Type, err)
		}
		if err := m.consumer.Ack(ctx, queue.StreamMedia, queue.ConsumerGroupMedia, msg.ID); err != nil {
			log.Printf("[%s] ack %s failed: %v", name, msg.ID, err)
		}
	}
}
