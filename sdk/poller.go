package sdk

import (
	"context"
	"sync"
	"time"
)

// DefaultPollInterval is how often the poller asks for new messages when the
// relay connection is down or not in use
const DefaultPollInterval = 3 * time.Second

// MessageHandler is invoked once per newly observed message, in seq order
type MessageHandler func(msg *MessageInfo)

// Poller is the polling fallback for receiving messages. It repeatedly pulls
// messages after its watermark and deduplicates by seq, so messages that also
// arrived over the relay are delivered to the handler exactly once.
type Poller struct {
	client         *Client
	conversationId string
	interval       time.Duration
	handler        MessageHandler

	mu       sync.Mutex
	afterSeq int64
	seen     map[int64]struct{}
	cancel   context.CancelFunc
	done     chan struct{}
}

// PollerOption configures a Poller
type PollerOption func(*Poller)

// WithPollInterval sets the poll interval
func WithPollInterval(interval time.Duration) PollerOption {
	return func(p *Poller) {
		p.interval = interval
	}
}

// WithAfterSeq sets the initial watermark, e.g. from a stored snapshot
func WithAfterSeq(afterSeq int64) PollerOption {
	return func(p *Poller) {
		p.afterSeq = afterSeq
	}
}

// NewPoller creates a poller for a conversation. An empty conversationId
// means the caller's own thread.
func NewPoller(client *Client, conversationId string, handler MessageHandler, opts ...PollerOption) *Poller {
	p := &Poller{
		client:         client,
		conversationId: conversationId,
		interval:       DefaultPollInterval,
		handler:        handler,
		seen:           make(map[int64]struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Observe feeds a message that arrived through another channel (the relay)
// into the dedup set, so the next poll does not deliver it again.
func (p *Poller) Observe(msg *MessageInfo) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.seen[msg.Seq]; ok {
		return
	}
	p.seen[msg.Seq] = struct{}{}
	if msg.Seq > p.afterSeq {
		p.afterSeq = msg.Seq
	}
}

// AfterSeq returns the current watermark
func (p *Poller) AfterSeq() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.afterSeq
}

// Start begins polling until ctx is cancelled or Stop is called
func (p *Poller) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)

	p.mu.Lock()
	p.cancel = cancel
	p.done = make(chan struct{})
	done := p.done
	p.mu.Unlock()

	go func() {
		defer close(done)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.poll(ctx)
			}
		}
	}()
}

// Stop stops the poller and waits for the loop to exit
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	done := p.done
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// poll pulls once and delivers unseen messages in order
func (p *Poller) poll(ctx context.Context) {
	messages, err := p.client.NewMessages(ctx, p.conversationId, p.AfterSeq())
	if err != nil {
		// Transient failure; next tick retries from the same watermark
		return
	}

	for _, msg := range messages {
		p.mu.Lock()
		if _, ok := p.seen[msg.Seq]; ok {
			p.mu.Unlock()
			continue
		}
		p.seen[msg.Seq] = struct{}{}
		if msg.Seq > p.afterSeq {
			p.afterSeq = msg.Seq
		}
		p.mu.Unlock()

		if p.handler != nil {
			p.handler(msg)
		}
	}
}
