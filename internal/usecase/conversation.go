package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

var (
	ErrEmptyMessage       = errors.New("message cannot be empty")
	ErrConversationClosed = errors.New("conversation is closed")
)

// Message is one line of the chat transcript.
type Message struct {
	ID     string    `json:"id"`
	Text   string    `json:"text"`
	IsBot  bool      `json:"isBot"`
	Intent string    `json:"intent,omitempty"`
	At     time.Time `json:"at"`
}

type turn struct {
	text   string
	result chan Reply
}

// ConversationConfig configures a Conversation.
type ConversationConfig struct {
	Resolver  *ChatResolver
	IDGen     IDGenerator
	Recorder  Recorder
	Logger    zerolog.Logger
	Delay     time.Duration // pause before each reply
	QueueSize int           // turns accepted while one is in progress
	Clock     func() time.Time
}

// Conversation owns the chat transcript and replies to turns strictly in
// submission order from a single worker.
type Conversation struct {
	resolver *ChatResolver
	idGen    IDGenerator
	recorder Recorder
	logger   zerolog.Logger
	delay    time.Duration
	now      func() time.Time

	queue    chan turn
	done     chan struct{}
	stopOnce sync.Once
	submitMu sync.Mutex
	pending  atomic.Int32

	mu         sync.RWMutex
	transcript []Message
}

// NewConversation creates a conversation that starts with the greeting.
// Start must be running for turns to be answered.
func NewConversation(cfg ConversationConfig) *Conversation {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultChatQueueSize
	}
	if cfg.Delay < 0 {
		cfg.Delay = 0
	}
	if cfg.Recorder == nil {
		cfg.Recorder = nopRecorder{}
	}
	if cfg.Clock == nil {
		cfg.Clock = func() time.Time { return time.Now().UTC() }
	}

	c := &Conversation{
		resolver: cfg.Resolver,
		idGen:    cfg.IDGen,
		recorder: cfg.Recorder,
		logger:   cfg.Logger.With().Str("component", "conversation").Logger(),
		delay:    cfg.Delay,
		now:      cfg.Clock,
		queue:    make(chan turn, cfg.QueueSize),
		done:     make(chan struct{}),
	}
	c.append(Message{Text: GreetingMessage, IsBot: true})
	return c
}

// Start processes queued turns until ctx is cancelled.
func (c *Conversation) Start(ctx context.Context) error {
	c.logger.Info().Dur("delay", c.delay).Int("queue_size", cap(c.queue)).Msg("conversation worker started")
	defer c.stopOnce.Do(func() { close(c.done) })

	for {
		select {
		case <-ctx.Done():
			c.logger.Info().Msg("conversation worker shutting down")
			return ctx.Err()
		case t := <-c.queue:
			if err := c.process(ctx, t); err != nil {
				return err
			}
		}
	}
}

func (c *Conversation) process(ctx context.Context, t turn) error {
	started := time.Now()
	defer c.pending.Add(-1)

	if c.delay > 0 {
		timer := time.NewTimer(c.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	reply := c.resolver.Resolve(ctx, t.text)
	c.append(Message{Text: reply.Text, IsBot: true, Intent: reply.Intent})
	c.recorder.RecordChatTurn(reply.Intent, time.Since(started))

	t.result <- reply
	return nil
}

// Submit records the user message and queues it. The returned channel
// receives the reply once every earlier turn has been answered.
func (c *Conversation) Submit(ctx context.Context, text string) (<-chan Reply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	c.submitMu.Lock()
	defer c.submitMu.Unlock()

	select {
	case <-c.done:
		return nil, ErrConversationClosed
	default:
	}

	t := turn{text: text, result: make(chan Reply, 1)}
	id := c.append(Message{Text: text})
	c.pending.Add(1)

	select {
	case c.queue <- t:
		return t.result, nil
	case <-ctx.Done():
		c.retract(id)
		return nil, ctx.Err()
	case <-c.done:
		c.retract(id)
		return nil, ErrConversationClosed
	}
}

// Send submits text and waits for its reply.
func (c *Conversation) Send(ctx context.Context, text string) (Reply, error) {
	result, err := c.Submit(ctx, text)
	if err != nil {
		return Reply{}, err
	}

	select {
	case reply := <-result:
		return reply, nil
	case <-ctx.Done():
		return Reply{}, ctx.Err()
	case <-c.done:
		return Reply{}, ErrConversationClosed
	}
}

// Busy reports whether a reply is being prepared.
func (c *Conversation) Busy() bool {
	return c.pending.Load() > 0
}

// Transcript returns a copy of all messages so far.
func (c *Conversation) Transcript() []Message {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Message, len(c.transcript))
	copy(out, c.transcript)
	return out
}

func (c *Conversation) append(m Message) string {
	m.ID = c.idGen.Generate()
	m.At = c.now()

	c.mu.Lock()
	c.transcript = append(c.transcript, m)
	c.mu.Unlock()

	return m.ID
}

// retract drops a user message whose turn could not be queued.
func (c *Conversation) retract(id string) {
	c.pending.Add(-1)

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := len(c.transcript) - 1; i >= 0; i-- {
		if c.transcript[i].ID == id {
			c.transcript = append(c.transcript[:i], c.transcript[i+1:]...)
			return
		}
	}
}
