// Package discord bridges the Discord gateway to the dispatch router.
package discord

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/user/ocrbot/internal/interaction"
)

// Dispatcher handles decoded events. *dispatch.Router satisfies it.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev interaction.Event, r interaction.Responder)
}

// Adapter owns the gateway session and feeds interactions to a Dispatcher.
type Adapter struct {
	session    *discordgo.Session
	dispatcher Dispatcher

	mu    sync.Mutex
	ctx   context.Context
	ready chan struct{}
	once  sync.Once
	wg    sync.WaitGroup
}

// New creates an adapter for a bot token. The session is not connected
// until Start.
func New(token string, d Dispatcher) (*Adapter, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	// Interactions arrive without any gateway intents.
	s.Identify.Intents = 0
	a := &Adapter{
		session:    s,
		dispatcher: d,
		ctx:        context.Background(),
		ready:      make(chan struct{}),
	}
	s.AddHandler(a.onReady)
	s.AddHandler(a.onInteraction)
	return a, nil
}

// Session returns the underlying discordgo session.
func (a *Adapter) Session() *discordgo.Session { return a.session }

// Ready is closed once the gateway reports the session ready.
func (a *Adapter) Ready() <-chan struct{} { return a.ready }

// Start connects to the gateway and blocks until ctx is cancelled. In-flight
// interactions are cancelled and awaited before the session closes.
func (a *Adapter) Start(ctx context.Context) error {
	a.mu.Lock()
	a.ctx = ctx
	a.mu.Unlock()

	slog.Info("discord logging in")
	if err := a.session.Open(); err != nil {
		return fmt.Errorf("open gateway: %w", err)
	}
	<-ctx.Done()

	a.wg.Wait()
	if err := a.session.Close(); err != nil {
		return fmt.Errorf("close gateway: %w", err)
	}
	slog.Info("discord disconnected")
	return nil
}

func (a *Adapter) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	if r.User != nil {
		slog.Info("discord logged in", "user", r.User.Username, "user_id", r.User.ID)
	}
	a.once.Do(func() { close(a.ready) })
}

func (a *Adapter) onInteraction(s *discordgo.Session, ic *discordgo.InteractionCreate) {
	a.mu.Lock()
	ctx := a.ctx
	a.mu.Unlock()
	if ctx.Err() != nil {
		return
	}

	ev, err := Decode(ic.Interaction)
	if err != nil {
		slog.Warn("dropping interaction", "interaction_id", ic.ID, "type", ic.Type, "error", err)
		return
	}

	a.wg.Add(1)
	defer a.wg.Done()
	a.dispatcher.Dispatch(ctx, ev, NewResponder(s, ic.Interaction))
}
