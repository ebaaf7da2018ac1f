package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/user/ocrbot/internal/errs"
	"github.com/user/ocrbot/internal/interaction"
	"github.com/user/ocrbot/internal/types"
)

// FailureMessage is shown to the user when a deferred handler fails.
const FailureMessage = "Something went wrong"

type traceKey struct{}

// TraceID returns the trace id of the dispatch ctx belongs to.
func TraceID(ctx context.Context) types.TraceID {
	id, _ := ctx.Value(traceKey{}).(types.TraceID)
	return id
}

// Logger returns the default logger annotated with ctx's trace id.
func Logger(ctx context.Context) *slog.Logger {
	if id := TraceID(ctx); id != "" {
		return slog.Default().With("trace_id", types.ShortID(id))
	}
	return slog.Default()
}

// Router dispatches events to the handlers of a Registry.
type Router struct {
	registry *Registry
}

// NewRouter creates a Router over reg.
func NewRouter(reg *Registry) *Router {
	return &Router{registry: reg}
}

// Registry returns the router's registry.
func (r *Router) Registry() *Registry { return r.registry }

// Dispatch routes ev to at most one handler and blocks until it returns.
// Handler errors and panics are logged and never reach the caller.
func (r *Router) Dispatch(ctx context.Context, ev interaction.Event, resp interaction.Responder) {
	ctx = context.WithValue(ctx, traceKey{}, types.NewTraceID())
	log := Logger(ctx)
	base := interaction.BaseOf(ev)

	switch ev := ev.(type) {
	case *interaction.CommandInvocation:
		cmd, ok := r.registry.Command(ev.Name, ev.Kind)
		if !ok || !usableIn(cmd.Definition(), base.Context) {
			log.Debug("no command handler", "command", ev.Name, "kind", ev.Kind, "context", base.Context)
			return
		}
		log.Info(fmt.Sprintf("%s used %s command %s", base.UserID, ev.Kind, ev.Name), "context", base.Context)
		r.guard(ctx, base, ev.Name, resp, true, func(ctx context.Context) error {
			return cmd.Handle(ctx, ev, resp)
		})

	case *interaction.AutocompleteRequest:
		cmd, ok := r.registry.Command(ev.Name, ev.Kind)
		if !ok || !usableIn(cmd.Definition(), base.Context) {
			log.Debug("no autocomplete handler", "command", ev.Name, "kind", ev.Kind)
			return
		}
		ac, ok := cmd.(Autocompleter)
		if !ok {
			log.Debug("command does not autocomplete", "command", ev.Name)
			return
		}
		r.guard(ctx, base, ev.Name, resp, false, func(ctx context.Context) error {
			return ac.Autocomplete(ctx, ev, resp)
		})

	case *interaction.ComponentInteraction:
		h, m, ok := r.registry.matchComponent(ev.Kind, ev.CustomID)
		if !ok {
			log.Debug("no component handler", "custom_id", ev.CustomID, "kind", ev.Kind)
			return
		}
		r.guard(ctx, base, ev.CustomID, resp, true, func(ctx context.Context) error {
			return h.Handle(ctx, ev, m, resp)
		})

	case *interaction.ModalSubmission:
		h, m, ok := r.registry.matchModal(ev.CustomID)
		if !ok {
			log.Debug("no modal handler", "custom_id", ev.CustomID)
			return
		}
		r.guard(ctx, base, ev.CustomID, resp, true, func(ctx context.Context) error {
			return h.Handle(ctx, ev, m, resp)
		})

	default:
		log.Warn("unsupported event", "type", fmt.Sprintf("%T", ev))
	}
}

// guard runs fn, recovering panics. When report is set and the interaction
// was already answered, failures are reported to the user by editing the
// response.
func (r *Router) guard(ctx context.Context, base *interaction.Base, handler string, resp interaction.Responder, report bool, fn func(context.Context) error) {
	defer func() {
		if p := recover(); p != nil {
			r.fail(ctx, base, handler, resp, report, errs.Newf(errs.Internal, "panic: %v", p), string(debug.Stack()))
		}
	}()
	if err := fn(ctx); err != nil {
		r.fail(ctx, base, handler, resp, report, err, "")
	}
}

func (r *Router) fail(ctx context.Context, base *interaction.Base, handler string, resp interaction.Responder, report bool, err error, stack string) {
	log := Logger(ctx)
	attrs := []any{
		"handler", handler,
		"user_id", base.UserID,
		"code", errs.CodeOf(err),
		"error", err,
	}
	if stack != "" {
		attrs = append(attrs, "stack", stack)
	}
	log.Error("interaction failed", attrs...)

	if !report || !resp.Acknowledged() {
		return
	}
	if eerr := resp.Edit(ctx, interaction.Reply{Content: FailureMessage}); eerr != nil {
		log.Warn("failed to report error to user", "error", eerr)
	}
}
