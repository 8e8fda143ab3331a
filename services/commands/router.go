package commands

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/appellation/chess/core/log"
	"github.com/appellation/chess/metrics"
	"github.com/appellation/chess/models"
)

// ReplySink delivers a handler's reply back to wherever the command came from
type ReplySink func(ctx context.Context, text string)

// Handler runs one command. Handlers reply through the sink themselves; the returned error
// is for observability only and has already been turned into a reply where one is due.
type Handler interface {
	Handle(ctx context.Context, actor models.Actor, args *models.Arguments, reply ReplySink) error
}

// HandlerFunc adapts a function to Handler
type HandlerFunc func(ctx context.Context, actor models.Actor, args *models.Arguments, reply ReplySink) error

func (f HandlerFunc) Handle(ctx context.Context, actor models.Actor, args *models.Arguments, reply ReplySink) error {
	return f(ctx, actor, args, reply)
}

// Router maps exact, case-sensitive command names to handlers
type Router struct {
	mutex    sync.RWMutex
	handlers map[string]Handler
}

func NewRouter() *Router {
	return &Router{handlers: make(map[string]Handler)}
}

// Register adds handler under name, replacing any previous registration
func (r *Router) Register(name string, handler Handler) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.handlers[name] = handler
}

// Commands returns the registered command names in sorted order
func (r *Router) Commands() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch runs the handler registered for cmd. Unknown commands are not an error: they
// report handled=false and produce no reply.
func (r *Router) Dispatch(
	ctx context.Context,
	cmd models.ParsedCommand,
	actor models.Actor,
	reply ReplySink,
) (bool, error) {
	r.mutex.RLock()
	handler, ok := r.handlers[cmd.Name]
	r.mutex.RUnlock()
	if !ok {
		log.Debug("📋 Ignoring unknown command %q", cmd.Name)
		return false, nil
	}

	metrics.CommandsDispatched.WithLabelValues(cmd.Name).Inc()
	log.Info("📋 Starting to handle command %s for user %s", cmd.Name, actor.ID)
	if err := handler.Handle(ctx, actor, cmd.Arguments(), reply); err != nil {
		return true, fmt.Errorf("command %s failed: %w", cmd.Name, err)
	}

	log.Info("📋 Completed successfully - handled command %s for user %s", cmd.Name, actor.ID)
	return true, nil
}
