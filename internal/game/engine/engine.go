// Package engine resolves navigation and interaction commands for one traveler
// against a world, mutating the traveler's session and the rooms it touches.
package engine

import (
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/wanderer/internal/game/session"
	"github.com/cory-johannsen/wanderer/internal/game/world"
)

// Resolver decides how much damage an attack deals. Combat policy lives outside the
// engine; the engine only applies the result.
type Resolver interface {
	ResolveAttack(ally *world.Ally, weapon *world.Weapon) int
}

// ResolverFunc adapts a function into a Resolver.
type ResolverFunc func(ally *world.Ally, weapon *world.Weapon) int

// ResolveAttack calls f.
func (f ResolverFunc) ResolveAttack(ally *world.Ally, weapon *world.Weapon) int {
	return f(ally, weapon)
}

// WeaponDamage deals exactly the weapon's listed damage.
var WeaponDamage = ResolverFunc(func(_ *world.Ally, weapon *world.Weapon) int {
	return weapon.Damage
})

// Engine runs one traveler's commands. Commands are serialized: each is fully
// resolved before the next starts. A failed command leaves all state unchanged.
type Engine struct {
	mu       sync.Mutex
	world    *world.World
	sess     *session.Session
	resolver Resolver
	logger   *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithResolver replaces the default WeaponDamage attack resolver.
func WithResolver(r Resolver) Option {
	return func(e *Engine) { e.resolver = r }
}

// WithLogger sets the logger used for command tracing.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New creates an Engine driving sess through w.
//
// Precondition: w and sess must be non-nil; sess.Room must be a room of w.
// Postcondition: Returns an Engine using WeaponDamage and a no-op logger unless overridden.
func New(w *world.World, sess *session.Session, opts ...Option) *Engine {
	e := &Engine{
		world:    w,
		sess:     sess,
		resolver: WeaponDamage,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Session returns the traveler's session.
func (e *Engine) Session() *session.Session {
	return e.sess
}

// World returns the world the engine operates on.
func (e *Engine) World() *world.World {
	return e.world
}

// trace logs the outcome of one command.
func (e *Engine) trace(verb, target string, err error) {
	fields := []zap.Field{
		zap.String("session", e.sess.ID),
		zap.String("verb", verb),
		zap.String("target", target),
		zap.String("room", string(e.sess.Room)),
	}
	if err != nil {
		e.logger.Debug("command refused", append(fields, zap.Error(err))...)
		return
	}
	e.logger.Debug("command resolved", fields...)
}
