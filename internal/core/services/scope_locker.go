package services

import (
	"context"
	"sort"
	"sync"

	"github.com/SscSPs/ledgerbook/internal/core/domain"
)

type heldScopesKey struct{}

// ScopeLocker serializes mutations per scope. Locks are re-entrant through
// the context: a call made with a context returned by Lock does not block on
// scopes that context already holds.
type ScopeLocker struct {
	mu    sync.Mutex
	locks map[domain.Scope]*sync.Mutex
}

// NewScopeLocker creates an empty locker.
func NewScopeLocker() *ScopeLocker {
	return &ScopeLocker{locks: make(map[domain.Scope]*sync.Mutex)}
}

func (l *ScopeLocker) mutexFor(scope domain.Scope) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[scope]
	if !ok {
		m = &sync.Mutex{}
		l.locks[scope] = m
	}
	return m
}

func heldScopes(ctx context.Context) map[domain.Scope]struct{} {
	held, _ := ctx.Value(heldScopesKey{}).(map[domain.Scope]struct{})
	return held
}

// Lock acquires scope and returns a context marking it held plus the unlock func.
func (l *ScopeLocker) Lock(ctx context.Context, scope domain.Scope) (context.Context, func()) {
	return l.LockAll(ctx, []domain.Scope{scope})
}

// LockAll acquires several scopes in a fixed order.
func (l *ScopeLocker) LockAll(ctx context.Context, scopes []domain.Scope) (context.Context, func()) {
	held := heldScopes(ctx)
	pending := make([]domain.Scope, 0, len(scopes))
	for _, scope := range scopes {
		if _, ok := held[scope]; !ok {
			pending = append(pending, scope)
		}
	}
	if len(pending) == 0 {
		return ctx, func() {}
	}
	sort.Slice(pending, func(i, j int) bool {
		if pending[i].BankID != pending[j].BankID {
			return pending[i].BankID < pending[j].BankID
		}
		return pending[i].Year < pending[j].Year
	})

	acquired := make([]*sync.Mutex, 0, len(pending))
	next := make(map[domain.Scope]struct{}, len(held)+len(pending))
	for scope := range held {
		next[scope] = struct{}{}
	}
	for i, scope := range pending {
		if i > 0 && scope == pending[i-1] {
			continue
		}
		m := l.mutexFor(scope)
		m.Lock()
		acquired = append(acquired, m)
		next[scope] = struct{}{}
	}

	unlock := func() {
		for i := len(acquired) - 1; i >= 0; i-- {
			acquired[i].Unlock()
		}
	}
	return context.WithValue(ctx, heldScopesKey{}, next), unlock
}
