// Copyright © 2026 Glean Analytics - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/glean-analytics/glean/pkg/agent"
)

// Log is the append-only record of a conversation, owned by the
// presentation layer. Turns are never mutated after Append; the core
// planning loop never reads it.
type Log struct {
	mu    sync.RWMutex
	id    string
	turns []*agent.SessionTurn
}

// NewLog creates an empty conversation log with a fresh session ID.
func NewLog() *Log {
	return &Log{id: uuid.NewString()}
}

// ID returns the session identifier.
func (l *Log) ID() string {
	return l.id
}

// Append records a completed turn.
func (l *Log) Append(turn *agent.SessionTurn) {
	if turn == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.turns = append(l.turns, turn)
}

// Turns returns the turns in arrival order. The returned slice is a copy;
// the turns themselves are shared and immutable.
func (l *Log) Turns() []*agent.SessionTurn {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*agent.SessionTurn, len(l.turns))
	copy(out, l.turns)
	return out
}

// Len returns the number of recorded turns.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.turns)
}

// Last returns the most recent turn, or nil.
func (l *Log) Last() *agent.SessionTurn {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.turns) == 0 {
		return nil
	}
	return l.turns[len(l.turns)-1]
}
