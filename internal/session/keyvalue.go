package session

import (
	"context"
	"log"
	"maps"
)

// KeyValue is a synchronous string-to-string mapping scoped to one visitor.
// It mirrors the browser's localStorage: reads and writes never fail from
// the caller's point of view.
type KeyValue interface {
	GetItem(key string) (string, bool)
	SetItem(key, value string)
	RemoveItem(key string)
}

// Values is a visitor's whole key space.
type Values map[string]string

// MapKeyValue is an in-memory KeyValue.
type MapKeyValue map[string]string

func (m MapKeyValue) GetItem(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

func (m MapKeyValue) SetItem(key, value string) { m[key] = value }

func (m MapKeyValue) RemoveItem(key string) { delete(m, key) }

// Local exposes one visitor's Values in a Store as a KeyValue. Values are
// loaded on first access and written back on every mutation.
type Local struct {
	ctx    context.Context
	store  Store[Values]
	id     string
	vals   Values
	loaded bool
}

func NewLocal(ctx context.Context, store Store[Values], id string) *Local {
	return &Local{ctx: ctx, store: store, id: id}
}

func (l *Local) load() {
	if l.loaded {
		return
	}
	l.loaded = true
	v, ok, err := l.store.Get(l.ctx, l.id)
	if err != nil {
		log.Printf("session: load %s: %v", l.id, err)
	}
	if !ok || v == nil {
		l.vals = Values{}
		return
	}
	l.vals = maps.Clone(v)
}

func (l *Local) save() {
	if err := l.store.Put(l.ctx, l.id, maps.Clone(l.vals)); err != nil {
		log.Printf("session: save %s: %v", l.id, err)
	}
}

func (l *Local) GetItem(key string) (string, bool) {
	l.load()
	v, ok := l.vals[key]
	return v, ok
}

func (l *Local) SetItem(key, value string) {
	l.load()
	l.vals[key] = value
	l.save()
}

func (l *Local) RemoveItem(key string) {
	l.load()
	if _, ok := l.vals[key]; !ok {
		return
	}
	delete(l.vals, key)
	l.save()
}
