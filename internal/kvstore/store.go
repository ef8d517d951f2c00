package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/saulo-duarte/quizzical/internal/config"
)

var ErrNoScope = errors.New("store used outside a client scope")

// Sealer encrypts values at rest. *config.Cipher satisfies it.
type Sealer interface {
	Encrypt(text string) (string, error)
	Decrypt(encoded string) (string, error)
}

type Option func(*Store)

func WithSealer(s Sealer) Option {
	return func(st *Store) { st.sealer = s }
}

// Store is the single authority for persisted client state. It is addressed
// through a Scope, which pins a namespace (one client profile) and an origin
// (one tab or execution context within it).
type Store struct {
	backend  Backend
	notifier Notifier
	sealer   Sealer

	mu     sync.RWMutex
	subs   map[string]map[uint64]subscription
	nextID uint64
}

type subscription struct {
	origin string
	fn     func(json.RawMessage)
}

func New(ctx context.Context, backend Backend, notifier Notifier, opts ...Option) (*Store, error) {
	if backend == nil {
		return nil, errors.New("backend required")
	}
	if notifier == nil {
		notifier = NewLocalNotifier()
	}
	s := &Store{
		backend:  backend,
		notifier: notifier,
		subs:     make(map[string]map[uint64]subscription),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := notifier.Listen(ctx, s.dispatch); err != nil {
		return nil, fmt.Errorf("listen for changes: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.notifier.Close()
}

func (s *Store) Scope(namespace, origin string) *Scope {
	return &Scope{store: s, namespace: namespace, origin: origin}
}

type Scope struct {
	store     *Store
	namespace string
	origin    string
}

func (sc *Scope) Namespace() string {
	if sc == nil {
		return ""
	}
	return sc.namespace
}

func (sc *Scope) Origin() string {
	if sc == nil {
		return ""
	}
	return sc.origin
}

func (sc *Scope) bound() bool {
	return sc != nil && sc.store != nil && sc.namespace != ""
}

// Load decodes the value under key into out. It reports false, leaving out
// untouched, when the key is missing or unreadable; read problems are logged,
// never returned.
func (sc *Scope) Load(ctx context.Context, key string, out any) bool {
	log := config.WithContext(ctx).WithField("key", key)
	if !sc.bound() {
		log.Warn("Store read outside a client scope, using default")
		return false
	}

	raw, err := sc.store.backend.Get(ctx, sc.namespace, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.WithError(err).Warn("Error reading store key, using default")
		}
		return false
	}

	plain, err := sc.store.open(raw)
	if err != nil {
		log.WithError(err).Warn("Error unsealing store key, using default")
		return false
	}
	if err := json.Unmarshal(plain, out); err != nil {
		log.WithError(err).Warn("Error parsing store key, using default")
		return false
	}
	return true
}

// Save serializes value and stores it under key, then notifies other
// contexts. On failure the prior value is kept, a warning is logged and the
// error is returned.
func (sc *Scope) Save(ctx context.Context, key string, value any) error {
	log := config.WithContext(ctx).WithField("key", key)
	if !sc.bound() {
		log.Warn("Store write outside a client scope, dropped")
		return ErrNoScope
	}

	plain, err := json.Marshal(value)
	if err != nil {
		log.WithError(err).Warn("Error serializing store key")
		return fmt.Errorf("serialize %s: %w", key, err)
	}
	stored, err := sc.store.seal(plain)
	if err != nil {
		log.WithError(err).Warn("Error sealing store key")
		return fmt.Errorf("seal %s: %w", key, err)
	}
	if err := sc.store.backend.Put(ctx, sc.namespace, key, stored); err != nil {
		log.WithError(err).Warn("Error setting store key")
		return fmt.Errorf("store %s: %w", key, err)
	}

	change := Change{Namespace: sc.namespace, Key: key, Origin: sc.origin, Value: stored}
	if err := sc.store.notifier.Publish(ctx, change); err != nil {
		log.WithError(err).Warn("Failed to publish store change")
	}
	return nil
}

// Subscribe registers fn for writes to key made from any other origin in the
// same namespace. The returned func cancels the subscription.
func (sc *Scope) Subscribe(key string, fn func(json.RawMessage)) func() {
	if !sc.bound() || fn == nil {
		return func() {}
	}
	s := sc.store
	slotKey := slot(sc.namespace, key)

	s.mu.Lock()
	s.nextID++
	id := s.nextID
	if s.subs[slotKey] == nil {
		s.subs[slotKey] = make(map[uint64]subscription)
	}
	s.subs[slotKey][id] = subscription{origin: sc.origin, fn: fn}
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs[slotKey], id)
			if len(s.subs[slotKey]) == 0 {
				delete(s.subs, slotKey)
			}
			s.mu.Unlock()
		})
	}
}

func (s *Store) dispatch(c Change) {
	s.mu.RLock()
	var targets []func(json.RawMessage)
	for _, sub := range s.subs[slot(c.Namespace, c.Key)] {
		if sub.origin == c.Origin {
			continue
		}
		targets = append(targets, sub.fn)
	}
	s.mu.RUnlock()

	if len(targets) == 0 {
		return
	}
	plain, err := s.open(c.Value)
	if err != nil {
		config.Log.WithError(err).WithField("key", c.Key).Warn("Dropping unreadable change notification")
		return
	}
	for _, fn := range targets {
		value := make(json.RawMessage, len(plain))
		copy(value, plain)
		fn(value)
	}
}

func (s *Store) seal(plain []byte) ([]byte, error) {
	if s.sealer == nil {
		return plain, nil
	}
	enc, err := s.sealer.Encrypt(string(plain))
	if err != nil {
		return nil, err
	}
	return json.Marshal(enc)
}

func (s *Store) open(stored []byte) ([]byte, error) {
	if s.sealer == nil {
		return stored, nil
	}
	var enc string
	if err := json.Unmarshal(stored, &enc); err != nil {
		return nil, err
	}
	plain, err := s.sealer.Decrypt(enc)
	if err != nil {
		return nil, err
	}
	return []byte(plain), nil
}

// Read returns the value under key, or def when it is missing or unreadable.
func Read[T any](ctx context.Context, sc *Scope, key string, def T) T {
	var out T
	if !sc.Load(ctx, key, &out) {
		return def
	}
	return out
}

// ReadFunc is Read with a lazily built default.
func ReadFunc[T any](ctx context.Context, sc *Scope, key string, def func() T) T {
	var out T
	if !sc.Load(ctx, key, &out) {
		return def()
	}
	return out
}

func Write[T any](ctx context.Context, sc *Scope, key string, value T) error {
	return sc.Save(ctx, key, value)
}

// Update reads key (falling back to def), applies fn and writes the result.
// It is not atomic across concurrent writers; the last write wins.
func Update[T any](ctx context.Context, sc *Scope, key string, def func() T, fn func(T) T) (T, error) {
	next := fn(ReadFunc(ctx, sc, key, def))
	return next, Write(ctx, sc, key, next)
}
