// Package memory keeps every repository in process memory. A unit of work holds the
// store-wide lock for its whole duration and is undone from a snapshot if it fails.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/honeynil/CommodityDeskService/internal/models"
)

type txKey struct{}

type Store struct {
	mu            sync.Mutex
	users         map[int64]models.User
	commodities   map[int64]models.Commodity
	orders        map[int64]models.Order
	walletLogs    []models.WalletLog
	notifications map[int64]models.Notification
	lastID        int64
	now           func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:         make(map[int64]models.User),
		commodities:   make(map[int64]models.Commodity),
		orders:        make(map[int64]models.Order),
		notifications: make(map[int64]models.Notification),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Users() *UserRepository                 { return &UserRepository{s: s} }
func (s *Store) Commodities() *CommodityRepository      { return &CommodityRepository{s: s} }
func (s *Store) Orders() *OrderRepository               { return &OrderRepository{s: s} }
func (s *Store) WalletLogs() *WalletLogRepository       { return &WalletLogRepository{s: s} }
func (s *Store) Notifications() *NotificationRepository { return &NotificationRepository{s: s} }

// lock takes the store lock unless ctx already runs inside one of this store's units of work.
func (s *Store) lock(ctx context.Context) func() {
	if owner, ok := ctx.Value(txKey{}).(*Store); ok && owner == s {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) nextID() int64 {
	s.lastID++
	return s.lastID
}

type snapshot struct {
	users         map[int64]models.User
	commodities   map[int64]models.Commodity
	orders        map[int64]models.Order
	walletLogs    int
	notifications map[int64]models.Notification
	lastID        int64
}

func copyMap[V any](m map[int64]V) map[int64]V {
	out := make(map[int64]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *Store) snapshot() snapshot {
	return snapshot{
		users:         copyMap(s.users),
		commodities:   copyMap(s.commodities),
		orders:        copyMap(s.orders),
		walletLogs:    len(s.walletLogs),
		notifications: copyMap(s.notifications),
		lastID:        s.lastID,
	}
}

func (s *Store) restore(snap snapshot) {
	s.users = snap.users
	s.commodities = snap.commodities
	s.orders = snap.orders
	s.walletLogs = s.walletLogs[:snap.walletLogs]
	s.notifications = snap.notifications
	s.lastID = snap.lastID
}

func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if owner, ok := ctx.Value(txKey{}).(*Store); ok && owner == s {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	defer func() {
		if p := recover(); p != nil {
			s.restore(snap)
			panic(p)
		}
	}()

	if err = fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		s.restore(snap)
	}
	return err
}
