package services

import (
	"fmt"
	"sync"
	"time"

	"fleetflow/internal/domain"
)

// DefaultLockWait bounds how long an operation waits for a busy resource
// before losing the race. Lifecycle operations are short, so waiting longer
// than this means another caller is actively working on the same resource.
const DefaultLockWait = 3 * time.Second

// ResourceLocks serializes state-changing operations per vehicle/driver id.
// One instance is the lock authority for the whole deployment; entity state
// is never cached here, only exclusivity.
type ResourceLocks struct {
	mu    sync.Mutex
	wait  time.Duration
	locks map[string]chan struct{}
}

func NewResourceLocks() *ResourceLocks {
	return &ResourceLocks{
		wait:  DefaultLockWait,
		locks: make(map[string]chan struct{}),
	}
}

// defaultLocks is the process-wide lock authority shared by all services.
var defaultLocks = NewResourceLocks()

func (l *ResourceLocks) slot(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.locks[key]
	if !ok {
		s = make(chan struct{}, 1)
		l.locks[key] = s
	}
	return s
}

func (l *ResourceLocks) acquire(key string) error {
	s := l.slot(key)
	select {
	case s <- struct{}{}:
		return nil
	default:
	}
	timer := time.NewTimer(l.wait)
	defer timer.Stop()
	select {
	case s <- struct{}{}:
		return nil
	case <-timer.C:
		return domain.ConflictError{Resource: key, Msg: "resource is locked by another operation"}
	}
}

func (l *ResourceLocks) release(key string) {
	<-l.slot(key)
}

// WithResources runs fn while holding exclusive locks on the vehicle and the
// driver. Acquisition order is fixed (vehicle, then driver) so two operations
// touching the same pair can never deadlock. Either id may be zero to skip
// that resource. Both locks are released on every exit path.
func (l *ResourceLocks) WithResources(vehicleID, driverID int64, fn func() error) error {
	keys := make([]string, 0, 2)
	if vehicleID != 0 {
		keys = append(keys, fmt.Sprintf("vehicle:%d", vehicleID))
	}
	if driverID != 0 {
		keys = append(keys, fmt.Sprintf("driver:%d", driverID))
	}

	held := make([]string, 0, len(keys))
	defer func() {
		for i := len(held) - 1; i >= 0; i-- {
			l.release(held[i])
		}
	}()

	for _, k := range keys {
		if err := l.acquire(k); err != nil {
			return err
		}
		held = append(held, k)
	}
	return fn()
}
