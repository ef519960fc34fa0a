package application

import "sync"

// entityLocker serializes state-mutating operations on the same order or
// swap. External call-outs happen while the entity lock is held, so a
// re-entrant or racing invocation on the same id cannot interleave with a
// mutation in flight. Locks are kept for the life of the process, the set of
// ids is bounded by the number of entities ever created.
type entityLocker struct {
	locks sync.Map
}

func newEntityLocker() *entityLocker {
	return &entityLocker{}
}

func (l *entityLocker) lock(id string) func() {
	v, _ := l.locks.LoadOrStore(id, &sync.Mutex{})
	mtx := v.(*sync.Mutex)
	mtx.Lock()
	return mtx.Unlock
}
