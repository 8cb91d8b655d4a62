package services

import "sync"

// fetchOrder numbers remote reads and local game mutations so that a read which
// started before a newer write never lands on top of it.
type fetchOrder struct {
	mu    sync.Mutex
	next  uint64
	list  uint64         // последний применённый список игр или мутация
	games map[int]uint64 // игры, загруженные позже list
}

func (o *fetchOrder) begin() uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.next++
	return o.next
}

// applyList runs apply only if no newer list or mutation has been applied.
func (o *fetchOrder) applyList(seq uint64, apply func()) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if seq < o.list {
		return false
	}
	o.list = seq
	for id, applied := range o.games {
		if applied <= seq {
			delete(o.games, id)
		}
	}
	apply()
	return true
}

func (o *fetchOrder) applyGame(gameID int, seq uint64, apply func()) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if seq < o.list || seq < o.games[gameID] {
		return false
	}
	if o.games == nil {
		o.games = make(map[int]uint64)
	}
	o.games[gameID] = seq
	apply()
	return true
}

// mutate applies a local write and outdates every read still in flight.
func (o *fetchOrder) mutate(apply func()) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.next++
	o.list = o.next
	o.games = nil
	apply()
}
