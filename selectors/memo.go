package selectors

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Dosada05/knobel-manager/store"
)

// Размеры кэшей: ключи приходят из URL, поэтому число записей ограничено.
const (
	entityMemoSize = 256
	viewMemoSize   = 64
)

// memo caches one value per key together with the store revisions it was
// computed from. deps masks the revision down to the kinds the value reads.
// Values for entities missing from the store are never cached.
type memo[K comparable, V any] struct {
	deps    func(store.Revision) store.Revision
	entries *lru.Cache[K, cached[V]]
}

type cached[V any] struct {
	rev   store.Revision
	value V
}

func newMemo[K comparable, V any](size int, deps func(store.Revision) store.Revision) *memo[K, V] {
	entries, err := lru.New[K, cached[V]](size)
	if err != nil {
		panic(err) // only for a non-positive size
	}
	return &memo[K, V]{deps: deps, entries: entries}
}

// get returns the cached value for key if the revisions it depends on are
// unchanged. compute reports whether its result may be kept.
func (m *memo[K, V]) get(s *store.EntityStore, key K, compute func(r store.Reader) (V, bool)) V {
	var out V
	s.View(func(r store.Reader) {
		rev := m.deps(r.Revision())

		if c, ok := m.entries.Get(key); ok && c.rev == rev {
			out = c.value
			return
		}

		value, keep := compute(r)
		out = value
		if !keep {
			m.entries.Remove(key)
			return
		}
		m.entries.Add(key, cached[V]{rev: rev, value: value})
	})
	return out
}

func (m *memo[K, V]) len() int {
	return m.entries.Len()
}

func gamesOnly(r store.Revision) store.Revision {
	return store.Revision{Games: r.Games}
}

func gamesAndTeams(r store.Revision) store.Revision {
	return store.Revision{Games: r.Games, Teams: r.Teams}
}

func teamsAndPlayers(r store.Revision) store.Revision {
	return store.Revision{Teams: r.Teams, Players: r.Players}
}

func roundsAndScores(r store.Revision) store.Revision {
	return store.Revision{Games: r.Games, Rounds: r.Rounds, Tables: r.Tables, Scores: r.Scores}
}

func everything(r store.Revision) store.Revision {
	return r
}
