package store

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/Dosada05/knobel-manager/models"
)

var (
	ErrGameNotFound   = errors.New("game not found in store")
	ErrTeamNotFound   = errors.New("team not found in store")
	ErrPlayerNotFound = errors.New("player not found in store")
	ErrTableNotFound  = errors.New("table not found in store")
	ErrNotSeated      = errors.New("player is not seated at the table")
)

// Revision counts writes per entity kind. Selectors compare revisions to decide
// whether a cached result is still valid.
type Revision struct {
	Games   uint64
	Teams   uint64
	Players uint64
	Rounds  uint64
	Tables  uint64
	Scores  uint64
}

func (r *Revision) bumpAll() {
	r.Games++
	r.Teams++
	r.Players++
	r.Rounds++
	r.Tables++
	r.Scores++
}

// EntityStore owns the normalized entities of one application session.
// All methods are safe for concurrent use; returned entities are copies.
type EntityStore struct {
	mu            sync.RWMutex
	data          Entities
	rev           Revision
	provisionalID int
}

func NewEntityStore() *EntityStore {
	return &EntityStore{data: NewEntities()}
}

// View runs fn with a consistent read-only view of the store.
// fn must not call back into the store.
func (s *EntityStore) View(fn func(r Reader)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(reader{e: &s.data, rev: s.rev})
}

func (s *EntityStore) Revision() Revision {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rev
}

func (s *EntityStore) Game(id int) (models.Game, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return reader{e: &s.data}.Game(id)
}

func (s *EntityStore) Team(id int) (models.Team, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return reader{e: &s.data}.Team(id)
}

func (s *EntityStore) Player(id int) (models.Player, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return reader{e: &s.data}.Player(id)
}

func (s *EntityStore) Table(id int) (models.Table, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return reader{e: &s.data}.Table(id)
}

func (s *EntityStore) FindTable(gameID, roundNumber, tableNumber int) (models.Table, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return reader{e: &s.data}.FindTable(gameID, roundNumber, tableNumber)
}

func (s *EntityStore) FindRound(gameID, roundNumber int) (models.Round, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return reader{e: &s.data}.FindRound(gameID, roundNumber)
}

// Export returns a deep copy of everything in the store.
func (s *EntityStore) Export() Entities {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.clone()
}

// ReplaceAll swaps the whole store content for e, as after a full game list fetch.
func (s *EntityStore) ReplaceAll(e Entities) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = e.clone()
	s.rev.bumpAll()
}

// ReplaceGame drops the local subgraph of every game contained in e and merges e
// in its place. Games not mentioned in e are left untouched.
func (s *EntityStore) ReplaceGame(e Entities) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, gameID := range e.GameOrder {
		existed := s.removeGameLocked(gameID)
		s.mergeLocked(e, gameID)
		if !existed {
			s.data.GameOrder = append(s.data.GameOrder, gameID)
		}
	}
	s.rev.bumpAll()
}

// PatchGame upserts the scalar fields of g. The team and round lists of an
// existing game are preserved; a new game starts with the lists of g.
func (s *EntityStore) PatchGame(g models.Game) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.data.Games[g.ID]; ok {
		g.Teams = existing.Teams
		g.Rounds = existing.Rounds
	} else {
		s.data.GameOrder = append(s.data.GameOrder, g.ID)
	}
	g = g.Clone()
	s.data.Games[g.ID] = g
	s.rev.Games++
}

// RemoveGame deletes the game and everything that belongs to it.
func (s *EntityStore) RemoveGame(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.removeGameLocked(id) {
		return false
	}
	s.data.GameOrder = removeID(s.data.GameOrder, id)
	s.rev.bumpAll()
	return true
}

// AddTeam inserts a team with its players and appends it to the parent game.
func (s *EntityStore) AddTeam(team models.Team, players []models.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	game, ok := s.data.Games[team.GameID]
	if !ok {
		return ErrGameNotFound
	}
	team = team.Clone()
	for _, p := range players {
		p.TeamID = team.ID
		s.data.Players[p.ID] = p
		team.Players = appendUnique(team.Players, p.ID)
	}
	s.data.Teams[team.ID] = team
	game.Teams = appendUnique(game.Teams, team.ID)
	s.data.Games[game.ID] = game

	s.rev.Games++
	s.rev.Teams++
	s.rev.Players++
	return nil
}

// PatchTeam updates the name of an existing team.
func (s *EntityStore) PatchTeam(id int, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	team, ok := s.data.Teams[id]
	if !ok {
		return ErrTeamNotFound
	}
	team.Name = name
	s.data.Teams[id] = team
	s.rev.Teams++
	return nil
}

// RemoveTeam deletes the team and its players, unlinks it from its game and
// clears the players' seats and scores.
func (s *EntityStore) RemoveTeam(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	team, ok := s.data.Teams[id]
	if !ok {
		return false
	}
	for _, playerID := range team.Players {
		delete(s.data.Players, playerID)
	}
	s.unseatLocked(team.GameID, team.Players)
	delete(s.data.Teams, id)
	if game, ok := s.data.Games[team.GameID]; ok {
		game.Teams = removeID(game.Teams, id)
		s.data.Games[game.ID] = game
	}

	s.rev.Games++
	s.rev.Teams++
	s.rev.Players++
	return true
}

// PatchPlayer updates the name of an existing player.
func (s *EntityStore) PatchPlayer(id int, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, ok := s.data.Players[id]
	if !ok {
		return ErrPlayerNotFound
	}
	player.Name = name
	s.data.Players[id] = player
	s.rev.Players++
	return nil
}

// RemovePlayer deletes the player, unlinks it from its team and clears its
// seats and scores.
func (s *EntityStore) RemovePlayer(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, ok := s.data.Players[id]
	if !ok {
		return false
	}
	delete(s.data.Players, id)
	if team, ok := s.data.Teams[player.TeamID]; ok {
		team.Players = removeID(team.Players, id)
		s.data.Teams[team.ID] = team
		s.rev.Teams++
		s.unseatLocked(team.GameID, []int{id})
	}
	s.rev.Players++
	return true
}

// ReplaceRound swaps the local copy of a round (matched by id or by round number)
// for the one contained in e and links it into the game's round list in round
// number order.
func (s *EntityStore) ReplaceRound(gameID int, e Entities) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	game, ok := s.data.Games[gameID]
	if !ok {
		return ErrGameNotFound
	}
	for _, round := range e.Rounds {
		if old, ok := (reader{e: &s.data}).FindRound(gameID, round.RoundNumber); ok {
			s.removeRoundLocked(old.ID)
			game.Rounds = removeID(game.Rounds, old.ID)
		}
		if _, ok := s.data.Rounds[round.ID]; ok {
			s.removeRoundLocked(round.ID)
			game.Rounds = removeID(game.Rounds, round.ID)
		}
		s.data.Rounds[round.ID] = round.Clone()
		game.Rounds = insertRound(game.Rounds, s.data.Rounds, round)
	}
	for id, t := range e.Tables {
		s.data.Tables[id] = t.Clone()
	}
	for id, sc := range e.Scores {
		s.data.Scores[id] = sc
	}
	for id, p := range e.Players {
		if _, known := s.data.Players[id]; !known {
			s.data.Players[id] = p
		}
	}
	s.data.Games[gameID] = game

	s.rev.Games++
	s.rev.Rounds++
	s.rev.Tables++
	s.rev.Scores++
	s.rev.Players++
	return nil
}

// TableSnapshot is an exact copy of a table and its score records.
type TableSnapshot struct {
	Table  models.Table
	Scores []models.Score
}

func (s *EntityStore) SnapshotTable(tableID int) (TableSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	table, ok := s.data.Tables[tableID]
	if !ok {
		return TableSnapshot{}, ErrTableNotFound
	}
	snap := TableSnapshot{Table: table.Clone(), Scores: make([]models.Score, 0, len(table.Scores))}
	for _, id := range table.Scores {
		if sc, ok := s.data.Scores[id]; ok {
			snap.Scores = append(snap.Scores, sc)
		}
	}
	return snap, nil
}

// RestoreTable puts a table back into the exact state captured by snap,
// dropping any score records added since. A table that was removed in the
// meantime stays removed.
func (s *EntityStore) RestoreTable(snap TableSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.data.Tables[snap.Table.ID]
	if !ok {
		return
	}
	for _, id := range current.Scores {
		delete(s.data.Scores, id)
	}
	for _, sc := range snap.Scores {
		s.data.Scores[sc.ID] = sc
	}
	s.data.Tables[snap.Table.ID] = snap.Table.Clone()
	s.rev.Tables++
	s.rev.Scores++
}

// ApplyProvisionalScores patches the table's scores with the given values and
// marks the table provisional. Existing records of the same player are updated
// in place; new records get negative provisional ids. Every input must belong to
// a player seated at the table, otherwise nothing is changed.
func (s *EntityStore) ApplyProvisionalScores(tableID int, inputs []models.ScoreInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	table, ok := s.data.Tables[tableID]
	if !ok {
		return ErrTableNotFound
	}
	for _, in := range inputs {
		if !slices.Contains(table.Players, in.PlayerID) {
			return fmt.Errorf("%w: player %d, table %d", ErrNotSeated, in.PlayerID, tableID)
		}
	}
	table = table.Clone()
	byPlayer := make(map[int]int, len(table.Scores))
	for _, id := range table.Scores {
		if sc, ok := s.data.Scores[id]; ok {
			byPlayer[sc.PlayerID] = id
		}
	}
	for _, in := range inputs {
		if id, ok := byPlayer[in.PlayerID]; ok {
			sc := s.data.Scores[id]
			sc.Score = in.Score
			s.data.Scores[id] = sc
			continue
		}
		s.provisionalID--
		sc := models.Score{ID: s.provisionalID, PlayerID: in.PlayerID, TableID: tableID, Score: in.Score}
		s.data.Scores[sc.ID] = sc
		table.Scores = append(table.Scores, sc.ID)
		byPlayer[in.PlayerID] = sc.ID
	}
	table.Provisional = true
	s.data.Tables[tableID] = table

	s.rev.Tables++
	s.rev.Scores++
	return nil
}

// ConfirmTableScores replaces the table's score records with the confirmed ones
// and clears the provisional flag.
func (s *EntityStore) ConfirmTableScores(tableID int, scores []models.Score) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	table, ok := s.data.Tables[tableID]
	if !ok {
		return ErrTableNotFound
	}
	for _, id := range table.Scores {
		delete(s.data.Scores, id)
	}
	table = table.Clone()
	table.Scores = make([]int, 0, len(scores))
	for _, sc := range scores {
		sc.TableID = tableID
		s.data.Scores[sc.ID] = sc
		table.Scores = appendUnique(table.Scores, sc.ID)
	}
	table.Provisional = false
	s.data.Tables[tableID] = table

	s.rev.Tables++
	s.rev.Scores++
	return nil
}

// unseatLocked removes the players from every table of the game together with
// their score records.
func (s *EntityStore) unseatLocked(gameID int, playerIDs []int) {
	game, ok := s.data.Games[gameID]
	if !ok || len(playerIDs) == 0 {
		return
	}
	for _, roundID := range game.Rounds {
		round, ok := s.data.Rounds[roundID]
		if !ok {
			continue
		}
		for _, tableID := range round.Tables {
			table, ok := s.data.Tables[tableID]
			if !ok || !slices.ContainsFunc(table.Players, func(id int) bool { return slices.Contains(playerIDs, id) }) {
				continue
			}
			table = table.Clone()
			for _, playerID := range playerIDs {
				table.Players = removeID(table.Players, playerID)
			}
			table.Scores = slices.DeleteFunc(table.Scores, func(scoreID int) bool {
				sc, ok := s.data.Scores[scoreID]
				if ok && slices.Contains(playerIDs, sc.PlayerID) {
					delete(s.data.Scores, scoreID)
					return true
				}
				return false
			})
			s.data.Tables[tableID] = table
			s.rev.Tables++
			s.rev.Scores++
		}
	}
}

// removeGameLocked deletes a game's subgraph but leaves GameOrder alone.
func (s *EntityStore) removeGameLocked(id int) bool {
	game, ok := s.data.Games[id]
	if !ok {
		return false
	}
	for _, teamID := range game.Teams {
		if team, ok := s.data.Teams[teamID]; ok {
			for _, playerID := range team.Players {
				delete(s.data.Players, playerID)
			}
		}
		delete(s.data.Teams, teamID)
	}
	for _, roundID := range game.Rounds {
		s.removeRoundLocked(roundID)
	}
	delete(s.data.Games, id)
	return true
}

func (s *EntityStore) removeRoundLocked(id int) {
	round, ok := s.data.Rounds[id]
	if !ok {
		return
	}
	for _, tableID := range round.Tables {
		if table, ok := s.data.Tables[tableID]; ok {
			for _, scoreID := range table.Scores {
				delete(s.data.Scores, scoreID)
			}
		}
		delete(s.data.Tables, tableID)
	}
	delete(s.data.Rounds, id)
}

// mergeLocked copies the subgraph of gameID from e into the store.
func (s *EntityStore) mergeLocked(e Entities, gameID int) {
	game, ok := e.Games[gameID]
	if !ok {
		return
	}
	s.data.Games[gameID] = game.Clone()
	for _, teamID := range game.Teams {
		team, ok := e.Teams[teamID]
		if !ok {
			continue
		}
		s.data.Teams[teamID] = team.Clone()
		for _, playerID := range team.Players {
			if p, ok := e.Players[playerID]; ok {
				s.data.Players[playerID] = p
			}
		}
	}
	for _, roundID := range game.Rounds {
		round, ok := e.Rounds[roundID]
		if !ok {
			continue
		}
		s.data.Rounds[roundID] = round.Clone()
		for _, tableID := range round.Tables {
			table, ok := e.Tables[tableID]
			if !ok {
				continue
			}
			s.data.Tables[tableID] = table.Clone()
			for _, playerID := range table.Players {
				if _, known := s.data.Players[playerID]; !known {
					if p, ok := e.Players[playerID]; ok {
						s.data.Players[playerID] = p
					}
				}
			}
			for _, scoreID := range table.Scores {
				if sc, ok := e.Scores[scoreID]; ok {
					s.data.Scores[scoreID] = sc
				}
			}
		}
	}
}

func removeID(ids []int, id int) []int {
	out := make([]int, 0, len(ids))
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}

// insertRound keeps a game's round list ordered by round number.
func insertRound(ids []int, rounds map[int]models.Round, round models.Round) []int {
	out := make([]int, 0, len(ids)+1)
	inserted := false
	for _, id := range ids {
		if !inserted {
			if r, ok := rounds[id]; ok && r.RoundNumber > round.RoundNumber {
				out = append(out, round.ID)
				inserted = true
			}
		}
		out = append(out, id)
	}
	if !inserted {
		out = append(out, round.ID)
	}
	return out
}
