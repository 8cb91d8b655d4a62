package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/knobel-manager/models"
)

var errBackendDown = fmt.Errorf("%w: 503 service unavailable", ErrRemoteFailure)

func TestUpdateScores_RollsBackExactlyOnRemoteFailure(t *testing.T) {
	s := seededStore()
	remote := newFakeRemote()
	notifier := &recordingNotifier{}
	svc := NewScoreService(remote, s, notifier, discardLogger())

	before, _ := s.Table(50)

	var duringSend map[int]int
	var provisionalDuringSend bool
	remote.updateScores = func(ctx context.Context, gameID, roundNumber, tableNumber int, scores []models.ScoreInput) (models.TablePayload, error) {
		duringSend, provisionalDuringSend = visibleScores(s, 50)
		return models.TablePayload{}, errBackendDown
	}

	_, err := svc.UpdateScores(context.Background(), 1, 1, 1, []models.ScoreInput{
		{PlayerID: 100, Score: 10},
		{PlayerID: 102, Score: 9},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRemoteFailure)

	assert.Equal(t, map[int]int{100: 10, 102: 9}, duringSend)
	assert.True(t, provisionalDuringSend)

	after, provisional := visibleScores(s, 50)
	assert.Equal(t, map[int]int{100: 5, 102: 7}, after)
	assert.False(t, provisional)

	restored, _ := s.Table(50)
	assert.Equal(t, before, restored, "table must be restored byte for byte")

	assert.Equal(t, []models.ChangeType{models.ChangeScoresPending, models.ChangeScoresReverted}, notifier.types())
}

func TestUpdateScores_RollbackDropsProvisionalRecords(t *testing.T) {
	s := seededStore()
	remote := newFakeRemote()
	remote.updateScores = func(context.Context, int, int, int, []models.ScoreInput) (models.TablePayload, error) {
		return models.TablePayload{}, errBackendDown
	}
	svc := NewScoreService(remote, s, nil, discardLogger())

	_, err := svc.UpdateScores(context.Background(), 1, 1, 2, []models.ScoreInput{{PlayerID: 101, Score: 4}})
	require.ErrorIs(t, err, ErrRemoteFailure)

	table, ok := s.Table(51)
	require.True(t, ok)
	assert.Empty(t, table.Scores)
	assert.False(t, table.Provisional)
}

func TestUpdateScores_ConfirmsServerRecords(t *testing.T) {
	s := seededStore()
	remote := newFakeRemote()
	notifier := &recordingNotifier{}
	remote.updateScores = func(_ context.Context, _, _, tableNumber int, scores []models.ScoreInput) (models.TablePayload, error) {
		tp := models.TablePayload{ID: 50, TableNumber: tableNumber}
		for i, sc := range scores {
			tp.Scores = append(tp.Scores, models.ScorePayload{ID: 70 + i, PlayerID: sc.PlayerID, Score: sc.Score})
		}
		return tp, nil
	}
	svc := NewScoreService(remote, s, notifier, discardLogger())

	table, err := svc.UpdateScores(context.Background(), 1, 1, 1, []models.ScoreInput{
		{PlayerID: 100, Score: 10},
		{PlayerID: 102, Score: 9},
	})
	require.NoError(t, err)

	assert.False(t, table.Provisional)
	assert.Equal(t, []int{70, 71}, table.Scores)
	got, _ := visibleScores(s, 50)
	assert.Equal(t, map[int]int{100: 10, 102: 9}, got)

	var negative bool
	for _, id := range table.Scores {
		negative = negative || id < 0
	}
	assert.False(t, negative, "provisional ids must not survive confirmation")
	assert.Equal(t, []models.ChangeType{models.ChangeScoresPending, models.ChangeScoresUpdated}, notifier.types())
}

func TestUpdateScores_EmptyResponseRollsBack(t *testing.T) {
	s := seededStore()
	remote := newFakeRemote()
	svc := NewScoreService(remote, s, nil, discardLogger())

	_, err := svc.UpdateScores(context.Background(), 1, 1, 1, []models.ScoreInput{{PlayerID: 100, Score: 10}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyResponse)

	got, provisional := visibleScores(s, 50)
	assert.Equal(t, map[int]int{100: 5, 102: 7}, got)
	assert.False(t, provisional)
}

func TestUpdateScores_UnknownTargetsFailWithoutNetwork(t *testing.T) {
	cases := []struct {
		name     string
		game     int
		round    int
		table    int
		expected error
	}{
		{"unknown game", 9, 1, 1, ErrGameNotFound},
		{"unknown round", 1, 2, 1, ErrRoundNotFound},
		{"unknown table", 1, 1, 7, ErrTableNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			remote := newFakeRemote()
			svc := NewScoreService(remote, seededStore(), nil, discardLogger())

			_, err := svc.UpdateScores(context.Background(), tc.game, tc.round, tc.table, []models.ScoreInput{{PlayerID: 100, Score: 1}})
			assert.ErrorIs(t, err, tc.expected)
			assert.ErrorIs(t, err, ErrNotFound)
			assert.Zero(t, remote.total())
		})
	}
}

func TestUpdateScores_Validation(t *testing.T) {
	cases := map[string][]models.ScoreInput{
		"negative score":   {{PlayerID: 100, Score: -1}},
		"missing player":   {{PlayerID: 0, Score: 3}},
		"duplicate player": {{PlayerID: 100, Score: 3}, {PlayerID: 100, Score: 4}},
	}
	for name, scores := range cases {
		t.Run(name, func(t *testing.T) {
			remote := newFakeRemote()
			svc := NewScoreService(remote, seededStore(), nil, discardLogger())

			_, err := svc.UpdateScores(context.Background(), 1, 1, 1, scores)
			assert.ErrorIs(t, err, ErrValidationFailed)
			assert.Zero(t, remote.total())
		})
	}
}

func TestUpdateScores_RejectsPlayersNotSeatedAtTable(t *testing.T) {
	cases := map[string][]models.ScoreInput{
		"player of another table": {{PlayerID: 100, Score: 40}, {PlayerID: 101, Score: 40}},
		"unknown player":          {{PlayerID: 999, Score: 3}},
	}
	for name, scores := range cases {
		t.Run(name, func(t *testing.T) {
			s := seededStore()
			remote := newFakeRemote()
			svc := NewScoreService(remote, s, nil, discardLogger())
			before, _ := s.Table(50)

			_, err := svc.UpdateScores(context.Background(), 1, 1, 1, scores)
			assert.ErrorIs(t, err, ErrValidationFailed)
			assert.Zero(t, remote.total())

			after, _ := s.Table(50)
			assert.Equal(t, before, after)
			got, _ := visibleScores(s, 50)
			assert.Equal(t, map[int]int{100: 5, 102: 7}, got)
		})
	}
}

func TestUpdateScores_IgnoresConfirmedScoresOfOtherSeats(t *testing.T) {
	s := seededStore()
	remote := newFakeRemote()
	remote.updateScores = func(_ context.Context, _, _, tableNumber int, _ []models.ScoreInput) (models.TablePayload, error) {
		return models.TablePayload{ID: 50, TableNumber: tableNumber, Scores: []models.ScorePayload{
			{ID: 70, PlayerID: 100, Score: 10},
			{ID: 71, PlayerID: 102, Score: 7},
			{ID: 72, PlayerID: 103, Score: 40},
		}}, nil
	}
	svc := NewScoreService(remote, s, nil, discardLogger())

	table, err := svc.UpdateScores(context.Background(), 1, 1, 1, []models.ScoreInput{{PlayerID: 100, Score: 10}})
	require.NoError(t, err)

	assert.Equal(t, []int{70, 71}, table.Scores)
	got, _ := visibleScores(s, 50)
	assert.Equal(t, map[int]int{100: 10, 102: 7}, got)
}

func TestUpdateScores_SurvivesCallerCancellation(t *testing.T) {
	s := seededStore()
	remote := newFakeRemote()
	ctx, cancel := context.WithCancel(context.Background())
	remote.updateScores = func(sendCtx context.Context, _, _, _ int, scores []models.ScoreInput) (models.TablePayload, error) {
		cancel()
		assert.NoError(t, sendCtx.Err())
		return models.TablePayload{ID: 50, TableNumber: 1, Scores: []models.ScorePayload{{ID: 80, PlayerID: 100, Score: 12}}}, nil
	}
	svc := NewScoreService(remote, s, nil, discardLogger())

	_, err := svc.UpdateScores(ctx, 1, 1, 1, []models.ScoreInput{{PlayerID: 100, Score: 12}})
	require.NoError(t, err)

	got, _ := visibleScores(s, 50)
	assert.Equal(t, map[int]int{100: 12}, got)
}

func TestUpdateScores_SameTableWritesAreSerialized(t *testing.T) {
	s := seededStore()
	remote := newFakeRemote()

	var (
		mu        sync.Mutex
		server    = map[int]int{100: 5, 102: 7}
		calls     atomic.Int32
		release   = make(chan struct{})
		firstSent = make(chan struct{})
		seenBy2nd map[int]int
	)
	remote.updateScores = func(_ context.Context, _, _, tableNumber int, scores []models.ScoreInput) (models.TablePayload, error) {
		n := calls.Add(1)
		if n == 1 {
			close(firstSent)
			<-release
		} else {
			seenBy2nd, _ = visibleScores(s, 50)
		}

		mu.Lock()
		defer mu.Unlock()
		for _, sc := range scores {
			server[sc.PlayerID] = sc.Score
		}
		tp := models.TablePayload{ID: 50, TableNumber: tableNumber}
		for _, playerID := range []int{100, 102} {
			tp.Scores = append(tp.Scores, models.ScorePayload{ID: int(n)*100 + playerID, PlayerID: playerID, Score: server[playerID]})
		}
		return tp, nil
	}
	svc := NewScoreService(remote, s, nil, discardLogger())

	errs := make(chan error, 2)
	go func() {
		_, err := svc.UpdateScores(context.Background(), 1, 1, 1, []models.ScoreInput{{PlayerID: 100, Score: 10}})
		errs <- err
	}()
	<-firstSent
	go func() {
		_, err := svc.UpdateScores(context.Background(), 1, 1, 1, []models.ScoreInput{{PlayerID: 102, Score: 3}})
		errs <- err
	}()

	assert.Never(t, func() bool { return remote.count("UpdateScores") > 1 }, 100*time.Millisecond, 10*time.Millisecond)
	close(release)

	for i := 0; i < 2; i++ {
		select {
		case err := <-errs:
			require.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("score updates did not finish")
		}
	}

	assert.Equal(t, map[int]int{100: 10, 102: 3}, seenBy2nd, "second write must start from the confirmed first write")
	got, provisional := visibleScores(s, 50)
	assert.Equal(t, map[int]int{100: 10, 102: 3}, got)
	assert.False(t, provisional)
}

func TestUpdateScores_OtherTablesAreNotBlocked(t *testing.T) {
	s := seededStore()
	remote := newFakeRemote()
	release := make(chan struct{})
	remote.updateScores = func(_ context.Context, _, _, tableNumber int, scores []models.ScoreInput) (models.TablePayload, error) {
		if tableNumber == 1 {
			<-release
		}
		tp := models.TablePayload{ID: 49 + tableNumber, TableNumber: tableNumber}
		for i, sc := range scores {
			tp.Scores = append(tp.Scores, models.ScorePayload{ID: 300 + i, PlayerID: sc.PlayerID, Score: sc.Score})
		}
		return tp, nil
	}
	svc := NewScoreService(remote, s, nil, discardLogger())

	done := make(chan error, 1)
	go func() {
		_, err := svc.UpdateScores(context.Background(), 1, 1, 1, []models.ScoreInput{{PlayerID: 100, Score: 1}})
		done <- err
	}()

	_, err := svc.UpdateScores(context.Background(), 1, 1, 2, []models.ScoreInput{{PlayerID: 101, Score: 8}})
	require.NoError(t, err)

	close(release)
	require.NoError(t, <-done)
}

func TestLoadRoundTables(t *testing.T) {
	s := seededStore()
	remote := newFakeRemote()
	notifier := &recordingNotifier{}
	remote.getRound = func(_ context.Context, gameID, roundNumber int) (models.RoundPayload, error) {
		return models.RoundPayload{ID: 6, RoundNumber: roundNumber, Tables: []models.TablePayload{
			{ID: 60, TableNumber: 1, Players: []models.PlayerPayload{{ID: 100}, {ID: 103}},
				Scores: []models.ScorePayload{{ID: 90, PlayerID: 103, Score: 4}}},
		}}, nil
	}
	svc := NewScoreService(remote, s, notifier, discardLogger())

	require.NoError(t, svc.LoadRoundTables(context.Background(), 1, 2))

	table, ok := s.FindTable(1, 2, 1)
	require.True(t, ok)
	assert.Equal(t, 60, table.ID)
	assert.Equal(t, []int{100, 103}, table.Players)
	assert.Equal(t, []models.ChangeType{models.ChangeTablesLoaded}, notifier.types())

	game, _ := s.Game(1)
	assert.Equal(t, []int{5, 6}, game.Rounds)
}

func TestLoadRoundTables_Errors(t *testing.T) {
	remote := newFakeRemote()
	svc := NewScoreService(remote, seededStore(), nil, discardLogger())

	err := svc.LoadRoundTables(context.Background(), 9, 1)
	assert.ErrorIs(t, err, ErrGameNotFound)
	assert.Zero(t, remote.total())

	err = svc.LoadRoundTables(context.Background(), 1, 1)
	assert.ErrorIs(t, err, ErrEmptyResponse, "a round without id is an empty response")

	remote.getRound = func(context.Context, int, int) (models.RoundPayload, error) {
		return models.RoundPayload{}, errBackendDown
	}
	err = svc.LoadRoundTables(context.Background(), 1, 1)
	assert.True(t, errors.Is(err, ErrRemoteFailure))
}
