package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OduorSamuuel/codemaster-backend/internal/models"
)

func choiceQuestions(n int) []models.Question {
	questions := make([]models.Question, n)
	for i := range questions {
		questions[i] = models.Question{
			Content: "question",
			Type:    models.QuestionTypeMultipleChoice,
			Choices: []models.Choice{
				{Text: "right", IsCorrect: true},
				{Text: "wrong"},
			},
		}
	}
	return questions
}

func newTestGameService(questions int, revealDelay time.Duration) (*GameService, *recordingHub) {
	rooms := newFakeRoomStore()
	rooms.Create(&models.Room{Code: "ABCD", Name: "test", CreatedBy: "owner", Questions: choiceQuestions(questions)})
	hub := &recordingHub{}
	return NewGameService(rooms, hub, 30, revealDelay), hub
}

func TestTimeRemaining(t *testing.T) {
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		elapsed time.Duration
		want    int
	}{
		{"at question start", 0, 30},
		{"mid question", 12 * time.Second, 18},
		{"sub-second elapsed floors", 900 * time.Millisecond, 30},
		{"last second", 29*time.Second + 999*time.Millisecond, 1},
		{"exactly expired", 30 * time.Second, 0},
		{"long past expiry", 5 * time.Minute, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TimeRemaining(start, start.Add(tt.elapsed), 30))
		})
	}

	// Non-increasing as now advances, never negative.
	prev := 30
	for d := time.Duration(0); d <= 40*time.Second; d += 700 * time.Millisecond {
		got := TimeRemaining(start, start.Add(d), 30)
		assert.LessOrEqual(t, got, prev)
		assert.GreaterOrEqual(t, got, 0)
		prev = got
	}
}

func TestStartGame(t *testing.T) {
	s, hub := newTestGameService(3, time.Second)

	state, err := s.StartGame("ABCD")
	require.NoError(t, err)
	assert.Equal(t, "playing", state.Status)
	assert.Equal(t, 0, state.CurrentQuestion)
	assert.Equal(t, 3, state.TotalQuestions)
	assert.Equal(t, 30, state.TimeLeft)
	assert.Equal(t, state.StartTime, state.QuestionStartTime)

	initial, ok := hub.last("session-state")
	require.True(t, ok)
	assert.Equal(t, "ABCD", initial.RoomCode)
}

func TestStartGameSingleFlight(t *testing.T) {
	s, _ := newTestGameService(3, time.Second)

	_, err := s.StartGame("ABCD")
	require.NoError(t, err)

	_, err = s.StartGame("ABCD")
	assert.ErrorIs(t, err, ErrGameInProgress)
}

func TestStartGameUnknownRoom(t *testing.T) {
	s, _ := newTestGameService(3, time.Second)

	_, err := s.StartGame("NOPE")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestStartGameEmptyRoom(t *testing.T) {
	rooms := newFakeRoomStore()
	rooms.Create(&models.Room{Code: "EMPT", Name: "empty", CreatedBy: "owner"})
	s := NewGameService(rooms, &recordingHub{}, 30, time.Second)

	_, err := s.StartGame("EMPT")
	assert.ErrorIs(t, err, ErrNoQuestions)
}

func TestQuestionTimeUpAdvancesAfterRevealDelay(t *testing.T) {
	s, hub := newTestGameService(3, 20*time.Millisecond)

	_, err := s.StartGame("ABCD")
	require.NoError(t, err)

	require.NoError(t, s.QuestionTimeUp("ABCD"))
	assert.Equal(t, 1, hub.count("reveal"))

	// Duplicate signal while revealing is a no-op.
	require.NoError(t, s.QuestionTimeUp("ABCD"))
	assert.Equal(t, 1, hub.count("reveal"))

	require.Eventually(t, func() bool {
		return hub.count("question-advance") == 1
	}, time.Second, 5*time.Millisecond)

	advance, ok := hub.last("question-advance")
	require.True(t, ok)
	payload := advance.Data.(map[string]interface{})
	assert.Equal(t, 1, payload["question_index"])

	state, err := s.Snapshot("ABCD")
	require.NoError(t, err)
	assert.Equal(t, 1, state.CurrentQuestion)
	assert.GreaterOrEqual(t, payload["question_start_time"].(int64), state.StartTime)
}

func TestQuestionTimeUpWithoutSession(t *testing.T) {
	s, _ := newTestGameService(3, time.Second)

	assert.ErrorIs(t, s.QuestionTimeUp("ABCD"), ErrNoActiveSession)
}

func TestFullGameRunsToGameOver(t *testing.T) {
	s, hub := newTestGameService(3, 10*time.Millisecond)

	_, err := s.StartGame("ABCD")
	require.NoError(t, err)

	for q := 0; q < 3; q++ {
		require.NoError(t, s.QuestionTimeUp("ABCD"))
		expectedAdvances := q + 1
		if q == 2 {
			require.Eventually(t, func() bool {
				return hub.count("game-over") == 1
			}, time.Second, 5*time.Millisecond)
		} else {
			require.Eventually(t, func() bool {
				return hub.count("question-advance") == expectedAdvances
			}, time.Second, 5*time.Millisecond)
		}
	}

	// Session is gone: resync fails and the code is free for a new game.
	_, err = s.Snapshot("ABCD")
	assert.ErrorIs(t, err, ErrNoActiveSession)

	_, err = s.StartGame("ABCD")
	assert.NoError(t, err)
}

func TestLateJoinReceivesSynchronizedSnapshot(t *testing.T) {
	s, _ := newTestGameService(3, time.Second)

	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s.nowFn = func() time.Time { return t0 }

	_, err := s.StartGame("ABCD")
	require.NoError(t, err)

	// A connection joins 10s into the first question.
	s.nowFn = func() time.Time { return t0.Add(10 * time.Second) }
	state, live := s.HandleConnect("ABCD", "conn-1")
	require.True(t, live)

	assert.Equal(t, 0, state.CurrentQuestion)
	assert.Equal(t, 20, state.TimeLeft)
	assert.Less(t, state.TimeLeft, 30)
	assert.Equal(t, t0.UnixMilli(), state.QuestionStartTime)
	assert.Equal(t, t0.Add(10*time.Second).UnixMilli(), state.ServerTime)
}

func TestConnectionBookkeeping(t *testing.T) {
	s, _ := newTestGameService(3, time.Second)

	_, err := s.StartGame("ABCD")
	require.NoError(t, err)

	_, live := s.HandleConnect("ABCD", "conn-1")
	require.True(t, live)
	_, live = s.HandleConnect("ABCD", "conn-2")
	require.True(t, live)

	s.mu.Lock()
	assert.Len(t, s.sessions["ABCD"].Connected, 2)
	s.mu.Unlock()

	s.HandleDisconnect("ABCD", "conn-1")
	s.HandleDisconnect("ABCD", "conn-1") // duplicate disconnect is harmless

	s.mu.Lock()
	assert.Len(t, s.sessions["ABCD"].Connected, 1)
	s.mu.Unlock()

	// No session: connect reports not live.
	_, live = s.HandleConnect("NOPE", "conn-3")
	assert.False(t, live)
}

func TestExpireIdleSessions(t *testing.T) {
	s, hub := newTestGameService(3, time.Second)

	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s.nowFn = func() time.Time { return t0 }

	_, err := s.StartGame("ABCD")
	require.NoError(t, err)

	// Not idle yet.
	s.nowFn = func() time.Time { return t0.Add(5 * time.Minute) }
	assert.Empty(t, s.ExpireIdleSessions(10*time.Minute))

	s.nowFn = func() time.Time { return t0.Add(11 * time.Minute) }
	expired := s.ExpireIdleSessions(10 * time.Minute)
	assert.Equal(t, []string{"ABCD"}, expired)
	assert.Equal(t, 1, hub.count("game-over"))

	_, err = s.Snapshot("ABCD")
	assert.ErrorIs(t, err, ErrNoActiveSession)
}
