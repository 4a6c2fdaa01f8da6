// internal/service/session_test.go
package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"go_5_course_keep/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// patchRecorder は書き込まれた進捗差分を記録するProgressWriterです。
type patchRecorder struct {
	mu      sync.Mutex
	patches []model.ProgressPatch
}

func (r *patchRecorder) writer() ProgressWriter {
	return func(ctx context.Context, moduleID string, patch model.ProgressPatch) error {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.patches = append(r.patches, patch)
		return nil
	}
}

func (r *patchRecorder) all() []model.ProgressPatch {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.ProgressPatch{}, r.patches...)
}

func TestVideoSession_Run(t *testing.T) {
	t.Run("正常系: 末尾まで再生するとチェックポイントと完了が書き込まれる", func(t *testing.T) {
		rec := &patchRecorder{}
		// 20秒の動画。閾値は12秒(60%)
		session := NewVideoSession("m1", 20, rec.writer())
		session.Tick = time.Millisecond

		err := session.Run(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 20, session.WatchedSeconds())
		assert.True(t, session.Completed())

		patches := rec.all()
		require.NotEmpty(t, patches)

		// 10秒時点のチェックポイントは未完了
		first := patches[0]
		require.NotNil(t, first.TimeSpent)
		assert.Equal(t, 10, *first.TimeSpent)
		assert.Nil(t, first.Completed)

		// 12秒(閾値)到達時の書き込みで完了になる
		var completedAt int
		for _, p := range patches {
			if p.Completed != nil && *p.Completed {
				completedAt = *p.TimeSpent
				break
			}
		}
		assert.Equal(t, 12, completedAt)

		// 最後の書き込みは末尾の視聴位置
		last := patches[len(patches)-1]
		assert.Equal(t, 20, *last.TimeSpent)
	})

	t.Run("正常系: キャンセルで中断しても視聴位置は保存される", func(t *testing.T) {
		rec := &patchRecorder{}
		session := NewVideoSession("m1", 300, rec.writer())
		session.Tick = time.Millisecond

		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			// 数ティック進んだあたりで中断
			time.Sleep(20 * time.Millisecond)
			cancel()
		}()

		err := session.Run(ctx)
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, session.Completed())

		patches := rec.all()
		require.NotEmpty(t, patches)
		last := patches[len(patches)-1]
		assert.Equal(t, session.WatchedSeconds(), *last.TimeSpent)
	})
}

func TestQuizSession_Submit(t *testing.T) {
	quiz := &model.QuizData{
		TimeLimit: 1,
		Questions: []model.Question{
			{ID: "q1", Options: []model.Option{{ID: "o1", IsCorrect: true}, {ID: "o2"}}},
			{ID: "q2", Options: []model.Option{{ID: "o3"}, {ID: "o4", IsCorrect: true}}},
		},
	}

	t.Run("正常系: 提出でスコアと進捗が書き込まれる", func(t *testing.T) {
		rec := &patchRecorder{}
		session := NewQuizSession("m1", quiz, rec.writer())
		session.SelectAnswer("q1", "o1")
		session.SelectAnswer("q2", "o3") // 不正解

		score, err := session.Submit(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 50, score)

		patches := rec.all()
		require.Len(t, patches, 1)
		require.NotNil(t, patches[0].QuizScore)
		assert.Equal(t, 50, *patches[0].QuizScore)
		// 50点は合格ライン(35点)以上なので完了
		require.NotNil(t, patches[0].Completed)
		assert.True(t, *patches[0].Completed)
	})

	t.Run("正常系: 2回目の提出は無視される", func(t *testing.T) {
		rec := &patchRecorder{}
		session := NewQuizSession("m1", quiz, rec.writer())
		session.SelectAnswer("q1", "o1")

		first, err := session.Submit(context.Background())
		require.NoError(t, err)

		// 提出後の回答変更も無視される
		session.SelectAnswer("q2", "o4")
		second, err := session.Submit(context.Background())
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Len(t, rec.all(), 1)
	})
}

func TestQuizSession_Run(t *testing.T) {
	quiz := &model.QuizData{
		TimeLimit: 1, // 60ティックで時間切れ
		Questions: []model.Question{
			{ID: "q1", Options: []model.Option{{ID: "o1", IsCorrect: true}, {ID: "o2"}}},
		},
	}

	t.Run("正常系: 時間切れでその時点の回答を自動提出", func(t *testing.T) {
		rec := &patchRecorder{}
		session := NewQuizSession("m1", quiz, rec.writer())
		session.Tick = time.Millisecond
		session.SelectAnswer("q1", "o1")

		err := session.Run(context.Background())
		require.NoError(t, err)

		score, submitted := session.Score()
		assert.True(t, submitted)
		assert.Equal(t, 100, score)

		patches := rec.all()
		require.Len(t, patches, 1)
		// 経過時間は制限時間に到達しているはず
		require.NotNil(t, patches[0].TimeSpent)
		assert.Equal(t, 61, *patches[0].TimeSpent) // 60秒+提出時の1秒
	})

	t.Run("正常系: 先に提出済みならRunはすぐ戻る", func(t *testing.T) {
		rec := &patchRecorder{}
		session := NewQuizSession("m1", quiz, rec.writer())
		session.Tick = time.Millisecond

		_, err := session.Submit(context.Background())
		require.NoError(t, err)

		err = session.Run(context.Background())
		require.NoError(t, err)
		assert.Len(t, rec.all(), 1)
	})
}
