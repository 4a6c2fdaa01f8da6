// internal/service/session.go
package service

import (
	"context"
	"sync"
	"time"

	"go_5_course_keep/internal/config"
	"go_5_course_keep/internal/model"
)

// ProgressWriter は再生セッションから進捗差分を書き込むためのコールバックです。
// 通常はEnrollmentService.UpdateProgressを束縛して渡します。
type ProgressWriter func(ctx context.Context, moduleID string, patch model.ProgressPatch) error

// VideoSession は動画モジュールの疑似再生セッションです。
// 1ティック=1秒として視聴位置を進め、一定間隔でチェックポイントを保存し、
// 閾値に到達した時点で完了差分を書き込みます。
type VideoSession struct {
	ModuleID    string
	DurationSec int
	Tick        time.Duration // テストではミリ秒などに短縮して注入する
	writer      ProgressWriter

	mu         sync.Mutex
	watchedSec int
	completed  bool
}

func NewVideoSession(moduleID string, durationSec int, writer ProgressWriter) *VideoSession {
	if durationSec <= 0 {
		durationSec = config.DefaultVideoDurationSeconds
	}
	return &VideoSession{
		ModuleID:    moduleID,
		DurationSec: durationSec,
		Tick:        time.Second,
		writer:      writer,
	}
}

// WatchedSeconds は現在の視聴位置を返します。
func (s *VideoSession) WatchedSeconds() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.watchedSec
}

// Completed は閾値到達済みかどうかを返します。
func (s *VideoSession) Completed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completed
}

// Run は動画の末尾まで再生をシミュレートします。コンテキストのキャンセルで中断でき、
// 中断時はその時点の視聴位置を保存してから戻ります。
func (s *VideoSession) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.Tick)
	defer ticker.Stop()

	threshold := VideoThreshold(s.DurationSec)

	for {
		select {
		case <-ctx.Done():
			// 中断時も視聴位置は失わない
			if err := s.flush(ctx); err != nil {
				return err
			}
			return ctx.Err()
		case <-ticker.C:
			s.mu.Lock()
			s.watchedSec++
			watched := s.watchedSec
			justCompleted := !s.completed && watched >= threshold
			if justCompleted {
				s.completed = true
			}
			s.mu.Unlock()

			if justCompleted {
				if err := s.writer(ctx, s.ModuleID, VideoPatch(watched, s.DurationSec)); err != nil {
					return err
				}
			} else if watched%config.VideoCheckpointIntervalSec == 0 {
				if err := s.writer(ctx, s.ModuleID, VideoPatch(watched, s.DurationSec)); err != nil {
					return err
				}
			}

			if watched >= s.DurationSec {
				return s.flush(ctx)
			}
		}
	}
}

func (s *VideoSession) flush(ctx context.Context) error {
	s.mu.Lock()
	watched := s.watchedSec
	s.mu.Unlock()
	if watched == 0 {
		return nil
	}
	// キャンセル済みコンテキストでも書き込めるよう切り離す
	return s.writer(context.WithoutCancel(ctx), s.ModuleID, VideoPatch(watched, s.DurationSec))
}

// QuizSession はクイズモジュールの受験セッションです。
// 制限時間のカウントダウンを持ち、時間切れでその時点の回答を自動提出します。
// 提出は1回だけ有効です。
type QuizSession struct {
	ModuleID string
	Quiz     *model.QuizData
	Tick     time.Duration // 1ティック=1秒。テストでは短縮して注入する
	writer   ProgressWriter

	mu        sync.Mutex
	answers   map[string]string
	elapsed   int
	submitted bool
	score     int
}

func NewQuizSession(moduleID string, quiz *model.QuizData, writer ProgressWriter) *QuizSession {
	return &QuizSession{
		ModuleID: moduleID,
		Quiz:     quiz,
		Tick:     time.Second,
		writer:   writer,
		answers:  map[string]string{},
	}
}

// SelectAnswer は設問への回答を記録します。提出後は無視されます。
func (s *QuizSession) SelectAnswer(questionID, optionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitted {
		return
	}
	s.answers[questionID] = optionID
}

// Submit は回答を採点して進捗を書き込みます。2回目以降の呼び出しは何もしません。
func (s *QuizSession) Submit(ctx context.Context) (int, error) {
	s.mu.Lock()
	if s.submitted {
		score := s.score
		s.mu.Unlock()
		return score, nil
	}
	s.submitted = true
	score := GradeQuiz(s.Quiz, s.answers)
	s.score = score
	elapsed := s.elapsed
	s.mu.Unlock()

	if err := s.writer(ctx, s.ModuleID, QuizPatch(score, elapsed)); err != nil {
		return 0, err
	}
	return score, nil
}

// Score は提出済みスコアを返します。未提出ならfalse。
func (s *QuizSession) Score() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score, s.submitted
}

// Run は制限時間まで経過時間を刻み、時間切れで自動提出します。
// 先にSubmitが呼ばれていた場合はそこで終了します。
func (s *QuizSession) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.Tick)
	defer ticker.Stop()

	limit := QuizTimeLimitSeconds(s.Quiz)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.mu.Lock()
			if s.submitted {
				s.mu.Unlock()
				return nil
			}
			s.elapsed++
			timedOut := s.elapsed >= limit
			s.mu.Unlock()

			if timedOut {
				// 時間切れはその時点の回答で自動提出
				_, err := s.Submit(context.WithoutCancel(ctx))
				return err
			}
		}
	}
}
