// internal/service/completion.go
package service

import (
	"math"

	"go_5_course_keep/internal/config"
	"go_5_course_keep/internal/model"
)

// モジュール種別ごとの完了判定ルール。
// ここは純粋な計算だけを行い、進捗の永続化はEnrollmentService側が担います。

// TextConfirmationPatch はテキスト・イントロモジュールの「読了」操作に対応する差分です。
// 完了は本人の明示操作のみで、閲覧時間では自動完了しません。
func TextConfirmationPatch(timeSpentSec int) model.ProgressPatch {
	completed := true
	return model.ProgressPatch{
		Completed: &completed,
		TimeSpent: &timeSpentSec,
	}
}

// VideoThreshold は動画の完了とみなす視聴秒数を返します（端数切り捨て）。
func VideoThreshold(durationSec int) int {
	if durationSec <= 0 {
		durationSec = config.DefaultVideoDurationSeconds
	}
	return int(float64(durationSec) * config.VideoCompletionRatio)
}

// VideoPatch は視聴位置から動画モジュールの進捗差分を作ります。
// 閾値到達で完了。一度完了した後に閾値未満の位置が来ても未完了には戻しません
// (completed=falseを送らずフィールド自体を省略する)。
func VideoPatch(watchedSec, durationSec int) model.ProgressPatch {
	patch := model.ProgressPatch{TimeSpent: &watchedSec}
	if watchedSec >= VideoThreshold(durationSec) {
		completed := true
		patch.Completed = &completed
	}
	return patch
}

// QuizScore は正答数から0〜100のスコアを計算します。設問0件は0点です。
func QuizScore(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}

// IsQuizPassed は合格ライン以上かどうかを判定します。
func IsQuizPassed(score int) bool {
	return score >= config.QuizPassThresholdPercent
}

// GradeQuiz は回答マップ(設問ID→選択肢ID)を採点し、スコアを返します。
// 正解は各設問で最初にisCorrectが立っている選択肢です。未回答は不正解扱い。
func GradeQuiz(quiz *model.QuizData, answers map[string]string) int {
	if quiz == nil || len(quiz.Questions) == 0 {
		return 0
	}
	correct := 0
	for _, q := range quiz.Questions {
		correctID := ""
		for _, o := range q.Options {
			if o.IsCorrect {
				correctID = o.ID
				break
			}
		}
		if correctID != "" && answers[q.ID] == correctID {
			correct++
		}
	}
	return QuizScore(correct, len(quiz.Questions))
}

// QuizPatch はクイズ提出時の進捗差分を作ります。
// スコアは合否に関わらず常に記録し、completedは合格時のみtrueになります。
// timeSpentは提出処理の計上として1秒加算した値を書き込みます。
func QuizPatch(score, timeSpentSec int) model.ProgressPatch {
	patch := model.ProgressPatch{
		QuizScore: &score,
	}
	spent := timeSpentSec + 1
	patch.TimeSpent = &spent
	if IsQuizPassed(score) {
		completed := true
		patch.Completed = &completed
	}
	return patch
}

// QuizTimeLimitSeconds はクイズの制限時間を秒で返します。timeLimit=0は既定値。
func QuizTimeLimitSeconds(quiz *model.QuizData) int {
	minutes := config.DefaultQuizTimeLimitMinutes
	if quiz != nil && quiz.TimeLimit > 0 {
		minutes = quiz.TimeLimit
	}
	return minutes * 60
}
