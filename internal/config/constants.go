// internal/config/constants.go
package config

import "time"

// アプリケーション情報
const (
	AppName    = "course-keep"
	AppVersion = "1.0.0"
)

// デフォルト設定値
const (
	DefaultServerPort     = ":8080"
	DefaultLogLevel       = "info"
	DefaultAccessTokenTTL = 24 * time.Hour
)

// 学習進捗まわりの固定値
const (
	// QuizPassThresholdPercent 以上のスコアでクイズ合格
	QuizPassThresholdPercent = 35
	// DefaultQuizTimeLimitMinutes はtimeLimit未設定(0)のクイズに適用する制限時間
	DefaultQuizTimeLimitMinutes = 5
	// VideoCompletionRatio は動画の何割を視聴したら完了扱いにするか
	VideoCompletionRatio = 0.6
	// VideoCheckpointIntervalSec は視聴位置を保存する間隔（秒）
	VideoCheckpointIntervalSec = 10
	// DefaultVideoDurationSeconds はメタデータから長さを取れない動画のフォールバック
	DefaultVideoDurationSeconds = 300
	// EnrollmentTrendDays は講師ダッシュボードのトレンド集計対象日数
	EnrollmentTrendDays = 7
)
