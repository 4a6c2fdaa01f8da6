// internal/model/content_test.go
package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// テスト用のツリーを組み立てるヘルパー
// root - text1 - video1
//      - quiz1
func buildTestContent(t *testing.T) (*CourseContent, *Module, *Module, *Module) {
	t.Helper()
	c := NewCourseContent()

	text1, err := c.AddModule(ModuleTypeText, "")
	require.NoError(t, err)
	video1, err := c.AddModule(ModuleTypeVideo, text1.ID)
	require.NoError(t, err)
	quiz1, err := c.AddModule(ModuleTypeQuiz, "")
	require.NoError(t, err)

	return c, text1, video1, quiz1
}

func TestNewCourseContent(t *testing.T) {
	c := NewCourseContent()

	assert.Equal(t, ModuleTypeIntro, c.RootModule.Type)
	assert.Equal(t, "Course Introduction", c.RootModule.Title)
	assert.Empty(t, c.RootModule.ParentID)
	assert.Empty(t, c.Modules)
	assert.Equal(t, 1, c.CountModules())
	assert.NoError(t, c.Validate())
}

func TestCourseContent_AddModule(t *testing.T) {
	t.Run("正常系: 各種別のデフォルトペイロードが設定される", func(t *testing.T) {
		c := NewCourseContent()

		text, err := c.AddModule(ModuleTypeText, "")
		require.NoError(t, err)
		assert.Equal(t, "Start writing your content here...", text.Text)
		assert.Equal(t, c.RootModule.ID, text.ParentID)

		video, err := c.AddModule(ModuleTypeVideo, "")
		require.NoError(t, err)
		assert.Equal(t, "https://www.youtube.com/embed/dQw4w9WgXcQ", video.VideoLink)

		quiz, err := c.AddModule(ModuleTypeQuiz, "")
		require.NoError(t, err)
		require.NotNil(t, quiz.QuizData)
		assert.Zero(t, quiz.QuizData.TimeLimit)
		assert.Empty(t, quiz.QuizData.Questions)

		// ルートのchildrenに追加順で並ぶ
		assert.Equal(t, []string{text.ID, video.ID, quiz.ID}, c.RootModule.Children)
		assert.Equal(t, 4, c.CountModules())
	})

	t.Run("異常系: 存在しない親", func(t *testing.T) {
		c := NewCourseContent()
		_, err := c.AddModule(ModuleTypeText, "no-such-id")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("異常系: 不正な種別", func(t *testing.T) {
		c := NewCourseContent()
		_, err := c.AddModule(ModuleType("audio"), "")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestCourseContent_DeleteSubtree(t *testing.T) {
	t.Run("正常系: 子孫ごと削除され親から切り離される", func(t *testing.T) {
		c, text1, video1, quiz1 := buildTestContent(t)

		// 4ノード構成からtext1のサブツリー(text1+video1)を削除
		require.Equal(t, 4, c.CountModules())
		err := c.DeleteSubtree(text1.ID)
		require.NoError(t, err)

		assert.Nil(t, c.Lookup(text1.ID))
		assert.Nil(t, c.Lookup(video1.ID))
		assert.NotNil(t, c.Lookup(quiz1.ID))
		assert.Equal(t, []string{quiz1.ID}, c.RootModule.Children)
		assert.Equal(t, 2, c.CountModules())
		assert.NoError(t, c.Validate())
	})

	t.Run("正常系: 存在しないIDはno-op", func(t *testing.T) {
		c, _, _, _ := buildTestContent(t)
		err := c.DeleteSubtree("no-such-id")
		assert.NoError(t, err)
		assert.Equal(t, 4, c.CountModules())
	})

	t.Run("異常系: ルートは削除できない", func(t *testing.T) {
		c, _, _, _ := buildTestContent(t)
		err := c.DeleteSubtree(c.RootModule.ID)
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Equal(t, 4, c.CountModules())
	})
}

func TestCourseContent_Walk(t *testing.T) {
	c, text1, video1, quiz1 := buildTestContent(t)

	var order []string
	c.Walk(func(m *Module) { order = append(order, m.ID) })

	// pre-order: root -> text1 -> video1 -> quiz1
	assert.Equal(t, []string{c.RootModule.ID, text1.ID, video1.ID, quiz1.ID}, order)
}

func TestCourseContent_Validate(t *testing.T) {
	t.Run("正常系", func(t *testing.T) {
		c, _, _, _ := buildTestContent(t)
		assert.NoError(t, c.Validate())
	})

	t.Run("異常系: childrenが未解決のIDを参照", func(t *testing.T) {
		c, _, _, _ := buildTestContent(t)
		c.RootModule.Children = append(c.RootModule.Children, "dangling")
		assert.ErrorIs(t, c.Validate(), ErrInvalidInput)
	})

	t.Run("異常系: 親子参照の不一致", func(t *testing.T) {
		c, text1, _, _ := buildTestContent(t)
		text1.ParentID = "someone-else"
		assert.ErrorIs(t, c.Validate(), ErrInvalidInput)
	})

	t.Run("異常系: ルートから到達できない孤児", func(t *testing.T) {
		c, _, _, _ := buildTestContent(t)
		orphan := &Module{ID: GenerateModuleID(), ParentID: "nowhere", Type: ModuleTypeText}
		c.Modules[orphan.ID] = orphan
		assert.ErrorIs(t, c.Validate(), ErrInvalidInput)
	})

	t.Run("異常系: 設問に正解が2つある", func(t *testing.T) {
		c, _, _, quiz1 := buildTestContent(t)
		quiz1.QuizData.Questions = []Question{
			{
				ID:   "q1",
				Text: "どれ?",
				Options: []Option{
					{ID: "o1", IsCorrect: true},
					{ID: "o2", IsCorrect: true},
				},
			},
		}
		assert.ErrorIs(t, c.Validate(), ErrInvalidInput)
	})

	t.Run("正常系: 正解が1つの設問は通る", func(t *testing.T) {
		c, _, _, quiz1 := buildTestContent(t)
		quiz1.QuizData.Questions = []Question{
			{
				ID:   "q1",
				Text: "どれ?",
				Options: []Option{
					{ID: "o1", IsCorrect: true},
					{ID: "o2", IsCorrect: false},
				},
			},
		}
		assert.NoError(t, c.Validate())
	})
}

func TestModule_ResetTypePayload(t *testing.T) {
	c, _, _, quiz1 := buildTestContent(t)
	quiz1.QuizData.Questions = []Question{{ID: "q1"}}

	// quiz -> text へ変更すると旧ペイロードは破棄される
	quiz1.ResetTypePayload(ModuleTypeText)
	assert.Equal(t, ModuleTypeText, quiz1.Type)
	assert.Nil(t, quiz1.QuizData)
	assert.Equal(t, "Start writing your content here...", quiz1.Text)
	assert.NoError(t, c.Validate())
}

func TestGenerateModuleID(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := GenerateModuleID()
		assert.NotEmpty(t, id)
		assert.False(t, seen[id], "IDが重複した: %s", id)
		seen[id] = true
	}
}
