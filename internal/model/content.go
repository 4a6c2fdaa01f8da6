// internal/model/content.go
package model

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"
)

// ModuleType はコースモジュールの種別
type ModuleType string

const (
	ModuleTypeIntro ModuleType = "intro"
	ModuleTypeText  ModuleType = "text"
	ModuleTypeVideo ModuleType = "video"
	ModuleTypeQuiz  ModuleType = "quiz"
)

func (t ModuleType) Valid() bool {
	switch t {
	case ModuleTypeIntro, ModuleTypeText, ModuleTypeVideo, ModuleTypeQuiz:
		return true
	}
	return false
}

// 新規モジュールのプレースホルダ（エディタ由来の初期値）
const (
	placeholderText      = "Start writing your content here..."
	placeholderVideoLink = "https://www.youtube.com/embed/dQw4w9WgXcQ"
)

// Option はクイズ設問の選択肢
type Option struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// Question はクイズの設問（選択肢は順序を保持）
type Question struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Options []Option `json:"options"`
}

// QuizData はクイズモジュールの型固有ペイロード
type QuizData struct {
	TimeLimit int        `json:"timeLimit"` // 分単位。0なら既定値を適用
	Questions []Question `json:"questions"`
}

// Module はコースコンテンツツリーのノードです。
// 親子関係はIDによる参照のみで表現し、オブジェクトの相互参照は持ちません。
type Module struct {
	ID          string     `json:"id"`
	ParentID    string     `json:"parentId"` // ルートは空文字
	Type        ModuleType `json:"type"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Text        string     `json:"text,omitempty"`
	VideoLink   string     `json:"videoLink,omitempty"`
	QuizData    *QuizData  `json:"quizData,omitempty"`
	Children    []string   `json:"children"` // 子モジュールID（順序あり）
}

// ResetTypePayload は種別変更時に型固有フィールドを新種別の初期値に戻します。
// エディタ上で種別を切り替えると元のペイロードは破棄される仕様。
func (m *Module) ResetTypePayload(t ModuleType) {
	m.Type = t
	m.Text = ""
	m.VideoLink = ""
	m.QuizData = nil
	applyTypeDefaults(m)
}

func applyTypeDefaults(m *Module) {
	switch m.Type {
	case ModuleTypeText:
		m.Text = placeholderText
	case ModuleTypeVideo:
		m.VideoLink = placeholderVideoLink
	case ModuleTypeQuiz:
		m.QuizData = &QuizData{TimeLimit: 0, Questions: []Question{}}
	}
}

// GenerateModuleID はモジュールIDを生成します。
// エディタの採番方式（エポックミリ秒+ランダムサフィックス）を踏襲した不透明な文字列。
func GenerateModuleID() string {
	suffix := make([]byte, 5)
	_, _ = rand.Read(suffix)
	return strconv.FormatInt(time.Now().UnixMilli(), 10) + hex.EncodeToString(suffix)
}

// CourseContent はコース1件分のコンテンツツリーです。
// ルートモジュール + 非ルート全モジュールのフラットマップの二重表現を持ち、
// ツリー走査を介さないO(1)のID検索を可能にします。両表現の整合は Validate で検査します。
type CourseContent struct {
	RootModule Module             `json:"rootModule"`
	Modules    map[string]*Module `json:"modules"`
}

// NewCourseContent はintroルートのみを持つ空のコンテンツを作ります。
func NewCourseContent() *CourseContent {
	root := Module{
		ID:       GenerateModuleID(),
		ParentID: "",
		Type:     ModuleTypeIntro,
		Title:    "Course Introduction",
		Children: []string{},
	}
	return &CourseContent{
		RootModule: root,
		Modules:    map[string]*Module{},
	}
}

// Lookup はIDからモジュールを引きます。ルートIDはルートに解決されます。
// 見つからなければnil。
func (c *CourseContent) Lookup(id string) *Module {
	if id == c.RootModule.ID {
		return &c.RootModule
	}
	return c.Modules[id]
}

// AddModule は指定種別の新規モジュールを生成し、親のchildrenリスト末尾へ追加します。
// parentIDが空の場合はルート直下に追加します。
func (c *CourseContent) AddModule(t ModuleType, parentID string) (*Module, error) {
	if !t.Valid() {
		return nil, NewAppError("INVALID_MODULE_TYPE", "モジュール種別が不正です。", "type", ErrInvalidInput)
	}
	if parentID == "" {
		parentID = c.RootModule.ID
	}
	parent := c.Lookup(parentID)
	if parent == nil {
		return nil, NewAppError("PARENT_MODULE_NOT_FOUND", "親モジュールが見つかりません。", "parentId", ErrNotFound)
	}

	m := &Module{
		ID:       GenerateModuleID(),
		ParentID: parentID,
		Type:     t,
		Title:    defaultTitle(t),
		Children: []string{},
	}
	applyTypeDefaults(m)

	if c.Modules == nil {
		c.Modules = map[string]*Module{}
	}
	c.Modules[m.ID] = m
	parent.Children = append(parent.Children, m.ID)
	return m, nil
}

func defaultTitle(t ModuleType) string {
	if t == ModuleTypeIntro {
		return "Course Introduction"
	}
	// "New Text Module" のようにエディタと同じ命名にする
	return fmt.Sprintf("New %s%s Module", string(t[0]-('a'-'A')), string(t[1:]))
}

// DeleteSubtree はモジュールとその子孫をすべて削除し、親のchildrenから切り離します。
// 存在しないIDは何もしません（no-op）。ルートの削除はエラーで拒否します。
func (c *CourseContent) DeleteSubtree(id string) error {
	if id == c.RootModule.ID {
		return NewAppError("ROOT_MODULE_UNDELETABLE", "ルートモジュールは削除できません。", "id", ErrInvalidInput)
	}
	target, ok := c.Modules[id]
	if !ok {
		return nil
	}

	// 子孫IDを収集して一括削除
	toDelete := []string{id}
	stack := append([]string{}, target.Children...)
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		toDelete = append(toDelete, cur)
		if child, ok := c.Modules[cur]; ok {
			stack = append(stack, child.Children...)
		}
	}
	for _, d := range toDelete {
		delete(c.Modules, d)
	}

	// 親のchildrenリストから切り離す
	if parent := c.Lookup(target.ParentID); parent != nil {
		kept := parent.Children[:0]
		for _, childID := range parent.Children {
			if childID != id {
				kept = append(kept, childID)
			}
		}
		parent.Children = kept
	}
	return nil
}

// Walk はルートを起点にpre-order（行きがけ順）でツリーを走査します。
// childrenリストの順序を尊重するため、目次生成などの列挙順がここで決まります。
func (c *CourseContent) Walk(fn func(*Module)) {
	c.walk(&c.RootModule, fn)
}

func (c *CourseContent) walk(m *Module, fn func(*Module)) {
	fn(m)
	for _, childID := range m.Children {
		if child, ok := c.Modules[childID]; ok {
			c.walk(child, fn)
		}
	}
}

// CountModules はルートから到達可能なモジュール数を返します。
func (c *CourseContent) CountModules() int {
	count := 0
	c.Walk(func(*Module) { count++ })
	return count
}

// Validate はツリーの不変条件を検査します。
//   - ルートのparentIdは空
//   - childrenの参照先がすべてフラットマップに存在する
//   - 非ルートモジュールはちょうど1つの親からルート経由で到達できる（閉路・孤児なし）
//   - クイズ設問は正解フラグ付き選択肢が高々1つ
func (c *CourseContent) Validate() error {
	if c.RootModule.ID == "" {
		return NewAppError("INVALID_COURSE_CONTENT", "ルートモジュールがありません。", "rootModule", ErrInvalidInput)
	}
	if c.RootModule.ParentID != "" {
		return NewAppError("INVALID_COURSE_CONTENT", "ルートモジュールに親は設定できません。", "rootModule", ErrInvalidInput)
	}

	visited := map[string]bool{}
	var verify func(m *Module) error
	verify = func(m *Module) error {
		if visited[m.ID] {
			return NewAppError("INVALID_COURSE_CONTENT", "モジュールツリーに閉路または重複参照があります。", "modules", ErrInvalidInput)
		}
		visited[m.ID] = true
		if err := validateQuizPayload(m); err != nil {
			return err
		}
		for _, childID := range m.Children {
			child, ok := c.Modules[childID]
			if !ok {
				return NewAppError("INVALID_COURSE_CONTENT", "childrenが存在しないモジュールを参照しています。", "children", ErrInvalidInput)
			}
			if child.ParentID != m.ID {
				return NewAppError("INVALID_COURSE_CONTENT", "親子参照が一致していません。", "parentId", ErrInvalidInput)
			}
			if err := verify(child); err != nil {
				return err
			}
		}
		return nil
	}
	if err := verify(&c.RootModule); err != nil {
		return err
	}

	// ルートから到達できない孤児が残っていないか
	if len(visited) != len(c.Modules)+1 {
		return NewAppError("INVALID_COURSE_CONTENT", "ルートから到達できないモジュールがあります。", "modules", ErrInvalidInput)
	}
	return nil
}

// validateQuizPayload は設問ごとの正解フラグを高々1つに制限します。
// 採点ロジック自体は複数正解フラグが混入した過去データも先頭一致で許容しますが、
// 書き込み時はここで弾きます。
func validateQuizPayload(m *Module) error {
	if m.Type != ModuleTypeQuiz || m.QuizData == nil {
		return nil
	}
	if m.QuizData.TimeLimit < 0 {
		return NewAppError("INVALID_QUIZ_DATA", "制限時間は0以上で指定してください。", "timeLimit", ErrInvalidInput)
	}
	for _, q := range m.QuizData.Questions {
		correct := 0
		for _, o := range q.Options {
			if o.IsCorrect {
				correct++
			}
		}
		if correct > 1 {
			return NewAppError("INVALID_QUIZ_DATA", "正解の選択肢は設問ごとに1つまでです。", "questions", ErrInvalidInput)
		}
	}
	return nil
}
