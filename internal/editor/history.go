package editor

import "time"

// MaxHistoryDepth 历史记录最大深度,超出时淘汰最旧条目
const MaxHistoryDepth = 50

// HistoryEntry 历史条目,保存区块列表的完整快照
type HistoryEntry struct {
	Sections  []*Section
	Timestamp time.Time
	Action    string
}

// History 线性撤销/重做日志
// 游标之前为可撤销状态,之后为可重做状态;撤销后提交新快照会截断被丢弃的分支。
// replaying 标记阻止撤销/重做自身的状态替换被再次记录,
// 编辑器为单线程事件驱动,该标记不需要额外同步
type History struct {
	entries   []HistoryEntry
	cursor    int
	replaying bool
}

// NewHistory 创建空历史,游标为 -1 表示尚无记录
func NewHistory() *History {
	return &History{cursor: -1}
}

// Push 提交一次快照
// 回放过程中的提交被忽略;正常提交先截断游标之后的条目,
// 再追加深拷贝快照,超出深度上限时淘汰最旧条目并回调游标
func (h *History) Push(sections []*Section, action string) {
	if h.replaying {
		return
	}

	h.entries = h.entries[:h.cursor+1]
	h.entries = append(h.entries, HistoryEntry{
		Sections:  CloneSections(sections),
		Timestamp: time.Now(),
		Action:    action,
	})
	h.cursor++

	if len(h.entries) > MaxHistoryDepth {
		h.entries = h.entries[1:]
		h.cursor--
	}
}

// CanUndo 是否可撤销
func (h *History) CanUndo() bool {
	return h.cursor > 0
}

// CanRedo 是否可重做
func (h *History) CanRedo() bool {
	return h.cursor < len(h.entries)-1
}

// Undo 撤销一步
// 回放标记在 apply 执行期间保持,apply 内部触发的任何 Push 都会被忽略。
// 传给 apply 的快照是深拷贝,接收方可直接接管。不可撤销时不调用 apply
func (h *History) Undo(apply func(sections []*Section)) bool {
	if !h.CanUndo() {
		return false
	}
	h.replaying = true
	defer func() { h.replaying = false }()

	h.cursor--
	apply(CloneSections(h.entries[h.cursor].Sections))
	return true
}

// Redo 重做一步,语义与 Undo 对称
func (h *History) Redo(apply func(sections []*Section)) bool {
	if !h.CanRedo() {
		return false
	}
	h.replaying = true
	defer func() { h.replaying = false }()

	h.cursor++
	apply(CloneSections(h.entries[h.cursor].Sections))
	return true
}

// Reset 切换文档时重置历史
// 日志收缩为单条当前快照,游标归零
func (h *History) Reset(sections []*Section) {
	h.entries = []HistoryEntry{{
		Sections:  CloneSections(sections),
		Timestamp: time.Now(),
		Action:    "load",
	}}
	h.cursor = 0
	h.replaying = false
}

// Depth 当前日志长度
func (h *History) Depth() int {
	return len(h.entries)
}

// Cursor 当前游标位置
func (h *History) Cursor() int {
	return h.cursor
}

// CurrentAction 游标处条目的动作标签,空历史返回空串
func (h *History) CurrentAction() string {
	if h.cursor < 0 || h.cursor >= len(h.entries) {
		return ""
	}
	return h.entries[h.cursor].Action
}
