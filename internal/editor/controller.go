package editor

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/keeslam/CarRentalManager-sub003/internal/utils"
)

// PasteOffset 粘贴时相对原区块的位移
const PasteOffset = 20.0

// NudgeStep 方向键微移步长,按住 shift 时为 NudgeStepLarge
const (
	NudgeStep      = 1.0
	NudgeStepLarge = 10.0
)

// GestureState 手势状态
type GestureState int

const (
	StateIdle GestureState = iota
	StateDragging
	StateResizing
)

// Store 编辑器对外部持久化的窄接口
// 手势结束提交历史后通过这里保存草稿;保存失败不回滚本地修改,
// 由调用方向用户报告错误后重试
type Store interface {
	SaveTemplate(ctx context.Context, doc *Document) error
}

// Controller 编辑器控制器
// 把指针/键盘事件接到布局引擎与历史管理器上。
// 单线程事件驱动:事件处理函数跑完才处理下一个事件,无并发修改源
type Controller struct {
	doc       *Document
	history   *History
	store     Store
	clipboard *Section

	state        GestureState
	activeID     string
	dragOffset   Point
	resizeHandle string
	origBounds   Bounds

	// 多选集合与锚点选择
	selected       map[string]bool
	selectedAnchor string

	SnapToGrid  bool
	SnapToEdges bool
}

// NewController 创建控制器并以文档当前区块初始化历史
func NewController(doc *Document, store Store) *Controller {
	h := NewHistory()
	h.Reset(doc.Sections)
	return &Controller{
		doc:         doc,
		history:     h,
		store:       store,
		state:       StateIdle,
		selected:    make(map[string]bool),
		SnapToGrid:  true,
		SnapToEdges: true,
	}
}

// Document 当前工作文档
func (c *Controller) Document() *Document {
	return c.doc
}

// History 历史管理器
func (c *Controller) History() *History {
	return c.history
}

// State 当前手势状态
func (c *Controller) State() GestureState {
	return c.state
}

// SwitchDocument 切换工作文档,重置历史与选择
func (c *Controller) SwitchDocument(doc *Document) {
	c.doc = doc
	c.history.Reset(doc.Sections)
	c.state = StateIdle
	c.activeID = ""
	c.selected = make(map[string]bool)
	c.selectedAnchor = ""
}

// Select 单选区块,清空既有多选
func (c *Controller) Select(id string) {
	c.selected = map[string]bool{id: true}
	c.selectedAnchor = id
}

// ToggleSelect shift-点选
// 切换区块在选择集中的成员关系;集合原本为空时该区块同时成为锚点
func (c *Controller) ToggleSelect(id string) {
	if len(c.selected) == 0 {
		c.selectedAnchor = id
	}
	if c.selected[id] {
		delete(c.selected, id)
	} else {
		c.selected[id] = true
	}
}

// SelectedIDs 返回当前选择集
func (c *Controller) SelectedIDs() []string {
	out := make([]string, 0, len(c.selected))
	for id := range c.selected {
		out = append(out, id)
	}
	return out
}

// SelectedAnchor 返回锚点选择
func (c *Controller) SelectedAnchor() string {
	return c.selectedAnchor
}

// BeginDrag 指针按下,进入拖拽状态
// 锁定或隐藏的区块不可拖拽;记录抓取偏移供后续移动使用
func (c *Controller) BeginDrag(id string, pointerX, pointerY float64) error {
	s := c.doc.FindSection(id)
	if s == nil {
		return fmt.Errorf("%w: %s", utils.ErrSectionNotFound, id)
	}
	if s.Locked {
		return utils.ErrSectionLocked
	}
	if !s.Visible {
		return utils.ErrSectionHidden
	}

	c.state = StateDragging
	c.activeID = id
	c.dragOffset = Point{X: pointerX - s.X, Y: pointerY - s.Y}
	return nil
}

// BeginResize 指针按下缩放把手,进入缩放状态
func (c *Controller) BeginResize(id, handle string, pointerX, pointerY float64) error {
	s := c.doc.FindSection(id)
	if s == nil {
		return fmt.Errorf("%w: %s", utils.ErrSectionNotFound, id)
	}
	if s.Locked {
		return utils.ErrSectionLocked
	}
	if !s.Visible {
		return utils.ErrSectionHidden
	}

	c.state = StateResizing
	c.activeID = id
	c.resizeHandle = handle
	c.origBounds = Bounds{X: s.X, Y: s.Y, Width: s.Width, Height: s.Height}
	return nil
}

// PointerMove 指针移动
// 拖拽/缩放中经布局引擎算出新几何并应用到工作文档,此时不提交历史
func (c *Controller) PointerMove(pointerX, pointerY float64) {
	s := c.doc.FindSection(c.activeID)
	if s == nil {
		return
	}

	switch c.state {
	case StateDragging:
		p := ComputeDragPosition(c.doc, s, pointerX, pointerY, c.dragOffset, DragOptions{
			SnapToGrid:  c.SnapToGrid,
			SnapToEdges: c.SnapToEdges,
		})
		s.X, s.Y = p.X, p.Y
	case StateResizing:
		b := ComputeResize(c.doc, c.resizeHandle, pointerX, pointerY, c.origBounds)
		s.X, s.Y, s.Width, s.Height = b.X, b.Y, b.Width, b.Height
	}
}

// EndGesture 指针抬起或离开画布
// 一次手势提交一条历史,随后异步持久化;保存失败由调用方处理,草稿保留
func (c *Controller) EndGesture(ctx context.Context) error {
	if c.state == StateIdle {
		return nil
	}

	label := "move section"
	if c.state == StateResizing {
		label = "resize section"
	}
	c.history.Push(c.doc.Sections, label)

	c.state = StateIdle
	c.activeID = ""
	c.resizeHandle = ""

	if c.store != nil {
		if err := c.store.SaveTemplate(ctx, c.doc); err != nil {
			return fmt.Errorf("save template: %w", err)
		}
	}
	return nil
}

// Nudge 方向键微移
// 步长 1,shift 时 10;与拖拽同样收拢到页面范围。每次微移即一次手势
func (c *Controller) Nudge(id string, dx, dy float64, shift bool) error {
	s := c.doc.FindSection(id)
	if s == nil {
		return fmt.Errorf("%w: %s", utils.ErrSectionNotFound, id)
	}
	if s.Locked {
		return utils.ErrSectionLocked
	}

	step := NudgeStep
	if shift {
		step = NudgeStepLarge
	}
	p := clampPosition(c.doc, Point{X: s.X + dx*step, Y: s.Y + dy*step}, s.Width, s.Height)
	s.X, s.Y = p.X, p.Y

	c.history.Push(c.doc.Sections, "nudge section")
	return nil
}

// Align 对选中区块做对齐/分布,成功时提交历史
func (c *Controller) Align(mode AlignMode) error {
	if err := AlignSections(c.doc, c.SelectedIDs(), mode); err != nil {
		return err
	}
	c.history.Push(c.doc.Sections, "align "+string(mode))
	return nil
}

// Copy 复制区块到剪贴板
// 剪贴板最多保留一个区块的深拷贝,独立于文档存在
func (c *Controller) Copy(id string) error {
	s := c.doc.FindSection(id)
	if s == nil {
		return fmt.Errorf("%w: %s", utils.ErrSectionNotFound, id)
	}
	c.clipboard = s.Clone()
	return nil
}

// Paste 粘贴剪贴板区块
// 生成新 ID,位置偏移 (20,20) 后收拢到页内,追加到文档末尾
func (c *Controller) Paste() (*Section, error) {
	if c.clipboard == nil {
		return nil, utils.ErrEmptyClipboard
	}

	pasted := c.clipboard.Clone()
	pasted.ID = uuid.New().String()
	p := clampPosition(c.doc, Point{X: pasted.X + PasteOffset, Y: pasted.Y + PasteOffset}, pasted.Width, pasted.Height)
	pasted.X, pasted.Y = p.X, p.Y

	c.doc.AddSection(pasted)
	c.history.Push(c.doc.Sections, "paste section")
	return pasted, nil
}

// AddSection 新增用户自建区块并提交历史
func (c *Controller) AddSection(t SectionType, x, y, width, height float64) (*Section, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: unknown section type %q", utils.ErrInvalidDocument, t)
	}
	s := NewSection(t, x, y, width, height)
	p := clampPosition(c.doc, Point{X: x, Y: y}, width, height)
	s.X, s.Y = p.X, p.Y

	c.doc.AddSection(s)
	c.history.Push(c.doc.Sections, "add section")
	return s, nil
}

// DeleteSection 删除区块
// 仅用户自建类型可删;结构区块返回校验错误,调用方提示改用隐藏
func (c *Controller) DeleteSection(id string) error {
	if err := c.doc.RemoveSection(id); err != nil {
		return err
	}
	delete(c.selected, id)
	if c.selectedAnchor == id {
		c.selectedAnchor = ""
	}
	c.history.Push(c.doc.Sections, "delete section")
	return nil
}

// ToggleVisible 切换区块显示,隐藏是结构区块唯一的"移除"途径
func (c *Controller) ToggleVisible(id string) error {
	s := c.doc.FindSection(id)
	if s == nil {
		return fmt.Errorf("%w: %s", utils.ErrSectionNotFound, id)
	}
	s.Visible = !s.Visible
	c.history.Push(c.doc.Sections, "toggle visibility")
	return nil
}

// Undo 撤销,快照替换工作文档的区块列表
func (c *Controller) Undo() bool {
	return c.history.Undo(func(sections []*Section) {
		c.doc.Sections = sections
	})
}

// Redo 重做
func (c *Controller) Redo() bool {
	return c.history.Redo(func(sections []*Section) {
		c.doc.Sections = sections
	})
}

// Save 显式保存（快捷键 ctrl/cmd+S）
func (c *Controller) Save(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	return c.store.SaveTemplate(ctx, c.doc)
}

// AddPage 加页,已有区块不受影响
func (c *Controller) AddPage() {
	c.doc.AddPage()
	c.history.Push(c.doc.Sections, "add page")
}

// RemovePage 删页
// 该页区块被移除,后续页的区块页码前移;成功时提交历史
func (c *Controller) RemovePage(page int) error {
	if err := c.doc.RemovePage(page); err != nil {
		return err
	}
	c.history.Push(c.doc.Sections, "remove page")
	return nil
}
