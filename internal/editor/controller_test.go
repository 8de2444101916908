package editor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keeslam/CarRentalManager-sub003/internal/utils"
)

// recordingStore 记录保存调用的 Store 测试替身
type recordingStore struct {
	saves int
	err   error
	last  *Document
}

func (r *recordingStore) SaveTemplate(_ context.Context, doc *Document) error {
	r.saves++
	r.last = doc
	return r.err
}

func newTestController() (*Controller, *recordingStore) {
	store := &recordingStore{}
	doc := NewDocument("t")
	return NewController(doc, store), store
}

func TestControllerDragGesture(t *testing.T) {
	c, store := newTestController()
	info := c.Document().Sections[1] // contractInfo, 270x120

	// 关闭吸附便于断言精确坐标
	c.SnapToGrid = false
	c.SnapToEdges = false

	require.NoError(t, c.BeginDrag(info.ID, info.X+5, info.Y+5))
	assert.Equal(t, StateDragging, c.State())

	c.PointerMove(105, 205)
	assert.Equal(t, 100.0, info.X)
	assert.Equal(t, 200.0, info.Y)

	require.NoError(t, c.EndGesture(context.Background()))
	assert.Equal(t, StateIdle, c.State())
	assert.Equal(t, 1, store.saves, "gesture end persists the draft")
	assert.True(t, c.History().CanUndo(), "one gesture, one history entry")
}

func TestControllerDragLockedHidden(t *testing.T) {
	c, _ := newTestController()
	s := c.Document().Sections[0]

	s.Locked = true
	assert.ErrorIs(t, c.BeginDrag(s.ID, 0, 0), utils.ErrSectionLocked)

	s.Locked = false
	s.Visible = false
	assert.ErrorIs(t, c.BeginDrag(s.ID, 0, 0), utils.ErrSectionHidden)
	assert.ErrorIs(t, c.BeginResize(s.ID, "se", 0, 0), utils.ErrSectionHidden)

	assert.ErrorIs(t, c.BeginDrag("missing", 0, 0), utils.ErrSectionNotFound)
	assert.Equal(t, StateIdle, c.State())
}

func TestControllerResizeGesture(t *testing.T) {
	c, _ := newTestController()
	s := c.Document().Sections[1] // contractInfo 20,90 270x120
	c.SnapToGrid = false
	c.SnapToEdges = false

	require.NoError(t, c.BeginResize(s.ID, "se", 0, 0))
	c.PointerMove(320, 260)
	assert.Equal(t, 300.0, s.Width)
	assert.Equal(t, 170.0, s.Height)
	require.NoError(t, c.EndGesture(context.Background()))
}

func TestControllerEndGestureIdleNoop(t *testing.T) {
	c, store := newTestController()
	require.NoError(t, c.EndGesture(context.Background()))
	assert.Zero(t, store.saves)
	assert.False(t, c.History().CanUndo())
}

func TestControllerSaveFailureKeepsDraft(t *testing.T) {
	c, store := newTestController()
	store.err = errors.New("disk full")
	info := c.Document().Sections[1]

	c.SnapToGrid = false
	c.SnapToEdges = false
	require.NoError(t, c.BeginDrag(info.ID, info.X, info.Y))
	c.PointerMove(100, 200)
	err := c.EndGesture(context.Background())

	assert.Error(t, err)
	assert.Equal(t, 100.0, info.X, "local modification survives save failure")
	assert.True(t, c.History().CanUndo(), "history entry committed before save")
}

func TestControllerUndoRedoRoundTrip(t *testing.T) {
	c, _ := newTestController()
	info := c.Document().Sections[1]
	origX := info.X

	c.SnapToGrid = false
	c.SnapToEdges = false
	require.NoError(t, c.BeginDrag(info.ID, info.X, info.Y))
	c.PointerMove(120, 40)
	require.NoError(t, c.EndGesture(context.Background()))

	require.True(t, c.Undo())
	assert.Equal(t, origX, c.Document().FindSection(info.ID).X)

	require.True(t, c.Redo())
	assert.Equal(t, 120.0, c.Document().FindSection(info.ID).X)

	// 重做到头后不可再重做
	assert.False(t, c.Redo())
}

func TestControllerUndoDoesNotGrowHistory(t *testing.T) {
	c, _ := newTestController()
	_, err := c.AddSection(SectionCustomField, 10, 10, 100, 40)
	require.NoError(t, err)

	depth := c.History().Depth()
	require.True(t, c.Undo())
	require.True(t, c.Redo())
	assert.Equal(t, depth, c.History().Depth(), "replay must not record new entries")
}

func TestControllerNudge(t *testing.T) {
	c, _ := newTestController()
	s := c.Document().Sections[0]

	require.NoError(t, c.Nudge(s.ID, 1, 0, false))
	assert.Equal(t, 21.0, s.X)

	require.NoError(t, c.Nudge(s.ID, 0, -1, true))
	assert.Equal(t, 10.0, s.Y)

	// 微移收拢到页面边缘
	for i := 0; i < 10; i++ {
		require.NoError(t, c.Nudge(s.ID, 0, -1, true))
	}
	assert.Equal(t, 0.0, s.Y)

	s.Locked = true
	assert.ErrorIs(t, c.Nudge(s.ID, 1, 0, false), utils.ErrSectionLocked)
}

func TestControllerCopyPaste(t *testing.T) {
	c, _ := newTestController()
	src, err := c.AddSection(SectionCustomField, 100, 100, 120, 50)
	require.NoError(t, err)

	// 空剪贴板粘贴报错
	_, err = c.Paste()
	assert.ErrorIs(t, err, utils.ErrEmptyClipboard)

	require.NoError(t, c.Copy(src.ID))
	pasted, err := c.Paste()
	require.NoError(t, err)

	assert.NotEqual(t, src.ID, pasted.ID, "paste mints a fresh id")
	assert.Equal(t, 120.0, pasted.X)
	assert.Equal(t, 120.0, pasted.Y)
	assert.Equal(t, src.Settings["label"], pasted.Settings["label"])
	require.NotNil(t, c.Document().FindSection(pasted.ID))

	// 源区块删除后剪贴板仍可用
	require.NoError(t, c.DeleteSection(src.ID))
	again, err := c.Paste()
	require.NoError(t, err)
	assert.NotEqual(t, pasted.ID, again.ID)
}

func TestControllerPasteClampedAtEdge(t *testing.T) {
	c, _ := newTestController()
	src, err := c.AddSection(SectionCustomField, 490, 800, 100, 40)
	require.NoError(t, err)

	require.NoError(t, c.Copy(src.ID))
	pasted, err := c.Paste()
	require.NoError(t, err)
	assert.Equal(t, 495.0, pasted.X, "clamped to page width 595")
	assert.Equal(t, 802.0, pasted.Y, "clamped to page height 842")
}

func TestControllerDeleteStructuralRejected(t *testing.T) {
	c, _ := newTestController()
	header := c.Document().Sections[0]

	err := c.DeleteSection(header.ID)
	assert.ErrorIs(t, err, utils.ErrStructuralSection)

	// 隐藏是结构区块唯一的移除途径
	require.NoError(t, c.ToggleVisible(header.ID))
	assert.False(t, header.Visible)
	require.NoError(t, c.ToggleVisible(header.ID))
	assert.True(t, header.Visible)
}

func TestControllerSelection(t *testing.T) {
	c, _ := newTestController()
	a := c.Document().Sections[0]
	b := c.Document().Sections[1]

	c.Select(a.ID)
	assert.Equal(t, []string{a.ID}, c.SelectedIDs())
	assert.Equal(t, a.ID, c.SelectedAnchor())

	c.ToggleSelect(b.ID)
	assert.Len(t, c.SelectedIDs(), 2)

	c.ToggleSelect(b.ID)
	assert.Equal(t, []string{a.ID}, c.SelectedIDs())

	// 单选清空多选
	c.ToggleSelect(b.ID)
	c.Select(b.ID)
	assert.Equal(t, []string{b.ID}, c.SelectedIDs())
	assert.Equal(t, b.ID, c.SelectedAnchor())
}

func TestControllerAlignCommitsHistory(t *testing.T) {
	c, _ := newTestController()
	a, err := c.AddSection(SectionCustomField, 120, 100, 100, 40)
	require.NoError(t, err)
	b, err := c.AddSection(SectionCustomField, 80, 200, 100, 40)
	require.NoError(t, err)

	c.Select(a.ID)
	c.ToggleSelect(b.ID)
	depth := c.History().Depth()

	require.NoError(t, c.Align(AlignLeft))
	assert.Equal(t, 80.0, a.X)
	assert.Equal(t, 80.0, b.X)
	assert.Equal(t, depth+1, c.History().Depth())

	// 选择不足时报错且不提交历史
	c.Select(a.ID)
	assert.ErrorIs(t, c.Align(AlignLeft), utils.ErrTooFewSelected)
	assert.Equal(t, depth+1, c.History().Depth())
}

func TestControllerPageOperations(t *testing.T) {
	c, _ := newTestController()
	c.AddPage()
	assert.Equal(t, 2, c.Document().PageCount)

	s, err := c.AddSection(SectionImage, 10, 10, 100, 60)
	require.NoError(t, err)
	s.Page = 2

	require.NoError(t, c.RemovePage(2))
	assert.Equal(t, 1, c.Document().PageCount)
	assert.Nil(t, c.Document().FindSection(s.ID))

	assert.ErrorIs(t, c.RemovePage(1), utils.ErrLastPage)
}

func TestControllerSwitchDocumentResets(t *testing.T) {
	c, _ := newTestController()
	_, err := c.AddSection(SectionCustomField, 10, 10, 100, 40)
	require.NoError(t, err)
	c.Select(c.Document().Sections[0].ID)
	require.True(t, c.History().CanUndo())

	next := NewDocument("next")
	c.SwitchDocument(next)

	assert.Same(t, next, c.Document())
	assert.False(t, c.History().CanUndo())
	assert.Empty(t, c.SelectedIDs())
	assert.Empty(t, c.SelectedAnchor())
	assert.Equal(t, StateIdle, c.State())
}

func TestControllerAddSectionValidatesType(t *testing.T) {
	c, _ := newTestController()
	_, err := c.AddSection("banner", 0, 0, 100, 40)
	assert.ErrorIs(t, err, utils.ErrInvalidDocument)
}
