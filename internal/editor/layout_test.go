package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keeslam/CarRentalManager-sub003/internal/utils"
)

// emptyDoc 返回不带默认区块的 A4 纵向文档
func emptyDoc() *Document {
	return &Document{
		ID:              "doc-1",
		Name:            "test",
		PageCount:       1,
		PageSize:        PageA4,
		PageOrientation: OrientationPortrait,
		Sections:        []*Section{},
	}
}

func addTestSection(doc *Document, id string, x, y, w, h float64) *Section {
	s := NewSection(SectionCustomField, x, y, w, h)
	s.ID = id
	doc.AddSection(s)
	return s
}

func TestDragClampToPage(t *testing.T) {
	// 拖出页面右边界时收拢到页内
	doc := emptyDoc()
	s := addTestSection(doc, "a", 100, 100, 150, 80)

	p := ComputeDragPosition(doc, s, 700, 100, Point{}, DragOptions{})
	// A4 宽 595,区块宽 150,因此 X 上限为 445
	assert.Equal(t, 445.0, p.X)
	assert.Equal(t, 100.0, p.Y)

	// 负方向同样收拢到 0
	p = ComputeDragPosition(doc, s, -50, -30, Point{}, DragOptions{})
	assert.Equal(t, 0.0, p.X)
	assert.Equal(t, 0.0, p.Y)
}

func TestDragGridSnap(t *testing.T) {
	doc := emptyDoc()
	s := addTestSection(doc, "a", 0, 0, 100, 50)

	p := ComputeDragPosition(doc, s, 103, 118, Point{}, DragOptions{SnapToGrid: true})
	assert.Equal(t, 100.0, p.X, "103 rounds down to grid 100")
	assert.Equal(t, 120.0, p.Y, "118 rounds up to grid 120")
}

func TestDragOffsetApplied(t *testing.T) {
	// 抓取偏移:指针坐标减去偏移得到左上角
	doc := emptyDoc()
	s := addTestSection(doc, "a", 0, 0, 100, 50)

	p := ComputeDragPosition(doc, s, 150, 90, Point{X: 30, Y: 10}, DragOptions{})
	assert.Equal(t, 120.0, p.X)
	assert.Equal(t, 80.0, p.Y)
}

func TestEdgeSnapWithinThreshold(t *testing.T) {
	doc := emptyDoc()
	addTestSection(doc, "target", 200, 300, 100, 60)
	moving := addTestSection(doc, "moving", 0, 0, 80, 40)

	// 左边缘落在目标左边缘阈值内（|192-200|=8 <= 10）
	p := FindSnapPosition(doc, moving, Point{X: 192, Y: 500})
	assert.Equal(t, 200.0, p.X, "left edge snaps to target left edge")
	assert.Equal(t, 500.0, p.Y, "y axis unaffected")

	// 超出阈值不吸附
	p = FindSnapPosition(doc, moving, Point{X: 185, Y: 500})
	assert.Equal(t, 185.0, p.X, "11pt away must not snap")
}

func TestEdgeSnapRightToLeft(t *testing.T) {
	// 移动块右边缘吸附到目标左边缘
	doc := emptyDoc()
	addTestSection(doc, "target", 200, 300, 100, 60)
	moving := addTestSection(doc, "moving", 0, 0, 80, 40)

	// 右边缘 = 115+80 = 195,与目标左边缘 200 相差 5
	p := FindSnapPosition(doc, moving, Point{X: 115, Y: 500})
	assert.Equal(t, 120.0, p.X, "right edge flush with target left edge")
}

func TestEdgeSnapIgnoresHiddenAndLocked(t *testing.T) {
	doc := emptyDoc()
	hidden := addTestSection(doc, "hidden", 200, 300, 100, 60)
	hidden.Visible = false
	locked := addTestSection(doc, "locked", 400, 300, 100, 60)
	locked.Locked = true
	moving := addTestSection(doc, "moving", 0, 0, 80, 40)

	p := FindSnapPosition(doc, moving, Point{X: 195, Y: 500})
	assert.Equal(t, 195.0, p.X, "hidden/locked sections are not snap targets")
}

func TestEdgeSnapIgnoresOtherPages(t *testing.T) {
	doc := emptyDoc()
	doc.PageCount = 2
	other := addTestSection(doc, "other", 200, 300, 100, 60)
	other.Page = 2
	moving := addTestSection(doc, "moving", 0, 0, 80, 40)

	p := FindSnapPosition(doc, moving, Point{X: 195, Y: 500})
	assert.Equal(t, 195.0, p.X, "sections on other pages are not snap targets")
}

func TestResizeEastHandle(t *testing.T) {
	doc := emptyDoc()
	addTestSection(doc, "a", 100, 100, 200, 100)
	orig := Bounds{X: 100, Y: 100, Width: 200, Height: 100}

	b := ComputeResize(doc, "e", 350, 0, orig)
	assert.Equal(t, 100.0, b.X)
	assert.Equal(t, 250.0, b.Width)
	assert.Equal(t, 100.0, b.Height, "e handle does not touch height")
}

func TestResizeMinimumPreservesFarEdge(t *testing.T) {
	// w 方向缩到最小宽度时右边缘保持不动
	doc := emptyDoc()
	addTestSection(doc, "a", 100, 100, 200, 100)
	orig := Bounds{X: 100, Y: 100, Width: 200, Height: 100}

	b := ComputeResize(doc, "w", 290, 0, orig)
	assert.Equal(t, MinWidth, b.Width)
	assert.Equal(t, 250.0, b.X, "right edge stays at 300")

	// n 方向同理,底边保持不动
	b = ComputeResize(doc, "n", 0, 195, orig)
	assert.Equal(t, MinHeight, b.Height)
	assert.Equal(t, 170.0, b.Y, "bottom edge stays at 200")
}

func TestResizeCornerHandle(t *testing.T) {
	doc := emptyDoc()
	addTestSection(doc, "a", 100, 100, 200, 100)
	orig := Bounds{X: 100, Y: 100, Width: 200, Height: 100}

	b := ComputeResize(doc, "se", 400, 320, orig)
	assert.Equal(t, 300.0, b.Width)
	assert.Equal(t, 220.0, b.Height)
}

func TestResizeClampedToPage(t *testing.T) {
	doc := emptyDoc()
	addTestSection(doc, "a", 500, 100, 80, 60)
	orig := Bounds{X: 500, Y: 100, Width: 80, Height: 60}

	// 向右拉出页面,宽度被截到页面边界
	b := ComputeResize(doc, "e", 700, 0, orig)
	assert.Equal(t, 95.0, b.Width, "width clipped at page edge 595")
}

func TestAlignRequiresTwoSections(t *testing.T) {
	doc := emptyDoc()
	addTestSection(doc, "a", 100, 100, 100, 50)

	err := AlignSections(doc, []string{"a"}, AlignLeft)
	assert.ErrorIs(t, err, utils.ErrTooFewSelected)

	err = AlignSections(doc, nil, AlignLeft)
	assert.ErrorIs(t, err, utils.ErrTooFewSelected)
}

func TestAlignLeftUsesMinEdge(t *testing.T) {
	doc := emptyDoc()
	a := addTestSection(doc, "a", 120, 100, 100, 50)
	b := addTestSection(doc, "b", 80, 200, 100, 50)
	c := addTestSection(doc, "c", 200, 300, 100, 50)

	require.NoError(t, AlignSections(doc, []string{"a", "b", "c"}, AlignLeft))
	assert.Equal(t, 80.0, a.X)
	assert.Equal(t, 80.0, b.X)
	assert.Equal(t, 80.0, c.X)
}

func TestAlignRightUsesMaxEdge(t *testing.T) {
	doc := emptyDoc()
	a := addTestSection(doc, "a", 100, 100, 100, 50)
	b := addTestSection(doc, "b", 250, 200, 120, 50)

	require.NoError(t, AlignSections(doc, []string{"a", "b"}, AlignRight))
	// 最右边缘为 370
	assert.Equal(t, 270.0, a.X)
	assert.Equal(t, 250.0, b.X)
}

func TestAlignCenterAveragesCenters(t *testing.T) {
	doc := emptyDoc()
	a := addTestSection(doc, "a", 100, 100, 100, 50) // 中心 150
	b := addTestSection(doc, "b", 200, 200, 100, 50) // 中心 250

	require.NoError(t, AlignSections(doc, []string{"a", "b"}, AlignCenter))
	// 中心均值 200
	assert.Equal(t, 150.0, a.X)
	assert.Equal(t, 150.0, b.X)
}

func TestAlignExcludesLockedSections(t *testing.T) {
	doc := emptyDoc()
	a := addTestSection(doc, "a", 120, 100, 100, 50)
	b := addTestSection(doc, "b", 80, 200, 100, 50)
	locked := addTestSection(doc, "locked", 300, 300, 100, 50)
	locked.Locked = true

	require.NoError(t, AlignSections(doc, []string{"a", "b", "locked"}, AlignLeft))
	assert.Equal(t, 80.0, a.X)
	assert.Equal(t, 80.0, b.X)
	assert.Equal(t, 300.0, locked.X, "locked section must not move")
}

func TestAlignOnlyLockedSelected(t *testing.T) {
	// 选中两个但其中一个锁定,有效选择不足两个
	doc := emptyDoc()
	addTestSection(doc, "a", 120, 100, 100, 50)
	locked := addTestSection(doc, "locked", 300, 300, 100, 50)
	locked.Locked = true

	err := AlignSections(doc, []string{"a", "locked"}, AlignLeft)
	assert.ErrorIs(t, err, utils.ErrTooFewSelected)
}

func TestDistributeHorizontal(t *testing.T) {
	doc := emptyDoc()
	a := addTestSection(doc, "a", 50, 100, 100, 50)
	b := addTestSection(doc, "b", 200, 100, 100, 50)
	c := addTestSection(doc, "c", 400, 100, 95, 50)

	require.NoError(t, AlignSections(doc, []string{"a", "b", "c"}, DistributeHoriz))

	// 总宽 295,页面 595,间隙 = (595-295)/4 = 75
	assert.Equal(t, 75.0, a.X)
	assert.Equal(t, 250.0, b.X)
	assert.Equal(t, 425.0, c.X)
	// 尺寸不变
	assert.Equal(t, 100.0, a.Width)
	assert.Equal(t, 95.0, c.Width)
}

func TestAlignUnknownMode(t *testing.T) {
	doc := emptyDoc()
	addTestSection(doc, "a", 100, 100, 100, 50)
	addTestSection(doc, "b", 200, 200, 100, 50)

	err := AlignSections(doc, []string{"a", "b"}, AlignMode("diagonal"))
	assert.Error(t, err)
}

func TestLandscapeSwapsDimensions(t *testing.T) {
	doc := emptyDoc()
	doc.PageOrientation = OrientationLandscape
	assert.Equal(t, 842.0, doc.PageWidth())
	assert.Equal(t, 595.0, doc.PageHeight())
}
