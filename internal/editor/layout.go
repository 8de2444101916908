package editor

import (
	"fmt"
	"math"
	"sort"

	"github.com/keeslam/CarRentalManager-sub003/internal/utils"
)

// 布局常量,单位 point
const (
	SnapThreshold = 10.0 // 边缘吸附阈值
	GridSize      = 10.0 // 网格吸附步长
	MinWidth      = 50.0 // 区块最小宽度
	MinHeight     = 30.0 // 区块最小高度
)

// Point 平面坐标
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Bounds 矩形几何
type Bounds struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DragOptions 拖拽吸附选项
type DragOptions struct {
	SnapToGrid  bool
	SnapToEdges bool
}

// AlignMode 对齐模式
type AlignMode string

const (
	AlignLeft        AlignMode = "left"
	AlignCenter      AlignMode = "center"
	AlignRight       AlignMode = "right"
	AlignTop         AlignMode = "top"
	AlignMiddle      AlignMode = "middle"
	AlignBottom      AlignMode = "bottom"
	DistributeHoriz  AlignMode = "distribute-h"
	DistributeVert   AlignMode = "distribute-v"
)

// ComputeDragPosition 计算拖拽中区块的新位置
// 指针坐标减去抓取偏移得到候选左上角,按选项做边缘吸附和网格吸附,
// 最后收拢到页面范围内。只返回新几何,由调用方负责应用
func ComputeDragPosition(doc *Document, moving *Section, pointerX, pointerY float64, dragOffset Point, opts DragOptions) Point {
	candidate := Point{
		X: pointerX - dragOffset.X,
		Y: pointerY - dragOffset.Y,
	}

	if opts.SnapToEdges {
		candidate = FindSnapPosition(doc, moving, candidate)
	}

	if opts.SnapToGrid {
		candidate.X = math.Round(candidate.X/GridSize) * GridSize
		candidate.Y = math.Round(candidate.Y/GridSize) * GridSize
	}

	return clampPosition(doc, candidate, moving.Width, moving.Height)
}

// FindSnapPosition 边缘吸附计算
// 将候选矩形的四条边与同页其它可见未锁定区块的边比较,
// 每个轴上第一个落入阈值内的边即胜出,不做加权择优
func FindSnapPosition(doc *Document, moving *Section, candidate Point) Point {
	snapped := candidate
	snappedX, snappedY := false, false

	left := candidate.X
	right := candidate.X + moving.Width
	top := candidate.Y
	bottom := candidate.Y + moving.Height

	for _, other := range doc.Sections {
		if other.ID == moving.ID || other.Page != moving.Page {
			continue
		}
		// 锁定与隐藏的区块不作为吸附目标
		if !other.Visible || other.Locked {
			continue
		}

		oLeft := other.X
		oRight := other.X + other.Width
		oTop := other.Y
		oBottom := other.Y + other.Height

		if !snappedX {
			switch {
			case math.Abs(left-oLeft) <= SnapThreshold:
				snapped.X = oLeft
				snappedX = true
			case math.Abs(left-oRight) <= SnapThreshold:
				snapped.X = oRight
				snappedX = true
			case math.Abs(right-oLeft) <= SnapThreshold:
				snapped.X = oLeft - moving.Width
				snappedX = true
			case math.Abs(right-oRight) <= SnapThreshold:
				snapped.X = oRight - moving.Width
				snappedX = true
			}
		}

		if !snappedY {
			switch {
			case math.Abs(top-oTop) <= SnapThreshold:
				snapped.Y = oTop
				snappedY = true
			case math.Abs(top-oBottom) <= SnapThreshold:
				snapped.Y = oBottom
				snappedY = true
			case math.Abs(bottom-oTop) <= SnapThreshold:
				snapped.Y = oTop - moving.Height
				snappedY = true
			case math.Abs(bottom-oBottom) <= SnapThreshold:
				snapped.Y = oBottom - moving.Height
				snappedY = true
			}
		}

		if snappedX && snappedY {
			break
		}
	}

	return snapped
}

// clampPosition 把位置收拢到页面内
func clampPosition(doc *Document, p Point, width, height float64) Point {
	pageW, pageH := doc.pageDims()
	if p.X < 0 {
		p.X = 0
	}
	if p.Y < 0 {
		p.Y = 0
	}
	if p.X+width > pageW {
		p.X = pageW - width
	}
	if p.Y+height > pageH {
		p.Y = pageH - height
	}
	return p
}

// ComputeResize 计算缩放后的区块几何
// handle 为罗盘方向组合（如 "se"、"n"）,每个方向只调整对应边,
// n/w 方向移动位置以保持对边固定。宽高有最小下限,
// 结果收拢到页面内,位置收拢不够时进一步压缩宽高
func ComputeResize(doc *Document, handle string, pointerX, pointerY float64, original Bounds) Bounds {
	result := original

	for _, dir := range handle {
		switch dir {
		case 'e':
			result.Width = pointerX - original.X
		case 'w':
			result.X = pointerX
			result.Width = original.X + original.Width - pointerX
		case 's':
			result.Height = pointerY - original.Y
		case 'n':
			result.Y = pointerY
			result.Height = original.Y + original.Height - pointerY
		}
	}

	// 最小尺寸下限,w/n 缩放时保持远边不动
	if result.Width < MinWidth {
		if result.X != original.X {
			result.X = original.X + original.Width - MinWidth
		}
		result.Width = MinWidth
	}
	if result.Height < MinHeight {
		if result.Y != original.Y {
			result.Y = original.Y + original.Height - MinHeight
		}
		result.Height = MinHeight
	}

	// 页面边界收拢
	pageW, pageH := doc.pageDims()
	if result.X < 0 {
		result.Width += result.X
		result.X = 0
	}
	if result.Y < 0 {
		result.Height += result.Y
		result.Y = 0
	}
	if result.X+result.Width > pageW {
		result.Width = pageW - result.X
	}
	if result.Y+result.Height > pageH {
		result.Height = pageH - result.Y
	}
	if result.Width < MinWidth {
		result.Width = MinWidth
		if result.X+result.Width > pageW {
			result.X = pageW - result.Width
		}
	}
	if result.Height < MinHeight {
		result.Height = MinHeight
		if result.Y+result.Height > pageH {
			result.Y = pageH - result.Height
		}
	}

	return result
}

// AlignSections 对选中区块做对齐或分布
// 至少需要两个选中区块;left/right/top/bottom 对齐到选中集中的极值边,
// center/middle 对齐到各自中心的均值,distribute 沿轴等间距铺满整页
func AlignSections(doc *Document, selectedIDs []string, mode AlignMode) error {
	if len(selectedIDs) < 2 {
		return utils.ErrTooFewSelected
	}

	var selected []*Section
	for _, id := range selectedIDs {
		if s := doc.FindSection(id); s != nil && !s.Locked {
			selected = append(selected, s)
		}
	}
	if len(selected) < 2 {
		return utils.ErrTooFewSelected
	}

	switch mode {
	case AlignLeft:
		edge := selected[0].X
		for _, s := range selected[1:] {
			edge = math.Min(edge, s.X)
		}
		for _, s := range selected {
			s.X = edge
		}
	case AlignRight:
		edge := selected[0].X + selected[0].Width
		for _, s := range selected[1:] {
			edge = math.Max(edge, s.X+s.Width)
		}
		for _, s := range selected {
			s.X = edge - s.Width
		}
	case AlignTop:
		edge := selected[0].Y
		for _, s := range selected[1:] {
			edge = math.Min(edge, s.Y)
		}
		for _, s := range selected {
			s.Y = edge
		}
	case AlignBottom:
		edge := selected[0].Y + selected[0].Height
		for _, s := range selected[1:] {
			edge = math.Max(edge, s.Y+s.Height)
		}
		for _, s := range selected {
			s.Y = edge - s.Height
		}
	case AlignCenter:
		var sum float64
		for _, s := range selected {
			sum += s.X + s.Width/2
		}
		center := sum / float64(len(selected))
		for _, s := range selected {
			s.X = center - s.Width/2
		}
	case AlignMiddle:
		var sum float64
		for _, s := range selected {
			sum += s.Y + s.Height/2
		}
		middle := sum / float64(len(selected))
		for _, s := range selected {
			s.Y = middle - s.Height/2
		}
	case DistributeHoriz:
		distribute(selected, doc.PageWidth(), true)
	case DistributeVert:
		distribute(selected, doc.PageHeight(), false)
	default:
		return fmt.Errorf("unknown align mode %q", mode)
	}

	// 对齐可能把区块推出页面,统一收拢
	for _, s := range selected {
		p := clampPosition(doc, Point{X: s.X, Y: s.Y}, s.Width, s.Height)
		s.X, s.Y = p.X, p.Y
	}
	return nil
}

// distribute 沿轴等间距分布
// 先按轴坐标排序,剩余空间按 count+1 份均分作为间隙,
// 依次排放各区块的前缘。只改间距,不改尺寸
func distribute(selected []*Section, pageExtent float64, horizontal bool) {
	sort.SliceStable(selected, func(i, j int) bool {
		if horizontal {
			return selected[i].X < selected[j].X
		}
		return selected[i].Y < selected[j].Y
	})

	var total float64
	for _, s := range selected {
		if horizontal {
			total += s.Width
		} else {
			total += s.Height
		}
	}

	gap := (pageExtent - total) / float64(len(selected)+1)
	pos := gap
	for _, s := range selected {
		if horizontal {
			s.X = pos
			pos += s.Width + gap
		} else {
			s.Y = pos
			pos += s.Height + gap
		}
	}
}
