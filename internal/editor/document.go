package editor

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/keeslam/CarRentalManager-sub003/internal/utils"
)

// PageOrientation 页面方向
type PageOrientation string

const (
	OrientationPortrait  PageOrientation = "portrait"
	OrientationLandscape PageOrientation = "landscape"
)

// PageSize 页面尺寸
type PageSize string

const (
	PageA4     PageSize = "A4"
	PageLetter PageSize = "Letter"
	PageA5     PageSize = "A5"
	PageCustom PageSize = "custom"
)

// 纵向页面尺寸,单位 point,横向时宽高互换
var pageDimensions = map[PageSize][2]float64{
	PageA4:     {595, 842},
	PageLetter: {612, 792},
	PageA5:     {420, 595},
}

// Margins 页边距
type Margins struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Document 模板文档聚合根
// 页面设置加全部区块;区块在 slice 中的顺序即叠放顺序,后画者覆盖先画者
// 内存中的文档是工作草稿,外部存储保存的版本才是权威数据
type Document struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Sections         []*Section      `json:"sections"`
	PageCount        int             `json:"pageCount"`
	PageSize         PageSize        `json:"pageSize"`
	PageOrientation  PageOrientation `json:"pageOrientation"`
	PageMargins      Margins         `json:"pageMargins"`
	CustomPageWidth  float64         `json:"customPageWidth,omitempty"`
	CustomPageHeight float64         `json:"customPageHeight,omitempty"`
	BackgroundImage  string          `json:"backgroundImage,omitempty"`
}

// NewDocument 创建带默认区块集的新模板文档
// 默认区块为 A4 纵向单页的标准损伤检查单结构
func NewDocument(name string) *Document {
	doc := &Document{
		ID:              uuid.New().String(),
		Name:            name,
		PageCount:       1,
		PageSize:        PageA4,
		PageOrientation: OrientationPortrait,
		PageMargins:     Margins{Top: 20, Right: 20, Bottom: 20, Left: 20},
	}

	doc.Sections = []*Section{
		NewSection(SectionHeader, 20, 20, 555, 60),
		NewSection(SectionContractInfo, 20, 90, 270, 120),
		NewSection(SectionVehicleData, 305, 90, 270, 120),
		NewSection(SectionChecklist, 20, 220, 555, 260),
		NewSection(SectionDiagram, 20, 490, 270, 180),
		NewSection(SectionRemarks, 305, 490, 270, 180),
		NewSection(SectionSignatures, 20, 680, 555, 80),
	}
	return doc
}

// PageWidth 当前页面宽度
func (d *Document) PageWidth() float64 {
	w, _ := d.pageDims()
	return w
}

// PageHeight 当前页面高度
func (d *Document) PageHeight() float64 {
	_, h := d.pageDims()
	return h
}

func (d *Document) pageDims() (float64, float64) {
	var w, h float64
	if d.PageSize == PageCustom {
		w, h = d.CustomPageWidth, d.CustomPageHeight
	} else if dims, ok := pageDimensions[d.PageSize]; ok {
		w, h = dims[0], dims[1]
	} else {
		w, h = pageDimensions[PageA4][0], pageDimensions[PageA4][1]
	}
	if d.PageOrientation == OrientationLandscape {
		w, h = h, w
	}
	return w, h
}

// FindSection 按 ID 查找区块,找不到返回 nil
func (d *Document) FindSection(id string) *Section {
	for _, s := range d.Sections {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// SectionsOnPage 返回指定页上的全部区块,保持叠放顺序
func (d *Document) SectionsOnPage(page int) []*Section {
	var out []*Section
	for _, s := range d.Sections {
		if s.Page == page {
			out = append(out, s)
		}
	}
	return out
}

// AddSection 追加区块
func (d *Document) AddSection(s *Section) {
	d.Sections = append(d.Sections, s)
}

// RemoveSection 删除用户自建区块
// 结构区块不允许删除,只能隐藏
func (d *Document) RemoveSection(id string) error {
	for i, s := range d.Sections {
		if s.ID == id {
			if !s.Type.IsUserCreated() {
				return fmt.Errorf("%w: section type %q", utils.ErrStructuralSection, s.Type)
			}
			d.Sections = append(d.Sections[:i], d.Sections[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: section %s", utils.ErrSectionNotFound, id)
}

// AddPage 追加一页,已有区块页码不变
func (d *Document) AddPage() {
	d.PageCount++
}

// RemovePage 删除指定页
// 该页上的区块被移除,之后页的区块页码前移一位
func (d *Document) RemovePage(page int) error {
	if page < 1 || page > d.PageCount {
		return fmt.Errorf("%w: page %d of %d", utils.ErrPageOutOfRange, page, d.PageCount)
	}
	if d.PageCount <= 1 {
		return utils.ErrLastPage
	}

	kept := d.Sections[:0]
	for _, s := range d.Sections {
		if s.Page == page {
			continue
		}
		if s.Page > page {
			s.Page--
		}
		kept = append(kept, s)
	}
	d.Sections = kept
	d.PageCount--
	return nil
}

// Validate 校验文档不变量
// 区块 ID 全局唯一,几何完全落在页内,页码在 [1, pageCount] 范围内
func (d *Document) Validate() error {
	if d.PageCount < 1 {
		return fmt.Errorf("%w: pageCount %d", utils.ErrInvalidDocument, d.PageCount)
	}
	if d.PageSize == PageCustom && (d.CustomPageWidth <= 0 || d.CustomPageHeight <= 0) {
		return fmt.Errorf("%w: custom page dimensions required", utils.ErrInvalidDocument)
	}

	pageW, pageH := d.pageDims()
	seen := make(map[string]bool, len(d.Sections))
	for _, s := range d.Sections {
		if s.ID == "" {
			return fmt.Errorf("%w: section without id", utils.ErrInvalidDocument)
		}
		if seen[s.ID] {
			return fmt.Errorf("%w: duplicate section id %s", utils.ErrInvalidDocument, s.ID)
		}
		seen[s.ID] = true

		if !s.Type.Valid() {
			return fmt.Errorf("%w: unknown section type %q", utils.ErrInvalidDocument, s.Type)
		}
		if s.Width <= 0 || s.Height <= 0 {
			return fmt.Errorf("%w: section %s has non-positive size", utils.ErrInvalidDocument, s.ID)
		}
		if s.X < 0 || s.Y < 0 || s.X+s.Width > pageW || s.Y+s.Height > pageH {
			return fmt.Errorf("%w: section %s outside page bounds", utils.ErrInvalidDocument, s.ID)
		}
		if s.Page < 1 || s.Page > d.PageCount {
			return fmt.Errorf("%w: section %s on page %d of %d", utils.ErrInvalidDocument, s.ID, s.Page, d.PageCount)
		}
	}
	return nil
}

// Clone 深拷贝整个文档
func (d *Document) Clone() *Document {
	clone := *d
	clone.Sections = CloneSections(d.Sections)
	return &clone
}

// Marshal 序列化文档
// 导出/导入以这里的 JSON 形状为契约,往返必须保持区块列表与页面设置不变
func (d *Document) Marshal() ([]byte, error) {
	return json.Marshal(d)
}

// UnmarshalDocument 反序列化并校验文档
// 格式错误或不变量被破坏时整体拒绝,不做部分应用
func UnmarshalDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrMalformedTemplate, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}
