package editor

import (
	"strings"

	"github.com/google/uuid"
)

// SectionType 区块类型
// 模板中的区块分为结构区块（由系统创建,只能隐藏不能删除）
// 和用户自建区块（customField/table/image/qrCode/barcode,可自由增删）
type SectionType string

const (
	SectionHeader       SectionType = "header"
	SectionContractInfo SectionType = "contractInfo"
	SectionVehicleData  SectionType = "vehicleData"
	SectionChecklist    SectionType = "checklist"
	SectionDiagram      SectionType = "diagram"
	SectionRemarks      SectionType = "remarks"
	SectionSignatures   SectionType = "signatures"
	SectionCustomField  SectionType = "customField"
	SectionTable        SectionType = "table"
	SectionImage        SectionType = "image"
	SectionQRCode       SectionType = "qrCode"
	SectionBarcode      SectionType = "barcode"
)

// userCreatedTypes 用户自建区块类型集合
// 只有这些类型允许被删除,结构区块只能通过 visible 开关隐藏
var userCreatedTypes = map[SectionType]bool{
	SectionCustomField: true,
	SectionTable:       true,
	SectionImage:       true,
	SectionQRCode:      true,
	SectionBarcode:     true,
}

// IsUserCreated 判断区块类型是否为用户自建类型
func (t SectionType) IsUserCreated() bool {
	return userCreatedTypes[t]
}

// Valid 判断区块类型是否合法
func (t SectionType) Valid() bool {
	switch t {
	case SectionHeader, SectionContractInfo, SectionVehicleData,
		SectionChecklist, SectionDiagram, SectionRemarks, SectionSignatures,
		SectionCustomField, SectionTable, SectionImage, SectionQRCode, SectionBarcode:
		return true
	}
	return false
}

// ConditionOperator 条件运算符
type ConditionOperator string

const (
	OpEquals     ConditionOperator = "equals"
	OpNotEquals  ConditionOperator = "notEquals"
	OpContains   ConditionOperator = "contains"
	OpIsEmpty    ConditionOperator = "isEmpty"
	OpIsNotEmpty ConditionOperator = "isNotEmpty"
)

// Condition 渲染条件
// 挂在区块上的单个谓词,生成文档时根据上下文字段值决定区块是否渲染
type Condition struct {
	Field    string            `json:"field"`
	Operator ConditionOperator `json:"operator"`
	Value    string            `json:"value,omitempty"`
}

// Evaluate 在给定上下文中求值条件
// 上下文中不存在的字段按空字符串处理
func (c *Condition) Evaluate(context map[string]string) bool {
	actual := context[c.Field]
	switch c.Operator {
	case OpEquals:
		return actual == c.Value
	case OpNotEquals:
		return actual != c.Value
	case OpContains:
		return strings.Contains(actual, c.Value)
	case OpIsEmpty:
		return strings.TrimSpace(actual) == ""
	case OpIsNotEmpty:
		return strings.TrimSpace(actual) != ""
	}
	return true
}

// Border 边框样式
type Border struct {
	Width float64 `json:"width"`
	Color string  `json:"color"`
	Dash  string  `json:"dash,omitempty"` // solid/dashed/dotted
}

// Style 区块视觉样式覆盖
type Style struct {
	FontSize   float64 `json:"fontSize,omitempty"`
	FontWeight string  `json:"fontWeight,omitempty"`
	FontStyle  string  `json:"fontStyle,omitempty"`
	Color      string  `json:"color,omitempty"`
	Background string  `json:"background,omitempty"`
	Align      string  `json:"align,omitempty"`
	Border     *Border `json:"border,omitempty"`
	Padding    float64 `json:"padding,omitempty"`
	Rotation   float64 `json:"rotation,omitempty"` // 角度
	Opacity    float64 `json:"opacity,omitempty"`  // 0-1
}

// Settings 区块内容配置
// 开放式字段包,每种区块类型有自己的默认形状,仅在使用处校验
type Settings map[string]interface{}

// Section 模板区块
// 页面上一个有位置和尺寸的内容块,几何坐标单位为 PDF point
type Section struct {
	ID        string      `json:"id"`
	Type      SectionType `json:"type"`
	X         float64     `json:"x"`
	Y         float64     `json:"y"`
	Width     float64     `json:"width"`
	Height    float64     `json:"height"`
	Page      int         `json:"page"` // 1 起始页码
	Visible   bool        `json:"visible"`
	Locked    bool        `json:"locked"`
	Settings  Settings    `json:"settings"`
	Style     *Style      `json:"style,omitempty"`
	Condition *Condition  `json:"condition,omitempty"`
}

// NewSection 创建指定类型的区块,填充该类型的默认内容配置
// 渲染器和布局引擎依赖这里填充的默认字段,不会再做缺失检查
func NewSection(t SectionType, x, y, width, height float64) *Section {
	return &Section{
		ID:       uuid.New().String(),
		Type:     t,
		X:        x,
		Y:        y,
		Width:    width,
		Height:   height,
		Page:     1,
		Visible:  true,
		Locked:   false,
		Settings: DefaultSettings(t),
	}
}

// DefaultSettings 返回区块类型的默认内容配置
func DefaultSettings(t SectionType) Settings {
	switch t {
	case SectionHeader:
		return Settings{
			"companyName": "Company Name",
			"color":       "#1a1a1a",
			"showLogo":    true,
		}
	case SectionContractInfo:
		return Settings{
			"title": "Rental Agreement",
			"fields": []string{
				"reservationNumber", "startDate", "endDate", "customerName",
			},
		}
	case SectionVehicleData:
		return Settings{
			"fields": []string{"licensePlate", "brand", "model", "mileage", "fuelLevel"},
		}
	case SectionChecklist:
		return Settings{
			"title":           "Damage Check",
			"checklistId":     "",
			"items":           []string{},
			"columns":         2,
			"showDamageTypes": true,
		}
	case SectionDiagram:
		return Settings{
			"vehicleType": "sedan",
			"showLegend":  true,
		}
	case SectionRemarks:
		return Settings{
			"title": "Remarks",
			"lines": 4,
		}
	case SectionSignatures:
		return Settings{
			"labels":   []string{"Customer", "Employee"},
			"showDate": true,
		}
	case SectionCustomField:
		return Settings{
			"label": "Custom Field",
			"field": "",
		}
	case SectionTable:
		rows, cols := 3, 3
		grid := make([][]string, rows)
		for i := range grid {
			grid[i] = make([]string, cols)
		}
		return Settings{
			"rows":    rows,
			"columns": cols,
			"cells":   grid,
		}
	case SectionImage:
		return Settings{
			"source": "",
			"fit":    "contain",
		}
	case SectionQRCode:
		return Settings{
			"field":   "reservationNumber",
			"content": "",
		}
	case SectionBarcode:
		return Settings{
			"field":   "licensePlate",
			"content": "",
		}
	}
	return Settings{}
}

// Clone 深拷贝区块
// settings 和样式均复制,历史快照与剪贴板都依赖这里的深拷贝语义
func (s *Section) Clone() *Section {
	clone := *s
	clone.Settings = cloneSettings(s.Settings)
	if s.Style != nil {
		style := *s.Style
		if s.Style.Border != nil {
			border := *s.Style.Border
			style.Border = &border
		}
		clone.Style = &style
	}
	if s.Condition != nil {
		cond := *s.Condition
		clone.Condition = &cond
	}
	return &clone
}

func cloneSettings(s Settings) Settings {
	if s == nil {
		return nil
	}
	out := make(Settings, len(s))
	for k, v := range s {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v interface{}) interface{} {
	switch val := v.(type) {
	case []string:
		out := make([]string, len(val))
		copy(out, val)
		return out
	case [][]string:
		out := make([][]string, len(val))
		for i, row := range val {
			out[i] = make([]string, len(row))
			copy(out[i], row)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[k] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

// CloneSections 深拷贝区块列表
func CloneSections(sections []*Section) []*Section {
	out := make([]*Section, len(sections))
	for i, s := range sections {
		out[i] = s.Clone()
	}
	return out
}
