// Package render 将模板文档渲染为 PDF
// 预览和打印共用同一条渲染路径,区块按切片顺序绘制(即画布上的 z 轴顺序)
package render

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"strconv"
	"strings"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/qr"
	"github.com/jung-kurt/gofpdf"
	"github.com/keeslam/CarRentalManager-sub003/internal/editor"
	"github.com/keeslam/CarRentalManager-sub003/internal/model"
)

const (
	defaultFontFamily = "Helvetica"
	defaultFontSize   = 10.0
	defaultPadding    = 6.0
	lineHeight        = 14.0
)

// Context 渲染上下文
// Fields 提供条件求值和占位字段的取值,缺失字段按空串处理
type Context struct {
	Fields    map[string]string
	Checklist []model.InspectionPoint
	AssetDir  string // 图片区块和背景图的根目录
}

// fieldValue 取上下文字段值
func (c *Context) fieldValue(name string) string {
	if c == nil || c.Fields == nil {
		return ""
	}
	return c.Fields[name]
}

// RenderPDF 渲染整份模板文档
func RenderPDF(doc *editor.Document, rctx *Context) ([]byte, error) {
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("cannot render invalid document: %w", err)
	}
	if rctx == nil {
		rctx = &Context{}
	}

	width := doc.PageWidth()
	height := doc.PageHeight()
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: width, Ht: height},
	})
	pdf.SetTitle(doc.Name, true)
	pdf.SetAutoPageBreak(false, 0)

	r := &renderer{pdf: pdf, doc: doc, ctx: rctx}
	for page := 1; page <= doc.PageCount; page++ {
		pdf.AddPageFormat("P", gofpdf.SizeType{Wd: width, Ht: height})
		r.drawBackground()
		for _, section := range doc.SectionsOnPage(page) {
			if !section.Visible {
				continue
			}
			if section.Condition != nil && !section.Condition.Evaluate(rctx.Fields) {
				continue
			}
			r.drawSection(section)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to produce PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// renderer 单次渲染的绘制状态
type renderer struct {
	pdf      *gofpdf.Fpdf
	doc      *editor.Document
	ctx      *Context
	imageSeq int
}

// drawBackground 绘制页面背景图
func (r *renderer) drawBackground() {
	if r.doc.BackgroundImage == "" {
		return
	}
	path := r.resolveAsset(r.doc.BackgroundImage)
	if _, err := os.Stat(path); err != nil {
		return
	}
	r.pdf.ImageOptions(path, 0, 0, r.doc.PageWidth(), r.doc.PageHeight(), false,
		gofpdf.ImageOptions{ReadDpi: true}, 0, "")
}

// drawSection 绘制单个区块:先画背景和边框,再按类型画内容
func (r *renderer) drawSection(s *editor.Section) {
	r.drawFrame(s)
	r.applyFont(s)

	switch s.Type {
	case editor.SectionHeader:
		r.drawHeader(s)
	case editor.SectionContractInfo:
		r.drawFieldList(s, settingString(s, "title"), settingStrings(s, "fields"))
	case editor.SectionVehicleData:
		r.drawFieldList(s, "Vehicle", settingStrings(s, "fields"))
	case editor.SectionChecklist:
		r.drawChecklist(s)
	case editor.SectionDiagram:
		r.drawDiagram(s)
	case editor.SectionRemarks:
		r.drawRemarks(s)
	case editor.SectionSignatures:
		r.drawSignatures(s)
	case editor.SectionCustomField:
		r.drawCustomField(s)
	case editor.SectionTable:
		r.drawTable(s)
	case editor.SectionImage:
		r.drawImage(s)
	case editor.SectionQRCode:
		r.drawQRCode(s)
	case editor.SectionBarcode:
		r.drawBarcode(s)
	}
}

// drawFrame 绘制区块背景填充与边框
func (r *renderer) drawFrame(s *editor.Section) {
	style := s.Style
	if style == nil {
		return
	}
	mode := ""
	if style.Background != "" {
		rr, g, b := parseHexColor(style.Background, 255, 255, 255)
		r.pdf.SetFillColor(rr, g, b)
		mode = "F"
	}
	if style.Border != nil && style.Border.Width > 0 {
		rr, g, b := parseHexColor(style.Border.Color, 0, 0, 0)
		r.pdf.SetDrawColor(rr, g, b)
		r.pdf.SetLineWidth(style.Border.Width)
		switch style.Border.Dash {
		case "dashed":
			r.pdf.SetDashPattern([]float64{4, 2}, 0)
		case "dotted":
			r.pdf.SetDashPattern([]float64{1, 2}, 0)
		default:
			r.pdf.SetDashPattern([]float64{}, 0)
		}
		mode += "D"
	}
	if mode != "" {
		r.pdf.Rect(s.X, s.Y, s.Width, s.Height, mode)
		r.pdf.SetDashPattern([]float64{}, 0)
	}
}

// applyFont 应用区块字体样式
func (r *renderer) applyFont(s *editor.Section) {
	size := defaultFontSize
	fontStyle := ""
	rr, g, b := 26, 26, 26
	if s.Style != nil {
		if s.Style.FontSize > 0 {
			size = s.Style.FontSize
		}
		if s.Style.FontWeight == "bold" {
			fontStyle += "B"
		}
		if s.Style.FontStyle == "italic" {
			fontStyle += "I"
		}
		if s.Style.Color != "" {
			rr, g, b = parseHexColor(s.Style.Color, 26, 26, 26)
		}
	}
	r.pdf.SetFont(defaultFontFamily, fontStyle, size)
	r.pdf.SetTextColor(rr, g, b)
}

// contentBox 区块内容区,扣除内边距
func contentBox(s *editor.Section) (x, y, w, h float64) {
	padding := defaultPadding
	if s.Style != nil && s.Style.Padding > 0 {
		padding = s.Style.Padding
	}
	return s.X + padding, s.Y + padding, s.Width - 2*padding, s.Height - 2*padding
}

// alignStr gofpdf 对齐标志
func alignStr(s *editor.Section) string {
	if s.Style == nil {
		return "L"
	}
	switch s.Style.Align {
	case "center":
		return "C"
	case "right":
		return "R"
	default:
		return "L"
	}
}

func (r *renderer) drawHeader(s *editor.Section) {
	x, y, w, _ := contentBox(s)
	name := settingString(s, "companyName")
	if color := settingString(s, "color"); color != "" {
		rr, g, b := parseHexColor(color, 26, 26, 26)
		r.pdf.SetTextColor(rr, g, b)
	}
	size := 18.0
	if s.Style != nil && s.Style.FontSize > 0 {
		size = s.Style.FontSize
	}
	r.pdf.SetFont(defaultFontFamily, "B", size)
	r.pdf.SetXY(x, y)
	r.pdf.CellFormat(w, size+4, name, "", 0, alignStr(s), false, 0, "")
}

// drawFieldList 标签加字段值的纵向列表,contractInfo 和 vehicleData 共用
func (r *renderer) drawFieldList(s *editor.Section, title string, fields []string) {
	x, y, w, h := contentBox(s)
	cursor := y
	if title != "" {
		r.pdf.SetFont(defaultFontFamily, "B", defaultFontSize+2)
		r.pdf.SetXY(x, cursor)
		r.pdf.CellFormat(w, lineHeight, title, "", 0, "L", false, 0, "")
		cursor += lineHeight + 2
	}
	r.applyFont(s)
	for _, field := range fields {
		if cursor+lineHeight > y+h {
			break
		}
		value := r.ctx.fieldValue(field)
		r.pdf.SetXY(x, cursor)
		r.pdf.CellFormat(w, lineHeight, fmt.Sprintf("%s: %s", fieldLabel(field), value), "", 0, "L", false, 0, "")
		cursor += lineHeight
	}
}

// drawChecklist 检查清单,复选框方块按列排布
func (r *renderer) drawChecklist(s *editor.Section) {
	x, y, w, h := contentBox(s)
	cursor := y
	if title := settingString(s, "title"); title != "" {
		r.pdf.SetFont(defaultFontFamily, "B", defaultFontSize+2)
		r.pdf.SetXY(x, cursor)
		r.pdf.CellFormat(w, lineHeight, title, "", 0, "L", false, 0, "")
		cursor += lineHeight + 2
	}

	items := r.checklistItems(s)
	columns := settingInt(s, "columns", 2)
	if columns < 1 {
		columns = 1
	}
	colWidth := w / float64(columns)
	const boxSize = 8.0

	r.applyFont(s)
	r.pdf.SetDrawColor(60, 60, 60)
	r.pdf.SetLineWidth(0.75)
	for i, item := range items {
		col := i % columns
		row := i / columns
		ix := x + float64(col)*colWidth
		iy := cursor + float64(row)*lineHeight
		if iy+lineHeight > y+h {
			break
		}
		r.pdf.Rect(ix, iy+(lineHeight-boxSize)/2, boxSize, boxSize, "D")
		r.pdf.SetXY(ix+boxSize+4, iy)
		r.pdf.CellFormat(colWidth-boxSize-4, lineHeight, item, "", 0, "L", false, 0, "")
	}
}

// checklistItems 取清单条目:区块自带条目优先,否则落回上下文中的检查点
func (r *renderer) checklistItems(s *editor.Section) []string {
	if items := settingStrings(s, "items"); len(items) > 0 {
		return items
	}
	showTypes := settingBool(s, "showDamageTypes", true)
	items := make([]string, 0, len(r.ctx.Checklist))
	for _, point := range r.ctx.Checklist {
		label := point.Name
		if showTypes && len(point.DamageTypes) > 0 {
			label = fmt.Sprintf("%s (%s)", point.Name, strings.Join(point.DamageTypes, "/"))
		}
		items = append(items, label)
	}
	return items
}

// drawDiagram 车辆示意图占位框
// 画布编辑器里渲染 SVG 轮廓,PDF 端输出框体加图例
func (r *renderer) drawDiagram(s *editor.Section) {
	x, y, w, h := contentBox(s)
	r.pdf.SetDrawColor(120, 120, 120)
	r.pdf.SetLineWidth(0.75)
	r.pdf.Rect(x, y, w, h, "D")

	vehicleType := settingString(s, "vehicleType")
	r.pdf.SetFont(defaultFontFamily, "I", defaultFontSize)
	r.pdf.SetTextColor(120, 120, 120)
	r.pdf.SetXY(x, y+h/2-lineHeight/2)
	r.pdf.CellFormat(w, lineHeight, fmt.Sprintf("Vehicle diagram (%s)", vehicleType), "", 0, "C", false, 0, "")

	if settingBool(s, "showLegend", true) {
		r.pdf.SetFont(defaultFontFamily, "", defaultFontSize-2)
		r.pdf.SetXY(x, y+h-lineHeight)
		r.pdf.CellFormat(w, lineHeight, "S=scratch  D=dent  C=crack  M=missing", "", 0, "L", false, 0, "")
	}
}

// drawRemarks 备注区,标题加横线
func (r *renderer) drawRemarks(s *editor.Section) {
	x, y, w, h := contentBox(s)
	cursor := y
	if title := settingString(s, "title"); title != "" {
		r.pdf.SetFont(defaultFontFamily, "B", defaultFontSize+2)
		r.pdf.SetXY(x, cursor)
		r.pdf.CellFormat(w, lineHeight, title, "", 0, "L", false, 0, "")
		cursor += lineHeight + 4
	}
	lines := settingInt(s, "lines", 4)
	r.pdf.SetDrawColor(150, 150, 150)
	r.pdf.SetLineWidth(0.5)
	for i := 0; i < lines; i++ {
		ly := cursor + float64(i+1)*(lineHeight+4)
		if ly > y+h {
			break
		}
		r.pdf.Line(x, ly, x+w, ly)
	}
}

// drawSignatures 签名栏,每个标签一条签名线
func (r *renderer) drawSignatures(s *editor.Section) {
	x, y, w, h := contentBox(s)
	labels := settingStrings(s, "labels")
	if len(labels) == 0 {
		labels = []string{"Signature"}
	}
	slotWidth := w / float64(len(labels))
	lineY := y + h - 2*lineHeight

	r.pdf.SetDrawColor(60, 60, 60)
	r.pdf.SetLineWidth(0.75)
	r.applyFont(s)
	for i, label := range labels {
		sx := x + float64(i)*slotWidth
		r.pdf.Line(sx+4, lineY, sx+slotWidth-12, lineY)
		r.pdf.SetXY(sx+4, lineY+2)
		r.pdf.CellFormat(slotWidth-16, lineHeight, label, "", 0, "L", false, 0, "")
		if settingBool(s, "showDate", true) {
			r.pdf.SetXY(sx+4, lineY+2+lineHeight)
			r.pdf.CellFormat(slotWidth-16, lineHeight, "Date: "+r.ctx.fieldValue("date"), "", 0, "L", false, 0, "")
		}
	}
}

// drawCustomField 自定义字段,标签加值,值为空时画填写线
func (r *renderer) drawCustomField(s *editor.Section) {
	x, y, w, _ := contentBox(s)
	label := settingString(s, "label")
	value := r.ctx.fieldValue(settingString(s, "field"))

	r.pdf.SetXY(x, y)
	if value != "" {
		r.pdf.CellFormat(w, lineHeight, fmt.Sprintf("%s: %s", label, value), "", 0, alignStr(s), false, 0, "")
		return
	}
	r.pdf.CellFormat(w, lineHeight, label+":", "", 0, "L", false, 0, "")
	labelWidth := r.pdf.GetStringWidth(label+":") + 6
	r.pdf.SetDrawColor(150, 150, 150)
	r.pdf.SetLineWidth(0.5)
	r.pdf.Line(x+labelWidth, y+lineHeight-2, x+w, y+lineHeight-2)
}

// drawTable 单元格网格
func (r *renderer) drawTable(s *editor.Section) {
	x, y, w, h := contentBox(s)
	rows := settingInt(s, "rows", 3)
	cols := settingInt(s, "columns", 3)
	if rows < 1 || cols < 1 {
		return
	}
	cells := settingGrid(s, "cells")
	cellW := w / float64(cols)
	cellH := h / float64(rows)

	r.pdf.SetDrawColor(60, 60, 60)
	r.pdf.SetLineWidth(0.5)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			cx := x + float64(col)*cellW
			cy := y + float64(row)*cellH
			r.pdf.Rect(cx, cy, cellW, cellH, "D")
			text := ""
			if row < len(cells) && col < len(cells[row]) {
				text = cells[row][col]
			}
			if text == "" {
				continue
			}
			r.pdf.SetXY(cx+2, cy+(cellH-lineHeight)/2)
			r.pdf.CellFormat(cellW-4, lineHeight, text, "", 0, "L", false, 0, "")
		}
	}
}

// drawImage 图片区块
func (r *renderer) drawImage(s *editor.Section) {
	source := settingString(s, "source")
	if source == "" {
		r.drawImagePlaceholder(s)
		return
	}
	path := r.resolveAsset(source)
	if _, err := os.Stat(path); err != nil {
		r.drawImagePlaceholder(s)
		return
	}
	x, y, w, h := contentBox(s)
	if settingString(s, "fit") == "contain" {
		// ImageOptions 以零值高度等比缩放,用宽度约束即可
		r.pdf.ImageOptions(path, x, y, w, 0, false, gofpdf.ImageOptions{ReadDpi: true}, 0, "")
		return
	}
	r.pdf.ImageOptions(path, x, y, w, h, false, gofpdf.ImageOptions{ReadDpi: true}, 0, "")
}

func (r *renderer) drawImagePlaceholder(s *editor.Section) {
	x, y, w, h := contentBox(s)
	r.pdf.SetDrawColor(180, 180, 180)
	r.pdf.SetLineWidth(0.5)
	r.pdf.Rect(x, y, w, h, "D")
	r.pdf.Line(x, y, x+w, y+h)
	r.pdf.Line(x+w, y, x, y+h)
}

// barcodeContent 取条码内容:固定内容优先,否则取上下文字段
func (r *renderer) barcodeContent(s *editor.Section) string {
	if content := settingString(s, "content"); content != "" {
		return content
	}
	return r.ctx.fieldValue(settingString(s, "field"))
}

// drawQRCode 二维码区块
func (r *renderer) drawQRCode(s *editor.Section) {
	content := r.barcodeContent(s)
	if content == "" {
		r.drawImagePlaceholder(s)
		return
	}
	code, err := qr.Encode(content, qr.M, qr.Auto)
	if err != nil {
		r.drawImagePlaceholder(s)
		return
	}
	x, y, w, h := contentBox(s)
	side := w
	if h < side {
		side = h
	}
	scaled, err := barcode.Scale(code, 256, 256)
	if err != nil {
		r.drawImagePlaceholder(s)
		return
	}
	r.placeBarcodeImage(scaled, x+(w-side)/2, y+(h-side)/2, side, side)
}

// drawBarcode 一维条码区块,Code 128
func (r *renderer) drawBarcode(s *editor.Section) {
	content := r.barcodeContent(s)
	if content == "" {
		r.drawImagePlaceholder(s)
		return
	}
	code, err := code128.Encode(content)
	if err != nil {
		r.drawImagePlaceholder(s)
		return
	}
	x, y, w, h := contentBox(s)
	scaled, err := barcode.Scale(code, 512, 128)
	if err != nil {
		r.drawImagePlaceholder(s)
		return
	}
	r.placeBarcodeImage(scaled, x, y, w, h)
}

// placeBarcodeImage 将条码位图编码为 PNG 注册进 PDF
func (r *renderer) placeBarcodeImage(img barcode.Barcode, x, y, w, h float64) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return
	}
	r.imageSeq++
	name := fmt.Sprintf("barcode-%d", r.imageSeq)
	r.pdf.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: "PNG"}, &buf)
	r.pdf.ImageOptions(name, x, y, w, h, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
}

// resolveAsset 将相对资源路径解析到资源目录
func (r *renderer) resolveAsset(source string) string {
	if strings.HasPrefix(source, "/") || r.ctx.AssetDir == "" {
		return source
	}
	return r.ctx.AssetDir + "/" + source
}

// fieldLabel 字段名转显示标签:reservationNumber -> Reservation number
func fieldLabel(field string) string {
	if field == "" {
		return ""
	}
	var b strings.Builder
	for i, r := range field {
		if i == 0 {
			if r >= 'a' && r <= 'z' {
				r -= 'a' - 'A'
			}
			b.WriteRune(r)
			continue
		}
		if r >= 'A' && r <= 'Z' {
			b.WriteByte(' ')
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// parseHexColor 解析 #rrggbb 颜色,解析失败返回给定默认值
func parseHexColor(s string, dr, dg, db int) (int, int, int) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return dr, dg, db
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return dr, dg, db
	}
	return int(v >> 16), int(v >> 8 & 0xff), int(v & 0xff)
}

// ---- Settings 取值助手 ----
// settings 经过 JSON 往返后数值是 float64、切片是 []interface{},这里统一收敛

func settingString(s *editor.Section, key string) string {
	if v, ok := s.Settings[key].(string); ok {
		return v
	}
	return ""
}

func settingInt(s *editor.Section, key string, fallback int) int {
	switch v := s.Settings[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return fallback
}

func settingBool(s *editor.Section, key string, fallback bool) bool {
	if v, ok := s.Settings[key].(bool); ok {
		return v
	}
	return fallback
}

func settingStrings(s *editor.Section, key string) []string {
	switch v := s.Settings[key].(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	}
	return nil
}

func settingGrid(s *editor.Section, key string) [][]string {
	switch v := s.Settings[key].(type) {
	case [][]string:
		return v
	case []interface{}:
		out := make([][]string, 0, len(v))
		for _, rowVal := range v {
			row, ok := rowVal.([]interface{})
			if !ok {
				continue
			}
			cells := make([]string, 0, len(row))
			for _, cell := range row {
				if str, ok := cell.(string); ok {
					cells = append(cells, str)
				}
			}
			out = append(out, cells)
		}
		return out
	}
	return nil
}
