package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keeslam/CarRentalManager-sub003/internal/utils"
)

func TestNewDocumentDefaults(t *testing.T) {
	doc := NewDocument("Damage Check")

	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "Damage Check", doc.Name)
	assert.Equal(t, PageA4, doc.PageSize)
	assert.Equal(t, OrientationPortrait, doc.PageOrientation)
	assert.Equal(t, 1, doc.PageCount)
	require.Len(t, doc.Sections, 7)

	// 默认区块为七个结构区块,顺序即叠放顺序
	types := make([]SectionType, 0, len(doc.Sections))
	for _, s := range doc.Sections {
		types = append(types, s.Type)
		assert.True(t, s.Visible)
		assert.False(t, s.Locked)
		assert.NotEmpty(t, s.Settings, "structural sections get default settings")
	}
	assert.Equal(t, []SectionType{
		SectionHeader, SectionContractInfo, SectionVehicleData,
		SectionChecklist, SectionDiagram, SectionRemarks, SectionSignatures,
	}, types)

	assert.NoError(t, doc.Validate(), "default document satisfies its own invariants")
}

func TestRemoveSectionStructuralRejected(t *testing.T) {
	doc := NewDocument("t")
	header := doc.Sections[0]
	require.Equal(t, SectionHeader, header.Type)

	err := doc.RemoveSection(header.ID)
	assert.ErrorIs(t, err, utils.ErrStructuralSection)
	assert.Len(t, doc.Sections, 7, "nothing removed")
}

func TestRemoveSectionUserCreated(t *testing.T) {
	doc := NewDocument("t")
	s := NewSection(SectionCustomField, 10, 10, 100, 40)
	doc.AddSection(s)

	require.NoError(t, doc.RemoveSection(s.ID))
	assert.Nil(t, doc.FindSection(s.ID))

	err := doc.RemoveSection("missing")
	assert.ErrorIs(t, err, utils.ErrSectionNotFound)
}

func TestRemovePageRenumbers(t *testing.T) {
	doc := NewDocument("t")
	doc.AddPage()
	doc.AddPage()
	require.Equal(t, 3, doc.PageCount)

	p2 := NewSection(SectionTable, 10, 10, 100, 60)
	p2.Page = 2
	p3 := NewSection(SectionImage, 10, 10, 100, 60)
	p3.Page = 3
	doc.AddSection(p2)
	doc.AddSection(p3)

	require.NoError(t, doc.RemovePage(2))
	assert.Equal(t, 2, doc.PageCount)
	assert.Nil(t, doc.FindSection(p2.ID), "sections on the removed page are dropped")
	assert.Equal(t, 2, doc.FindSection(p3.ID).Page, "later pages shift forward")
	// 第一页区块页码不变
	assert.Equal(t, 1, doc.Sections[0].Page)
}

func TestRemovePageGuards(t *testing.T) {
	doc := NewDocument("t")

	assert.ErrorIs(t, doc.RemovePage(1), utils.ErrLastPage)
	doc.AddPage()
	assert.ErrorIs(t, doc.RemovePage(0), utils.ErrPageOutOfRange)
	assert.ErrorIs(t, doc.RemovePage(3), utils.ErrPageOutOfRange)
}

func TestValidateRejectsBrokenInvariants(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Document)
	}{
		{"duplicate id", func(d *Document) {
			dup := d.Sections[0].Clone()
			d.AddSection(dup)
		}},
		{"out of bounds", func(d *Document) {
			d.Sections[0].X = 590
		}},
		{"page out of range", func(d *Document) {
			d.Sections[0].Page = 5
		}},
		{"unknown type", func(d *Document) {
			d.Sections[0].Type = "banner"
		}},
		{"non-positive size", func(d *Document) {
			d.Sections[0].Width = 0
		}},
		{"custom size without dims", func(d *Document) {
			d.PageSize = PageCustom
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := NewDocument("t")
			tc.mutate(doc)
			assert.Error(t, doc.Validate())
		})
	}
}

func TestMarshalRoundTripExact(t *testing.T) {
	doc := NewDocument("Round Trip")
	doc.AddPage()
	table := NewSection(SectionTable, 30, 40, 200, 120)
	table.Page = 2
	table.Style = &Style{FontSize: 9, Border: &Border{Width: 1, Color: "#000000"}}
	table.Condition = &Condition{Field: "vehicleType", Operator: OpEquals, Value: "van"}
	doc.AddSection(table)

	data, err := doc.Marshal()
	require.NoError(t, err)

	restored, err := UnmarshalDocument(data)
	require.NoError(t, err)

	// 再序列化必须逐字节一致
	data2, err := restored.Marshal()
	require.NoError(t, err)
	assert.Equal(t, data, data2, "export/import round trip must be lossless")

	assert.Equal(t, doc.PageCount, restored.PageCount)
	assert.Len(t, restored.Sections, len(doc.Sections))
	got := restored.FindSection(table.ID)
	require.NotNil(t, got)
	assert.Equal(t, OpEquals, got.Condition.Operator)
}

func TestUnmarshalRejectsMalformed(t *testing.T) {
	_, err := UnmarshalDocument([]byte("{not json"))
	assert.ErrorIs(t, err, utils.ErrMalformedTemplate)

	// 合法 JSON 但破坏不变量同样整体拒绝
	doc := NewDocument("t")
	doc.Sections[0].X = -5
	data, merr := doc.Marshal()
	require.NoError(t, merr)
	_, err = UnmarshalDocument(data)
	assert.ErrorIs(t, err, utils.ErrInvalidDocument)
}

func TestDocumentCloneIndependent(t *testing.T) {
	doc := NewDocument("t")
	clone := doc.Clone()

	clone.Sections[0].X = 777
	clone.Sections[0].Settings["companyName"] = "Other"

	assert.Equal(t, 20.0, doc.Sections[0].X)
	assert.Equal(t, "Company Name", doc.Sections[0].Settings["companyName"])
}

func TestConditionEvaluate(t *testing.T) {
	ctxMap := map[string]string{"fuelLevel": "half", "remarks": "  "}

	assert.True(t, (&Condition{Field: "fuelLevel", Operator: OpEquals, Value: "half"}).Evaluate(ctxMap))
	assert.False(t, (&Condition{Field: "fuelLevel", Operator: OpNotEquals, Value: "half"}).Evaluate(ctxMap))
	assert.True(t, (&Condition{Field: "fuelLevel", Operator: OpContains, Value: "al"}).Evaluate(ctxMap))
	assert.True(t, (&Condition{Field: "remarks", Operator: OpIsEmpty}).Evaluate(ctxMap))
	assert.False(t, (&Condition{Field: "remarks", Operator: OpIsNotEmpty}).Evaluate(ctxMap))
	// 缺失字段按空串处理
	assert.True(t, (&Condition{Field: "missing", Operator: OpIsEmpty}).Evaluate(ctxMap))
	assert.True(t, (&Condition{Field: "missing", Operator: OpEquals, Value: ""}).Evaluate(ctxMap))
}

func TestSectionCloneDeep(t *testing.T) {
	s := NewSection(SectionTable, 0, 0, 100, 60)
	clone := s.Clone()

	cells := clone.Settings["cells"].([][]string)
	cells[0][0] = "changed"
	assert.Equal(t, "", s.Settings["cells"].([][]string)[0][0], "nested settings are deep copied")
}
