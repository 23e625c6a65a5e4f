package render

import (
	"io"

	"agrimap/internal/choropleth"
	"agrimap/internal/metrics"

	"github.com/xuri/excelize/v2"
)

const attributesSheet = "Attributes"

var attributeHeader = []string{"region", "cereal_code", "cereal_label", "variety_code", "area", "production"}

// XLSX：输出一张属性表，行顺序与 Spec 条目一致；空 Spec 只有表头
func XLSX(w io.Writer, s *choropleth.Spec) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", attributesSheet); err != nil {
		return err
	}
	for i, h := range attributeHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(attributesSheet, cell, h); err != nil {
			return err
		}
	}
	for r, e := range s.Entries {
		a := e.Attributes
		row := []any{e.Feature.RegionName, a.CerealCode, a.Cereal.String(), a.VarietyCode, a.Area, a.Production}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(attributesSheet, cell, &row); err != nil {
			return err
		}
	}
	if err := f.Write(w); err != nil {
		return err
	}
	metrics.RenderTotal.WithLabelValues("xlsx").Inc()
	return nil
}
