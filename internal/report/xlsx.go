package report

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/finsight-cli/internal/model"
)

// WriteWorkbook writes an xlsx workbook with one sheet of extracted
// figures per period and one sheet of derived metrics.
func WriteWorkbook(path string, docs []model.Document) error {
	if len(docs) == 0 {
		return eris.New("report: no documents to export")
	}

	f := xlsx.NewFile()

	if err := writeDataSheet(f, docs); err != nil {
		return err
	}
	if err := writeMetricsSheet(f, docs); err != nil {
		return err
	}
	if err := writeRiskSheet(f, docs); err != nil {
		return err
	}

	return eris.Wrapf(f.Save(path), "report: save workbook %s", path)
}

func writeDataSheet(f *xlsx.File, docs []model.Document) error {
	sheet, err := f.AddSheet("Financials")
	if err != nil {
		return eris.Wrap(err, "report: add sheet")
	}

	header := sheet.AddRow()
	header.AddCell().Value = "Field"
	for _, doc := range docs {
		header.AddCell().Value = periodLabel(doc)
	}

	fields := docs[0].Data.Fields()
	for i, field := range fields {
		row := sheet.AddRow()
		row.AddCell().Value = field.Name
		for _, doc := range docs {
			row.AddCell().SetFloat(doc.Data.Fields()[i].Value)
		}
	}
	return nil
}

func writeMetricsSheet(f *xlsx.File, docs []model.Document) error {
	sheet, err := f.AddSheet("Metrics")
	if err != nil {
		return eris.Wrap(err, "report: add sheet")
	}

	header := sheet.AddRow()
	header.AddCell().Value = "Metric"
	for _, doc := range docs {
		header.AddCell().Value = periodLabel(doc)
	}

	for _, name := range metricOrder {
		row := sheet.AddRow()
		row.AddCell().Value = name
		for _, doc := range docs {
			cell := row.AddCell()
			if doc.Metrics == nil {
				continue
			}
			cell.SetFloat(metricValue(doc.Metrics, name))
		}
	}
	return nil
}

func writeRiskSheet(f *xlsx.File, docs []model.Document) error {
	sheet, err := f.AddSheet("Risk")
	if err != nil {
		return eris.Wrap(err, "report: add sheet")
	}

	header := sheet.AddRow()
	for _, h := range []string{"Period", "Liquidity", "Solvency", "Operational", "Overall"} {
		header.AddCell().Value = h
	}

	for _, doc := range docs {
		row := sheet.AddRow()
		row.AddCell().Value = periodLabel(doc)
		if doc.Risk == nil {
			continue
		}
		row.AddCell().Value = string(doc.Risk.Liquidity)
		row.AddCell().Value = string(doc.Risk.Solvency)
		row.AddCell().Value = string(doc.Risk.Operational)
		row.AddCell().Value = string(doc.Risk.Overall)
	}
	return nil
}

func periodLabel(doc model.Document) string {
	if doc.Period != "" {
		return doc.Period
	}
	return doc.FileName
}

var metricOrder = []string{
	"currentRatio", "quickRatio", "cashRatio",
	"debtToEquity", "debtToAssets", "equityRatio",
	"assetTurnover", "inventoryTurnover", "receivablesTurnover", "fixedAssetTurnover",
	"returnOnAssets", "returnOnEquity", "grossMargin", "netMargin",
	"workingCapital", "workingCapitalRatio",
	"daysSalesOutstanding", "daysInventoryOutstanding", "daysPayablesOutstanding",
	"cashConversionCycle",
}

func metricValue(m *model.MetricsSet, name string) float64 {
	switch name {
	case "currentRatio":
		return m.CurrentRatio
	case "quickRatio":
		return m.QuickRatio
	case "cashRatio":
		return m.CashRatio
	case "debtToEquity":
		return m.DebtToEquity
	case "debtToAssets":
		return m.DebtToAssets
	case "equityRatio":
		return m.EquityRatio
	case "assetTurnover":
		return m.AssetTurnover
	case "inventoryTurnover":
		return m.InventoryTurnover
	case "receivablesTurnover":
		return m.ReceivablesTurnover
	case "fixedAssetTurnover":
		return m.FixedAssetTurnover
	case "returnOnAssets":
		return m.ReturnOnAssets
	case "returnOnEquity":
		return m.ReturnOnEquity
	case "grossMargin":
		return m.GrossMargin
	case "netMargin":
		return m.NetMargin
	case "workingCapital":
		return m.WorkingCapital
	case "workingCapitalRatio":
		return m.WorkingCapitalRatio
	case "daysSalesOutstanding":
		return m.DaysSalesOutstanding
	case "daysInventoryOutstanding":
		return m.DaysInventoryOutstanding
	case "daysPayablesOutstanding":
		return m.DaysPayablesOutstanding
	case "cashConversionCycle":
		return m.CashConversionCycle
	}
	return 0
}
