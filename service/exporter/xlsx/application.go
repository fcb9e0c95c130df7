package xlsx

import (
	"context"
	"fmt"
	"io"

	"github.com/to404hanga/contest_gateway/model"
	"github.com/to404hanga/contest_gateway/pkg/logger"
	"github.com/to404hanga/contest_gateway/service/exporter"
	"github.com/to404hanga/contest_gateway/service/exporter/common"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Заявки"

type XLSXApplicationExporter struct {
	log logger.Logger
}

var _ exporter.Exporter = (*XLSXApplicationExporter)(nil)

func NewXLSXApplicationExporter(log logger.Logger) exporter.Exporter {
	return &XLSXApplicationExporter{
		log: log,
	}
}

func (e *XLSXApplicationExporter) Export(ctx context.Context, items []model.ContestTaskItem, writer io.Writer) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			e.log.ErrorContext(ctx, "close excel file failed", logger.Error(err))
		}
	}()

	// 默认的 Sheet1 改名, 不额外新建
	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("rename sheet failed: %w", err)
	}

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return fmt.Errorf("create stream writer failed: %w", err)
	}
	if err = e.writeHeader(f, sw); err != nil {
		return fmt.Errorf("write header failed: %w", err)
	}

	row := make([]any, len(common.Headers))
	for i, item := range items {
		if err = ctx.Err(); err != nil {
			return err
		}
		for col, v := range common.Row(item) {
			row[col] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("get cell name failed: %w", err)
		}
		if err = sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("set row failed: %w", err)
		}
	}
	if err = sw.Flush(); err != nil {
		return fmt.Errorf("flush stream writer failed: %w", err)
	}

	if err = f.Write(writer); err != nil {
		return fmt.Errorf("write excel file failed: %w", err)
	}
	return nil
}

// writeHeader 写入表头与列宽, 必须在写数据行之前调用
func (e *XLSXApplicationExporter) writeHeader(f *excelize.File, sw *excelize.StreamWriter) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E0E0E0"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return fmt.Errorf("create header style failed: %w", err)
	}

	if err = sw.SetColWidth(1, len(common.Headers), 24); err != nil {
		return fmt.Errorf("set column width failed: %w", err)
	}

	header := make([]any, 0, len(common.Headers))
	for _, h := range common.Headers {
		header = append(header, excelize.Cell{StyleID: headerStyle, Value: h})
	}
	return sw.SetRow("A1", header)
}
