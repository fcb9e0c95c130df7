package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/to404hanga/contest_gateway/model"
	"github.com/to404hanga/contest_gateway/pkg/logger"
	"github.com/to404hanga/contest_gateway/service/exporter"
	"github.com/to404hanga/contest_gateway/service/exporter/common"
)

// utf8BOM 让表格软件按 UTF-8 打开西里尔字母
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type CSVApplicationExporter struct {
	log logger.Logger
}

var _ exporter.Exporter = (*CSVApplicationExporter)(nil)

func NewCSVApplicationExporter(log logger.Logger) exporter.Exporter {
	return &CSVApplicationExporter{
		log: log,
	}
}

func (e *CSVApplicationExporter) Export(ctx context.Context, items []model.ContestTaskItem, writer io.Writer) error {
	if _, err := writer.Write(utf8BOM); err != nil {
		return fmt.Errorf("write bom failed: %w", err)
	}
	csvWriter := csv.NewWriter(writer)

	if err := csvWriter.Write(common.Headers); err != nil {
		return fmt.Errorf("write header failed: %w", err)
	}
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := csvWriter.Write(common.Row(item)); err != nil {
			return fmt.Errorf("write record failed: %w", err)
		}
	}
	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return fmt.Errorf("flush csv failed: %w", err)
	}
	e.log.DebugContext(ctx, "csv export finished", logger.Int("rows", len(items)))
	return nil
}
