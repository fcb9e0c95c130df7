package factory

import (
	"sync"

	"github.com/to404hanga/contest_gateway/pkg/logger"
	"github.com/to404hanga/contest_gateway/service/exporter"
	"github.com/to404hanga/contest_gateway/service/exporter/csv"
	"github.com/to404hanga/contest_gateway/service/exporter/xlsx"
)

type ExporterType string

const (
	CSVExporter  ExporterType = "csv"
	XLSXExporter ExporterType = "xlsx"
)

var ExporterSuffixMap = map[ExporterType]string{
	CSVExporter:  ".csv",
	XLSXExporter: ".xlsx",
}

var ExporterContentTypeMap = map[ExporterType]string{
	CSVExporter:  "text/csv; charset=utf-8",
	XLSXExporter: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

type ExporterFactory struct {
	factory map[ExporterType]exporter.Exporter
	log     logger.Logger
	mux     sync.RWMutex
}

func NewExporterFactory(log logger.Logger) *ExporterFactory {
	return &ExporterFactory{
		factory: make(map[ExporterType]exporter.Exporter), // 延迟创建
		log:     log,
	}
}

// GetExporter 未知类型返回 nil
func (f *ExporterFactory) GetExporter(exporterType ExporterType) exporter.Exporter {
	f.mux.RLock()
	if exp, exists := f.factory[exporterType]; exists {
		f.mux.RUnlock()
		return exp
	}
	f.mux.RUnlock()

	f.mux.Lock()
	defer f.mux.Unlock()

	// 双重检查，避免重复创建
	if exp, exists := f.factory[exporterType]; exists {
		return exp
	}

	switch exporterType {
	case CSVExporter:
		f.factory[CSVExporter] = csv.NewCSVApplicationExporter(f.log)
		return f.factory[CSVExporter]
	case XLSXExporter:
		f.factory[XLSXExporter] = xlsx.NewXLSXApplicationExporter(f.log)
		return f.factory[XLSXExporter]
	}

	return nil
}
