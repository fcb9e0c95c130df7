package exporter

import (
	"context"
	"io"

	"github.com/to404hanga/contest_gateway/model"
)

// Exporter 把比赛的报名列表写入 writer
type Exporter interface {
	Export(ctx context.Context, items []model.ContestTaskItem, writer io.Writer) error
}
