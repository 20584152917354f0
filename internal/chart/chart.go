// Package chart renders category summaries as PNG bar charts.
package chart

import (
	"context"
	"errors"
	"fmt"
	"io"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"pocketledger/internal/core"
	applog "pocketledger/internal/log"
	"pocketledger/internal/storage"
)

// ErrNoData is returned when there is nothing to plot. No file is written.
var ErrNoData = errors.New("no data to plot")

const (
	defaultWidth  = 1200
	defaultHeight = 600
	maxBarWidth   = 80
)

var (
	expenseColor = drawing.ColorFromHex("ff6347") // tomato
	incomeColor  = drawing.ColorFromHex("32cd32") // lime green
)

// FileName is where Render output goes for each kind, relative to the output directory.
var FileName = map[core.Kind]string{
	core.Expense: "expenses_plot.png",
	core.Income:  "incomes_plot.png",
}

// Spec is one chart to draw.
type Spec struct {
	Kind  core.Kind
	Items []core.CategoryAmount
}

type Renderer struct {
	Width    int
	Height   int
	Currency string
	logger   *applog.Logger
}

func NewRenderer(width, height int, currency string, logger *applog.Logger) *Renderer {
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	if logger == nil {
		logger = applog.Default()
	}
	return &Renderer{
		Width:    width,
		Height:   height,
		Currency: currency,
		logger:   logger.WithComponent(applog.ComponentChart),
	}
}

// Render draws spec as a bar chart and writes it to path.
func (r *Renderer) Render(ctx context.Context, spec Spec, path string) error {
	if len(spec.Items) == 0 {
		return ErrNoData
	}
	if err := spec.Kind.Validate(); err != nil {
		return err
	}

	graph := r.barChart(spec)
	err := storage.WriteFileAtomic(path, func(w io.Writer) error {
		return graph.Render(gochart.PNG, w)
	})
	if err != nil {
		return fmt.Errorf("render %s chart: %w", spec.Kind, err)
	}

	r.logger.InfoContext(ctx, "Chart rendered",
		applog.FieldOperation, applog.OpRender,
		applog.FieldKind, spec.Kind.String(),
		applog.FieldCount, len(spec.Items),
		applog.FieldPath, path)
	return nil
}

func (r *Renderer) barChart(spec Spec) gochart.BarChart {
	fill, title := expenseColor, "Expenses by Category"
	if spec.Kind == core.Income {
		fill, title = incomeColor, "Income by Category"
	}
	if r.Currency != "" {
		title = fmt.Sprintf("%s (%s)", title, r.Currency)
	}

	bars := make([]gochart.Value, 0, len(spec.Items))
	peak := 0.0
	for _, item := range spec.Items {
		v := item.Amount.InexactFloat64()
		if v > peak {
			peak = v
		}
		bars = append(bars, gochart.Value{
			Label: item.Name,
			Value: v,
			Style: gochart.Style{
				FillColor:   fill,
				StrokeColor: fill,
				StrokeWidth: 1,
			},
		})
	}

	return gochart.BarChart{
		Title:      title,
		Width:      r.Width,
		Height:     r.Height,
		BarWidth:   r.barWidth(len(bars)),
		Background: gochart.Style{Padding: gochart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20}},
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: 0, Max: peak * 1.1},
		},
		Bars: bars,
	}
}

// barWidth shrinks bars so that many categories still fit the canvas.
func (r *Renderer) barWidth(n int) int {
	usable := r.Width - 160
	w := usable / (2 * n)
	if w > maxBarWidth {
		w = maxBarWidth
	}
	if w < 4 {
		w = 4
	}
	return w
}
