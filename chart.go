package pptgen

// ChartShape represents a chart embedded in a slide via a graphic frame.
type ChartShape struct {
	BaseShape
	title     *ChartTitle
	plotArea  *PlotArea
	legend    *ChartLegend
	blankMode string
}

// ChartBlankAsZero displays blank data points as zero.
const ChartBlankAsZero = "zero"

func (c *ChartShape) GetType() ShapeType { return ShapeTypeChart }

// NewChartShape creates a new chart shape.
func NewChartShape() *ChartShape {
	return &ChartShape{
		title:     &ChartTitle{},
		plotArea:  &PlotArea{},
		legend:    &ChartLegend{Visible: true, Position: LegendBottom},
		blankMode: ChartBlankAsZero,
	}
}

// GetTitle returns the chart title.
func (c *ChartShape) GetTitle() *ChartTitle { return c.title }

// GetPlotArea returns the plot area.
func (c *ChartShape) GetPlotArea() *PlotArea { return c.plotArea }

// GetLegend returns the chart legend.
func (c *ChartShape) GetLegend() *ChartLegend { return c.legend }

// GetDisplayBlankAs returns how blank values are displayed.
func (c *ChartShape) GetDisplayBlankAs() string { return c.blankMode }

// ChartTitle represents a chart title.
type ChartTitle struct {
	Text    string
	Visible bool
}

// PlotArea represents the chart plot area.
type PlotArea struct {
	chartType ChartType
}

// SetType sets the chart type.
func (pa *PlotArea) SetType(ct ChartType) { pa.chartType = ct }

// GetType returns the chart type.
func (pa *PlotArea) GetType() ChartType { return pa.chartType }

// ChartLegend represents a chart legend.
type ChartLegend struct {
	Visible  bool
	Position LegendPosition
}

// LegendPosition represents the legend position.
type LegendPosition string

const (
	LegendBottom LegendPosition = "b"
	LegendRight  LegendPosition = "r"
)

// ChartType is the interface for concrete chart types.
type ChartType interface {
	GetChartTypeName() string
}

// ChartSeries represents a data series with ordered categories. Values
// align index-for-index with Categories, so repeated category labels keep
// their own points.
type ChartSeries struct {
	Title      string
	Values     []float64 // aligned with Categories
	Categories []string  // ordered category names
	FillColor  Color
}

// NewChartSeriesOrdered creates a series whose values align with the
// categories. Missing values default to 0; extras beyond the category
// count are ignored.
func NewChartSeriesOrdered(title string, categories []string, values []float64) *ChartSeries {
	data := make([]float64, len(categories))
	copy(data, values)
	return &ChartSeries{
		Title:      title,
		Values:     data,
		Categories: categories,
	}
}

// BarChart represents a bar/column chart.
type BarChart struct {
	Series          []*ChartSeries
	BarGrouping     string
	BarDirection    string
	GapWidthPercent int
	OverlapPercent  int
}

// Bar grouping and direction constants.
const (
	BarGroupingClustered   = "clustered"
	BarDirectionVertical   = "col"
	BarDirectionHorizontal = "bar"
)

func (b *BarChart) GetChartTypeName() string { return "bar" }

// NewBarChart creates a new clustered column chart.
func NewBarChart() *BarChart {
	return &BarChart{
		BarGrouping:     BarGroupingClustered,
		BarDirection:    BarDirectionVertical,
		GapWidthPercent: 150,
	}
}

// AddSeries adds a data series.
func (b *BarChart) AddSeries(s *ChartSeries) *BarChart {
	b.Series = append(b.Series, s)
	return b
}

// LineChart represents a line chart.
type LineChart struct {
	Series   []*ChartSeries
	IsSmooth bool
}

func (l *LineChart) GetChartTypeName() string { return "line" }

// NewLineChart creates a new line chart.
func NewLineChart() *LineChart {
	return &LineChart{}
}

// AddSeries adds a data series.
func (l *LineChart) AddSeries(s *ChartSeries) *LineChart {
	l.Series = append(l.Series, s)
	return l
}

// PieChart represents a pie chart.
type PieChart struct {
	Series []*ChartSeries
}

func (p *PieChart) GetChartTypeName() string { return "pie" }

// NewPieChart creates a new pie chart.
func NewPieChart() *PieChart {
	return &PieChart{}
}

// AddSeries adds a data series.
func (p *PieChart) AddSeries(s *ChartSeries) *PieChart {
	p.Series = append(p.Series, s)
	return p
}
