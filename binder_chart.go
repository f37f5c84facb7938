package pptgen

// Series fill palette, applied in order and wrapped when a chart has
// more series than colors.
var chartPalette = []Color{
	NewColor("4472C4"),
	NewColor("ED7D31"),
	NewColor("A5A5A5"),
	NewColor("FFC000"),
	NewColor("5B9BD5"),
	NewColor("70AD47"),
}

// bindChart builds a chart shape from the validated spec. The series
// lengths are re-checked against the categories even though the
// constructor already validated them: chart data is the one place a
// silent mismatch would produce a deck that opens but plots garbage.
func bindChart(slideIdx int, title string, spec *ChartSpec, f frame) (*ChartShape, error) {
	for _, s := range spec.Series {
		if len(s.Values) != len(spec.Categories) {
			return nil, &ChartDataError{
				SlideIndex: slideIdx,
				Series:     s.Name,
				Got:        len(s.Values),
				Want:       len(spec.Categories),
			}
		}
	}

	sh := NewChartShape()
	sh.SetPosition(f.x, f.y)
	sh.SetSize(f.w, f.h)
	sh.SetName("Chart")
	if title != "" {
		sh.GetTitle().Text = title
		sh.GetTitle().Visible = true
	}

	series := make([]*ChartSeries, 0, len(spec.Series))
	for i, s := range spec.Series {
		cs := NewChartSeriesOrdered(s.Name, spec.Categories, s.Values)
		cs.FillColor = chartPalette[i%len(chartPalette)]
		series = append(series, cs)
	}

	switch spec.Kind {
	case ChartLine:
		ch := NewLineChart()
		for _, s := range series {
			ch.AddSeries(s)
		}
		sh.GetPlotArea().SetType(ch)
	case ChartPie:
		ch := NewPieChart()
		for _, s := range series {
			ch.AddSeries(s)
		}
		sh.GetPlotArea().SetType(ch)
		sh.GetLegend().Position = LegendRight
	default:
		ch := NewBarChart()
		for _, s := range series {
			ch.AddSeries(s)
		}
		sh.GetPlotArea().SetType(ch)
	}
	return sh, nil
}
