package pptgen

import (
	"fmt"
	"strings"
)

// chartSeriesOf extracts the series list from any chart type.
func chartSeriesOf(ct ChartType) []*ChartSeries {
	switch c := ct.(type) {
	case *BarChart:
		return c.Series
	case *LineChart:
		return c.Series
	case *PieChart:
		return c.Series
	default:
		return nil
	}
}

// writeChartPartXML emits one c:chartSpace part for an embedded chart.
func writeChartPartXML(chart *ChartShape, lang string) []byte {
	ct := chart.plotArea.chartType
	if ct == nil {
		return nil
	}

	series := chartSeriesOf(ct)
	var categories []string
	if len(series) > 0 {
		categories = series[0].Categories
	}

	var chartTypeXML string
	switch c := ct.(type) {
	case *LineChart:
		chartTypeXML = writeLineChartXML(c, categories)
	case *PieChart:
		chartTypeXML = writePieChartXML(c, categories)
	case *BarChart:
		chartTypeXML = writeBarChartXML(c, categories)
	}

	titleXML := ""
	if chart.title.Visible && chart.title.Text != "" {
		titleXML = fmt.Sprintf(`  <c:title>
    <c:tx>
      <c:rich>
        <a:bodyPr/>
        <a:lstStyle/>
        <a:p>
          <a:r>
            <a:rPr lang="%s" b="1"/>
            <a:t>%s</a:t>
          </a:r>
        </a:p>
      </c:rich>
    </c:tx>
    <c:overlay val="0"/>
  </c:title>
`, xmlEscape(lang), xmlEscape(chart.title.Text))
	} else {
		titleXML = `  <c:autoTitleDeleted val="1"/>
`
	}

	legendXML := ""
	if chart.legend.Visible {
		legendXML = fmt.Sprintf(`  <c:legend>
    <c:legendPos val="%s"/>
    <c:overlay val="0"/>
  </c:legend>
`, chart.legend.Position)
	}

	axisXML := ""
	if _, pie := ct.(*PieChart); !pie {
		axisXML = writeAxesXML()
	}

	content := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<c:chartSpace xmlns:c="%s" xmlns:a="%s" xmlns:r="%s">
  <c:chart>
%s    <c:plotArea>
      <c:layout/>
%s%s    </c:plotArea>
%s    <c:plotVisOnly val="1"/>
    <c:dispBlanksAs val="%s"/>
  </c:chart>
</c:chartSpace>`,
		nsChartML, nsDrawingML, nsOfficeDocRels,
		titleXML,
		chartTypeXML, axisXML,
		legendXML,
		chart.blankMode)

	return []byte(content)
}

func writeAxesXML() string {
	return `      <c:catAx>
        <c:axId val="1"/>
        <c:scaling><c:orientation val="minMax"/></c:scaling>
        <c:delete val="0"/>
        <c:axPos val="b"/>
        <c:crossAx val="2"/>
        <c:crosses val="autoZero"/>
        <c:tickLblPos val="nextTo"/>
      </c:catAx>
      <c:valAx>
        <c:axId val="2"/>
        <c:scaling>
          <c:orientation val="minMax"/>
        </c:scaling>
        <c:delete val="0"/>
        <c:axPos val="l"/>
        <c:crossAx val="1"/>
        <c:crosses val="autoZero"/>
        <c:tickLblPos val="nextTo"/>
      </c:valAx>
`
}

func writeSeriesXML(series []*ChartSeries, categories []string) string {
	var sb strings.Builder
	for idx, s := range series {
		fillXML := ""
		if s.FillColor.ARGB != "" {
			fillXML = fmt.Sprintf(`          <c:spPr><a:solidFill><a:srgbClr val="%s"/></a:solidFill></c:spPr>
`, colorRGB(s.FillColor))
		}

		fmt.Fprintf(&sb, `        <c:ser>
          <c:idx val="%d"/>
          <c:order val="%d"/>
          <c:tx><c:strRef><c:f>Sheet1!$B$1</c:f><c:strCache><c:ptCount val="1"/><c:pt idx="0"><c:v>%s</c:v></c:pt></c:strCache></c:strRef></c:tx>
%s`, idx, idx, xmlEscape(s.Title), fillXML)

		if len(categories) > 0 {
			sb.WriteString("          <c:cat>\n            <c:strRef><c:f>Sheet1!$A$2</c:f><c:strCache>\n")
			fmt.Fprintf(&sb, "              <c:ptCount val=\"%d\"/>\n", len(categories))
			for i, cat := range categories {
				fmt.Fprintf(&sb, "              <c:pt idx=\"%d\"><c:v>%s</c:v></c:pt>\n", i, xmlEscape(cat))
			}
			sb.WriteString("            </c:strCache></c:strRef>\n          </c:cat>\n")
		}

		sb.WriteString("          <c:val>\n            <c:numRef><c:f>Sheet1!$B$2</c:f><c:numCache>\n")
		fmt.Fprintf(&sb, "              <c:formatCode>General</c:formatCode>\n              <c:ptCount val=\"%d\"/>\n", len(categories))
		for i := range categories {
			var v float64
			if i < len(s.Values) {
				v = s.Values[i]
			}
			fmt.Fprintf(&sb, "              <c:pt idx=\"%d\"><c:v>%g</c:v></c:pt>\n", i, v)
		}
		sb.WriteString("            </c:numCache></c:numRef>\n          </c:val>\n")

		sb.WriteString("        </c:ser>\n")
	}
	return sb.String()
}

func writeBarChartXML(c *BarChart, cats []string) string {
	return fmt.Sprintf(`      <c:barChart>
        <c:barDir val="%s"/>
        <c:grouping val="%s"/>
        <c:varyColors val="0"/>
%s        <c:gapWidth val="%d"/>
        <c:overlap val="%d"/>
        <c:axId val="1"/>
        <c:axId val="2"/>
      </c:barChart>
`, c.BarDirection, c.BarGrouping, writeSeriesXML(c.Series, cats),
		c.GapWidthPercent, c.OverlapPercent)
}

func writeLineChartXML(c *LineChart, cats []string) string {
	smooth := "0"
	if c.IsSmooth {
		smooth = "1"
	}
	seriesXML := writeSeriesXML(c.Series, cats)
	seriesXML = strings.ReplaceAll(seriesXML, "</c:ser>",
		fmt.Sprintf("          <c:smooth val=\"%s\"/>\n        </c:ser>", smooth))

	return fmt.Sprintf(`      <c:lineChart>
        <c:grouping val="standard"/>
        <c:varyColors val="0"/>
%s        <c:axId val="1"/>
        <c:axId val="2"/>
      </c:lineChart>
`, seriesXML)
}

func writePieChartXML(c *PieChart, cats []string) string {
	return fmt.Sprintf(`      <c:pieChart>
        <c:varyColors val="1"/>
%s      </c:pieChart>
`, writeSeriesXML(c.Series, cats))
}
