package pptgen

import (
	"errors"
	"strings"
	"testing"
)

func testCatalog(t *testing.T, layoutNames ...string) *Catalog {
	t.Helper()
	c, err := BuildCatalog(loadTestTemplate(t, layoutNames...))
	if err != nil {
		t.Fatalf("BuildCatalog: %v", err)
	}
	return c
}

func TestBindSlide_TitleSlide(t *testing.T) {
	c := testCatalog(t)
	h, _ := c.Resolve(KindTitle)
	s := &SlideSpec{Kind: KindTitle, Title: "Annual Report", Subtitle: "2026 Edition"}

	b, err := bindSlide(0, s, h, nil, DefaultFitPolicy(), c)
	if err != nil {
		t.Fatalf("bindSlide: %v", err)
	}
	if len(b.shapes) != 2 {
		t.Fatalf("expected title and subtitle shapes, got %d", len(b.shapes))
	}
	title := b.shapes[0].(*RichTextShape)
	if phType, _ := title.GetPlaceholder(); phType != "ctrTitle" {
		t.Errorf("title bound to %q, want ctrTitle", phType)
	}
	if title.PlainText() != "Annual Report" {
		t.Errorf("title text = %q", title.PlainText())
	}
	sub := b.shapes[1].(*RichTextShape)
	if sub.PlainText() != "2026 Edition" {
		t.Errorf("subtitle text = %q", sub.PlainText())
	}
}

func TestBindSlide_ContentOnly(t *testing.T) {
	c := testCatalog(t)
	h, _ := c.Resolve(KindContentOnly)
	s := &SlideSpec{
		Kind:    KindContentOnly,
		Title:   "Agenda",
		Content: []TextRun{{Text: "Intro paragraph."}},
		Bullets: []Bullet{{Text: "First"}, {Text: "Nested", Level: 1}},
	}

	b, err := bindSlide(0, s, h, nil, DefaultFitPolicy(), c)
	if err != nil {
		t.Fatalf("bindSlide: %v", err)
	}
	if len(b.shapes) != 2 {
		t.Fatalf("expected title and body, got %d shapes", len(b.shapes))
	}
	body := b.shapes[1].(*RichTextShape)
	text := body.PlainText()
	for _, want := range []string{"Intro paragraph.", "First", "Nested"} {
		if !strings.Contains(text, want) {
			t.Errorf("body text missing %q: %q", want, text)
		}
	}
	// The nested bullet keeps its level.
	paras := body.GetParagraphs()
	last := paras[len(paras)-1]
	if last.GetLevel() != 1 {
		t.Errorf("nested bullet level = %d", last.GetLevel())
	}
}

func TestBindSlide_TwoColumns(t *testing.T) {
	c := testCatalog(t)
	h, _ := c.Resolve(KindTwoColumns)
	s := &SlideSpec{
		Kind:         KindTwoColumns,
		Title:        "Compare",
		LeftBullets:  []Bullet{{Text: "Pro one"}, {Text: "Pro two"}},
		RightBullets: []Bullet{{Text: "Con one"}},
	}

	b, err := bindSlide(0, s, h, nil, DefaultFitPolicy(), c)
	if err != nil {
		t.Fatalf("bindSlide: %v", err)
	}
	if len(b.shapes) != 3 {
		t.Fatalf("expected title and two columns, got %d shapes", len(b.shapes))
	}
	left := b.shapes[1].(*RichTextShape)
	right := b.shapes[2].(*RichTextShape)
	if left.GetOffsetX() >= right.GetOffsetX() {
		t.Errorf("columns not ordered: left at %d, right at %d", left.GetOffsetX(), right.GetOffsetX())
	}
	if !strings.Contains(left.PlainText(), "Pro one") {
		t.Errorf("left column text = %q", left.PlainText())
	}
	if !strings.Contains(right.PlainText(), "Con one") {
		t.Errorf("right column text = %q", right.PlainText())
	}
}

func TestBindSlide_TwoColumnsMergesOnDegradedLayout(t *testing.T) {
	// A two-column slide degraded onto the content layout merges both
	// columns into the single body.
	c := testCatalog(t, "Content Only")
	h, degraded := c.ResolveOrFallback(KindTwoColumns)
	if !degraded {
		t.Fatal("expected degradation to content layout")
	}
	s := &SlideSpec{
		Kind:         KindTwoColumns,
		Title:        "Compare",
		LeftBullets:  []Bullet{{Text: "Left item"}},
		RightBullets: []Bullet{{Text: "Right item"}},
	}

	b, err := bindSlide(0, s, h, nil, DefaultFitPolicy(), c)
	if err != nil {
		t.Fatalf("bindSlide: %v", err)
	}
	body := b.shapes[len(b.shapes)-1].(*RichTextShape)
	text := body.PlainText()
	if !strings.Contains(text, "Left item") || !strings.Contains(text, "Right item") {
		t.Errorf("merged body text = %q", text)
	}
}

func TestBindSlide_Table(t *testing.T) {
	c := testCatalog(t)
	h, _ := c.Resolve(KindTable)
	s := &SlideSpec{
		Kind:  KindTable,
		Title: "Numbers",
		Table: &TableSpec{
			Headers: []string{"Region", "Share"},
			Rows:    [][]string{{"EMEA", "40%"}, {"APAC", "35%"}, {"AMER", "25%"}},
			Style:   TableStyleHeaderColored,
		},
	}

	b, err := bindSlide(0, s, h, nil, DefaultFitPolicy(), c)
	if err != nil {
		t.Fatalf("bindSlide: %v", err)
	}
	var table *TableShape
	for _, sh := range b.shapes {
		if ts, ok := sh.(*TableShape); ok {
			table = ts
		}
	}
	if table == nil {
		t.Fatal("no table shape bound")
	}
	if table.GetNumRows() != 4 || table.GetNumCols() != 2 {
		t.Fatalf("table is %dx%d, want 4x2", table.GetNumRows(), table.GetNumCols())
	}
	// Table lands in the layout's tbl slot.
	if table.GetOffsetX() != 914400 || table.GetWidth() != 10363200 {
		t.Errorf("table frame = %d,%d", table.GetOffsetX(), table.GetWidth())
	}
	// Header is bold and, with the colored style, filled.
	header := table.GetCell(0, 0)
	run, ok := header.GetParagraphs()[0].GetElements()[0].(*ShapeTextRun)
	if !ok || run.GetText() != "Region" {
		t.Fatalf("header cell content unexpected")
	}
	if !run.HasFont() || !run.Font().Bold {
		t.Error("header run should be bold")
	}
	if header.GetFill() == nil {
		t.Error("colored style should fill the header row")
	}
	// Second body row is banded, first is not.
	if table.GetCell(1, 0).GetFill() != nil {
		t.Error("first body row should not be banded")
	}
	if table.GetCell(2, 0).GetFill() == nil {
		t.Error("second body row should be banded")
	}
}

func TestBindSlide_Chart(t *testing.T) {
	c := testCatalog(t)
	h, _ := c.Resolve(KindChart)
	s := &SlideSpec{
		Kind:  KindChart,
		Title: "Revenue",
		Chart: &ChartSpec{
			Kind:       ChartPie,
			Categories: []string{"Q1", "Q2"},
			Series:     []SeriesSpec{{Name: "2026", Values: []float64{10, 14}}},
		},
	}

	b, err := bindSlide(0, s, h, nil, DefaultFitPolicy(), c)
	if err != nil {
		t.Fatalf("bindSlide: %v", err)
	}
	if b.chart == nil {
		t.Fatal("chart slide must record its chart shape")
	}
	if got := b.chart.GetPlotArea().GetType().GetChartTypeName(); got != "pie" {
		t.Errorf("chart type = %q, want pie", got)
	}
	if b.chart.GetLegend().Position != LegendRight {
		t.Errorf("pie legend position = %q, want right", b.chart.GetLegend().Position)
	}
	if !b.chart.GetTitle().Visible || b.chart.GetTitle().Text != "Revenue" {
		t.Errorf("chart title = %+v", b.chart.GetTitle())
	}
}

func TestBindSlide_ChartDataError(t *testing.T) {
	c := testCatalog(t)
	h, _ := c.Resolve(KindChart)
	// Built directly, bypassing NewDeckSpec validation.
	s := &SlideSpec{
		Kind:  KindChart,
		Title: "Broken",
		Chart: &ChartSpec{
			Categories: []string{"Q1", "Q2", "Q3"},
			Series:     []SeriesSpec{{Name: "s", Values: []float64{1}}},
		},
	}

	_, err := bindSlide(4, s, h, nil, DefaultFitPolicy(), c)
	var cde *ChartDataError
	if !errors.As(err, &cde) {
		t.Fatalf("expected ChartDataError, got %v", err)
	}
	if cde.SlideIndex != 4 || cde.Got != 1 || cde.Want != 3 {
		t.Errorf("error detail = %+v", cde)
	}
}

func TestBindSlide_ImageInPictureSlot(t *testing.T) {
	c := testCatalog(t)
	h, _ := c.Resolve(KindImageRight)
	s := &SlideSpec{
		Kind:    KindImageRight,
		Title:   "Team",
		Content: []TextRun{{Text: "Our people."}},
		Image:   &ImageSpec{Query: "office"},
	}
	img := &ResolvedImage{Data: makePNG(t, 100, 80)}

	b, err := bindSlide(0, s, h, img, DefaultFitPolicy(), c)
	if err != nil {
		t.Fatalf("bindSlide: %v", err)
	}
	var pic *DrawingShape
	for _, sh := range b.shapes {
		if d, ok := sh.(*DrawingShape); ok {
			pic = d
		}
	}
	if pic == nil {
		t.Fatal("no picture shape bound")
	}
	slot := h.Slot(RolePicture)
	if pic.GetOffsetX() != slot.X || pic.GetWidth() != slot.W {
		t.Errorf("picture frame %d/%d does not match pic slot %d/%d",
			pic.GetOffsetX(), pic.GetWidth(), slot.X, slot.W)
	}
	if len(pic.GetImageData()) == 0 {
		t.Error("picture has no data")
	}
}

func TestBindSlide_ImageWithoutData(t *testing.T) {
	// No provider and no fallback: the slide renders without a picture
	// rather than failing.
	c := testCatalog(t)
	h, _ := c.Resolve(KindImageRight)
	s := &SlideSpec{Kind: KindImageRight, Title: "Team", Image: &ImageSpec{Query: "office"}}

	b, err := bindSlide(0, s, h, &ResolvedImage{UsedFallback: true}, DefaultFitPolicy(), c)
	if err != nil {
		t.Fatalf("bindSlide: %v", err)
	}
	for _, sh := range b.shapes {
		if _, ok := sh.(*DrawingShape); ok {
			t.Error("picture shape bound with no image data")
		}
	}
}

func TestBindSlide_ImageLeftFallbackGeometry(t *testing.T) {
	// Degraded onto the content layout, which has no pic slot: the
	// image falls back to the left half of the slide.
	c := testCatalog(t, "Content Only")
	h, _ := c.ResolveOrFallback(KindImageLeft)
	s := &SlideSpec{Kind: KindImageLeft, Title: "Team", Image: &ImageSpec{Query: "office"}}
	img := &ResolvedImage{Data: makePNG(t, 100, 80)}

	b, err := bindSlide(0, s, h, img, DefaultFitPolicy(), c)
	if err != nil {
		t.Fatalf("bindSlide: %v", err)
	}
	var pic *DrawingShape
	for _, sh := range b.shapes {
		if d, ok := sh.(*DrawingShape); ok {
			pic = d
		}
	}
	if pic == nil {
		t.Fatal("no picture shape bound")
	}
	slideW, _ := c.SlideSize()
	if pic.GetOffsetX() != 0 || pic.GetWidth() != slideW/2 {
		t.Errorf("left-image fallback frame = %d/%d", pic.GetOffsetX(), pic.GetWidth())
	}
}

func TestContentFrame_Defaults(t *testing.T) {
	c := testCatalog(t, "Content Only")
	h, _ := c.Resolve(KindContentOnly)

	// The content layout has a body slot, so a table placed on it uses
	// that frame.
	f := contentFrame(h, RoleTable, 12192000, 6858000)
	body := h.Slot(RoleBody)
	if f.x != body.X || f.w != body.W {
		t.Errorf("frame %+v does not match body slot", f)
	}

	// Without any usable slot the frame is the centered default.
	empty := &LayoutHandle{Kind: KindContentOnly}
	f = contentFrame(empty, RoleChart, 12192000, 6858000)
	if f.x != 1219200 || f.w != 9753600 {
		t.Errorf("default frame = %+v", f)
	}
}
