package pptgen

import (
	"strings"

	"golang.org/x/text/language"
)

// SlideKind identifies which layout family a slide belongs to.
type SlideKind int

const (
	KindTitle SlideKind = iota
	KindContentOnly
	KindImageRight
	KindImageLeft
	KindImageFull
	KindTable
	KindChart
	KindTwoColumns
)

var kindNames = map[SlideKind]string{
	KindTitle:       "Title Slide",
	KindContentOnly: "Content Only",
	KindImageRight:  "Image Right",
	KindImageLeft:   "Image Left",
	KindImageFull:   "Image Full",
	KindTable:       "Table",
	KindChart:       "Chart",
	KindTwoColumns:  "Two Columns",
}

// String returns the layout name the kind matches against in a template.
func (k SlideKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// TextRun is a span of text with optional formatting, matching what the
// upstream generator is allowed to emit.
type TextRun struct {
	Text      string
	Bold      bool
	Italic    bool
	Color     string // hex RRGGBB, empty for default
	Size      int    // points, 0 for default
	Hyperlink string // external URL, empty for none
}

// Bullet is one bullet line with an indentation level (0-5).
type Bullet struct {
	Text  string
	Level int
	Runs  []TextRun // optional formatted runs; Text is used when empty
}

// TableSpec holds a header row and body rows. All rows must have exactly
// len(Headers) cells; this is enforced at construction, never at render.
type TableSpec struct {
	Headers []string
	Rows    [][]string
	Style   string // "" or TableStyleHeaderColored
}

// TableStyleHeaderColored styles the header row with a dark fill and
// white bold text, as the stock template expects.
const TableStyleHeaderColored = "header_colored"

// ChartKind is the supported chart family.
type ChartKind string

const (
	ChartBar  ChartKind = "bar"
	ChartLine ChartKind = "line"
	ChartPie  ChartKind = "pie"
)

// SeriesSpec is one named data series. len(Values) must equal the chart's
// category count.
type SeriesSpec struct {
	Name   string
	Values []float64
}

// ChartSpec describes a category chart. Kind defaults to ChartBar.
type ChartSpec struct {
	Kind       ChartKind
	Categories []string
	Series     []SeriesSpec
}

// ImageSpec carries the search query for an image-bearing slide.
type ImageSpec struct {
	Query string
}

// ImageDescriptor pairs a query with the fallback resource used when the
// provider yields nothing. A render always ends with image bytes.
type ImageDescriptor struct {
	Query        string
	FallbackPath string
}

// SlideSpec is a tagged variant over the slide kinds. Only the fields
// meaningful to Kind are consulted; constructors reject the rest being
// inconsistent with the declared kind.
type SlideSpec struct {
	Kind SlideKind

	Title    string
	Subtitle string // KindTitle only

	Content []TextRun // paragraph text for content-bearing kinds
	Bullets []Bullet

	Table *TableSpec
	Chart *ChartSpec
	Image *ImageSpec

	LeftBullets  []Bullet // KindTwoColumns
	RightBullets []Bullet
}

// DeckSpec is a validated, immutable description of a whole deck.
// Construct it with NewDeckSpec; a zero DeckSpec is not usable.
type DeckSpec struct {
	Title    string
	Subtitle string
	Author   string
	Subject  string
	Language string // canonical BCP-47 tag, never empty
	Slides   []SlideSpec

	// SlideCount is the declared count and always equals len(Slides).
	SlideCount int
}

// NewDeckSpec validates slides against their declared kinds and the
// declared count, canonicalizes the language tag and returns an immutable
// deck. It is the only entry point into the render pipeline; everything
// past it assumes a well-formed deck.
func NewDeckSpec(title, lang string, slideCount int, slides []SlideSpec) (*DeckSpec, error) {
	if strings.TrimSpace(title) == "" {
		return nil, deckErr("title must not be empty")
	}
	if len(slides) == 0 {
		return nil, deckErr("deck has no slides")
	}
	if slideCount != len(slides) {
		return nil, deckErr("declared slide count %d does not match %d slides", slideCount, len(slides))
	}
	for i := range slides {
		if err := validateSlide(i, &slides[i]); err != nil {
			return nil, err
		}
	}
	deck := &DeckSpec{
		Title:      title,
		Language:   canonicalLanguage(lang),
		Slides:     append([]SlideSpec(nil), slides...),
		SlideCount: len(slides),
	}
	return deck, nil
}

// canonicalLanguage parses and canonicalizes a BCP-47 tag. Unparseable or
// empty tags fall back to "en"; the tag is passed through to the output,
// never used to localize anything.
func canonicalLanguage(lang string) string {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return "en"
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return "en"
	}
	return tag.String()
}

func validateSlide(i int, s *SlideSpec) error {
	switch s.Kind {
	case KindTitle:
		if strings.TrimSpace(s.Title) == "" {
			return slideErr(i, "title slide needs a headline")
		}
	case KindContentOnly:
		if len(s.Content) == 0 && len(s.Bullets) == 0 {
			return slideErr(i, "content slide has neither text nor bullets")
		}
	case KindImageRight, KindImageLeft, KindImageFull:
		if s.Image == nil || strings.TrimSpace(s.Image.Query) == "" {
			return slideErr(i, "image slide needs an image query")
		}
	case KindTable:
		if s.Table == nil {
			return slideErr(i, "table slide has no table")
		}
		if err := validateTable(i, s.Table); err != nil {
			return err
		}
	case KindChart:
		if s.Chart == nil {
			return slideErr(i, "chart slide has no chart")
		}
		if err := validateChart(i, s.Chart); err != nil {
			return err
		}
	case KindTwoColumns:
		if len(s.LeftBullets) == 0 && len(s.RightBullets) == 0 {
			return slideErr(i, "two-column slide has no bullets in either column")
		}
	default:
		return slideErr(i, "unknown slide kind %d", int(s.Kind))
	}
	for bi, b := range s.Bullets {
		if b.Level < 0 || b.Level > 5 {
			return slideErr(i, "bullet %d level %d out of range 0-5", bi, b.Level)
		}
	}
	return nil
}

func validateTable(i int, t *TableSpec) error {
	if len(t.Headers) == 0 {
		return slideErr(i, "table has no header row")
	}
	if len(t.Rows) == 0 {
		return slideErr(i, "table has no body rows")
	}
	for ri, row := range t.Rows {
		if len(row) != len(t.Headers) {
			return slideErr(i, "table row %d has %d cells, header has %d", ri, len(row), len(t.Headers))
		}
	}
	switch t.Style {
	case "", TableStyleHeaderColored:
	default:
		return slideErr(i, "unknown table style %q", t.Style)
	}
	return nil
}

func validateChart(i int, c *ChartSpec) error {
	switch c.Kind {
	case "", ChartBar, ChartLine, ChartPie:
	default:
		return slideErr(i, "unsupported chart type %q", c.Kind)
	}
	if len(c.Categories) == 0 {
		return slideErr(i, "chart has no categories")
	}
	if len(c.Series) == 0 {
		return slideErr(i, "chart has no series")
	}
	for _, series := range c.Series {
		if len(series.Values) != len(c.Categories) {
			return slideErr(i, "chart series %q has %d values for %d categories",
				series.Name, len(series.Values), len(c.Categories))
		}
	}
	return nil
}

// needsImage reports whether the slide kind carries a picture placeholder.
func (s *SlideSpec) needsImage() bool {
	switch s.Kind {
	case KindImageRight, KindImageLeft, KindImageFull:
		return true
	}
	return false
}

// DegradedSlide records a slide that fell back to the Content Only layout
// because its kind had no matching layout in the template.
type DegradedSlide struct {
	Index      int
	Kind       SlideKind
	LayoutUsed string
}

// RenderedDeck is the final package plus echoed structure metadata. The
// byte slice is owned solely by the caller; it shares nothing with the
// template.
type RenderedDeck struct {
	Data       []byte
	Filename   string
	Language   string
	SlideCount int
	Degraded   []DegradedSlide
	Structure  *DeckSpec
}

// sanitizeFilename keeps letters, digits, space, dash, underscore and dot
// so the result is safe as a download filename on any platform.
func sanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		}
	}
	out := strings.TrimSpace(b.String())
	if out == "" {
		out = "presentation"
	}
	return out
}
