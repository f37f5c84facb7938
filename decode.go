package pptgen

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// Wire types for the generator's JSON. The upstream model is allowed a
// loose shape (content as a string, a run list, or {"runs": [...]}), so
// these mirror the original contract rather than the internal model.

type wireFormatting struct {
	Bold   bool    `json:"bold"`
	Italic bool    `json:"italic"`
	Color  string  `json:"color"`
	Size   float64 `json:"size"`
}

type wireRun struct {
	Text       string          `json:"text"`
	Formatting *wireFormatting `json:"formatting"`
	Hyperlink  string          `json:"hyperlink"`
}

type wireBullet struct {
	Text       string          `json:"text"`
	Level      int             `json:"level"`
	Formatting *wireFormatting `json:"formatting"`
}

type wireTable struct {
	Headers []string    `json:"headers"`
	RawRows [][]anyCell `json:"rows"`
	Style   string      `json:"style"`
}

type anyCell struct {
	value string
}

func (c *anyCell) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		c.value = s
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		c.value = n.String()
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		c.value = strconv.FormatBool(b)
		return nil
	}
	return fmt.Errorf("table cell is neither string nor number")
}

type wireSeries struct {
	Name string    `json:"name"`
	Data []float64 `json:"data"`
}

type wireChart struct {
	Type       string       `json:"type"`
	Categories []string     `json:"categories"`
	Series     []wireSeries `json:"series"`
}

type wireImage struct {
	Path     string `json:"path"`
	Position string `json:"position"`
}

type wireSlide struct {
	Title        string          `json:"title"`
	Content      json.RawMessage `json:"content"`
	BulletPoints json.RawMessage `json:"bullet_points"`
	Table        *wireTable      `json:"table"`
	Chart        *wireChart      `json:"chart"`
	Image        *wireImage      `json:"image"`
	Layout       string          `json:"layout"`
}

type wireDeck struct {
	Title    string      `json:"title"`
	Subtitle string      `json:"subtitle"`
	Author   string      `json:"author"`
	Subject  string      `json:"subject"`
	Language string      `json:"language"`
	Slides   []wireSlide `json:"slides"`
}

// DecodeDeck parses a generator-produced JSON document into a validated
// DeckSpec. A deck-level title slide is synthesized from the document
// title and subtitle, matching the historical output shape. The language
// argument wins over a "language" field in the document.
//
// The generator occasionally emits slightly broken JSON (trailing commas,
// unquoted keys); a single repair pass is attempted before giving up.
func DecodeDeck(data []byte, lang string) (*DeckSpec, error) {
	var wire wireDeck
	if err := json.Unmarshal(data, &wire); err != nil {
		repaired, repErr := jsonrepair.JSONRepair(string(data))
		if repErr != nil {
			return nil, deckErr("unparseable JSON: %v", err)
		}
		if err := json.Unmarshal([]byte(repaired), &wire); err != nil {
			return nil, deckErr("unparseable JSON after repair: %v", err)
		}
	}
	if strings.TrimSpace(wire.Title) == "" {
		return nil, deckErr("missing deck title")
	}
	if len(wire.Slides) == 0 {
		return nil, deckErr("deck has no slides")
	}
	if lang == "" {
		lang = wire.Language
	}

	slides := make([]SlideSpec, 0, len(wire.Slides)+1)
	slides = append(slides, SlideSpec{
		Kind:     KindTitle,
		Title:    wire.Title,
		Subtitle: wire.Subtitle,
	})
	for i, ws := range wire.Slides {
		slide, err := decodeSlide(i, &ws)
		if err != nil {
			return nil, err
		}
		slides = append(slides, slide)
	}

	deck, err := NewDeckSpec(wire.Title, lang, len(slides), slides)
	if err != nil {
		var se *SchemaError
		if errors.As(err, &se) && se.SlideIndex >= 0 {
			// The synthesized title slide sits at internal index 0;
			// report the document's own slide numbering.
			se.SlideIndex--
		}
		return nil, err
	}
	deck.Subtitle = wire.Subtitle
	deck.Author = wire.Author
	deck.Subject = wire.Subject
	return deck, nil
}

// decodeSlide maps one wire slide onto a tagged variant. Kind detection
// follows the established priority: chart and table win over everything,
// then image position, then the layout hint, then plain content.
func decodeSlide(i int, ws *wireSlide) (SlideSpec, error) {
	s := SlideSpec{Title: ws.Title}

	content, err := decodeContent(i, ws.Content)
	if err != nil {
		return s, err
	}
	s.Content = content

	bullets, err := decodeBullets(i, ws.BulletPoints)
	if err != nil {
		return s, err
	}
	s.Bullets = bullets

	switch {
	case ws.Chart != nil:
		s.Kind = KindChart
		s.Chart = decodeChart(ws.Chart)
	case ws.Table != nil:
		s.Kind = KindTable
		s.Table = decodeTable(ws.Table)
	case ws.Image != nil:
		s.Image = &ImageSpec{Query: ws.Image.Path}
		switch ws.Image.Position {
		case "left":
			s.Kind = KindImageLeft
		case "full":
			s.Kind = KindImageFull
		default:
			s.Kind = KindImageRight
		}
	default:
		s.Kind = kindFromLayoutHint(ws.Layout)
		if s.Kind == KindTwoColumns {
			// Split the bullet list across the two columns.
			half := (len(s.Bullets) + 1) / 2
			s.LeftBullets = s.Bullets[:half]
			s.RightBullets = s.Bullets[half:]
			s.Bullets = nil
		}
	}
	return s, nil
}

func kindFromLayoutHint(hint string) SlideKind {
	switch strings.ToLower(strings.TrimSpace(hint)) {
	case "two_columns":
		return KindTwoColumns
	case "image_full":
		return KindImageFull
	default:
		return KindContentOnly
	}
}

// decodeContent accepts a bare string, a run array, or {"runs": [...]}.
func decodeContent(i int, raw json.RawMessage) ([]TextRun, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return nil, nil
		}
		return []TextRun{{Text: s}}, nil
	}
	var runs []wireRun
	if err := json.Unmarshal(raw, &runs); err == nil {
		return convertRuns(runs), nil
	}
	var wrapped struct {
		Runs []wireRun `json:"runs"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Runs != nil {
		return convertRuns(wrapped.Runs), nil
	}
	return nil, slideErr(i, "content is neither a string nor a run list")
}

func convertRuns(runs []wireRun) []TextRun {
	out := make([]TextRun, 0, len(runs))
	for _, r := range runs {
		tr := TextRun{Text: r.Text, Hyperlink: r.Hyperlink}
		if f := r.Formatting; f != nil {
			tr.Bold = f.Bold
			tr.Italic = f.Italic
			tr.Color = strings.TrimPrefix(f.Color, "#")
			tr.Size = int(f.Size)
		}
		out = append(out, tr)
	}
	return out
}

// decodeBullets accepts a list of strings or bullet objects, mixed.
func decodeBullets(i int, raw json.RawMessage) ([]Bullet, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, slideErr(i, "bullet_points is not a list")
	}
	bullets := make([]Bullet, 0, len(items))
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			bullets = append(bullets, Bullet{Text: s})
			continue
		}
		var wb wireBullet
		if err := json.Unmarshal(item, &wb); err != nil {
			return nil, slideErr(i, "bullet entry is neither string nor object")
		}
		b := Bullet{Text: wb.Text, Level: wb.Level}
		if f := wb.Formatting; f != nil {
			b.Runs = []TextRun{{
				Text:   wb.Text,
				Bold:   f.Bold,
				Italic: f.Italic,
				Color:  strings.TrimPrefix(f.Color, "#"),
				Size:   int(f.Size),
			}}
		}
		bullets = append(bullets, b)
	}
	return bullets, nil
}

func decodeTable(wt *wireTable) *TableSpec {
	rows := make([][]string, 0, len(wt.RawRows))
	for _, raw := range wt.RawRows {
		row := make([]string, 0, len(raw))
		for _, cell := range raw {
			row = append(row, cell.value)
		}
		rows = append(rows, row)
	}
	return &TableSpec{
		Headers: wt.Headers,
		Rows:    rows,
		Style:   wt.Style,
	}
}

func decodeChart(wc *wireChart) *ChartSpec {
	kind := ChartBar
	switch strings.ToLower(wc.Type) {
	case "line":
		kind = ChartLine
	case "pie":
		kind = ChartPie
	case "", "column", "bar":
		kind = ChartBar
	default:
		// Unsupported type strings degrade to the default rather than
		// failing the request; the constructor validates the data itself.
		kind = ChartBar
	}
	series := make([]SeriesSpec, 0, len(wc.Series))
	for _, s := range wc.Series {
		series = append(series, SeriesSpec{Name: s.Name, Values: s.Data})
	}
	return &ChartSpec{Kind: kind, Categories: wc.Categories, Series: series}
}
