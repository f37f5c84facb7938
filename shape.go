package pptgen

// Shape is the interface implemented by everything a slide can carry.
type Shape interface {
	GetType() ShapeType
	GetOffsetX() int64
	GetOffsetY() int64
	GetWidth() int64
	GetHeight() int64
	GetName() string
	base() *BaseShape
}

// ShapeType represents the type of shape.
type ShapeType int

const (
	ShapeTypeRichText ShapeType = iota
	ShapeTypeDrawing
	ShapeTypeTable
	ShapeTypeChart
)

// BaseShape contains common shape properties. All geometry is in EMU.
type BaseShape struct {
	name    string
	offsetX int64
	offsetY int64
	width   int64
	height  int64
}

func (b *BaseShape) GetOffsetX() int64 { return b.offsetX }
func (b *BaseShape) GetOffsetY() int64 { return b.offsetY }
func (b *BaseShape) GetWidth() int64   { return b.width }
func (b *BaseShape) GetHeight() int64  { return b.height }
func (b *BaseShape) GetName() string   { return b.name }
func (b *BaseShape) base() *BaseShape  { return b }

func (b *BaseShape) SetName(n string) *BaseShape { b.name = n; return b }

// SetPosition sets both offset X and Y in EMU.
func (b *BaseShape) SetPosition(x, y int64) *BaseShape {
	b.offsetX = x
	b.offsetY = y
	return b
}

// SetSize sets both width and height in EMU.
func (b *BaseShape) SetSize(w, h int64) *BaseShape {
	b.width = w
	b.height = h
	return b
}

// RichTextShape represents a text body placed on a slide, usually bound
// to a layout placeholder so the template's formatting carries over.
type RichTextShape struct {
	BaseShape
	paragraphs      []*Paragraph
	activeParagraph int
	// normAutofit fontScale in thousandths of a percent (e.g. 62500 =
	// 62.5%); 0 means no scaling.
	fontScale int
	// Placeholder binding. phType is the p:ph type attribute ("title",
	// "body", ...); phIdx is the idx attribute, -1 when absent.
	phType string
	phIdx  int
}

func (r *RichTextShape) GetType() ShapeType { return ShapeTypeRichText }

// NewRichTextShape creates a new rich text shape with one empty paragraph.
func NewRichTextShape() *RichTextShape {
	return &RichTextShape{
		paragraphs: []*Paragraph{NewParagraph()},
		phIdx:      -1,
	}
}

// BindPlaceholder ties the shape to a layout placeholder. Pass idx -1
// when the placeholder carries no idx attribute.
func (r *RichTextShape) BindPlaceholder(phType string, idx int) *RichTextShape {
	r.phType = phType
	r.phIdx = idx
	return r
}

// GetPlaceholder returns the placeholder type and idx (-1 if unset).
func (r *RichTextShape) GetPlaceholder() (string, int) { return r.phType, r.phIdx }

// SetFontScale sets the normAutofit fontScale in thousandths of a percent.
func (r *RichTextShape) SetFontScale(scale int) { r.fontScale = scale }

// GetFontScale returns the normAutofit fontScale (0 = no scaling).
func (r *RichTextShape) GetFontScale() int { return r.fontScale }

// GetActiveParagraph returns the paragraph new runs are appended to.
func (r *RichTextShape) GetActiveParagraph() *Paragraph {
	if len(r.paragraphs) == 0 {
		r.paragraphs = append(r.paragraphs, NewParagraph())
	}
	return r.paragraphs[r.activeParagraph]
}

// CreateParagraph creates a new paragraph and makes it active.
func (r *RichTextShape) CreateParagraph() *Paragraph {
	p := NewParagraph()
	r.paragraphs = append(r.paragraphs, p)
	r.activeParagraph = len(r.paragraphs) - 1
	return p
}

// GetParagraphs returns all paragraphs.
func (r *RichTextShape) GetParagraphs() []*Paragraph {
	return r.paragraphs
}

// CreateTextRun creates a text run in the active paragraph.
func (r *RichTextShape) CreateTextRun(text string) *ShapeTextRun {
	return r.GetActiveParagraph().CreateTextRun(text)
}

// PlainText returns the concatenated text of every run, paragraphs
// joined with newlines. Used for fit measurement.
func (r *RichTextShape) PlainText() string {
	var out []byte
	for i, p := range r.paragraphs {
		if i > 0 {
			out = append(out, '\n')
		}
		for _, el := range p.elements {
			if tr, ok := el.(*ShapeTextRun); ok {
				out = append(out, tr.text...)
			}
		}
	}
	return string(out)
}

// BulletStyle controls the bullet marker of a paragraph.
type BulletStyle int

const (
	BulletInherit BulletStyle = iota // whatever the layout defines
	BulletNone                       // explicit a:buNone
	BulletAutoNum                    // a:buAutoNum arabicPeriod
)

// Paragraph represents a text paragraph.
type Paragraph struct {
	elements  []ParagraphElement
	alignment *Alignment
	bullet    BulletStyle
	level     int
}

// ParagraphElement is the interface for paragraph content.
type ParagraphElement interface {
	GetElementType() string
}

// NewParagraph creates a new paragraph.
func NewParagraph() *Paragraph {
	return &Paragraph{alignment: &Alignment{Horizontal: HorizontalLeft}}
}

// GetAlignment returns the paragraph alignment.
func (p *Paragraph) GetAlignment() *Alignment { return p.alignment }

// SetBullet sets the bullet style.
func (p *Paragraph) SetBullet(b BulletStyle) { p.bullet = b }

// GetBullet returns the bullet style.
func (p *Paragraph) GetBullet() BulletStyle { return p.bullet }

// SetLevel sets the indentation level (0-based).
func (p *Paragraph) SetLevel(l int) {
	if l < 0 {
		l = 0
	}
	if l > 8 {
		l = 8
	}
	p.level = l
}

// GetLevel returns the indentation level.
func (p *Paragraph) GetLevel() int { return p.level }

// GetElements returns all paragraph elements.
func (p *Paragraph) GetElements() []ParagraphElement { return p.elements }

// CreateTextRun creates a new text run.
func (p *Paragraph) CreateTextRun(text string) *ShapeTextRun {
	tr := &ShapeTextRun{text: text}
	p.elements = append(p.elements, tr)
	return tr
}

// CreateBreak creates a line break element.
func (p *Paragraph) CreateBreak() *BreakElement {
	br := &BreakElement{}
	p.elements = append(p.elements, br)
	return br
}

// ShapeTextRun represents a run of text with formatting. The font is nil
// until formatting is applied, so unformatted runs inherit everything
// from the layout placeholder.
type ShapeTextRun struct {
	text      string
	font      *Font
	hyperlink *Hyperlink
}

func (tr *ShapeTextRun) GetElementType() string { return "textrun" }

// GetText returns the text content.
func (tr *ShapeTextRun) GetText() string { return tr.text }

// SetText sets the text content.
func (tr *ShapeTextRun) SetText(text string) { tr.text = text }

// Font returns the run's font, allocating an empty one on first use.
// Zero-valued fields stay unset in the emitted XML, so the run keeps
// inheriting them from the layout placeholder.
func (tr *ShapeTextRun) Font() *Font {
	if tr.font == nil {
		tr.font = &Font{}
	}
	return tr.font
}

// HasFont reports whether explicit formatting was applied.
func (tr *ShapeTextRun) HasFont() bool { return tr.font != nil }

// SetHyperlink sets an external hyperlink on the run.
func (tr *ShapeTextRun) SetHyperlink(h *Hyperlink) { tr.hyperlink = h }

// GetHyperlink returns the hyperlink, nil if none.
func (tr *ShapeTextRun) GetHyperlink() *Hyperlink { return tr.hyperlink }

// BreakElement represents a line break.
type BreakElement struct{}

func (br *BreakElement) GetElementType() string { return "break" }

// DrawingShape represents an image placed on a slide.
type DrawingShape struct {
	BaseShape
	data     []byte
	mimeType string
}

func (d *DrawingShape) GetType() ShapeType { return ShapeTypeDrawing }

// NewDrawingShape creates a new drawing shape.
func NewDrawingShape() *DrawingShape {
	return &DrawingShape{}
}

// SetImageData sets the raw image data.
func (d *DrawingShape) SetImageData(data []byte, mimeType string) *DrawingShape {
	d.data = data
	d.mimeType = mimeType
	return d
}

// GetImageData returns the raw image data.
func (d *DrawingShape) GetImageData() []byte { return d.data }

// GetMimeType returns the image MIME type.
func (d *DrawingShape) GetMimeType() string { return d.mimeType }

// TableShape represents a table shape.
type TableShape struct {
	BaseShape
	rows    [][]*TableCell
	numRows int
	numCols int
}

func (t *TableShape) GetType() ShapeType { return ShapeTypeTable }

// NewTableShape creates a new table shape with empty cells.
func NewTableShape(rows, cols int) *TableShape {
	table := &TableShape{
		numRows: rows,
		numCols: cols,
		rows:    make([][]*TableCell, rows),
	}
	for i := 0; i < rows; i++ {
		table.rows[i] = make([]*TableCell, cols)
		for j := 0; j < cols; j++ {
			table.rows[i][j] = NewTableCell()
		}
	}
	return table
}

// GetCell returns a cell at the given row and column, nil out of range.
func (t *TableShape) GetCell(row, col int) *TableCell {
	if row < 0 || row >= t.numRows || col < 0 || col >= t.numCols {
		return nil
	}
	return t.rows[row][col]
}

// GetRows returns all rows.
func (t *TableShape) GetRows() [][]*TableCell { return t.rows }

// GetNumRows returns the number of rows.
func (t *TableShape) GetNumRows() int { return t.numRows }

// GetNumCols returns the number of columns.
func (t *TableShape) GetNumCols() int { return t.numCols }

// TableCell represents a table cell.
type TableCell struct {
	paragraphs []*Paragraph
	fill       *Fill
}

// NewTableCell creates a new table cell.
func NewTableCell() *TableCell {
	return &TableCell{
		paragraphs: []*Paragraph{NewParagraph()},
	}
}

// SetText sets the cell text and returns the run for further styling.
func (tc *TableCell) SetText(text string) *ShapeTextRun {
	if len(tc.paragraphs) == 0 {
		tc.paragraphs = append(tc.paragraphs, NewParagraph())
	}
	return tc.paragraphs[0].CreateTextRun(text)
}

// GetParagraphs returns the cell paragraphs.
func (tc *TableCell) GetParagraphs() []*Paragraph { return tc.paragraphs }

// GetFill returns the cell fill, nil if none set.
func (tc *TableCell) GetFill() *Fill { return tc.fill }

// SetFill sets the cell fill.
func (tc *TableCell) SetFill(f *Fill) { tc.fill = f }
