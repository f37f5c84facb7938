package pptgen

// Table style palette matching the shipped deck styles.
var (
	tableHeaderFill = NewColor("003366")
	tableHeaderText = ColorWhite
	tableBandedFill = NewColor("F2F2F2")
)

// bindTable builds a table shape from the validated spec. Header cells
// always render; when the "header_colored" style is requested the header
// row gets the dark fill with white bold text and even body rows are
// banded.
func bindTable(spec *TableSpec, f frame) *TableShape {
	rows := len(spec.Rows) + 1
	cols := len(spec.Headers)
	t := NewTableShape(rows, cols)
	t.SetPosition(f.x, f.y)
	t.SetSize(f.w, f.h)
	t.SetName("Table")

	colored := spec.Style == TableStyleHeaderColored

	for c, h := range spec.Headers {
		cell := t.GetCell(0, c)
		run := cell.SetText(h)
		font := run.Font()
		font.Bold = true
		if colored {
			font.Color = tableHeaderText
			cell.SetFill(SolidFill(tableHeaderFill))
		}
	}
	for r, row := range spec.Rows {
		for c, text := range row {
			cell := t.GetCell(r+1, c)
			cell.SetText(text)
			if colored && r%2 == 1 {
				cell.SetFill(SolidFill(tableBandedFill))
			}
		}
	}
	return t
}
