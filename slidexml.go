package pptgen

import (
	"fmt"
	"strings"
)

// slideRefs accumulates one slide's relationships while its XML is being
// emitted, so r:id attributes and the .rels part can never drift apart.
// rId1 is always the layout.
type slideRefs struct {
	rels   []xmlRelationship
	nextID int
}

func newSlideRefs(layoutTarget string) *slideRefs {
	return &slideRefs{
		rels: []xmlRelationship{
			{ID: "rId1", Type: relTypeSlideLayout, Target: layoutTarget},
		},
		nextID: 2,
	}
}

func (r *slideRefs) add(relType, target string, external bool) string {
	id := fmt.Sprintf("rId%d", r.nextID)
	r.nextID++
	rel := xmlRelationship{ID: id, Type: relType, Target: target}
	if external {
		rel.TargetMode = "External"
	}
	r.rels = append(r.rels, rel)
	return id
}

func (r *slideRefs) marshal() ([]byte, error) {
	return marshalXMLPart(xmlRelationships{Xmlns: nsRelationships, Relationships: r.rels})
}

// shapeTargets tells the slide writer where each media-backed shape's
// part landed, keyed by shape identity.
type shapeTargets map[Shape]string

// writeSlideXML emits one complete slide part.
func writeSlideXML(b *boundSlide, lang string, refs *slideRefs, targets shapeTargets) []byte {
	var shapesXML strings.Builder
	shapeID := 2 // 1 is reserved for the group shape

	for _, shape := range b.shapes {
		switch s := shape.(type) {
		case *RichTextShape:
			shapesXML.WriteString(writeTextShapeXML(s, &shapeID, lang, refs))
		case *DrawingShape:
			shapesXML.WriteString(writePictureXML(s, &shapeID, refs, targets[s]))
		case *TableShape:
			shapesXML.WriteString(writeTableShapeXML(s, &shapeID, lang))
		case *ChartShape:
			shapesXML.WriteString(writeChartFrameXML(s, &shapeID, refs, targets[s]))
		}
	}

	content := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:sld xmlns:a="%s" xmlns:r="%s" xmlns:p="%s">
  <p:cSld>
    <p:spTree>
      <p:nvGrpSpPr>
        <p:cNvPr id="1" name=""/>
        <p:cNvGrpSpPr/>
        <p:nvPr/>
      </p:nvGrpSpPr>
      <p:grpSpPr>
        <a:xfrm>
          <a:off x="0" y="0"/>
          <a:ext cx="0" cy="0"/>
          <a:chOff x="0" y="0"/>
          <a:chExt cx="0" cy="0"/>
        </a:xfrm>
      </p:grpSpPr>
%s    </p:spTree>
  </p:cSld>
  <p:clrMapOvr>
    <a:masterClrMapping/>
  </p:clrMapOvr>
</p:sld>`, nsDrawingML, nsOfficeDocRels, nsPresentationML, shapesXML.String())

	return []byte(content)
}

// phXML builds the p:ph element for a bound placeholder, empty when the
// shape isn't placeholder-bound.
func phXML(phType string, phIdx int) string {
	if phType == "" && phIdx < 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("\n            <p:ph")
	if phType != "" {
		fmt.Fprintf(&sb, ` type="%s"`, phType)
	}
	if phIdx >= 0 {
		fmt.Fprintf(&sb, ` idx="%d"`, phIdx)
	}
	sb.WriteString("/>")
	return sb.String()
}

func writeTextShapeXML(s *RichTextShape, shapeID *int, lang string, refs *slideRefs) string {
	id := *shapeID
	*shapeID++

	name := s.name
	if name == "" {
		name = fmt.Sprintf("TextBox %d", id)
	}

	var paragraphsXML strings.Builder
	for _, para := range s.paragraphs {
		paragraphsXML.WriteString(writeParagraphXML(para, lang, refs))
	}

	return fmt.Sprintf(`      <p:sp>
        <p:nvSpPr>
          <p:cNvPr id="%d" name="%s"/>
          <p:cNvSpPr>
            <a:spLocks noGrp="1"/>
          </p:cNvSpPr>
          <p:nvPr>%s
          </p:nvPr>
        </p:nvSpPr>
        <p:spPr>
          <a:xfrm>
            <a:off x="%d" y="%d"/>
            <a:ext cx="%d" cy="%d"/>
          </a:xfrm>
        </p:spPr>
        <p:txBody>
          <a:bodyPr>%s</a:bodyPr>
          <a:lstStyle/>
%s        </p:txBody>
      </p:sp>
`, id, xmlEscape(name),
		phXML(s.phType, s.phIdx),
		s.offsetX, s.offsetY, s.width, s.height,
		normAutofitXML(s.fontScale),
		paragraphsXML.String())
}

// normAutofitXML returns the <a:normAutofit> child for <a:bodyPr> if a
// font scale is set.
func normAutofitXML(fontScale int) string {
	if fontScale > 0 && fontScale != 100000 {
		return fmt.Sprintf(`<a:normAutofit fontScale="%d"/>`, fontScale)
	}
	return ""
}

func writeParagraphXML(para *Paragraph, lang string, refs *slideRefs) string {
	var attrs strings.Builder
	if para.GetLevel() > 0 {
		fmt.Fprintf(&attrs, ` lvl="%d"`, para.GetLevel())
	}
	if a := para.GetAlignment(); a != nil && a.Horizontal != "" && a.Horizontal != HorizontalLeft {
		fmt.Fprintf(&attrs, ` algn="%s"`, a.Horizontal)
	}

	bulletXML := ""
	switch para.GetBullet() {
	case BulletNone:
		bulletXML = "\n              <a:buNone/>"
	case BulletAutoNum:
		bulletXML = "\n              <a:buAutoNum type=\"arabicPeriod\"/>"
	}

	pPr := ""
	if attrs.Len() > 0 || bulletXML != "" {
		pPr = fmt.Sprintf(`            <a:pPr%s>%s
            </a:pPr>
`, attrs.String(), bulletXML)
	}

	var elementsXML strings.Builder
	for _, elem := range para.GetElements() {
		switch e := elem.(type) {
		case *ShapeTextRun:
			elementsXML.WriteString(writeTextRunXML(e, lang, refs))
		case *BreakElement:
			elementsXML.WriteString("            <a:br/>\n")
		}
	}

	return fmt.Sprintf(`          <a:p>
%s%s          </a:p>
`, pPr, elementsXML.String())
}

func writeTextRunXML(tr *ShapeTextRun, lang string, refs *slideRefs) string {
	attrs := fmt.Sprintf(` lang="%s" dirty="0"`, xmlEscape(lang))

	inner := ""
	if tr.HasFont() {
		font := tr.font
		if font.Size > 0 {
			attrs += fmt.Sprintf(` sz="%d"`, font.Size*100)
		}
		if font.Bold {
			attrs += ` b="1"`
		}
		if font.Italic {
			attrs += ` i="1"`
		}
		if font.Underline {
			attrs += ` u="sng"`
		}
		if font.Color.ARGB != "" {
			inner += fmt.Sprintf(`
              <a:solidFill><a:srgbClr val="%s"/></a:solidFill>`, colorRGB(font.Color))
		}
	}
	if h := tr.GetHyperlink(); h != nil && h.URL != "" {
		rid := refs.add(relTypeHyperlink, h.URL, true)
		inner += fmt.Sprintf(`
              <a:hlinkClick xmlns:r="%s" r:id="%s"/>`, nsOfficeDocRels, rid)
	}

	return fmt.Sprintf(`            <a:r>
              <a:rPr%s>%s
              </a:rPr>
              <a:t>%s</a:t>
            </a:r>
`, attrs, inner, xmlEscape(tr.text))
}

func writePictureXML(s *DrawingShape, shapeID *int, refs *slideRefs, target string) string {
	id := *shapeID
	*shapeID++

	name := s.name
	if name == "" {
		name = fmt.Sprintf("Picture %d", id)
	}
	rid := refs.add(relTypeImage, target, false)

	return fmt.Sprintf(`      <p:pic>
        <p:nvPicPr>
          <p:cNvPr id="%d" name="%s"/>
          <p:cNvPicPr>
            <a:picLocks noChangeAspect="1"/>
          </p:cNvPicPr>
          <p:nvPr/>
        </p:nvPicPr>
        <p:blipFill>
          <a:blip r:embed="%s"/>
          <a:stretch>
            <a:fillRect/>
          </a:stretch>
        </p:blipFill>
        <p:spPr>
          <a:xfrm>
            <a:off x="%d" y="%d"/>
            <a:ext cx="%d" cy="%d"/>
          </a:xfrm>
          <a:prstGeom prst="rect">
            <a:avLst/>
          </a:prstGeom>
        </p:spPr>
      </p:pic>
`, id, xmlEscape(name),
		rid,
		s.offsetX, s.offsetY, s.width, s.height)
}

func writeTableShapeXML(s *TableShape, shapeID *int, lang string) string {
	id := *shapeID
	*shapeID++

	name := s.name
	if name == "" {
		name = fmt.Sprintf("Table %d", id)
	}

	colWidth := int64(0)
	if s.numCols > 0 {
		colWidth = s.width / int64(s.numCols)
	}
	var gridCols strings.Builder
	for i := 0; i < s.numCols; i++ {
		fmt.Fprintf(&gridCols, `            <a:gridCol w="%d"/>
`, colWidth)
	}

	rowHeight := int64(0)
	if s.numRows > 0 {
		rowHeight = s.height / int64(s.numRows)
	}
	var rowsXML strings.Builder
	for i := 0; i < s.numRows; i++ {
		fmt.Fprintf(&rowsXML, `            <a:tr h="%d">
`, rowHeight)
		for j := 0; j < s.numCols; j++ {
			rowsXML.WriteString(writeTableCellXML(s.rows[i][j], lang))
		}
		rowsXML.WriteString("            </a:tr>\n")
	}

	return fmt.Sprintf(`      <p:graphicFrame>
        <p:nvGraphicFramePr>
          <p:cNvPr id="%d" name="%s"/>
          <p:cNvGraphicFramePr>
            <a:graphicFrameLocks noGrp="1"/>
          </p:cNvGraphicFramePr>
          <p:nvPr/>
        </p:nvGraphicFramePr>
        <p:xfrm>
          <a:off x="%d" y="%d"/>
          <a:ext cx="%d" cy="%d"/>
        </p:xfrm>
        <a:graphic>
          <a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/table">
            <a:tbl>
              <a:tblPr firstRow="1" bandRow="1"/>
              <a:tblGrid>
%s              </a:tblGrid>
%s            </a:tbl>
          </a:graphicData>
        </a:graphic>
      </p:graphicFrame>
`, id, xmlEscape(name),
		s.offsetX, s.offsetY, s.width, s.height,
		gridCols.String(), rowsXML.String())
}

func writeTableCellXML(cell *TableCell, lang string) string {
	var cellText strings.Builder
	for _, para := range cell.paragraphs {
		cellText.WriteString("                <a:p>\n")
		for _, elem := range para.GetElements() {
			tr, ok := elem.(*ShapeTextRun)
			if !ok {
				continue
			}
			attrs := fmt.Sprintf(` lang="%s" dirty="0"`, xmlEscape(lang))
			inner := ""
			if tr.HasFont() {
				if tr.font.Size > 0 {
					attrs += fmt.Sprintf(` sz="%d"`, tr.font.Size*100)
				}
				if tr.font.Bold {
					attrs += ` b="1"`
				}
				if tr.font.Color.ARGB != "" {
					inner = fmt.Sprintf(`<a:solidFill><a:srgbClr val="%s"/></a:solidFill>`, colorRGB(tr.font.Color))
				}
			}
			fmt.Fprintf(&cellText, `                  <a:r>
                    <a:rPr%s>%s</a:rPr>
                    <a:t>%s</a:t>
                  </a:r>
`, attrs, inner, xmlEscape(tr.text))
		}
		cellText.WriteString("                </a:p>\n")
	}

	cellFill := ""
	if f := cell.GetFill(); f != nil && f.Type == FillSolid {
		cellFill = fmt.Sprintf(`
                  <a:solidFill><a:srgbClr val="%s"/></a:solidFill>`, colorRGB(f.Color))
	}

	return fmt.Sprintf(`              <a:tc>
                <a:txBody>
                  <a:bodyPr/>
                  <a:lstStyle/>
%s                </a:txBody>
                <a:tcPr>%s
                </a:tcPr>
              </a:tc>
`, cellText.String(), cellFill)
}

func writeChartFrameXML(s *ChartShape, shapeID *int, refs *slideRefs, target string) string {
	id := *shapeID
	*shapeID++

	name := s.name
	if name == "" {
		name = fmt.Sprintf("Chart %d", id)
	}
	rid := refs.add(relTypeChart, target, false)

	return fmt.Sprintf(`      <p:graphicFrame>
        <p:nvGraphicFramePr>
          <p:cNvPr id="%d" name="%s"/>
          <p:cNvGraphicFramePr>
            <a:graphicFrameLocks noGrp="1"/>
          </p:cNvGraphicFramePr>
          <p:nvPr/>
        </p:nvGraphicFramePr>
        <p:xfrm>
          <a:off x="%d" y="%d"/>
          <a:ext cx="%d" cy="%d"/>
        </p:xfrm>
        <a:graphic>
          <a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/chart">
            <c:chart xmlns:c="%s" r:id="%s"/>
          </a:graphicData>
        </a:graphic>
      </p:graphicFrame>
`, id, xmlEscape(name),
		s.offsetX, s.offsetY, s.width, s.height,
		nsChartML, rid)
}
