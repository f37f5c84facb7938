package pptgen

// FitPolicy controls how text is shrunk or truncated to fit placeholder
// bounds. Budgets are in characters; MinFontScale is a percentage floor
// for normAutofit shrinking.
type FitPolicy struct {
	TitleBudget  int
	BodyBudget   int
	MinFontScale int
}

// DefaultFitPolicy matches the historical output: titles up to 80 chars,
// bodies up to 500, shrink down to 60% before truncating.
func DefaultFitPolicy() FitPolicy {
	return FitPolicy{TitleBudget: 80, BodyBudget: 500, MinFontScale: 60}
}

// boundSlide is one slide's worth of bound shapes, ready for assembly.
type boundSlide struct {
	layout *LayoutHandle
	shapes []Shape
	// chart is non-nil when the slide embeds a chart; the assembler
	// allocates the chart part and wires the relationship.
	chart *ChartShape
}

// bindSlide binds one slide's content onto the resolved layout's slots.
// img is nil unless the slide requested an image. Binding never fails
// for text-only slides; table and chart slides can return typed errors.
func bindSlide(idx int, s *SlideSpec, h *LayoutHandle, img *ResolvedImage, fit FitPolicy, c *Catalog) (*boundSlide, error) {
	b := &boundSlide{layout: h}
	slideW, slideH := c.SlideSize()

	switch s.Kind {
	case KindTitle:
		b.addTitle(h, s.Title, fit)
		if s.Subtitle != "" {
			if slot := h.Slot(RoleSubtitle); slot != nil {
				sh := newSlotText(slot)
				sh.CreateTextRun(s.Subtitle)
				applyAutofit(sh, fit.TitleBudget, fit.MinFontScale)
				b.shapes = append(b.shapes, sh)
			}
		}

	case KindContentOnly:
		b.addTitle(h, s.Title, fit)
		b.addBody(h.Slot(RoleBody), s, fit, slideW, slideH)

	case KindTwoColumns:
		b.addTitle(h, s.Title, fit)
		left := h.Slot(RoleColumnLeft)
		right := h.Slot(RoleColumnRight)
		if left == nil || right == nil {
			// Layout matched by name but lacks two body slots; merge
			// the columns into whatever body the layout does have.
			merged := *s
			merged.Bullets = append(append([]Bullet{}, s.LeftBullets...), s.RightBullets...)
			b.addBody(h.Slot(RoleBody), &merged, fit, slideW, slideH)
			break
		}
		b.addBulletColumn(left, s.LeftBullets, fit)
		b.addBulletColumn(right, s.RightBullets, fit)

	case KindImageRight, KindImageLeft, KindImageFull:
		b.addTitle(h, s.Title, fit)
		if s.Kind != KindImageFull {
			b.addBody(h.Slot(RoleBody), s, fit, slideW, slideH)
		}
		b.addImage(s.Kind, h, img, slideW, slideH)

	case KindTable:
		b.addTitle(h, s.Title, fit)
		frame := contentFrame(h, RoleTable, slideW, slideH)
		table := bindTable(s.Table, frame)
		b.shapes = append(b.shapes, table)

	case KindChart:
		b.addTitle(h, s.Title, fit)
		frame := contentFrame(h, RoleChart, slideW, slideH)
		chart, err := bindChart(idx, s.Title, s.Chart, frame)
		if err != nil {
			return nil, err
		}
		b.shapes = append(b.shapes, chart)
		b.chart = chart
	}

	return b, nil
}

func (b *boundSlide) addTitle(h *LayoutHandle, title string, fit FitPolicy) {
	if title == "" {
		return
	}
	slot := h.Slot(RoleTitle)
	if slot == nil {
		return
	}
	sh := newSlotText(slot)
	sh.CreateTextRun(title)
	applyAutofit(sh, fit.TitleBudget, fit.MinFontScale)
	b.shapes = append(b.shapes, sh)
}

func (b *boundSlide) addBody(slot *Slot, s *SlideSpec, fit FitPolicy, slideW, slideH int64) {
	if len(s.Content) == 0 && len(s.Bullets) == 0 {
		return
	}
	sh := bindBodyText(slot, s.Content, s.Bullets, fit, slideW, slideH)
	b.shapes = append(b.shapes, sh)
}

func (b *boundSlide) addBulletColumn(slot *Slot, bullets []Bullet, fit FitPolicy) {
	if len(bullets) == 0 {
		return
	}
	sh := newSlotText(slot)
	fillBullets(sh, bullets)
	applyAutofit(sh, fit.BodyBudget/2, fit.MinFontScale)
	b.shapes = append(b.shapes, sh)
}

func (b *boundSlide) addImage(kind SlideKind, h *LayoutHandle, img *ResolvedImage, slideW, slideH int64) {
	if img == nil || len(img.Data) == 0 {
		return
	}
	var x, y, w, hgt int64
	if slot := h.Slot(RolePicture); slot != nil && slot.W > 0 {
		x, y, w, hgt = slot.X, slot.Y, slot.W, slot.H
	} else {
		// No picture placeholder: fall back to geometric halves.
		switch kind {
		case KindImageLeft:
			x, y, w, hgt = 0, slideH/5, slideW/2, slideH*3/5
		case KindImageRight:
			x, y, w, hgt = slideW/2, slideH/5, slideW/2, slideH*3/5
		default:
			x, y, w, hgt = 0, 0, slideW, slideH
		}
	}
	data, mime := fitImage(img.Data, w, hgt)
	sh := NewDrawingShape().SetImageData(data, mime)
	sh.SetPosition(x, y)
	sh.SetSize(w, hgt)
	sh.SetName("Picture")
	b.shapes = append(b.shapes, sh)
}

// contentFrame picks the frame for a table or chart: the dedicated slot
// when the layout has one, else the body slot, else a centered default.
func contentFrame(h *LayoutHandle, role SlotRole, slideW, slideH int64) frame {
	if slot := h.Slot(role); slot != nil && slot.W > 0 {
		return frame{slot.X, slot.Y, slot.W, slot.H}
	}
	if slot := h.Slot(RoleBody); slot != nil && slot.W > 0 {
		return frame{slot.X, slot.Y, slot.W, slot.H}
	}
	return frame{slideW / 10, slideH / 5, slideW * 8 / 10, slideH * 7 / 10}
}

// frame is a rectangle in EMU.
type frame struct {
	x, y, w, h int64
}
