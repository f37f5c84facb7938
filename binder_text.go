package pptgen

import (
	"strings"
	"unicode/utf8"
)

// newSlotText creates a rich text shape bound to a layout slot. The
// placeholder binding lets the rendered slide inherit the template's
// fonts, colors and spacing for that slot.
func newSlotText(slot *Slot) *RichTextShape {
	sh := NewRichTextShape()
	sh.BindPlaceholder(slot.PhType, slot.PhIdx)
	sh.SetPosition(slot.X, slot.Y)
	sh.SetSize(slot.W, slot.H)
	return sh
}

// bindBodyText fills a body placeholder with free-form content followed
// by the bullet list. A nil slot gets an unbound text box over the
// default body area.
func bindBodyText(slot *Slot, content []TextRun, bullets []Bullet, fit FitPolicy, slideW, slideH int64) *RichTextShape {
	var sh *RichTextShape
	if slot != nil {
		sh = newSlotText(slot)
	} else {
		sh = NewRichTextShape()
		sh.SetPosition(slideW/12, slideH/4)
		sh.SetSize(slideW*5/6, slideH*3/5)
	}

	first := true
	for _, run := range content {
		p := sh.GetActiveParagraph()
		if !first {
			p = sh.CreateParagraph()
		}
		first = false
		p.SetBullet(BulletNone)
		applyRun(p, run)
	}
	if len(bullets) > 0 {
		if !first {
			sh.CreateParagraph()
		}
		fillBullets(sh, bullets)
	}

	applyAutofit(sh, fit.BodyBudget, fit.MinFontScale)
	return sh
}

// fillBullets appends one numbered paragraph per bullet, honoring
// nesting levels.
func fillBullets(sh *RichTextShape, bullets []Bullet) {
	for i, b := range bullets {
		p := sh.GetActiveParagraph()
		if i > 0 || len(p.GetElements()) > 0 {
			p = sh.CreateParagraph()
		}
		p.SetLevel(b.Level)
		p.SetBullet(BulletAutoNum)
		if len(b.Runs) > 0 {
			for _, run := range b.Runs {
				applyRun(p, run)
			}
			continue
		}
		p.CreateTextRun(b.Text)
	}
}

// hyperlinkText is the run color applied alongside the underline on
// hyperlinked runs.
var hyperlinkText = NewColor("0000FF")

// applyRun appends one formatted run to a paragraph, splitting embedded
// newlines into line breaks. Only attributes the run actually carries
// are set; everything else inherits from the placeholder.
func applyRun(p *Paragraph, run TextRun) {
	for i, line := range strings.Split(run.Text, "\n") {
		if i > 0 {
			p.CreateBreak()
		}
		tr := p.CreateTextRun(line)
		if run.Bold || run.Italic || run.Color != "" || run.Size > 0 {
			f := tr.Font()
			f.Bold = run.Bold
			f.Italic = run.Italic
			if run.Color != "" {
				f.Color = NewColor(run.Color)
			}
			if run.Size > 0 {
				f.Size = run.Size
			}
		}
		if run.Hyperlink != "" {
			tr.SetHyperlink(&Hyperlink{URL: run.Hyperlink})
			f := tr.Font()
			f.Underline = true
			f.Color = hyperlinkText
		}
	}
}

// applyAutofit shrinks overflowing text via normAutofit in 10% steps
// down to minScale percent, then truncates at the scaled budget with an
// ellipsis. It never fails; overflow is a presentation concern, not an
// error.
func applyAutofit(sh *RichTextShape, budget, minScale int) {
	if budget <= 0 {
		return
	}
	n := utf8.RuneCountInString(sh.PlainText())
	if n <= budget {
		return
	}
	for scale := 90; scale >= minScale; scale -= 10 {
		capacity := budget * 100 / scale
		if n <= capacity {
			sh.SetFontScale(scale * 1000)
			return
		}
	}
	sh.SetFontScale(minScale * 1000)
	truncateShape(sh, budget*100/minScale)
}

// truncateShape cuts the shape's text at limit runes, replacing the tail
// with an ellipsis. Paragraph and run boundaries are preserved up to the
// cut; everything after is dropped.
func truncateShape(sh *RichTextShape, limit int) {
	if limit < 1 {
		limit = 1
	}
	remaining := limit - 1 // leave room for the ellipsis
	cut := false
	for _, p := range sh.GetParagraphs() {
		if cut {
			p.elements = nil
			continue
		}
		kept := p.elements[:0]
		for _, el := range p.GetElements() {
			if cut {
				break
			}
			tr, ok := el.(*ShapeTextRun)
			if !ok {
				kept = append(kept, el)
				continue
			}
			runes := []rune(tr.GetText())
			if len(runes) <= remaining {
				remaining -= len(runes)
				kept = append(kept, el)
				continue
			}
			tr.SetText(string(runes[:remaining]) + "…")
			remaining = 0
			cut = true
			kept = append(kept, el)
		}
		p.elements = kept
	}
}
