package pptgen

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func textShapeWith(text string) *RichTextShape {
	sh := NewRichTextShape()
	sh.CreateTextRun(text)
	return sh
}

func TestApplyAutofit_WithinBudget(t *testing.T) {
	sh := textShapeWith("short title")
	applyAutofit(sh, 80, 60)
	if sh.GetFontScale() != 0 {
		t.Errorf("text within budget must not scale, got %d", sh.GetFontScale())
	}
	if sh.PlainText() != "short title" {
		t.Errorf("text changed: %q", sh.PlainText())
	}
}

func TestApplyAutofit_ShrinksBeforeTruncating(t *testing.T) {
	// 105 runes over a 100 budget: 90% capacity is 111, enough.
	sh := textShapeWith(strings.Repeat("x", 105))
	applyAutofit(sh, 100, 60)
	if sh.GetFontScale() != 90000 {
		t.Errorf("expected 90%% scale (90000), got %d", sh.GetFontScale())
	}
	if utf8.RuneCountInString(sh.PlainText()) != 105 {
		t.Error("shrinking must not drop text")
	}
}

func TestApplyAutofit_TruncatesAtFloor(t *testing.T) {
	sh := textShapeWith(strings.Repeat("y", 10000))
	applyAutofit(sh, 500, 60)
	if sh.GetFontScale() != 60000 {
		t.Errorf("expected floor scale 60000, got %d", sh.GetFontScale())
	}
	text := sh.PlainText()
	limit := 500 * 100 / 60
	if n := utf8.RuneCountInString(text); n > limit {
		t.Errorf("truncated text is %d runes, limit %d", n, limit)
	}
	if !strings.HasSuffix(text, "…") {
		t.Error("truncated text must end with an ellipsis")
	}
}

func TestApplyAutofit_NeverErrors(t *testing.T) {
	// Pathological inputs: empty shape, zero budget, multibyte runes.
	applyAutofit(NewRichTextShape(), 80, 60)
	applyAutofit(textShapeWith("text"), 0, 60)

	sh := textShapeWith(strings.Repeat("日本語テキスト", 300))
	applyAutofit(sh, 100, 60)
	if !strings.HasSuffix(sh.PlainText(), "…") {
		t.Error("multibyte text should truncate cleanly")
	}
	if !utf8.ValidString(sh.PlainText()) {
		t.Error("truncation split a rune")
	}
}

func TestTruncateShape_PreservesEarlierParagraphs(t *testing.T) {
	sh := NewRichTextShape()
	sh.CreateTextRun("first paragraph")
	p2 := sh.CreateParagraph()
	p2.CreateTextRun(strings.Repeat("z", 100))
	p3 := sh.CreateParagraph()
	p3.CreateTextRun("never seen")

	truncateShape(sh, 30)
	text := sh.PlainText()
	if !strings.HasPrefix(text, "first paragraph") {
		t.Errorf("first paragraph lost: %q", text)
	}
	if strings.Contains(text, "never seen") {
		t.Error("paragraphs after the cut must be dropped")
	}
	if !strings.Contains(text, "…") {
		t.Error("cut point must carry the ellipsis")
	}
}

func TestBindBodyText_DefaultAreaWithoutSlot(t *testing.T) {
	sh := bindBodyText(nil, []TextRun{{Text: "free text"}}, nil, DefaultFitPolicy(), 12192000, 6858000)
	if sh.GetOffsetX() != 12192000/12 {
		t.Errorf("default body x = %d", sh.GetOffsetX())
	}
	if phType, phIdx := sh.GetPlaceholder(); phType != "" || phIdx >= 0 {
		t.Errorf("slotless body must not bind a placeholder: %q/%d", phType, phIdx)
	}
}

func TestFillBullets_LevelsAndRuns(t *testing.T) {
	sh := NewRichTextShape()
	fillBullets(sh, []Bullet{
		{Text: "plain"},
		{Text: "styled", Level: 2, Runs: []TextRun{{Text: "styled", Bold: true}}},
	})
	paras := sh.GetParagraphs()
	if len(paras) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", len(paras))
	}
	if paras[1].GetLevel() != 2 {
		t.Errorf("level = %d, want 2", paras[1].GetLevel())
	}
	run := paras[1].GetElements()[0].(*ShapeTextRun)
	if !run.HasFont() || !run.Font().Bold {
		t.Error("styled bullet run should carry bold")
	}
}

func TestFillBullets_NumbersEveryParagraph(t *testing.T) {
	sh := NewRichTextShape()
	fillBullets(sh, []Bullet{{Text: "one"}, {Text: "two", Level: 1}})
	for i, p := range sh.GetParagraphs() {
		if p.GetBullet() != BulletAutoNum {
			t.Errorf("bullet %d not auto-numbered", i)
		}
	}
	out := writeParagraphXML(sh.GetParagraphs()[0], "en", newSlideRefs("../slideLayouts/slideLayout2.xml"))
	if !strings.Contains(out, `<a:buAutoNum type="arabicPeriod"/>`) {
		t.Errorf("missing buAutoNum:\n%s", out)
	}
}

func TestApplyRun_Hyperlink(t *testing.T) {
	p := NewParagraph()
	applyRun(p, TextRun{Text: "docs", Hyperlink: "https://example.com/docs"})
	run := p.GetElements()[0].(*ShapeTextRun)
	if run.GetHyperlink() == nil || run.GetHyperlink().URL != "https://example.com/docs" {
		t.Errorf("hyperlink not applied: %+v", run.GetHyperlink())
	}
	f := run.Font()
	if !f.Underline || f.Color != hyperlinkText {
		t.Errorf("hyperlink run should be underlined blue, got %+v", f)
	}
	out := writeTextRunXML(run, "en", newSlideRefs("../slideLayouts/slideLayout2.xml"))
	if !strings.Contains(out, ` u="sng"`) || !strings.Contains(out, `<a:srgbClr val="0000FF"/>`) {
		t.Errorf("hyperlink styling missing:\n%s", out)
	}
}

func TestApplyRun_PartialFormattingStaysPartial(t *testing.T) {
	p := NewParagraph()
	applyRun(p, TextRun{Text: "bold only", Bold: true})
	run := p.GetElements()[0].(*ShapeTextRun)
	out := writeTextRunXML(run, "en", newSlideRefs("../slideLayouts/slideLayout2.xml"))
	if !strings.Contains(out, ` b="1"`) {
		t.Errorf("bold lost:\n%s", out)
	}
	if strings.Contains(out, "sz=") || strings.Contains(out, "solidFill") {
		t.Errorf("unset size/color must inherit from the placeholder:\n%s", out)
	}
}

func TestApplyRun_PlainRunStaysFontless(t *testing.T) {
	p := NewParagraph()
	applyRun(p, TextRun{Text: "plain"})
	run := p.GetElements()[0].(*ShapeTextRun)
	if run.HasFont() {
		t.Error("plain run must stay fontless")
	}
}

func TestApplyRun_NewlinesBecomeBreaks(t *testing.T) {
	p := NewParagraph()
	applyRun(p, TextRun{Text: "line one\nline two", Italic: true})
	els := p.GetElements()
	if len(els) != 3 {
		t.Fatalf("expected run, break, run; got %d elements", len(els))
	}
	if _, ok := els[1].(*BreakElement); !ok {
		t.Fatalf("middle element is %T, want break", els[1])
	}
	second := els[2].(*ShapeTextRun)
	if second.GetText() != "line two" || !second.Font().Italic {
		t.Error("formatting must carry across the break")
	}
}
