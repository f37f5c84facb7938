package pptgen

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Slide IDs and presentation-level relationship IDs for generated
// slides start high so they can never collide with what the template
// already uses.
const (
	firstSlideID    = 256
	firstSlideRelID = 100
)

// assemble patches a working copy of the template into the final deck:
// the template's own slides are dropped, generated slide parts (plus
// their media and chart parts) are added, and the package-level indexes
// ([Content_Types].xml, presentation.xml, presentation rels, core
// properties) are rewritten to match.
func assemble(wc *workingCopy, deck *DeckSpec, slides []*boundSlide) ([]byte, error) {
	dropTemplateSlides(wc)

	mediaIdx := nextPartIndex(wc, "ppt/media/image")
	chartIdx := nextPartIndex(wc, "ppt/charts/chart")

	var newOverrides []xmlOverride
	extensions := map[string]string{}

	for i, b := range slides {
		slideNum := i + 1
		slidePath := fmt.Sprintf("ppt/slides/slide%d.xml", slideNum)

		targets := shapeTargets{}
		for _, shape := range b.shapes {
			switch s := shape.(type) {
			case *DrawingShape:
				if len(s.GetImageData()) == 0 {
					continue
				}
				ext := extForMime(s.GetMimeType())
				extensions[ext] = s.GetMimeType()
				mediaPath := fmt.Sprintf("ppt/media/image%d.%s", mediaIdx, ext)
				mediaIdx++
				wc.setPart(mediaPath, s.GetImageData())
				targets[s] = "../media/" + mediaPath[len("ppt/media/"):]
			case *ChartShape:
				chartPath := fmt.Sprintf("ppt/charts/chart%d.xml", chartIdx)
				chartIdx++
				wc.setPart(chartPath, writeChartPartXML(s, deck.Language))
				newOverrides = append(newOverrides, xmlOverride{
					PartName:    "/" + chartPath,
					ContentType: ctChart,
				})
				targets[s] = "../charts/" + chartPath[len("ppt/charts/"):]
			}
		}

		layoutTarget := fmt.Sprintf("../slideLayouts/slideLayout%d.xml", b.layout.Index)
		refs := newSlideRefs(layoutTarget)
		wc.setPart(slidePath, writeSlideXML(b, deck.Language, refs, targets))

		relsData, err := refs.marshal()
		if err != nil {
			return nil, &AssemblyError{Part: slidePath, Err: err}
		}
		wc.setPart(slideRelsPath(slidePath), relsData)

		newOverrides = append(newOverrides, xmlOverride{
			PartName:    "/" + slidePath,
			ContentType: ctSlide,
		})
	}

	if err := patchContentTypes(wc, newOverrides, extensions); err != nil {
		return nil, err
	}
	if err := patchPresentationRels(wc, len(slides)); err != nil {
		return nil, err
	}
	if err := patchPresentation(wc, len(slides)); err != nil {
		return nil, err
	}
	if err := writeCoreProperties(wc, deck); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := wc.writeTo(&buf); err != nil {
		return nil, &AssemblyError{Part: "package", Err: err}
	}
	return buf.Bytes(), nil
}

func slideRelsPath(slidePath string) string {
	i := strings.LastIndex(slidePath, "/")
	return slidePath[:i] + "/_rels/" + slidePath[i+1:] + ".rels"
}

// dropTemplateSlides removes the template's own slides and their rels.
func dropTemplateSlides(wc *workingCopy) {
	for _, path := range wc.slidePaths {
		wc.removePart(path)
		wc.removePart(slideRelsPath(path))
	}
	wc.slidePaths = nil
}

// nextPartIndex returns one past the highest numeric suffix currently
// used by parts with the given prefix, so new parts never collide with
// template media or charts.
func nextPartIndex(wc *workingCopy, prefix string) int {
	max := 0
	for name := range wc.parts {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		if n := partIndex(name); n > max {
			max = n
		}
	}
	return max + 1
}

func extForMime(mime string) string {
	switch mime {
	case "image/jpeg":
		return "jpeg"
	case "image/gif":
		return "gif"
	case "image/bmp":
		return "bmp"
	default:
		return "png"
	}
}

// patchContentTypes reparses [Content_Types].xml, drops overrides for
// removed template slides, and registers the generated parts.
func patchContentTypes(wc *workingCopy, overrides []xmlOverride, extensions map[string]string) error {
	const part = "[Content_Types].xml"
	data, ok := wc.parts[part]
	if !ok {
		return &AssemblyError{Part: part, Err: fmt.Errorf("part missing from template")}
	}

	var ct xmlContentTypes
	if err := xml.Unmarshal(data, &ct); err != nil {
		return &AssemblyError{Part: part, Err: err}
	}
	ct.Xmlns = nsContentTypes

	kept := ct.Overrides[:0]
	for _, o := range ct.Overrides {
		if strings.HasPrefix(o.PartName, "/ppt/slides/slide") {
			continue
		}
		kept = append(kept, o)
	}
	ct.Overrides = append(kept, overrides...)

	for ext, mime := range extensions {
		found := false
		for _, d := range ct.Defaults {
			if strings.EqualFold(d.Extension, ext) {
				found = true
				break
			}
		}
		if !found {
			ct.Defaults = append(ct.Defaults, xmlDefault{Extension: ext, ContentType: mime})
		}
	}

	out, err := marshalXMLPart(ct)
	if err != nil {
		return &AssemblyError{Part: part, Err: err}
	}
	wc.setPart(part, out)
	return nil
}

// patchPresentationRels keeps the template's non-slide relationships
// under their original IDs and appends one relationship per generated
// slide with fresh high IDs.
func patchPresentationRels(wc *workingCopy, slideCount int) error {
	const part = "ppt/_rels/presentation.xml.rels"
	rels, err := parseRelationships(wc.parts[part])
	if err != nil {
		return &AssemblyError{Part: part, Err: err}
	}

	out := xmlRelationships{Xmlns: nsRelationships}
	for _, r := range rels {
		if r.Type == relTypeSlide {
			continue
		}
		out.Relationships = append(out.Relationships, xmlRelationship{
			ID: r.ID, Type: r.Type, Target: r.Target, TargetMode: r.TargetMode,
		})
	}
	for i := 0; i < slideCount; i++ {
		out.Relationships = append(out.Relationships, xmlRelationship{
			ID:     fmt.Sprintf("rId%d", firstSlideRelID+i),
			Type:   relTypeSlide,
			Target: fmt.Sprintf("slides/slide%d.xml", i+1),
		})
	}

	data, err := marshalXMLPart(out)
	if err != nil {
		return &AssemblyError{Part: part, Err: err}
	}
	wc.setPart(part, data)
	return nil
}

var sldIdLstRe = regexp.MustCompile(`<p:sldIdLst>[\s\S]*?</p:sldIdLst>|<p:sldIdLst/>`)

// patchPresentation swaps the slide ID list inside presentation.xml,
// leaving every other byte of the template's presentation part intact.
func patchPresentation(wc *workingCopy, slideCount int) error {
	const part = "ppt/presentation.xml"
	data, ok := wc.parts[part]
	if !ok {
		return &AssemblyError{Part: part, Err: fmt.Errorf("part missing from template")}
	}

	var list strings.Builder
	list.WriteString("<p:sldIdLst>")
	for i := 0; i < slideCount; i++ {
		fmt.Fprintf(&list, `<p:sldId id="%d" r:id="rId%d"/>`, firstSlideID+i, firstSlideRelID+i)
	}
	list.WriteString("</p:sldIdLst>")

	s := string(data)
	if sldIdLstRe.MatchString(s) {
		s = sldIdLstRe.ReplaceAllString(s, list.String())
	} else {
		// No slide list in the template: insert after the master list.
		const anchor = "</p:sldMasterIdLst>"
		i := strings.Index(s, anchor)
		if i < 0 {
			return &AssemblyError{Part: part, Err: fmt.Errorf("no sldIdLst or sldMasterIdLst found")}
		}
		s = s[:i+len(anchor)] + list.String() + s[i+len(anchor):]
	}

	wc.setPart(part, []byte(s))
	return nil
}

// writeCoreProperties replaces docProps/core.xml with the deck's
// metadata.
func writeCoreProperties(wc *workingCopy, deck *DeckSpec) error {
	const part = "docProps/core.xml"
	now := time.Now().UTC().Format("2006-01-02T15:04:05Z")

	content := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<cp:coreProperties xmlns:cp="%s" xmlns:dc="%s" xmlns:dcterms="%s" xmlns:xsi="%s">
  <dc:title>%s</dc:title>
  <dc:subject>%s</dc:subject>
  <dc:creator>%s</dc:creator>
  <dc:language>%s</dc:language>
  <cp:lastModifiedBy>%s</cp:lastModifiedBy>
  <dcterms:created xsi:type="dcterms:W3CDTF">%s</dcterms:created>
  <dcterms:modified xsi:type="dcterms:W3CDTF">%s</dcterms:modified>
</cp:coreProperties>`,
		nsCoreProperties, nsDC, nsDCTerms, nsXSI,
		xmlEscape(deck.Title),
		xmlEscape(deck.Subject),
		xmlEscape(deck.Author),
		xmlEscape(deck.Language),
		xmlEscape(deck.Author),
		now, now)

	wc.setPart(part, []byte(content))
	return nil
}
