package pptgen

import (
	"archive/zip"
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"
)

// allLayoutNames are the cSld names the stock template ships, one per
// slide kind, in layout part order.
var allLayoutNames = []string{
	"Title Slide",
	"Content Only",
	"Image Right",
	"Image Left",
	"Image Full",
	"Table",
	"Chart",
	"Two Columns",
}

// testPNG returns a small opaque PNG.
func testPNG(t *testing.T) []byte {
	t.Helper()
	return makePNG(t, 4, 4)
}

// makePNG encodes a solid-color PNG of the given pixel dimensions.
func makePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 40, G: 90, B: 160, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
	return buf.Bytes()
}

func spXML(phType string, idx int, x, y, cx, cy int64) string {
	ph := "<p:ph"
	if phType != "" {
		ph += fmt.Sprintf(" type=%q", phType)
	}
	if idx >= 0 {
		ph += fmt.Sprintf(" idx=%q", fmt.Sprint(idx))
	}
	ph += "/>"
	return fmt.Sprintf(`<p:sp><p:nvSpPr><p:cNvPr id="2" name="Placeholder"/><p:cNvSpPr/><p:nvPr>%s</p:nvPr></p:nvSpPr><p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm></p:spPr></p:sp>`,
		ph, x, y, cx, cy)
}

// layoutXML builds a slide layout part with placeholders appropriate to
// the layout name.
func layoutXML(name string) string {
	var sps string
	switch name {
	case "Title Slide":
		sps = spXML("ctrTitle", -1, 1000000, 2000000, 10000000, 1500000) +
			spXML("subTitle", 1, 1000000, 3800000, 10000000, 1000000)
	case "Image Right":
		sps = spXML("title", -1, 500000, 300000, 11000000, 1200000) +
			spXML("body", 1, 500000, 1800000, 5500000, 4400000) +
			spXML("pic", 2, 6300000, 1800000, 5300000, 4400000)
	case "Image Left":
		sps = spXML("title", -1, 500000, 300000, 11000000, 1200000) +
			spXML("body", 1, 6300000, 1800000, 5500000, 4400000) +
			spXML("pic", 2, 500000, 1800000, 5300000, 4400000)
	case "Image Full":
		sps = spXML("pic", 1, 0, 0, 12192000, 6858000)
	case "Table":
		sps = spXML("title", -1, 500000, 300000, 11000000, 1200000) +
			spXML("tbl", 1, 914400, 1828800, 10363200, 4114800)
	case "Chart":
		sps = spXML("title", -1, 500000, 300000, 11000000, 1200000) +
			spXML("chart", 1, 914400, 1828800, 10363200, 4114800)
	case "Two Columns":
		sps = spXML("title", -1, 500000, 300000, 11000000, 1200000) +
			spXML("body", 1, 500000, 1800000, 5400000, 4400000) +
			spXML("body", 2, 6300000, 1800000, 5400000, 4400000)
	default: // Content Only and everything else
		sps = spXML("title", -1, 500000, 300000, 11000000, 1200000) +
			spXML("body", 1, 500000, 1800000, 11000000, 4400000)
	}
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:sldLayout xmlns:a="%s" xmlns:r="%s" xmlns:p="%s"><p:cSld name=%q><p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>%s</p:spTree></p:cSld><p:clrMapOvr><a:overrideClrMapping bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/></p:clrMapOvr></p:sldLayout>`,
		nsDrawingML, nsOfficeDocRels, nsPresentationML, name, sps)
}

// templateZip builds a minimal but structurally complete PPTX template
// containing the named layouts, one template slide and one media part.
func templateZip(t *testing.T, layoutNames []string) []byte {
	t.Helper()

	const relTypeMaster = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster"
	const relTypeOfficeDoc = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"

	parts := []struct {
		name string
		data []byte
	}{}
	add := func(name, data string) {
		parts = append(parts, struct {
			name string
			data []byte
		}{name, []byte(data)})
	}

	var ctOverrides strings.Builder
	for i := range layoutNames {
		fmt.Fprintf(&ctOverrides,
			`<Override PartName="/ppt/slideLayouts/slideLayout%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"/>`,
			i+1)
	}
	add("[Content_Types].xml", fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="%s"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Default Extension="png" ContentType="image/png"/><Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/><Override PartName="/ppt/slideMasters/slideMaster1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"/>%s<Override PartName="/ppt/slides/slide1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/><Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/></Types>`,
		nsContentTypes, ctOverrides.String()))

	add("_rels/.rels", fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="%s"><Relationship Id="rId1" Type="%s" Target="ppt/presentation.xml"/></Relationships>`,
		nsRelationships, relTypeOfficeDoc))

	add("ppt/presentation.xml", fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:presentation xmlns:a="%s" xmlns:r="%s" xmlns:p="%s"><p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst><p:sldIdLst><p:sldId id="256" r:id="rId2"/></p:sldIdLst><p:sldSz cx="12192000" cy="6858000"/><p:notesSz cx="6858000" cy="9144000"/></p:presentation>`,
		nsDrawingML, nsOfficeDocRels, nsPresentationML))

	add("ppt/_rels/presentation.xml.rels", fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="%s"><Relationship Id="rId1" Type="%s" Target="slideMasters/slideMaster1.xml"/><Relationship Id="rId2" Type="%s" Target="slides/slide1.xml"/></Relationships>`,
		nsRelationships, relTypeMaster, relTypeSlide))

	var masterLayoutIDs strings.Builder
	for i := range layoutNames {
		fmt.Fprintf(&masterLayoutIDs, `<p:sldLayoutId id="%d" r:id="rId%d"/>`, 2147483649+i, i+1)
	}
	add("ppt/slideMasters/slideMaster1.xml", fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:sldMaster xmlns:a="%s" xmlns:r="%s" xmlns:p="%s"><p:cSld><p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/></p:spTree></p:cSld><p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/><p:sldLayoutIdLst>%s</p:sldLayoutIdLst></p:sldMaster>`,
		nsDrawingML, nsOfficeDocRels, nsPresentationML, masterLayoutIDs.String()))

	for i, name := range layoutNames {
		add(fmt.Sprintf("ppt/slideLayouts/slideLayout%d.xml", i+1), layoutXML(name))
		add(fmt.Sprintf("ppt/slideLayouts/_rels/slideLayout%d.xml.rels", i+1), fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="%s"><Relationship Id="rId1" Type="%s" Target="../slideMasters/slideMaster1.xml"/></Relationships>`,
			nsRelationships, relTypeMaster))
	}

	add("ppt/slides/slide1.xml", fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:sld xmlns:a="%s" xmlns:r="%s" xmlns:p="%s"><p:cSld><p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/></p:spTree></p:cSld></p:sld>`,
		nsDrawingML, nsOfficeDocRels, nsPresentationML))
	add("ppt/slides/_rels/slide1.xml.rels", fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="%s"><Relationship Id="rId1" Type="%s" Target="../slideLayouts/slideLayout1.xml"/></Relationships>`,
		nsRelationships, relTypeSlideLayout))

	// Pre-existing media so generated images must number past it.
	parts = append(parts, struct {
		name string
		data []byte
	}{"ppt/media/image3.png", makePNG(t, 2, 2)})

	add("docProps/core.xml", fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<cp:coreProperties xmlns:cp="%s" xmlns:dc="%s" xmlns:dcterms="%s" xmlns:xsi="%s"><dc:title>Stock Template</dc:title></cp:coreProperties>`,
		nsCoreProperties, nsDC, nsDCTerms, nsXSI))

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, p := range parts {
		fw, err := zw.Create(p.name)
		if err != nil {
			t.Fatalf("create zip part %s: %v", p.name, err)
		}
		if _, err := fw.Write(p.data); err != nil {
			t.Fatalf("write zip part %s: %v", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close template zip: %v", err)
	}
	return buf.Bytes()
}

// loadTestTemplate parses a template containing the named layouts, all
// eight by default.
func loadTestTemplate(t *testing.T, layoutNames ...string) *Template {
	t.Helper()
	if len(layoutNames) == 0 {
		layoutNames = allLayoutNames
	}
	tmpl, err := LoadTemplateBytes(templateZip(t, layoutNames))
	if err != nil {
		t.Fatalf("LoadTemplateBytes: %v", err)
	}
	return tmpl
}

// unzipParts reads a produced package back into a part map.
func unzipParts(t *testing.T, data []byte) map[string][]byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open produced zip: %v", err)
	}
	parts := make(map[string][]byte, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open part %s: %v", f.Name, err)
		}
		b, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read part %s: %v", f.Name, err)
		}
		parts[f.Name] = b
	}
	return parts
}

func mustDeck(t *testing.T, title string, slides []SlideSpec) *DeckSpec {
	t.Helper()
	deck, err := NewDeckSpec(title, "en", len(slides), slides)
	if err != nil {
		t.Fatalf("NewDeckSpec: %v", err)
	}
	return deck
}
