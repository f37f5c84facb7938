package pptgen

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// maxZipEntrySize is the maximum allowed size for a single file extracted
// from a ZIP. This prevents zip bomb attacks. 50 MB is generous for any
// legitimate PPTX part.
const maxZipEntrySize = 50 << 20 // 50 MB

// maxZipTotalSize is the cumulative limit for all extracted content from
// a single ZIP.
const maxZipTotalSize = 200 << 20 // 200 MB

// maxZipEntries is the maximum number of files allowed in a ZIP archive.
const maxZipEntries = 10000

// Template is an immutable, parsed PPTX template. It holds every part of
// the package as raw bytes plus the metadata the renderer needs: slide
// size, layout part paths, and the slides the template shipped with.
// A Template is safe for concurrent use; renders never mutate it and
// instead work on a checkout.
type Template struct {
	parts map[string][]byte
	order []string // part names in original zip order

	slideWidth  int64 // EMU
	slideHeight int64 // EMU

	layoutPaths []string // ppt/slideLayouts/slideLayoutN.xml, sorted by N
	slidePaths  []string // template's own slides, dropped at checkout
}

// LoadTemplate reads a PPTX template from a file path.
func LoadTemplate(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}
	return LoadTemplateBytes(data)
}

// LoadTemplateBytes parses a PPTX template from memory.
func LoadTemplateBytes(data []byte) (*Template, error) {
	if int64(len(data)) > maxZipTotalSize {
		return nil, fmt.Errorf("template size %d exceeds maximum allowed (%d bytes)", len(data), maxZipTotalSize)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open template zip: %w", err)
	}
	if len(zr.File) > maxZipEntries {
		return nil, fmt.Errorf("template contains too many entries (%d > %d)", len(zr.File), maxZipEntries)
	}

	t := &Template{parts: make(map[string][]byte, len(zr.File))}
	var total int64
	for _, f := range zr.File {
		if strings.HasSuffix(f.Name, "/") {
			continue
		}
		part, err := readZipEntry(f)
		if err != nil {
			return nil, err
		}
		total += int64(len(part))
		if total > maxZipTotalSize {
			return nil, fmt.Errorf("template uncompressed size exceeds maximum allowed (%d bytes)", maxZipTotalSize)
		}
		t.parts[f.Name] = part
		t.order = append(t.order, f.Name)
	}

	pres, ok := t.parts["ppt/presentation.xml"]
	if !ok {
		return nil, fmt.Errorf("template has no ppt/presentation.xml")
	}
	t.slideWidth, t.slideHeight, err = parseSlideSize(pres)
	if err != nil {
		return nil, err
	}

	for name := range t.parts {
		switch {
		case isLayoutPart(name):
			t.layoutPaths = append(t.layoutPaths, name)
		case isSlidePart(name):
			t.slidePaths = append(t.slidePaths, name)
		}
	}
	if len(t.layoutPaths) == 0 {
		return nil, fmt.Errorf("template has no slide layouts")
	}
	sort.Slice(t.layoutPaths, func(i, j int) bool {
		return partIndex(t.layoutPaths[i]) < partIndex(t.layoutPaths[j])
	})
	sort.Slice(t.slidePaths, func(i, j int) bool {
		return partIndex(t.slidePaths[i]) < partIndex(t.slidePaths[j])
	})
	return t, nil
}

// SlideSize returns the slide dimensions in EMU.
func (t *Template) SlideSize() (w, h int64) { return t.slideWidth, t.slideHeight }

// LayoutPaths returns the layout part paths in numeric order.
func (t *Template) LayoutPaths() []string { return t.layoutPaths }

// Part returns a part's bytes, nil if absent.
func (t *Template) Part(name string) []byte { return t.parts[name] }

// checkout produces a mutable working copy for one render. The part map
// is cloned shallowly: part byte slices are shared with the template and
// must never be modified in place, only replaced.
func (t *Template) checkout() *workingCopy {
	parts := make(map[string][]byte, len(t.parts))
	for k, v := range t.parts {
		parts[k] = v
	}
	order := make([]string, len(t.order))
	copy(order, t.order)
	return &workingCopy{
		parts:      parts,
		order:      order,
		slidePaths: t.slidePaths,
	}
}

// workingCopy is the per-render mutable view of the template package.
type workingCopy struct {
	parts      map[string][]byte
	order      []string
	slidePaths []string // template slides still to be dropped
}

// setPart replaces or adds a part, keeping the order list consistent.
func (w *workingCopy) setPart(name string, data []byte) {
	if _, exists := w.parts[name]; !exists {
		w.order = append(w.order, name)
	}
	w.parts[name] = data
}

// removePart deletes a part if present.
func (w *workingCopy) removePart(name string) {
	if _, exists := w.parts[name]; !exists {
		return
	}
	delete(w.parts, name)
	for i, n := range w.order {
		if n == name {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
}

// writeTo serializes the working copy as a zip in part order.
func (w *workingCopy) writeTo(out io.Writer) error {
	zw := zip.NewWriter(out)
	for _, name := range w.order {
		data, ok := w.parts[name]
		if !ok {
			continue
		}
		fw, err := zw.Create(name)
		if err != nil {
			return fmt.Errorf("create zip entry %s: %w", name, err)
		}
		if _, err := fw.Write(data); err != nil {
			return fmt.Errorf("write zip entry %s: %w", name, err)
		}
	}
	return zw.Close()
}

func readZipEntry(f *zip.File) ([]byte, error) {
	if f.UncompressedSize64 > maxZipEntrySize {
		return nil, fmt.Errorf("file %s exceeds maximum allowed size (%d bytes)", f.Name, maxZipEntrySize)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s in zip: %w", f.Name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, int64(maxZipEntrySize)+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s from zip: %w", f.Name, err)
	}
	if int64(len(data)) > int64(maxZipEntrySize) {
		return nil, fmt.Errorf("file %s actual size exceeds maximum allowed size", f.Name)
	}
	return data, nil
}

func isLayoutPart(name string) bool {
	return strings.HasPrefix(name, "ppt/slideLayouts/slideLayout") &&
		strings.HasSuffix(name, ".xml")
}

func isSlidePart(name string) bool {
	return strings.HasPrefix(name, "ppt/slides/slide") &&
		strings.HasSuffix(name, ".xml") &&
		!strings.Contains(name, "_rels")
}

// partIndex extracts the trailing number of a part name such as
// ppt/slideLayouts/slideLayout12.xml or ppt/media/image3.png. Returns 0
// when no digits found.
func partIndex(name string) int {
	base := name[strings.LastIndex(name, "/")+1:]
	if i := strings.LastIndex(base, "."); i >= 0 {
		base = base[:i]
	}
	i := len(base)
	for i > 0 && base[i-1] >= '0' && base[i-1] <= '9' {
		i--
	}
	n, _ := strconv.Atoi(base[i:])
	return n
}

// parseSlideSize walks presentation.xml for the p:sldSz element.
func parseSlideSize(data []byte) (w, h int64, err error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, 0, fmt.Errorf("parse presentation.xml: %w", err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "sldSz" {
			continue
		}
		for _, attr := range se.Attr {
			switch attr.Name.Local {
			case "cx":
				w, _ = strconv.ParseInt(attr.Value, 10, 64)
			case "cy":
				h, _ = strconv.ParseInt(attr.Value, 10, 64)
			}
		}
		break
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("presentation.xml has no valid sldSz")
	}
	return w, h, nil
}

// Relationship parsing, shared by catalog and assembler.

type xmlRelForRead struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"`
}

type xmlRelsForRead struct {
	XMLName       xml.Name        `xml:"Relationships"`
	Relationships []xmlRelForRead `xml:"Relationship"`
}

func parseRelationships(data []byte) ([]xmlRelForRead, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var rels xmlRelsForRead
	if err := xml.Unmarshal(data, &rels); err != nil {
		return nil, fmt.Errorf("parse relationships: %w", err)
	}
	return rels.Relationships, nil
}
