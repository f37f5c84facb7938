package pptgen

import (
	"bytes"
	"encoding/xml"
	"sort"
	"strconv"
	"strings"
)

// SlotRole classifies what a layout placeholder is for.
type SlotRole int

const (
	RoleTitle SlotRole = iota
	RoleSubtitle
	RoleBody
	RolePicture
	RoleTable
	RoleChart
	RoleColumnLeft
	RoleColumnRight
	RoleOther
)

var roleNames = map[SlotRole]string{
	RoleTitle:       "title",
	RoleSubtitle:    "subtitle",
	RoleBody:        "body",
	RolePicture:     "picture",
	RoleTable:       "table",
	RoleChart:       "chart",
	RoleColumnLeft:  "columnLeft",
	RoleColumnRight: "columnRight",
	RoleOther:       "other",
}

func (r SlotRole) String() string { return roleNames[r] }

// Slot is one placeholder of a layout: its binding attributes and frame.
type Slot struct {
	Role   SlotRole
	PhType string // p:ph type attribute, "" when absent
	PhIdx  int    // p:ph idx attribute, -1 when absent
	X, Y   int64  // EMU
	W, H   int64  // EMU
}

// LayoutHandle is one resolvable layout: its part path, its number (for
// ../slideLayouts/slideLayoutN.xml references from slides), and its slots.
type LayoutHandle struct {
	Kind  SlideKind
	Name  string // cSld name as authored in the template
	Path  string // ppt/slideLayouts/slideLayoutN.xml
	Index int    // the N in the path
	Slots []Slot
}

// Slot returns the first slot with the given role, nil if none.
func (h *LayoutHandle) Slot(role SlotRole) *Slot {
	for i := range h.Slots {
		if h.Slots[i].Role == role {
			return &h.Slots[i]
		}
	}
	return nil
}

// Catalog maps slide kinds to template layouts. It is built once per
// template and shared, immutable, across concurrent renders.
type Catalog struct {
	byKind      map[SlideKind]*LayoutHandle
	names       []string // every layout name seen, for error reporting
	slideWidth  int64
	slideHeight int64
}

// BuildCatalog parses every layout part of the template and matches
// layout names against the known slide kinds. Name matching is
// case-insensitive and whitespace-normalized, so "Image  right" in a
// template still binds KindImageRight.
func BuildCatalog(t *Template) (*Catalog, error) {
	c := &Catalog{byKind: make(map[SlideKind]*LayoutHandle)}
	c.slideWidth, c.slideHeight = t.SlideSize()

	wantByName := make(map[string]SlideKind, len(kindNames))
	for kind, name := range kindNames {
		wantByName[normalizeLayoutName(name)] = kind
	}

	for _, path := range t.LayoutPaths() {
		data := t.Part(path)
		name, slots := parseLayout(data)
		if name == "" {
			continue
		}
		c.names = append(c.names, name)
		kind, ok := wantByName[normalizeLayoutName(name)]
		if ok {
			if _, dup := c.byKind[kind]; dup {
				continue // first match wins
			}
		} else {
			continue
		}
		h := &LayoutHandle{
			Kind:  kind,
			Name:  name,
			Path:  path,
			Index: partIndex(path),
			Slots: classifySlots(kind, slots),
		}
		c.byKind[kind] = h
	}
	sort.Strings(c.names)

	// The fallback target must exist: without it degradation has
	// nowhere to land.
	if _, ok := c.byKind[KindContentOnly]; !ok {
		return nil, &CatalogError{
			Reason:    "template defines no \"" + kindNames[KindContentOnly] + "\" layout",
			Available: c.names,
		}
	}
	return c, nil
}

// SlideSize returns the slide dimensions in EMU.
func (c *Catalog) SlideSize() (w, h int64) { return c.slideWidth, c.slideHeight }

// Layouts returns the names of every layout the template defines.
func (c *Catalog) Layouts() []string { return c.names }

// Resolve returns the layout for a kind, or a CatalogError naming the
// available layouts when the template lacks it.
func (c *Catalog) Resolve(kind SlideKind) (*LayoutHandle, error) {
	if h, ok := c.byKind[kind]; ok {
		return h, nil
	}
	return nil, &CatalogError{
		Reason:    "template defines no \"" + kindNames[kind] + "\" layout",
		Available: c.names,
	}
}

// ResolveOrFallback resolves a kind, degrading to the content-only
// layout when the template lacks the requested one. The second return
// reports whether degradation happened.
func (c *Catalog) ResolveOrFallback(kind SlideKind) (*LayoutHandle, bool) {
	if h, ok := c.byKind[kind]; ok {
		return h, false
	}
	return c.byKind[KindContentOnly], true
}

func normalizeLayoutName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// classifySlots assigns roles from placeholder types, then splits body
// slots into left/right columns for the two-column layout.
func classifySlots(kind SlideKind, raw []rawSlot) []Slot {
	slots := make([]Slot, 0, len(raw))
	for _, r := range raw {
		role := RoleOther
		switch r.phType {
		case "title", "ctrTitle":
			role = RoleTitle
		case "subTitle":
			role = RoleSubtitle
		case "body", "":
			role = RoleBody
		case "pic":
			role = RolePicture
		case "tbl":
			role = RoleTable
		case "chart":
			role = RoleChart
		}
		slots = append(slots, Slot{
			Role:   role,
			PhType: r.phType,
			PhIdx:  r.phIdx,
			X:      r.offX,
			Y:      r.offY,
			W:      r.extCX,
			H:      r.extCY,
		})
	}

	if kind == KindTwoColumns {
		var bodies []*Slot
		for i := range slots {
			if slots[i].Role == RoleBody {
				bodies = append(bodies, &slots[i])
			}
		}
		if len(bodies) >= 2 {
			sort.Slice(bodies, func(i, j int) bool { return bodies[i].X < bodies[j].X })
			bodies[0].Role = RoleColumnLeft
			bodies[len(bodies)-1].Role = RoleColumnRight
		}
	}
	return slots
}

// rawSlot is a placeholder as parsed from layout XML.
type rawSlot struct {
	phType     string
	phIdx      int
	offX, offY int64
	extCX      int64
	extCY      int64
}

// parseLayout extracts the cSld name and placeholder definitions from a
// slide layout part. The walker tracks nesting with booleans rather than
// building a DOM; layout parts are small and this keeps allocation flat.
func parseLayout(data []byte) (string, []rawSlot) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	var name string
	var slots []rawSlot

	inSp := false
	inNvSpPr := false
	inSpPr := false

	isPH := false
	var phType string
	var phIdx int
	var offX, offY, extCX, extCY int64

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "cSld":
				for _, attr := range t.Attr {
					if attr.Name.Local == "name" {
						name = attr.Value
					}
				}
			case "sp":
				inSp = true
				isPH = false
				phType = ""
				phIdx = -1
				offX, offY, extCX, extCY = 0, 0, 0, 0
			case "nvSpPr":
				if inSp {
					inNvSpPr = true
				}
			case "ph":
				if inNvSpPr {
					isPH = true
					for _, attr := range t.Attr {
						switch attr.Name.Local {
						case "type":
							phType = attr.Value
						case "idx":
							if v, err := strconv.Atoi(attr.Value); err == nil {
								phIdx = v
							}
						}
					}
				}
			case "spPr":
				if inSp && !inNvSpPr {
					inSpPr = true
				}
			case "off":
				if inSpPr {
					for _, attr := range t.Attr {
						switch attr.Name.Local {
						case "x":
							if v, err := strconv.ParseInt(attr.Value, 10, 64); err == nil {
								offX = v
							}
						case "y":
							if v, err := strconv.ParseInt(attr.Value, 10, 64); err == nil {
								offY = v
							}
						}
					}
				}
			case "ext":
				if inSpPr {
					for _, attr := range t.Attr {
						switch attr.Name.Local {
						case "cx":
							if v, err := strconv.ParseInt(attr.Value, 10, 64); err == nil {
								extCX = v
							}
						case "cy":
							if v, err := strconv.ParseInt(attr.Value, 10, 64); err == nil {
								extCY = v
							}
						}
					}
				}
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "sp":
				if inSp && isPH {
					slots = append(slots, rawSlot{
						phType: phType,
						phIdx:  phIdx,
						offX:   offX,
						offY:   offY,
						extCX:  extCX,
						extCY:  extCY,
					})
				}
				inSp = false
				inSpPr = false
			case "nvSpPr":
				inNvSpPr = false
			case "spPr":
				inSpPr = false
			}
		}
	}

	return name, slots
}
