// Package pptx serializes generated slides into an OOXML presentation
// package (.pptx). The package is built directly over archive/zip; each
// part is a PresentationML XML document.
package pptx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mpanelo/pdfdeck/segment"
)

// Deck title-slide text. Fixed, not derived from the input document.
const (
	deckTitle    = "Document Summary"
	deckSubtitle = "Generated by pdfdeck"
)

// Renderer writes slide sequences as .pptx files. The zero value is
// ready to use.
type Renderer struct{}

// Render writes a presentation containing a fixed title slide followed by
// one content slide per element of slides, in order. The file is written
// to a temporary path in the destination directory and renamed into
// place, so no partial artifact is observable on failure. A destination
// that cannot be written is a terminal error; there is no retry.
func (r *Renderer) Render(slides []segment.Slide, dest string) error {
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".deck-*.pptx")
	if err != nil {
		return fmt.Errorf("creating temp deck file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := writeDeck(tmp, slides); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing deck: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing deck file: %w", err)
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("publishing deck: %w", err)
	}
	return nil
}

// writeDeck streams every package part into w. Slide numbering inside the
// archive is 1-based with the title slide first.
func writeDeck(w *os.File, slides []segment.Slide) error {
	zw := zip.NewWriter(w)

	total := len(slides) + 1 // slides + leading title slide

	parts := []struct {
		name string
		body string
	}{
		{"[Content_Types].xml", contentTypesXML(total)},
		{"_rels/.rels", packageRelsXML},
		{"ppt/presentation.xml", presentationXML(total)},
		{"ppt/_rels/presentation.xml.rels", presentationRelsXML(total)},
		{"ppt/slideMasters/slideMaster1.xml", slideMasterXML},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", slideMasterRelsXML},
		{"ppt/slideLayouts/slideLayout1.xml", slideLayoutXML},
		{"ppt/slideLayouts/_rels/slideLayout1.xml.rels", slideLayoutRelsXML},
		{"ppt/theme/theme1.xml", themeXML},
	}
	for _, p := range parts {
		if err := addPart(zw, p.name, p.body); err != nil {
			return err
		}
	}

	if err := addPart(zw, "ppt/slides/slide1.xml", titleSlideXML(deckTitle, deckSubtitle)); err != nil {
		return err
	}
	if err := addPart(zw, "ppt/slides/_rels/slide1.xml.rels", slideRelsXML); err != nil {
		return err
	}

	for i, slide := range slides {
		n := i + 2
		if err := addPart(zw, fmt.Sprintf("ppt/slides/slide%d.xml", n), contentSlideXML(slide)); err != nil {
			return err
		}
		if err := addPart(zw, fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", n), slideRelsXML); err != nil {
			return err
		}
	}

	return zw.Close()
}

func addPart(zw *zip.Writer, name, body string) error {
	f, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("creating part %s: %w", name, err)
	}
	if _, err := f.Write([]byte(body)); err != nil {
		return fmt.Errorf("writing part %s: %w", name, err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// package parts
// ---------------------------------------------------------------------------

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

func contentTypesXML(slideCount int) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	b.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	b.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	b.WriteString(`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/slideMasters/slideMaster1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/slideLayouts/slideLayout1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/theme/theme1.xml" ContentType="application/vnd.openxmlformats-officedocument.theme+xml"/>`)
	for i := 1; i <= slideCount; i++ {
		fmt.Fprintf(&b, `<Override PartName="/ppt/slides/slide%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>`, i)
	}
	b.WriteString(`</Types>`)
	return b.String()
}

const packageRelsXML = xmlHeader +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="ppt/presentation.xml"/>` +
	`</Relationships>`

func presentationXML(slideCount int) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<p:presentation xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">`)
	b.WriteString(`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>`)
	b.WriteString(`<p:sldIdLst>`)
	for i := 1; i <= slideCount; i++ {
		fmt.Fprintf(&b, `<p:sldId id="%d" r:id="rId%d"/>`, 255+i, i+1)
	}
	b.WriteString(`</p:sldIdLst>`)
	b.WriteString(`<p:sldSz cx="9144000" cy="6858000"/><p:notesSz cx="6858000" cy="9144000"/>`)
	b.WriteString(`</p:presentation>`)
	return b.String()
}

func presentationRelsXML(slideCount int) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	b.WriteString(`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster" Target="slideMasters/slideMaster1.xml"/>`)
	for i := 1; i <= slideCount; i++ {
		fmt.Fprintf(&b, `<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide%d.xml"/>`, i+1, i)
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}

const slideRelsXML = xmlHeader +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/slideLayout1.xml"/>` +
	`</Relationships>`

const slideMasterRelsXML = xmlHeader +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/slideLayout1.xml"/>` +
	`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme" Target="../theme/theme1.xml"/>` +
	`</Relationships>`

const slideLayoutRelsXML = xmlHeader +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster" Target="../slideMasters/slideMaster1.xml"/>` +
	`</Relationships>`

const pmlNamespaces = `xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"`

const emptySpTree = `<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>`

const slideMasterXML = xmlHeader +
	`<p:sldMaster ` + pmlNamespaces + `>` +
	`<p:cSld><p:spTree>` + emptySpTree + `</p:spTree></p:cSld>` +
	`<p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>` +
	`<p:sldLayoutIdLst><p:sldLayoutId id="2147483649" r:id="rId1"/></p:sldLayoutIdLst>` +
	`</p:sldMaster>`

const slideLayoutXML = xmlHeader +
	`<p:sldLayout ` + pmlNamespaces + `>` +
	`<p:cSld><p:spTree>` + emptySpTree + `</p:spTree></p:cSld>` +
	`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>` +
	`</p:sldLayout>`

// titleSlideXML produces the leading title-layout slide.
func titleSlideXML(title, subtitle string) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<p:sld ` + pmlNamespaces + `><p:cSld><p:spTree>`)
	b.WriteString(emptySpTree)
	writeShape(&b, 2, "Title 1", "ctrTitle", "", shapeBox{457200, 1600200, 8229600, 1143000}, 4000, []string{title})
	writeShape(&b, 3, "Subtitle 2", "subTitle", ` idx="1"`, shapeBox{457200, 2971800, 8229600, 1143000}, 2400, []string{subtitle})
	b.WriteString(`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>`)
	return b.String()
}

// contentSlideXML produces one content-layout slide: the record title
// plus one paragraph per content line at a single nesting level.
func contentSlideXML(slide segment.Slide) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<p:sld ` + pmlNamespaces + `><p:cSld><p:spTree>`)
	b.WriteString(emptySpTree)
	writeShape(&b, 2, "Title 1", "title", "", shapeBox{457200, 274638, 8229600, 1143000}, 3200, []string{slide.Title})
	writeShape(&b, 3, "Content Placeholder 2", "body", ` idx="1"`, shapeBox{457200, 1600200, 8229600, 4525963}, 1800, slide.Content)
	b.WriteString(`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>`)
	return b.String()
}

// shapeBox is a shape position/extent in EMUs.
type shapeBox struct {
	x, y, cx, cy int
}

// writeShape emits one placeholder shape with the given paragraphs.
func writeShape(b *strings.Builder, id int, name, phType, phExtra string, box shapeBox, fontSize int, paragraphs []string) {
	fmt.Fprintf(b, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr><p:nvPr><p:ph type="%s"%s/></p:nvPr></p:nvSpPr>`,
		id, name, phType, phExtra)
	fmt.Fprintf(b, `<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr>`,
		box.x, box.y, box.cx, box.cy)
	b.WriteString(`<p:txBody><a:bodyPr/><a:lstStyle/>`)
	for _, text := range paragraphs {
		fmt.Fprintf(b, `<a:p><a:r><a:rPr lang="en-US" sz="%d" dirty="0"/><a:t>%s</a:t></a:r></a:p>`,
			fontSize, escapeXML(text))
	}
	if len(paragraphs) == 0 {
		b.WriteString(`<a:p/>`)
	}
	b.WriteString(`</p:txBody></p:sp>`)
}

// escapeXML escapes text for embedding in an XML element.
func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s)) // only fails on a failing writer
	return buf.String()
}
