package pptx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mpanelo/pdfdeck/segment"
)

// ReadDeck opens a .pptx file and returns its slides as title + content
// lines, in slide order. Placeholder types distinguish the title shape
// from the body; the title slide's subtitle is reported as content.
// Used by tests and the convert command's verification pass.
func ReadDeck(path string) ([]segment.Slide, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening PPTX: %w", err)
	}
	defer r.Close()

	// Collect slide files (ppt/slides/slide1.xml, slide2.xml, ...)
	slideFiles := make(map[int]*zip.File)
	for _, f := range r.File {
		if strings.HasPrefix(f.Name, "ppt/slides/slide") && strings.HasSuffix(f.Name, ".xml") {
			num := slideNumber(f.Name)
			if num > 0 {
				slideFiles[num] = f
			}
		}
	}

	nums := make([]int, 0, len(slideFiles))
	for n := range slideFiles {
		nums = append(nums, n)
	}
	sort.Ints(nums)

	var slides []segment.Slide
	for _, num := range nums {
		rc, err := slideFiles[num].Open()
		if err != nil {
			return nil, fmt.Errorf("opening slide %d: %w", num, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("reading slide %d: %w", num, err)
		}

		slide, err := decodeSlide(data)
		if err != nil {
			return nil, fmt.Errorf("decoding slide %d: %w", num, err)
		}
		slides = append(slides, slide)
	}
	return slides, nil
}

// xmlSlide is the simplified PresentationML slide structure.
type xmlSlide struct {
	CSld struct {
		SpTree struct {
			SPs []xmlSP `xml:"sp"`
		} `xml:"spTree"`
	} `xml:"cSld"`
}

type xmlSP struct {
	NvSpPr struct {
		NvPr struct {
			Ph *struct {
				Type string `xml:"type,attr"`
			} `xml:"ph"`
		} `xml:"nvPr"`
	} `xml:"nvSpPr"`
	TxBody *struct {
		Paras []struct {
			Runs []struct {
				Text string `xml:"t"`
			} `xml:"r"`
		} `xml:"p"`
	} `xml:"txBody"`
}

func decodeSlide(data []byte) (segment.Slide, error) {
	var raw xmlSlide
	if err := xml.Unmarshal(data, &raw); err != nil {
		return segment.Slide{}, err
	}

	var slide segment.Slide
	for _, sp := range raw.CSld.SpTree.SPs {
		if sp.TxBody == nil {
			continue
		}

		var lines []string
		for _, para := range sp.TxBody.Paras {
			var line strings.Builder
			for _, run := range para.Runs {
				line.WriteString(run.Text)
			}
			if t := strings.TrimSpace(line.String()); t != "" {
				lines = append(lines, t)
			}
		}

		phType := ""
		if sp.NvSpPr.NvPr.Ph != nil {
			phType = sp.NvSpPr.NvPr.Ph.Type
		}
		switch phType {
		case "title", "ctrTitle":
			if len(lines) > 0 {
				slide.Title = lines[0]
			}
		default:
			slide.Content = append(slide.Content, lines...)
		}
	}
	return slide, nil
}

// slideNumber extracts the number from "ppt/slides/slide1.xml".
func slideNumber(name string) int {
	name = strings.TrimPrefix(name, "ppt/slides/slide")
	name = strings.TrimSuffix(name, ".xml")
	var num int
	fmt.Sscanf(name, "%d", &num)
	return num
}
