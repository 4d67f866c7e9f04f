package ingestion

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractHOCRText converts tesseract hOCR markup into plain text.
// Each ocr_line becomes one line and each ocr_par is followed by a blank line,
// so paragraphs map onto extraction blocks. Markup without hOCR classes falls
// back to the document's visible text.
func ExtractHOCRText(markup string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return "", &LoadError{
			Message: "failed to parse hOCR markup",
			Cause:   err,
		}
	}

	pars := doc.Find(".ocr_par")
	if pars.Length() == 0 {
		if lines := hocrLines(doc.Selection); len(lines) > 0 {
			return CleanText(strings.Join(lines, "\n")), nil
		}
		doc.Find("script, style, head").Remove()
		return CleanText(doc.Text()), nil
	}

	var b strings.Builder
	pars.Each(func(_ int, par *goquery.Selection) {
		lines := hocrLines(par)
		if len(lines) == 0 {
			return
		}
		b.WriteString(strings.Join(lines, "\n"))
		b.WriteString("\n\n")
	})
	return CleanText(b.String()), nil
}

// hocrLines returns the word-joined text of every line under sel.
func hocrLines(sel *goquery.Selection) []string {
	var lines []string
	sel.Find(".ocr_line, .ocrx_line, .ocr_header, .ocr_textfloat, .ocr_caption").Each(func(_ int, line *goquery.Selection) {
		var words []string
		line.Find(".ocrx_word").Each(func(_ int, w *goquery.Selection) {
			if t := strings.TrimSpace(w.Text()); t != "" {
				words = append(words, t)
			}
		})
		text := strings.Join(words, " ")
		if len(words) == 0 {
			text = strings.Join(strings.Fields(line.Text()), " ")
		}
		if text != "" {
			lines = append(lines, text)
		}
	})
	return lines
}
