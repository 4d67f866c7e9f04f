package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleHOCR = `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml">
<head><title>ctps</title><meta name="ocr-system" content="tesseract 5.3.0" /></head>
<body>
<div class="ocr_page" id="page_1">
 <div class="ocr_carea" id="block_1_1">
  <p class="ocr_par" id="par_1_1">
   <span class="ocr_line" id="line_1_1"><span class="ocrx_word">Empresa:</span> <span class="ocrx_word">Comercial</span> <span class="ocrx_word">Silva</span></span>
   <span class="ocr_line" id="line_1_2"><span class="ocrx_word">Cargo:</span> <span class="ocrx_word">Auxiliar</span> <span class="ocrx_word">Administrativo</span></span>
   <span class="ocr_line" id="line_1_3"><span class="ocrx_word">Admissão:</span> <span class="ocrx_word">01/03/2018</span></span>
  </p>
  <p class="ocr_par" id="par_1_2">
   <span class="ocr_line" id="line_1_4"><span class="ocrx_word">Empregador:</span> <span class="ocrx_word">Hospital</span> <span class="ocrx_word">Central</span></span>
  </p>
  <p class="ocr_par" id="par_1_3"></p>
 </div>
</div>
</body>
</html>`

func TestExtractHOCRText_Paragraphs(t *testing.T) {
	text, err := ExtractHOCRText(sampleHOCR)
	require.NoError(t, err)

	want := "Empresa: Comercial Silva\nCargo: Auxiliar Administrativo\nAdmissão: 01/03/2018\n\nEmpregador: Hospital Central"
	assert.Equal(t, want, text)
}

func TestExtractHOCRText_LinesWithoutParagraphs(t *testing.T) {
	markup := `<html><body><span class="ocr_line">Cargo:  Conferente</span><span class="ocr_line">Saída 01/01/2021</span></body></html>`
	text, err := ExtractHOCRText(markup)
	require.NoError(t, err)
	assert.Equal(t, "Cargo: Conferente\nSaída 01/01/2021", text)
}

func TestExtractHOCRText_PlainHTMLFallback(t *testing.T) {
	markup := `<html><head><style>p{}</style></head><body><p>Empresa: Loja Azul</p></body></html>`
	text, err := ExtractHOCRText(markup)
	require.NoError(t, err)
	assert.Equal(t, "Empresa: Loja Azul", text)
}
