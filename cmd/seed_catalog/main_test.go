package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogoCSV = `# tipo;id;...
P;p-gorra;Gorra;25000;12000,50;10
PV;p-camisa;Camisa;40000;20000
V;p-camisa;v-s;S;3
V;p-camisa;v-m;M;5
S;sel-1;Ana O'Neil
`

func TestParseCatalog_Completo(t *testing.T) {
	cat, err := parseCatalog(strings.NewReader(catalogoCSV))
	require.NoError(t, err)
	require.Len(t, cat.products, 2)
	require.Len(t, cat.variants, 2)
	require.Len(t, cat.sellers, 1)

	assert.Equal(t, "12000.5", cat.products[0].cost.String())
	assert.Equal(t, int64(10), cat.products[0].quantity)
	assert.True(t, cat.products[1].hasVariants)
	assert.Equal(t, int64(0), cat.products[1].quantity)
}

func TestParseCatalog_VarianteSinProducto(t *testing.T) {
	_, err := parseCatalog(strings.NewReader("V;p-x;v-1;S;1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no declarado")
}

func TestParseCatalog_VarianteEnProductoSimple(t *testing.T) {
	_, err := parseCatalog(strings.NewReader("P;p-1;Gorra;1;1;1\nV;p-1;v-1;S;1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no maneja variantes")
}

func TestParseCatalog_CantidadNegativa(t *testing.T) {
	_, err := parseCatalog(strings.NewReader("P;p-1;Gorra;1;1;-4\n"))
	assert.Error(t, err)
}

func TestParseCatalog_PrecioConTresDecimales(t *testing.T) {
	_, err := parseCatalog(strings.NewReader("P;p-1;Gorra;1,125;1;4\n"))
	assert.Error(t, err)

	cat, err := parseCatalog(strings.NewReader("P;p-1;Gorra;1,50;1;4\n"))
	require.NoError(t, err)
	require.Len(t, cat.products, 1)
}

func TestDecodeReader_Latin1(t *testing.T) {
	// "Añil" en ISO-8859-1: ñ = 0xF1
	raw := []byte{'S', ';', 's', '1', ';', 'A', 0xF1, 'i', 'l', '\n'}
	r, err := decodeReader(bytes.NewReader(raw), "latin1")
	require.NoError(t, err)
	cat, err := parseCatalog(r)
	require.NoError(t, err)
	assert.Equal(t, "Añil", cat.sellers[0].name)

	_, err = decodeReader(bytes.NewReader(raw), "ebcdic")
	assert.Error(t, err)
}

func TestWriteSQL_EscapaYOrdena(t *testing.T) {
	cat, err := parseCatalog(strings.NewReader(catalogoCSV))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeSQL(&buf, cat))
	sql := buf.String()

	assert.Contains(t, sql, "('p-camisa', 'Camisa', 40000.00, 20000.00, true, 0),\n  ('p-gorra', 'Gorra', 25000.00, 12000.50, false, 10)\n")
	assert.Contains(t, sql, "('sel-1', 'Ana O''Neil')")
	assert.Contains(t, sql, "INSERT INTO product_variants")
}
