// seed_catalog genera un script SQL para poblar productos, variantes y vendedores
// a partir de un CSV exportado desde la hoja de cálculo de bodega.
//
// Uso: go run ./cmd/seed_catalog [-charset latin1|windows-1252|utf-8] [-out archivo.sql] catalogo.csv
//
// Formato (separador ';', una fila por registro):
//
//	P;id;nombre;precio;costo;cantidad     producto sin variantes (cantidad = stock de bodega)
//	PV;id;nombre;precio;costo             producto con variantes
//	V;product_id;variant_id;nombre;cantidad
//	S;id;nombre
//
// Las líneas vacías y las que empiezan por '#' se ignoran.
package main

import (
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type productRow struct {
	id, name    string
	price, cost decimal.Decimal
	hasVariants bool
	quantity    int64
}

type variantRow struct {
	productID, id, name string
	quantity            int64
}

type sellerRow struct {
	id, name string
}

type catalog struct {
	products []productRow
	variants []variantRow
	sellers  []sellerRow
}

func main() {
	charset := flag.String("charset", "latin1", "codificación del CSV: latin1, windows-1252 o utf-8")
	outPath := flag.String("out", "", "archivo de salida (por defecto stdout)")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "uso: seed_catalog [-charset ...] [-out archivo.sql] catalogo.csv")
		os.Exit(2)
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	in, err := decodeReader(f, *charset)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}
	cat, err := parseCatalog(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer catálogo: %v\n", err)
		os.Exit(1)
	}

	var out io.Writer = os.Stdout
	if *outPath != "" {
		file, err := os.Create(*outPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
			os.Exit(1)
		}
		defer file.Close()
		out = file
	}
	if err := writeSQL(out, cat); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Generado: %d productos, %d variantes, %d vendedores\n",
		len(cat.products), len(cat.variants), len(cat.sellers))
}

func decodeReader(r io.Reader, charset string) (io.Reader, error) {
	switch strings.ToLower(strings.ReplaceAll(charset, "_", "-")) {
	case "latin1", "iso-8859-1", "iso8859-1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	case "windows-1252", "cp1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	case "utf-8", "utf8":
		return r, nil
	default:
		return nil, fmt.Errorf("charset no soportado: %q", charset)
	}
}

func parseCatalog(r io.Reader) (*catalog, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	cat := &catalog{}
	withVariants := make(map[string]bool)
	line := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
		}
		switch strings.ToUpper(rec[0]) {
		case "P", "PV":
			p, err := parseProduct(rec)
			if err != nil {
				return nil, fmt.Errorf("registro %d: %w", line, err)
			}
			withVariants[p.id] = p.hasVariants
			cat.products = append(cat.products, p)
		case "V":
			if len(rec) != 5 {
				return nil, fmt.Errorf("registro %d: variante requiere 5 campos", line)
			}
			qty, err := parseQuantity(rec[4])
			if err != nil {
				return nil, fmt.Errorf("registro %d: %w", line, err)
			}
			cat.variants = append(cat.variants, variantRow{productID: rec[1], id: rec[2], name: rec[3], quantity: qty})
		case "S":
			if len(rec) != 3 || rec[1] == "" || rec[2] == "" {
				return nil, fmt.Errorf("registro %d: vendedor requiere id y nombre", line)
			}
			cat.sellers = append(cat.sellers, sellerRow{id: rec[1], name: rec[2]})
		default:
			return nil, fmt.Errorf("registro %d: tipo desconocido %q", line, rec[0])
		}
	}

	for _, v := range cat.variants {
		hv, ok := withVariants[v.productID]
		if !ok {
			return nil, fmt.Errorf("variante %s: producto %s no declarado", v.id, v.productID)
		}
		if !hv {
			return nil, fmt.Errorf("variante %s: el producto %s no maneja variantes", v.id, v.productID)
		}
	}
	return cat, nil
}

func parseProduct(rec []string) (productRow, error) {
	hasVariants := strings.EqualFold(rec[0], "PV")
	want := 6
	if hasVariants {
		want = 5
	}
	if len(rec) != want {
		return productRow{}, fmt.Errorf("producto requiere %d campos", want)
	}
	if rec[1] == "" || rec[2] == "" {
		return productRow{}, errors.New("producto requiere id y nombre")
	}
	price, err := parseMoney(rec[3])
	if err != nil {
		return productRow{}, fmt.Errorf("precio: %w", err)
	}
	cost, err := parseMoney(rec[4])
	if err != nil {
		return productRow{}, fmt.Errorf("costo: %w", err)
	}
	p := productRow{id: rec[1], name: rec[2], price: price, cost: cost, hasVariants: hasVariants}
	if !hasVariants {
		if p.quantity, err = parseQuantity(rec[5]); err != nil {
			return productRow{}, err
		}
	}
	return p, nil
}

// parseMoney acepta coma decimal ("12500,50") como la exporta la hoja en es-CO.
func parseMoney(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, errors.New("valor negativo")
	}
	if !d.Equal(d.Truncate(2)) {
		return decimal.Zero, errors.New("más de dos decimales")
	}
	return d, nil
}

func parseQuantity(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("cantidad: %w", err)
	}
	if n < 0 {
		return 0, errors.New("cantidad negativa")
	}
	return n, nil
}

func writeSQL(w io.Writer, cat *catalog) error {
	var b strings.Builder
	b.WriteString("-- Catálogo inicial generado por seed_catalog\n\n")

	products := append([]productRow(nil), cat.products...)
	sort.Slice(products, func(i, j int) bool { return products[i].id < products[j].id })
	if len(products) > 0 {
		b.WriteString("INSERT INTO products (id, name, price, cost, has_variants, quantity) VALUES\n")
		for i, p := range products {
			fmt.Fprintf(&b, "  ('%s', '%s', %s, %s, %t, %d)%s\n",
				escapeSQL(p.id), escapeSQL(p.name), p.price.StringFixed(2), p.cost.StringFixed(2),
				p.hasVariants, p.quantity, sep(i, len(products)))
		}
		b.WriteString("ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, price = EXCLUDED.price, cost = EXCLUDED.cost;\n\n")
	}

	if len(cat.variants) > 0 {
		b.WriteString("INSERT INTO product_variants (id, product_id, name, quantity) VALUES\n")
		for i, v := range cat.variants {
			fmt.Fprintf(&b, "  ('%s', '%s', '%s', %d)%s\n",
				escapeSQL(v.id), escapeSQL(v.productID), escapeSQL(v.name), v.quantity, sep(i, len(cat.variants)))
		}
		b.WriteString("ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name;\n\n")
	}

	if len(cat.sellers) > 0 {
		b.WriteString("INSERT INTO sellers (id, name) VALUES\n")
		for i, s := range cat.sellers {
			fmt.Fprintf(&b, "  ('%s', '%s')%s\n", escapeSQL(s.id), escapeSQL(s.name), sep(i, len(cat.sellers)))
		}
		b.WriteString("ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name;\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func sep(i, n int) string {
	if i < n-1 {
		return ","
	}
	return ""
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
