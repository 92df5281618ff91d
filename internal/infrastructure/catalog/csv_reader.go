// Package catalog lee exportaciones CSV del catálogo heredado.
//
// Formato esperado (con encabezado, separador "," o ";"):
//
//	id;name;selling_price;purchase_price;is_physical;stock_quantity;alert_threshold
//
// Las exportaciones antiguas vienen en Windows-1252; si el contenido no es UTF-8 válido se
// decodifica con charmap antes de parsear.
package catalog

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
)

var requiredColumns = []string{"name", "selling_price"}

// ReadCSV parsea el catálogo y devuelve los productos en el orden del archivo.
// Las filas sin id reciben un UUID nuevo; alert_threshold vacío usa entity.DefaultAlertThreshold.
func ReadCSV(r io.Reader) ([]*entity.Product, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("catalog: leer: %w", err)
	}
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	var src io.Reader = bytes.NewReader(raw)
	if !utf8.Valid(raw) {
		src = transform.NewReader(src, charmap.Windows1252.NewDecoder())
	}

	cr := csv.NewReader(src)
	cr.Comma = detectComma(raw)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: catálogo vacío", domain.ErrInvalidInput)
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: encabezado: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("%w: falta la columna %q", domain.ErrInvalidInput, c)
		}
	}

	var out []*entity.Product
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("catalog: línea %d: %w", line, err)
		}
		p, err := parseRow(rec, cols)
		if err != nil {
			return nil, fmt.Errorf("catalog: línea %d: %w", line, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func parseRow(rec []string, cols map[string]int) (*entity.Product, error) {
	get := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	p := &entity.Product{
		ID:             get("id"),
		Name:           get("name"),
		SellingPrice:   get("selling_price"),
		PurchasePrice:  decimal.Zero,
		IsPhysical:     true,
		AlertThreshold: entity.DefaultAlertThreshold,
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Name == "" {
		return nil, fmt.Errorf("%w: nombre vacío", domain.ErrInvalidInput)
	}
	if v := get("purchase_price"); v != "" {
		d, err := decimal.NewFromString(strings.ReplaceAll(v, ",", "."))
		if err != nil || d.IsNegative() {
			return nil, fmt.Errorf("%w: purchase_price %q", domain.ErrInvalidPrice, v)
		}
		p.PurchasePrice = d
	}
	if v := get("is_physical"); v != "" {
		b, err := parseBool(v)
		if err != nil {
			return nil, err
		}
		p.IsPhysical = b
	}
	if v := get("stock_quantity"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: stock_quantity %q", domain.ErrInvalidQuantity, v)
		}
		p.StockQuantity = n
	}
	if v := get("alert_threshold"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: alert_threshold %q", domain.ErrInvalidInput, v)
		}
		p.AlertThreshold = n
	}
	if !p.IsPhysical {
		p.StockQuantity = 0
	}
	return p, nil
}

func parseBool(v string) (bool, error) {
	switch strings.ToLower(v) {
	case "1", "true", "si", "sí", "yes", "y", "x":
		return true, nil
	case "0", "false", "no", "n":
		return false, nil
	}
	return false, fmt.Errorf("%w: is_physical %q", domain.ErrInvalidInput, v)
}

// detectComma elige ";" si la primera línea tiene más puntos y coma que comas (exportación de Excel en español).
func detectComma(raw []byte) rune {
	first := raw
	if i := bytes.IndexByte(raw, '\n'); i >= 0 {
		first = raw[:i]
	}
	if bytes.Count(first, []byte(";")) > bytes.Count(first, []byte(",")) {
		return ';'
	}
	return ','
}
