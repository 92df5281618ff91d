// seed_catalog genera un script SQL que carga el catálogo de productos
// a partir de una exportación CSV del sistema anterior (UTF-8 o Windows-1252).
//
// Uso: go run ./cmd/seed_catalog [ruta/catalogo.csv] [salida.sql]
// Por defecto lee catalogo.csv del directorio actual y escribe
// scripts/seed_catalog.sql en la raíz del módulo.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/infrastructure/catalog"
)

func main() {
	csvPath := "catalogo.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	outPath := filepath.Join(findModuleRoot(), "scripts", "seed_catalog.sql")
	if len(os.Args) > 2 {
		outPath = os.Args[2]
	}

	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	products, err := catalog.ReadCSV(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer catálogo: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Crear directorio: %v\n", err)
		os.Exit(1)
	}
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := writeSQL(out, csvPath, products); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d productos\n", outPath, len(products))
}

// writeSQL escribe un upsert por producto. El stock no se pisa en productos existentes:
// los cambios de cantidad pasan por el libro de stock y quedan en el historial.
// La tabla products usa UUID como clave, así que un id heredado con otro formato es un error.
func writeSQL(w io.Writer, source string, products []*entity.Product) error {
	for _, p := range products {
		if err := uuid.Validate(p.ID); err != nil {
			return fmt.Errorf("producto %q: id no es UUID: %w", p.Name, err)
		}
	}
	var b strings.Builder
	b.WriteString("-- Catálogo de productos\n")
	fmt.Fprintf(&b, "-- Generado desde %s\n\n", filepath.Base(source))
	b.WriteString("BEGIN;\n\n")
	for _, p := range products {
		fmt.Fprintf(&b, "INSERT INTO products (id, name, selling_price, purchase_price, is_physical, stock_quantity, alert_threshold)\n")
		fmt.Fprintf(&b, "VALUES ('%s', '%s', '%s', %s, %t, %d, %d)\n",
			escapeSQL(p.ID), escapeSQL(p.Name), escapeSQL(p.SellingPrice),
			p.PurchasePrice.String(), p.IsPhysical, p.StockQuantity, p.AlertThreshold)
		b.WriteString("ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, selling_price = EXCLUDED.selling_price,\n")
		b.WriteString("  purchase_price = EXCLUDED.purchase_price, is_physical = EXCLUDED.is_physical,\n")
		b.WriteString("  alert_threshold = EXCLUDED.alert_threshold, updated_at = NOW();\n")
	}
	b.WriteString("\nCOMMIT;\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
