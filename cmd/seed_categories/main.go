// seed_categories genera un script SQL que carga un árbol de categorías desde un archivo
// de taxonomía con una ruta por línea ("Materiales > Acero > Varilla"). Acepta el
// formato de taxonomía con ID ("632 - Materiales > Acero") y archivos en ISO-8859-1.
//
// Uso: go run ./cmd/seed_categories [taxonomia.txt] [salida.sql]
// Por defecto lee taxonomy.txt y escribe migrations/100_seed_categories.sql.
package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/procurement-api/internal/domain/entity"
)

// taxonomySeparator separa niveles dentro de una línea.
const taxonomySeparator = ">"

var idPrefix = regexp.MustCompile(`^\d+\s+-\s+`)

func main() {
	inPath := "taxonomy.txt"
	if len(os.Args) > 1 {
		inPath = os.Args[1]
	}
	outPath := filepath.Join(findModuleRoot(), "migrations", "100_seed_categories.sql")
	if len(os.Args) > 2 {
		outPath = os.Args[2]
	}

	raw, err := os.ReadFile(inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer taxonomía: %v\n", err)
		os.Exit(1)
	}
	r, err := utf8Reader(raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Decodificar taxonomía: %v\n", err)
		os.Exit(1)
	}
	nodes, err := parseTaxonomy(r)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Procesar taxonomía: %v\n", err)
		os.Exit(1)
	}

	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()
	if err := writeSQL(out, nodes); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d categorías\n", outPath, len(nodes))
}

// utf8Reader devuelve el contenido como UTF-8; si no es UTF-8 válido lo trata como ISO-8859-1.
func utf8Reader(raw []byte) (io.Reader, error) {
	if utf8.Valid(raw) {
		return bytes.NewReader(raw), nil
	}
	decoded, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), raw)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(decoded), nil
}

// parseTaxonomy construye los nodos del árbol. Cada ruta crea los ancestros que falten;
// los hermanos se identifican por slug. El resultado sale con cada padre antes que sus hijos.
func parseTaxonomy(r io.Reader) ([]*entity.Category, error) {
	bySlugPath := make(map[string]*entity.Category)
	var nodes []*entity.Category
	now := time.Now().UTC()

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = idPrefix.ReplaceAllString(line, "")

		var parent *entity.Category
		key := ""
		for _, part := range strings.Split(line, taxonomySeparator) {
			name := strings.TrimSpace(part)
			if name == "" {
				return nil, fmt.Errorf("línea %d: nivel vacío", lineNo)
			}
			key += "/" + entity.CategorySlug(name)
			if existing, ok := bySlugPath[key]; ok {
				parent = existing
				continue
			}
			c := &entity.Category{
				ID:        uuid.NewSHA1(uuid.NameSpaceURL, []byte("category:"+key)).String(),
				Name:      name,
				Status:    entity.CategoryStatusActive,
				CreatedAt: now,
				UpdatedAt: now,
			}
			c.Place(parent)
			bySlugPath[key] = c
			nodes = append(nodes, c)
			parent = c
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return nodes, nil
}

// writeSQL emite un INSERT idempotente por categoría.
func writeSQL(w io.Writer, nodes []*entity.Category) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("-- Árbol de categorías generado por cmd/seed_categories\n\n")
	for _, c := range nodes {
		parent := "NULL"
		if c.ParentID != "" {
			parent = "'" + c.ParentID + "'"
		}
		fmt.Fprintf(bw,
			"INSERT INTO categories (id, parent_id, name, slug, level, path, status)\n"+
				"VALUES ('%s', %s, '%s', '%s', %d, '%s', '%s')\n"+
				"ON CONFLICT (id) DO NOTHING;\n",
			c.ID, parent, escapeSQL(c.Name), c.Slug, c.Level, escapeSQL(c.Path), c.Status)
	}
	return bw.Flush()
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
