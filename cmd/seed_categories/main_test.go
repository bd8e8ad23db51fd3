package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestParseTaxonomy_CreaAncestrosUnaVez(t *testing.T) {
	in := strings.NewReader(`# comentario
632 - Materiales > Acero
632 - Materiales > Acero > Varilla
Materiales > Cemento
`)
	nodes, err := parseTaxonomy(in)
	require.NoError(t, err)
	require.Len(t, nodes, 4)

	assert.Equal(t, "Materiales", nodes[0].Name)
	assert.Equal(t, 0, nodes[0].Level)
	assert.Empty(t, nodes[0].ParentID)

	assert.Equal(t, nodes[0].ID, nodes[1].ParentID)
	assert.Equal(t, "Materiales / Acero / Varilla", nodes[2].Path)
	assert.Equal(t, 2, nodes[2].Level)
	assert.Equal(t, nodes[0].ID, nodes[3].ParentID, "Cemento cuelga de la misma raíz")
}

func TestParseTaxonomy_IDsDeterministas(t *testing.T) {
	a, err := parseTaxonomy(strings.NewReader("Herramientas > Manuales\n"))
	require.NoError(t, err)
	b, err := parseTaxonomy(strings.NewReader("Herramientas > Manuales\n"))
	require.NoError(t, err)
	assert.Equal(t, a[1].ID, b[1].ID)
}

func TestParseTaxonomy_NivelVacio(t *testing.T) {
	_, err := parseTaxonomy(strings.NewReader("Materiales >  > Acero\n"))
	assert.Error(t, err)
}

func TestUTF8Reader_Latin1(t *testing.T) {
	latin1, err := charmap.ISO8859_1.NewEncoder().String("Tubería > Codos\n")
	require.NoError(t, err)

	r, err := utf8Reader([]byte(latin1))
	require.NoError(t, err)
	nodes, err := parseTaxonomy(r)
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Equal(t, "Tubería", nodes[0].Name)
	assert.Equal(t, "tuberia", nodes[0].Slug)
}

func TestWriteSQL_EscapaComillas(t *testing.T) {
	nodes, err := parseTaxonomy(strings.NewReader("Llaves D'Oro\n"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeSQL(&buf, nodes))
	out := buf.String()
	assert.Contains(t, out, "'Llaves D''Oro'")
	assert.Contains(t, out, "NULL")
	assert.Contains(t, out, "ON CONFLICT (id) DO NOTHING")
}
