// Package migrations embebe los scripts SQL del esquema.
package migrations

import "embed"

// FS contiene los archivos NNN_nombre.sql en orden de aplicación.
//
//go:embed *.sql
var FS embed.FS
