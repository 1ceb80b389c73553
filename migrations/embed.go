// Package migrations хранит SQL схему ledger и встраивает её в бинарник.
package migrations

import "embed"

// FS содержит все *.sql файлы каталога, применяются в лексикографическом порядке.
//
//go:embed *.sql
var FS embed.FS
