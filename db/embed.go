// Package db ships the SQL migrations with the binary.
package db

import "embed"

// Migrations holds the forward migrations, applied in file name order.
//
//go:embed migrations/*.up.sql
var Migrations embed.FS
