// Package db provides the embedded database schema and the embedded seed
// catalog used as the pipeline's last-resort data tier.
package db

import _ "embed"

// Schema contains the DDL statements for the catalog store tables.
//
//go:embed migrations/001_schema.sql
var Schema string

// SeedProducts is the embedded seed product payload. It has no network
// dependency and must always parse.
//
//go:embed seed/products.json
var SeedProducts []byte

// SeedCollections is the embedded seed collection payload.
//
//go:embed seed/collections.json
var SeedCollections []byte
