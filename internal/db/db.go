// Package db carries the database schema for the two storefront tables.
package db

import _ "embed"

// Schema is the DDL for the products and url_rewrites tables. It is applied
// by the e2e test harness and by deployment tooling; statements are
// idempotent.
//
//go:embed schema.sql
var Schema string
