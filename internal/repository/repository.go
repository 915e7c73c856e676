// Package repository handles all interactions with the database.
//
// It contains the SQL statements and the row conversions, keeping SQL
// out of the service layer.
package repository
