// Package models contains the GORM persistence models. Models are kept
// separate from domain aggregates: each model knows how to convert to and
// from its domain counterpart, and nothing outside the persistence layer
// imports this package.
package models
