// Package models holds the GORM persistence models. Domain aggregates never
// carry gorm tags; each model converts to and from its aggregate with
// ToDomain and FromDomain.
package models
