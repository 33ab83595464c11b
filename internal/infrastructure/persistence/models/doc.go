// Package models holds the GORM persistence models for the document
// store. Domain types carry no ORM tags; these models own the table
// mappings and convert to and from the domain via ToDomain/FromDomain.
package models
