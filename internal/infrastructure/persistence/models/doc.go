// Package models holds the GORM rows behind the supply-chain tables.
//
// The domain types in internal/domain/supplychain carry no ORM tags. Each
// model here owns its table mapping plus a pair of converters (ToDomain and
// a FromDomain constructor), and the repositories in the parent package only
// ever read and write these models.
//
// Foreign keys mirror the migrations: a deleted contact or provider leaves
// the referencing network in place with a NULL column, a deleted network
// takes its products with it.
package models
