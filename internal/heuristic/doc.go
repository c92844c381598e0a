// Package heuristic recovers mission fields from rendered markup when a page
// carries no usable state blob.
//
// Every function here is pure: text or markup in, candidate field out. The
// crawler decides when to call them; tuning a pattern never touches crawl
// orchestration.
//
// Goal detection runs in two tiers. List items are scanned first and accept
// either a progress tuple such as "(3/8)" or a leading goal verb. Only when
// that finds nothing are generic block elements scanned, and then a progress
// tuple is required.
package heuristic
