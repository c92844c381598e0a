// Package database stores the history of mission scans in SQLite.
//
// Every scan records its full document, so later runs can list earlier
// scans and compare two of them. The store is a single file opened with
// the CGO-free modernc.org/sqlite driver.
package database
