// Package remote provides RemoteSource implementations that fetch update
// timestamps and verbiage terms.
package remote

import "github.com/ZaguanLabs/verbiage"

// Source is the interface for remote term sources.
// This is an alias to the main package interface for convenience.
type Source = verbiage.RemoteSource

// UpdateTimestamps is an alias to the main package type.
type UpdateTimestamps = verbiage.UpdateTimestamps

// TermsByLocale is an alias to the main package type.
type TermsByLocale = verbiage.TermsByLocale
