// Package auth keeps the logged-in browser state that every crawl reuses.
//
// The Manager has two states. Without a state file on disk it is
// Unauthenticated, and Ensure runs the one-time interactive login: a visible
// browser opens at the site root, the operator logs in, and once the
// injected Confirmer returns the cookies and local storage are written to
// disk. With the file present Ensure returns Authenticated straight away.
//
// A persisted state is never checked against the site. When it expires,
// pages redirect to the site root and the crawler logs a warning; run
// "missionscan login --force" to refresh it.
//
// The state file uses the storageState JSON layout of Playwright, so files
// written by other tooling load unchanged.
package auth
