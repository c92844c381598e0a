// Package pagestate reads the hydration payload that Next.js injects into
// server-rendered pages and resolves fields from it.
//
// Extraction never fails loudly. Many mission pages render on the client and
// carry no payload, so a missing or malformed blob is reported as a nil
// result rather than an error.
//
// The Resolver tolerates the several shapes the site has used for the same
// field over time: a caller lists every known path and the first one that is
// present wins.
//
// # Usage
//
//	state := pagestate.Extract(html)
//	props := pagestate.Resolve(state, []pagestate.Path{{"props", "pageProps"}}, nil)
//	title := pagestate.Text(pagestate.Resolve(props, []pagestate.Path{{"animeName"}, {"sessionName"}}, id))
package pagestate
