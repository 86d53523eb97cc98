// Package graph is a client for the Microsoft Graph REST API using
// app-only (client credentials) authentication.
//
// This package provides:
//   - Token acquisition against the Microsoft identity platform, with an
//     optional managed mode that refreshes the token on a fixed schedule
//   - Authenticated request execution with a typed error taxonomy derived
//     from response status codes
//   - Lazy iteration over paginated collections via @odata.nextLink
//   - Rate limiting for Graph API requests
//
// # Managed tokens
//
// ManageToken acquires a token synchronously and then re-acquires it in
// the background every refresh interval (55 minutes by default, bounded to
// [60s, 3600s]). A failed refresh tick is logged and the previous token
// stays in effect; the schedule is never stopped by a failure. Callers
// that do not want managed mode pass a token per call with WithToken.
//
// # Pagination
//
// Graph list endpoints return pages carrying an @odata.nextLink URL until
// the collection is exhausted. ListAll* methods wrap this into a
// single-pass Iterator:
//
//	it := client.ListAllUsers()
//	for it.Next(ctx) {
//		user := it.Item()
//		...
//	}
//	if err := it.Err(); err != nil {
//		...
//	}
//
// # Rate limits
//
// Microsoft Graph allows approximately 10,000 requests per 10 minutes per
// app. The client applies conservative token-bucket limiting by default
// and backs off when Graph answers 429 with a Retry-After header.
package graph
