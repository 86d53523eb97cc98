// Package odata builds OData query-string fragments for Microsoft Graph
// requests.
//
// A Query collects the supported system query options ($count, $expand,
// $filter, $select, $top) from typed setters and serialises them into a
// single fragment in a fixed order. Setters validate their input at
// assignment time, so a malformed query fails where it is built rather
// than where it is sent.
//
// Filters are a flat list of constraints joined by a single logical
// connector. Nested expressions and per-pair connectors are not supported;
// that matches the subset of the OData grammar Graph list endpoints accept
// for the common cases.
package odata
