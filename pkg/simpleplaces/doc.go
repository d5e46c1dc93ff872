// Package simpleplaces is the content core of a multi-tenant place and hotel
// directory.
//
// Editorial writes flow through Normalize and Validate before they reach a
// Repository; reads come back as JoinedRow values and are shaped by MapRow.
// The canonical Post is independent of storage: MapRow and RowFromPost are
// the only places where column names and canonical field names meet.
//
// Validation is advisory for content and strict only for structure (slug,
// phone, URL and list shapes). A post with missing names or descriptions is
// still valid; the published site renders whatever is present.
//
// Every function in this package that does not take a context.Context is
// pure and safe for concurrent use. Tenants are always passed explicitly; see
// the tenant subpackage for how one is resolved per request.
package simpleplaces
