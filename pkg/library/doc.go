/*
Package library stores administrator-pinned CDN URLs for the front-end
libraries in a SQLite database.

Every save formats the entry's URL pattern with its version, fetches the
resulting URL once and records the subresource integrity hash of the
response. At most one entry per library is active; saving an active entry
deactivates its siblings in the same transaction. The active entries feed the
persisted layer of the bootstrap settings resolver through Store.ActiveEntries.
*/
package library
