/*
Package bootstrap resolves and renders the HTML tags used to include Bootstrap,
jQuery, Popper and Font Awesome into server-rendered pages.

Settings are resolved in layers: built-in defaults, URLs regenerated from the
configured versions through CDN URL patterns, a user supplied Config block, and
optionally the active entries of a persisted library store. Every call to
Resolver.Resolve builds a fresh, immutable Settings value, so a Resolver can be
shared freely between request handlers.

The render functions never fail. A missing or empty setting degrades to
omitted markup instead of an error, so a misconfigured library never breaks the
page that includes it.
*/
package bootstrap
