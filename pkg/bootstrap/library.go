package bootstrap

import "strings"

// Slot is the name of a URL setting, as used by templates and by the
// configuration block.
type Slot string

const (
	SlotCSS              Slot = "css_url"
	SlotJavascript       Slot = "javascript_url"
	SlotJavascriptBundle Slot = "javascript_bundle_url"
	SlotJQuery           Slot = "jquery_url"
	SlotJQuerySlim       Slot = "jquery_slim_url"
	SlotPopper           Slot = "popper_url"
	SlotFontawesome      Slot = "fontawesome_url"
	SlotTheme            Slot = "theme_url"
)

// Slots lists every URL slot in a stable order.
var Slots = []Slot{
	SlotCSS,
	SlotJavascript,
	SlotJavascriptBundle,
	SlotJQuery,
	SlotJQuerySlim,
	SlotPopper,
	SlotFontawesome,
	SlotTheme,
}

const (
	// SlimMarker identifies a slim jQuery build by its URL.
	SlimMarker = ".slim"
	// BundleMarker identifies a Bootstrap build that already embeds Popper.
	BundleMarker = ".bundle"
)

// Library identifies one of the front-end libraries an administrator can pin
// to a specific CDN URL.
type Library string

const (
	LibraryBootstrapCSS Library = "bootstrap_css"
	LibraryBootstrapJS  Library = "bootstrap_js"
	LibraryJQuery       Library = "jquery"
	LibraryPopper       Library = "popper"
	LibraryFontawesome  Library = "fontawesome"
)

// Libraries lists every known library in a stable order.
var Libraries = []Library{
	LibraryBootstrapCSS,
	LibraryBootstrapJS,
	LibraryJQuery,
	LibraryPopper,
	LibraryFontawesome,
}

var libraryLabels = map[Library]string{
	LibraryBootstrapCSS: "Bootstrap CSS",
	LibraryBootstrapJS:  "Bootstrap JavaScript",
	LibraryJQuery:       "jQuery",
	LibraryPopper:       "Popper",
	LibraryFontawesome:  "Font Awesome",
}

// Valid reports whether l is one of the known libraries.
func (l Library) Valid() bool {
	_, ok := libraryLabels[l]
	return ok
}

// Label returns a human-readable name for the library.
func (l Library) Label() string {
	if label, ok := libraryLabels[l]; ok {
		return label
	}
	return string(l)
}

// Slot returns the primary URL slot the library fills.
func (l Library) Slot() Slot {
	switch l {
	case LibraryBootstrapCSS:
		return SlotCSS
	case LibraryBootstrapJS:
		return SlotJavascript
	case LibraryJQuery:
		return SlotJQuery
	case LibraryPopper:
		return SlotPopper
	case LibraryFontawesome:
		return SlotFontawesome
	}
	return ""
}

// VariantSlot returns the secondary slot a URL of this library also fills,
// if the URL carries the matching build marker. jQuery URLs containing
// SlimMarker fill the slim slot, Bootstrap JavaScript URLs containing
// BundleMarker fill the bundle slot.
func (l Library) VariantSlot(url string) (Slot, bool) {
	switch {
	case l == LibraryJQuery && strings.Contains(url, SlimMarker):
		return SlotJQuerySlim, true
	case l == LibraryBootstrapJS && strings.Contains(url, BundleMarker):
		return SlotJavascriptBundle, true
	}
	return "", false
}
