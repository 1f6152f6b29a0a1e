package bootstrap

const (
	DefaultBootstrapVersion   = "4.1.1"
	DefaultJQueryVersion      = "3.3.1"
	DefaultPopperVersion      = "1.14.3"
	DefaultFontawesomeVersion = "5.0.13"

	minSuffix = ".min"
)

// versionKey names the version setting a CDN pattern is formatted with.
type versionKey int

const (
	versionBootstrap versionKey = iota
	versionJQuery
	versionPopper
	versionFontawesome
)

// cdnDefault is one row of the default configuration table.
type cdnDefault struct {
	Pattern string
	Version versionKey
	Record  URLRecord
}

// defaultTable holds the built-in URL, integrity and CDN pattern of every slot
// except theme_url, which has no default.
var defaultTable = map[Slot]cdnDefault{
	SlotCSS: {
		Pattern: "https://stackpath.bootstrapcdn.com/bootstrap/{version}/css/bootstrap{min}.css",
		Version: versionBootstrap,
		Record: URLRecord{
			URL:         "https://stackpath.bootstrapcdn.com/bootstrap/4.1.1/css/bootstrap.min.css",
			Integrity:   "sha384-WskhaSGFgHYWDcbwN70/dfYBj47jz9qbsMId/iRN3ewGhXQFZCSftd1LZCfmhktB",
			CrossOrigin: CrossOriginAnonymous,
		},
	},
	SlotJavascript: {
		Pattern: "https://stackpath.bootstrapcdn.com/bootstrap/{version}/js/bootstrap{min}.js",
		Version: versionBootstrap,
		Record: URLRecord{
			URL:         "https://stackpath.bootstrapcdn.com/bootstrap/4.1.1/js/bootstrap.min.js",
			Integrity:   "sha384-smHYKdLADwkXOn1EmN1qk/HfnUcbVRZyYmZ4qpPea6sjB/pTJ0euyQp0Mk8ck+5T",
			CrossOrigin: CrossOriginAnonymous,
		},
	},
	SlotJavascriptBundle: {
		Pattern: "https://stackpath.bootstrapcdn.com/bootstrap/{version}/js/bootstrap.bundle{min}.js",
		Version: versionBootstrap,
		Record: URLRecord{
			URL:         "https://stackpath.bootstrapcdn.com/bootstrap/4.1.1/js/bootstrap.bundle.min.js",
			Integrity:   "sha384-u/bQvRA/1bobcXlcEYpsEdFVK/vJs3+T+nXLsBYJthmdBuavHvAW6UsmqO2Gd/F9",
			CrossOrigin: CrossOriginAnonymous,
		},
	},
	SlotJQuery: {
		Pattern: "https://code.jquery.com/jquery-{version}{min}.js",
		Version: versionJQuery,
		Record: URLRecord{
			URL:         "https://code.jquery.com/jquery-3.3.1.min.js",
			Integrity:   "sha384-tsQFqpEReu7ZLhBV2VZlAu7zcOV+rXbYlF2cqB8txI/8aZajjp4Bqd+V6D5IgvKT",
			CrossOrigin: CrossOriginAnonymous,
		},
	},
	SlotJQuerySlim: {
		Pattern: "https://code.jquery.com/jquery-{version}.slim{min}.js",
		Version: versionJQuery,
		Record: URLRecord{
			URL:         "https://code.jquery.com/jquery-3.3.1.slim.min.js",
			Integrity:   "sha384-q8i/X+965DzO0rT7abK41JStQIAqVgRVzpbzo5smXKp4YfRvH+8abtTE1Pi6jizo",
			CrossOrigin: CrossOriginAnonymous,
		},
	},
	SlotPopper: {
		Pattern: "https://cdnjs.cloudflare.com/ajax/libs/popper.js/{version}/umd/popper{min}.js",
		Version: versionPopper,
		Record: URLRecord{
			URL:         "https://cdnjs.cloudflare.com/ajax/libs/popper.js/1.14.3/umd/popper.min.js",
			Integrity:   "sha384-ZMP7rVo3mIykV+2+9J3UJ46jBk0WLaUAdn689aCwoqbBJiSnjAK/l8WvCWPIPm49",
			CrossOrigin: CrossOriginAnonymous,
		},
	},
	SlotFontawesome: {
		Pattern: "https://use.fontawesome.com/releases/v{version}/css/all.css",
		Version: versionFontawesome,
		Record: URLRecord{
			URL:         "https://use.fontawesome.com/releases/v5.0.13/css/all.css",
			Integrity:   "sha384-DNOHZ68U8hZfKXOrtjWvjxusGo9WQnrNx2sqG0tfsghAvtVlRW3tvkXWZh58N9jp",
			CrossOrigin: CrossOriginAnonymous,
		},
	},
}

// DefaultRecord returns the built-in record for a slot.
func DefaultRecord(slot Slot) (URLRecord, bool) {
	d, ok := defaultTable[slot]
	return d.Record, ok
}

// DefaultPattern returns the built-in CDN pattern for a slot.
func DefaultPattern(slot Slot) (string, bool) {
	d, ok := defaultTable[slot]
	return d.Pattern, ok
}
