package templating

import "github.com/CTAG07/IncludeBootstrap/pkg/bootstrap"

// The URL functions return the whole record; it prints as its URL, and
// templates can reach .Integrity and .CrossOrigin.

func (f bootstrapFuncs) cssURL() bootstrap.URLRecord {
	return f.settings().URL(bootstrap.SlotCSS)
}

func (f bootstrapFuncs) javascriptURL() bootstrap.URLRecord {
	return f.settings().URL(bootstrap.SlotJavascript)
}

func (f bootstrapFuncs) javascriptBundleURL() bootstrap.URLRecord {
	return f.settings().URL(bootstrap.SlotJavascriptBundle)
}

func (f bootstrapFuncs) jqueryURL() bootstrap.URLRecord {
	return f.settings().URL(bootstrap.SlotJQuery)
}

func (f bootstrapFuncs) jquerySlimURL() bootstrap.URLRecord {
	return f.settings().URL(bootstrap.SlotJQuerySlim)
}

func (f bootstrapFuncs) popperURL() bootstrap.URLRecord {
	return f.settings().URL(bootstrap.SlotPopper)
}

func (f bootstrapFuncs) fontawesomeURL() bootstrap.URLRecord {
	return f.settings().URL(bootstrap.SlotFontawesome)
}
