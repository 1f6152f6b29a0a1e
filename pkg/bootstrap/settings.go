package bootstrap

// Setting names that are not URL slots.
const (
	SettingBootstrapVersion   = "bootstrap_version"
	SettingJQueryVersion      = "jquery_version"
	SettingPopperVersion      = "popover_version"
	SettingFontawesomeVersion = "fontawesome_version"
	SettingIncludeJQuery      = "include_jquery"
	SettingJavascriptInHead   = "javascript_in_head"
	SettingUseDB              = "use_db"
	SettingUseI18n            = "use_i18n"
)

// Settings is the effective, fully resolved configuration for one resolution
// call. It is a plain value: copies are independent and it is never shared
// between requests.
type Settings struct {
	BootstrapVersion   string `json:"bootstrap_version"`
	JQueryVersion      string `json:"jquery_version"`
	PopperVersion      string `json:"popover_version"`
	FontawesomeVersion string `json:"fontawesome_version"`

	IncludeJQuery    JQueryMode `json:"include_jquery"`
	JavascriptInHead bool       `json:"javascript_in_head"`
	UseDB            bool       `json:"use_db"`
	UseI18n          bool       `json:"use_i18n"`

	URLs map[Slot]URLRecord `json:"urls"`
}

// URL returns the record of a slot. Unset slots return the zero record.
func (s Settings) URL(slot Slot) URLRecord {
	return s.URLs[slot]
}

// Get looks up a setting by name. URL slots return a URLRecord, versions a
// string, include_jquery a JQueryMode and the remaining flags a bool.
func (s Settings) Get(name string) (any, bool) {
	switch name {
	case SettingBootstrapVersion:
		return s.BootstrapVersion, true
	case SettingJQueryVersion:
		return s.JQueryVersion, true
	case SettingPopperVersion:
		return s.PopperVersion, true
	case SettingFontawesomeVersion:
		return s.FontawesomeVersion, true
	case SettingIncludeJQuery:
		return s.IncludeJQuery, true
	case SettingJavascriptInHead:
		return s.JavascriptInHead, true
	case SettingUseDB:
		return s.UseDB, true
	case SettingUseI18n:
		return s.UseI18n, true
	}
	for _, slot := range Slots {
		if string(slot) == name {
			return s.URLs[slot], true
		}
	}
	return nil, false
}
