/*
Package templating renders server-side templates that include Bootstrap,
jQuery, Popper and Font Awesome through template functions.

Three template engines share the same set of functions:

  - html/template files (*.tmpl.html, with *.part.html partials) call
    camelCase functions such as {{bootstrapCSS}} or
    {{bootstrapJavascript "jquery" "slim" "popover" true}}.
  - pongo2 files (*.django.html) use Django style tags such as
    {% bootstrap_javascript jquery="slim" popover=true %} and the
    bootstrap_setting filter.
  - Scriggo files (*.scriggo.html) call the same camelCase functions as
    globals.

Settings are resolved at most once per execution, with the context of the
execution, so every function in one page sees the same values. None of the
functions fail: an unset URL renders nothing.
*/
package templating
