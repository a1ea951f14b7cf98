// Package templates renders the web service's HTML as templ components.
//
// Components are plain templ.Component values so handlers can compose them
// with templ.WithChildren the same way for full pages and HTMX fragments.
package templates
