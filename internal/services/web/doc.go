// Package web hosts the browser-facing client portal.
//
// NewHandler composes the session gate, the public auth views and the
// protected dashboard and wizard modules behind one middleware chain.
// NewServer adds storage bootstrap, the portal API client and graceful
// shutdown around it.
package web
