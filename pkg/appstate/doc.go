// Package appstate holds the application state: the one DataStore a
// process uses, together with the type registry that decodes it.
//
// A State is built once at startup, usually by Bootstrap, and handed to
// the code that needs it either directly or through a context.Context
// (WithState / FromContext). There is no package-level instance.
package appstate
