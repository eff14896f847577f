// Package template defines the engine-agnostic rendering seam markup
// renderers build on. Hosts may supply any engine satisfying
// TemplateRenderer; the gotemplate subpackage provides the stock
// pongo2-backed implementation.
package template
