// Package openapi derives form definitions from OpenAPI 3 documents. Each
// operation's request-body schema maps onto a flat descriptor list: property
// types and formats choose the field type, constraint keywords become
// validation rules, and the x-formflow vendor extension carries the hints the
// schema language cannot express (widget overrides, visibility conditions,
// prompt ordering).
//
// Documents load offline by default; remote fetching requires an explicit
// HTTP client.
package openapi
