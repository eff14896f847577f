// Package countries provides a curated ISO 3166-1 country list, search
// helpers, and a small net/http handler that returns JSON options for country
// select fields.
//
// The default handler responds to GET and HEAD requests and supports query
// and limit parameters to filter results. An empty query returns the top of
// the list so select inputs can populate without typing. The backing data is
// loaded from the embedded list under data/countries.txt; SelectField builds
// a ready-to-use field descriptor from the same data.
package countries
