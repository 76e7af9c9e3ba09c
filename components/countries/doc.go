// Package countries provides the embedded ISO 3166-1 country list used by
// the contact step's country field, search helpers, and a small net/http
// handler that returns JSON options for select inputs.
//
// The handler responds to GET and HEAD requests. The q parameter matches
// country names and codes; limit caps the result count.
package countries
