// Package credentials describes the astraDbApi credential type and tests a
// credential against the administrative API.
package credentials
