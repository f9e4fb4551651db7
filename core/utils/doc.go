// Package utils provides small type conversion helpers.
//
// RouterOS REST responses decode into untyped maps; these helpers normalize
// the resulting values (strings, numbers, booleans) without panicking on
// unexpected types.
package utils
