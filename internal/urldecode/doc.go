// Package urldecode turns a raw HTTP request target into a decoded path and
// a flat query mapping. Decoding never fails: malformed input degrades to a
// best-effort result instead of an error.
package urldecode
