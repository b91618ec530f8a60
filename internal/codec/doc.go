// Package codec implements the two byte-level layers of a deck code: the
// 7-bit continuation varint used for every body value, and the RFC 4648
// base32 alphabet packing that turns the byte stream into text.
//
// Both layers are pure functions over byte slices. Decoding never mutates
// its input; a Reader tracks the read position explicitly instead.
package codec
