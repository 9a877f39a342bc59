// Package ident converts between the identifier forms used by a packed
// Cocos Creator build and the forms the editor expects.
//
// # Forms
//
// The runtime stores asset identifiers in three shapes:
//
//   - Canonical (36 chars): "fc991dd7-0033-4b80-9d41-c8a86a702e59", the
//     form every editor meta file carries in its "uuid" field.
//   - Compact (22 chars): "fcmR3XADNLgJ1ByKhqcC5Z", two literal hex
//     characters followed by 20 base64 symbols.
//   - Short (23 chars): "fc9913XADNLgJ1ByKhqcC5Z", five literal hex
//     characters followed by 18 base64 symbols. Script class ids use it.
//
// Every base64 symbol carries 6 bits, so each pair of symbols holds exactly
// three hex nibbles. All conversions in this package are built on that single
// nibble/symbol mapping; there is no second byte-oriented implementation.
//
// # Failure Policy
//
// Conversions never fail. An input that does not have the expected shape is
// returned unchanged, which lets callers run every identifier-bearing field
// through [Decode] without checking its length first:
//
//	ident.Decode("fcmR3XADNLgJ1ByKhqcC5Z") // "fc991dd7-0033-4b80-9d41-c8a86a702e59"
//	ident.Decode("already-decoded-or-other")  // unchanged
package ident
