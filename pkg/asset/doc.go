// Package asset parses the typed records of a bundle's import documents.
//
// An import document is JSON. Its root is either one record (an object with
// a "__type__" tag) or an array whose elements are records, nested arrays
// (multi-object assets such as scenes and prefabs) or untyped data. [Parse]
// turns a tagged object into one of a closed set of [Record] types, checking
// the fields reconstruction depends on. Objects with an unknown tag yield
// [ErrNotAsset]; known tags with missing fields yield [ErrStructure].
//
// Identifier fields are canonicalised during parsing, so every identifier a
// Record exposes is in the 36-character hyphenated form.
package asset
