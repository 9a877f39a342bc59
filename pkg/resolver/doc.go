// Package resolver rebuilds editor assets from the typed records of a
// bundle's import documents.
//
// Resolution runs in two phases. The first phase, a [Scanner], visits every
// import document once. Self-contained assets (scenes, prefabs, audio,
// animations, text, skeletons) are emitted into the output plan right away;
// sprite frames, sprite atlases and fonts are only recorded, because they
// reference each other across documents. [Scanner.Finish] closes the first
// phase and returns a [Pending] handle whose Resolve method runs the second
// phase: it stitches sprite sheets, emits single pictures and orphaned
// images, and writes bitmap fonts.
//
// # Identifiers
//
// A packed document does not store the identifiers of the assets it holds.
// The asset at position i of document k has the identifier
// settings.packedAssets[k][i]. The resolver finds i by matching the record
// against the top-level elements of its document by name (scenes and
// prefabs by the name of their leading element, sprite frames by texture
// and name), then resolves (k, i) through the settings table. Documents
// that are not packed are named after the single asset they hold.
//
// # Failure policy
//
// Nothing in this package aborts a run. Records with an unexpected shape,
// identifiers that cannot be resolved and native files that are missing
// are logged, counted in the [Report] and skipped.
package resolver
