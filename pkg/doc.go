// Package pkg provides the libraries behind ccreverse, which rebuilds Cocos
// Creator 2.x editor projects from built web and mini-game bundles.
//
// # Overview
//
// A build keeps every asset as a serialized import document under res/import
// and its binary payload under res/raw-assets, both named by identifier. The
// pkg directory turns that back into an editor project:
//
//  1. [settings] - Parse src/settings.js and answer packed-asset lookups
//  2. [ident] - Convert identifiers between compact, short and canonical form
//  3. [asset] - Classify import documents into typed asset records
//  4. [resolver] - Two passes: scan every document, then resolve sprite sheets,
//     orphan images and fonts once the whole build has been seen
//  5. [output] - Collect file writes and copies in a plan and flush it
//  6. [pipeline] - Orchestration (load → scan → resolve → scaffold → flush)
//
// # Architecture
//
// The typical data flow through ccreverse:
//
//	src/settings.js + res/
//	         ↓
//	    [settings] + [fileindex] (lookup table and raw file index)
//	         ↓
//	    [resolver] scan (one record per tagged document node)
//	         ↓
//	    [resolver] resolve (sheets, pictures, orphans, fonts)
//	         ↓
//	    [output] plan → flush (files, copies and .meta sidecars)
//
// # Quick Start
//
// Reconstruct a project:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/ccreverse/pkg/pipeline"
//	)
//
//	result, err := pipeline.NewRunner(logger).Execute(context.Background(), pipeline.Options{
//	    Source:     "build/web-mobile",
//	    Output:     "project",
//	    CreateMeta: true,
//	})
//	fmt.Println(result.Stats.Files, "files written")
//
// # Main Packages
//
// ## Build Input
//
// [settings] - Reads the window._CCSettings object literal, or a JSON file,
// and resolves (document, index) pairs through packedAssets and uuids.
//
// [fileindex] - Indexes res/ and subpackages/ by file key (the base name up
// to its first dot). Files are claimed as they are copied so the rest can be
// recovered as orphans.
//
// [imagesize] - Reads image dimensions from headers, with an LRU cache.
//
// ## Reconstruction
//
// [asset] - Closed set of asset records (scene, prefab, audio, animation,
// sprite frame, sprite atlas, fonts, skeletons, particles).
//
// [resolver] - The scanner and its pending second pass. Produces a
// [resolver.Report] with per-kind counts and the texture graph.
//
// [meta] - The .meta sidecar documents the editor expects next to each asset.
//
// [plist] - TexturePacker format-3 property lists for stitched sprite sheets.
//
// [fnt] - BMFont text descriptors for bitmap fonts.
//
// [project] - project.json, settings/project.json, jsconfig/tsconfig and
// plugin scripts.
//
// ## Output
//
// [output] - Plan of writes and copies with per-directory name allocation,
// flushed with bounded parallelism.
//
// [report] - Texture graph as DOT, rendered to SVG with Graphviz.
//
// ## Infrastructure
//
// [config] - ccreverse.toml, .env files and environment variables.
//
// [errors] - Structured errors with machine-readable codes.
//
// [observability] - Hooks for pipeline phases and cache events.
//
// [buildinfo] - Version information set at link time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                  # All tests
//	go test ./pkg/resolver/...         # Specific package
//	go test -run Example ./pkg/ident   # Examples only
package pkg
