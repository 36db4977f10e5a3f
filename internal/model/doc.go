// Package model defines the core data structures shared by the pipeline
// stages and the result sink.
//
// This package contains the following main types:
//   - Raster: a decoded image plus its original encoded bytes
//   - ImageRecord: an image paired with its extracted text, handed from the
//     image stage to the hunting stage
//   - Result: a positive flagger finding, handed from the hunting stage to
//     the client and the result sink
//
// Design decision: these types live in their own package to avoid circular
// dependencies. The source, ocr, flagger, sink, and scavenger packages all
// need them, so centralizing them here prevents import cycles.
package model
