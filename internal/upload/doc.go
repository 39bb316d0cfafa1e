// Package upload ingests product image uploads.
//
// A candidate passes through a media-type filter, gets a timestamped path under the
// upload root and is streamed to a domain.FileStore through a bounded reader. The
// result is a domain.UploadOutcome; deciding what a rejected or failed upload means
// for the request is left to the caller.
package upload
