// Package cli implements the ffcv-import command line interface: a
// one-shot import command and a serve command exposing the import API
// over HTTP.
package cli
