/*
Package fileproc implements a durable, bounded-parallel engine for
processing very large delimited text files: partitioning a file into
row-aligned byte ranges, driving chunk and job workflows over the Temporal
Go SDK, aggregating progress under concurrent chunk completion, and
running a post-pass reprocessing of failed rows.

See fileproc/cmd for the worker daemon and control-plane CLI.
*/
package fileproc
