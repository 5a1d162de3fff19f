// Package writers turns pipeline output into files.
//
// Mapping rows go through a format registry ("tsv", "jsonl"); JSON lines use
// pkg/api for a stable wire format. The unmatched report and the per-stage
// FASTA dumps are diagnostic side outputs.
package writers
