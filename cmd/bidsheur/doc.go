// Command bidsheur classifies scanned MRI series of a rest-awake session
// into BIDS destination templates.
//
// Subcommands locate the data root of an export, scan it for DICOM series,
// classify and plan destination paths with the active rule table, list that
// table, and write a synthetic session for trying the pipeline end to end.
package main
