// Package models defines the records Tricount keeps per session.
//
// A session is one group's shared-expense ledger. Only the inputs are
// stored: the roster of participant names and the expenses as they were
// entered. Tallies, balances and settlements are derived by replaying
// those inputs through the ledger package, so a record never carries a
// computed amount.
//
// Participants are identified by name within a session. Sessions and
// expenses get UUID identifiers.
package models
