// Package feedback holds the form contract shared by the server and the Go client:
// schema normalization, answer collection, submission validation, form definition
// checks and the Active/Inactive exclusivity rules. It performs no I/O.
package feedback
