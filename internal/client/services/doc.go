// Package services contains application services for the editor client:
// authentication against the course server and the upload executor that
// moves queued files into object storage.
package services
