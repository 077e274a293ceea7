// Package uploads holds the deferred-upload side of the editor.
//
// # Overview
//
// Selecting a file for an image or attachment element does not upload it.
// Instead a PendingUpload command is queued under the element's id and the
// upload runs later, when the editor saves. This package provides:
//
//   - type PendingUpload : the queued command (element id, file handle, flags)
//   - type Queue         : ordered, one-entry-per-element queue
//   - type Policy        : local validation of a selected file (size, type)
//   - type Executor      : contract for running one upload
//   - type UploadError   : typed failure with a Kind
//
// Typical Usage
//
//	file, err := policy.Inspect(id, course.ElementImage, "/tmp/cat.png")
//	if err != nil { ... }                   // *UploadError, discard the candidate
//	q.Put(uploads.NewPendingUpload(id, file, true, course.DispositionInline))
//	for _, p := range q.List() {            // FIFO
//	    key, err := executor.Execute(ctx, p)
//	    ...
//	}
package uploads
