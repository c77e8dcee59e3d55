// Package pressroom provides a content-management backend for publishable
// material: CRUD over content items with file attachments, a linear
// approval workflow (Draft, In Review, Approved, Published), and an
// append-only ledger of full snapshots recorded on every mutation.
//
// The Service is assembled from a Repository (memory or postgres), one or
// more BlobStore backends for attachment files (fs, memory, s3), and
// optional lifecycle hooks:
//
//	svc, err := pressroom.New(
//	    pressroom.WithRepository(memory.New()),
//	    pressroom.WithBlobStore("fs", fsStore),
//	    pressroom.WithEventSink(pressroom.NewLoggingEventSink(nil)),
//	)
//
// Every state-changing operation writes a ContentVersion: creation records
// the persisted entity under tag 1, while edits and workflow actions record
// the pre-mutation state under a timestamp-derived tag. Deleting a content
// item removes its record, its version history and its attachment files;
// file removal is best-effort and never blocks record cleanup.
package pressroom
