// Package logseg provides an embedded columnar event store for Go.
//
// Events are dynamically typed records (package data) described by schema
// types (package schema). Batches of events are laid out column-wise in
// table slices, sealed into immutable UUID-addressed segments, and
// cataloged in a blobstore-backed store that answers row-id lookups
// without decoding untouched slices.
//
// # Quick Start
//
//	layout := schema.Record(
//	    schema.NamedField("ts", schema.Time()),
//	    schema.NamedField("msg", schema.String()),
//	).WithName("log")
//
//	tb := table.NewBuilder(layout)
//	_ = tb.Add(data.Time(time.Now()), data.Str("hello"))
//	slice := tb.Finish(0)
//
//	sb := segment.NewBuilder(segment.WithCodec(segment.CodecZstd))
//	_ = sb.Add(slice)
//	seg, _ := sb.Finish()
//
//	blobs, _ := blobstore.NewLocal("./data")
//	st := store.New(blobs)
//	_ = st.Put(ctx, seg)
//	slices, _ := st.Lookup(ctx, ids.Make([2]uint64{0, 100}))
//
// Typed consumers convert looked-up records into their own structs with
// package convert, which walks a record layout and a destination struct
// in lockstep.
//
// # Storage Backends
//
// The store runs on any blobstore.Store: the local filesystem (with
// memory-mapped reads), Amazon S3, or MinIO. See package blobstore.
package logseg
