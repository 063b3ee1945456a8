// Package xcontent populates typed objects from unordered JSON objects.
//
// Each type that can be read from text owns a Registry: an immutable map from
// field name to the function that reads that field's value and stores it in the
// target. Registries are built once, usually as package level variables:
//
//	var fields = xcontent.NewRegistry(
//		xcontent.TextField("_id", func(r *Response, v string) { r.ID = v }),
//		xcontent.IntField("_version", func(r *Response, v int64) { r.Version = v }),
//	)
//
// Populate walks the keys of the input object in whatever order they arrive.
// A key with a registered function has that function applied with a Cursor at
// its value; a key without one is skipped, so fields added by newer servers do
// not break older clients. Adding a field means adding one registry entry.
//
// A value with the wrong shape (text where an integer is expected, ...) yields a
// *common.FieldError naming the field. In the default lenient mode all such
// errors are collected and returned together after every other field has been
// applied; WithStrict stops at the first one.
package xcontent
