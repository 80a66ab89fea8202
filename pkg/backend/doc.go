// Package backend is the client for the document-analysis service that turns
// an uploaded file into a mind-map tree.
//
// The service accepts one multipart POST with a "file" part and answers with
// a JSON tree document (see [tree.Node]). Non-2xx responses may carry a JSON
// body {"detail": "..."} whose text is shown to the user verbatim:
//
//	c := backend.NewClient(backend.DefaultURL)
//	t, err := c.Generate(ctx, "paper.pdf", f)
//	if err != nil {
//	    fmt.Println(errors.UserMessage(err)) // e.g. "unsupported file type"
//	}
//
// Transport failures are reported with [errors.ErrCodeNetwork] and are never
// retried automatically. [Cached] wraps a [Generator] so the same file bytes
// are analysed only once.
package backend
