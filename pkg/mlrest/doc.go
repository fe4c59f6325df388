// Package mlrest is a small client for the MarkLogic REST API.
//
// Quick start:
//
//	client, err := mlrest.New("http://localhost:8000",
//	    mlrest.WithBasicAuth("admin", "admin"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	q := qb.Combined(qb.Where(qb.Term("foo")), "", nil)
//	resp, err := client.Search(ctx, url.Values{"pageLength": {"5"}}, &q)
//
// Every operation is observable through WithLogger and WithPrometheus.
// Non-2xx responses are returned as *APIError and match ErrNotFound,
// ErrUnauthorized, ErrBadRequest or ErrServer with errors.Is.
package mlrest
