// Package searchkit embeds the multi-tenant search engine in a Go process.
//
// The client wires the same use cases the HTTP server runs: indexes scoped
// by tenant, schemaless JSON documents, keyword search with filters, facets,
// sorting and pagination, prefix suggestions, per-index stats and query
// analytics.
//
//	client, _ := searchkit.New(ctx)
//	_, _ = client.Indexes("acme").Ensure(ctx, "products")
//	docs := client.Documents("acme", "products")
//	_, _ = docs.Upsert(ctx, searchkit.Document{
//	    ID:   "1",
//	    Data: map[string]any{"title": "Red running shoes", "price": 59.9},
//	})
//	res, _ := client.Search("acme", "products").Query(ctx, searchkit.SearchRequest{
//	    Query:  "shoes",
//	    Facets: []string{"category"},
//	    Sort:   []string{"-price"},
//	})
//
// By default query responses are cached in process. WithRedis or WithValkey
// moves the cache to a shared server so several processes reuse responses.
package searchkit
