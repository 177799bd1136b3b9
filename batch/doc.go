// Package batch turns an unbounded stream of lines into sorted runs.
//
// Lines are accumulated in memory until the next line would push the
// estimated batch size past the budget. The batch is then sorted with a
// stable sort, written to a new run and released, and the line that did not
// fit starts the next batch. A line larger than the whole budget forms a
// batch on its own, so every batch makes progress.
//
// Basic usage:
//
//	store, err := local.NewLocalStorage("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	p, err := batch.NewProducer(store, batch.Options{
//	    MaxMemory: 64 << 20,
//	    Less:      func(a, b string) bool { return a < b },
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	runs, err := p.Produce(ctx, input)
package batch
