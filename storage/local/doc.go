// Package local keeps the files of a sort on the local filesystem: a private
// directory of numbered run files that is removed as a whole when the sort
// ends, and an Output that replaces the destination file atomically.
//
// Basic usage:
//
//	store, err := local.NewLocalStorage("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	w, err := store.Create(ctx, local.RunName(0))
//	...
//
//	out, err := local.CreateOutput("sorted.txt")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if _, err := out.Write(data); err != nil {
//	    _ = out.Abort()
//	    log.Fatal(err)
//	}
//	err = out.Commit()
package local
