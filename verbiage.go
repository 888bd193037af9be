// Package verbiage keeps a locally persisted set of localized terms in sync
// with a remote verbiage service.
//
// A Syncer decides on every run whether the cached locale set is still the
// one requested and whether every locale has terms stored. A valid cache is
// only refetched when the remote last-update timestamps moved forward; an
// invalid one is cleared and rebuilt.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "fmt"
//	    "log"
//
//	    "github.com/ZaguanLabs/verbiage"
//	    "github.com/ZaguanLabs/verbiage/remote"
//	    "github.com/ZaguanLabs/verbiage/store"
//	)
//
//	func main() {
//	    st, err := store.OpenBolt("/var/cache/app/verbiage.db")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    defer st.Close()
//
//	    src := remote.NewHTTPSource(remote.HTTPConfig{BaseURL: "https://verbiage.example.com/api"})
//
//	    s, _, err := verbiage.Open(context.Background(), st, src,
//	        verbiage.WithLocales(verbiage.LocaleSet{"en", "se"}),
//	    )
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    terms := s.Terms()
//	    fmt.Println(terms["en"].String("greeting.hello"))
//	}
package verbiage
