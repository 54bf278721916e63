// Package kvstore keeps fixed-layout keys and values in badger.
//
// Several tables may share one database by using distinct prefixes:
//
//	db, _ := kvstore.Open("")                    // in-memory
//	users, _ := kvstore.New[uint64, User](db, kvstore.Options{Prefix: []byte("u/")})
//	_ = users.Put(7, u)
//	u, err := users.Get(7)                       // errors.ErrNotFound when absent
package kvstore
