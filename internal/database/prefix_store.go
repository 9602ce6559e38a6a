package database

// PrefixStore namespaces every key of an underlying store, so several
// profiles can share one backend without seeing each other's records.
type PrefixStore struct {
	store  Store
	prefix string
}

// WithPrefix wraps store so that every key is stored as prefix+key
func WithPrefix(store Store, prefix string) *PrefixStore {
	return &PrefixStore{store: store, prefix: prefix}
}

// ProfilePrefix returns the key prefix used for a profile
func ProfilePrefix(profileID string) string {
	return "profile/" + profileID + "/"
}

func (s *PrefixStore) Get(key string) ([]byte, error) {
	return s.store.Get(s.prefix + key)
}

func (s *PrefixStore) Set(key string, value []byte) error {
	return s.store.Set(s.prefix+key, value)
}

func (s *PrefixStore) Remove(key string) error {
	return s.store.Remove(s.prefix + key)
}
