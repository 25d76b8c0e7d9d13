package devices

// Store is an upsert-style map from MAC address to Record. Records are
// values: callers read with Get, change the copy, and commit it with Set.
// Store is not safe for concurrent use.
type Store struct {
	order   []string
	records map[string]Record
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{records: make(map[string]Record)}
}

// Get returns the record for mac and whether it existed before the call.
// An absent mac is inserted with an empty record.
func (s *Store) Get(mac string) (Record, bool) {
	if rec, ok := s.records[mac]; ok {
		return rec, true
	}
	s.order = append(s.order, mac)
	s.records[mac] = Record{}
	return Record{}, false
}

// Set replaces the record for mac.
func (s *Store) Set(mac string, rec Record) {
	if _, ok := s.records[mac]; !ok {
		s.order = append(s.order, mac)
	}
	s.records[mac] = rec
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	return len(s.records)
}

// Build returns the stored records in first-insertion order.
func (s *Store) Build() Table {
	table := make(Table, 0, len(s.order))
	for _, mac := range s.order {
		table = append(table, Entry{MAC: mac, Record: s.records[mac]})
	}
	return table
}
