package account

// SeedOwner is a test helper that registers a user ID as a valid account
// owner when using the in-memory store.
func SeedOwner(s Store, userID int64) {
	if mem, ok := s.(*memoryStore); ok {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		mem.owners[userID] = struct{}{}
	}
}
