package task

import "sync"

// Cache holds the most recent full snapshot of the server's task collection.
// Each poll replaces the whole snapshot: no history, no partial merges, so a
// task absent from a later poll disappears even if that is a transient
// server omission.
//
// The poll scheduler is the single writer; the renderers and the shells read
// concurrently, hence the RWMutex.
type Cache struct {
	mu    sync.RWMutex
	tasks []Record
	seq   uint64
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{}
}

// Apply replaces the snapshot if seq is newer than the last applied one and
// reports whether the replace happened. Sequence numbers come from the poll
// scheduler; a late-arriving response from an older poll is discarded once a
// newer one has landed.
func (c *Cache) Apply(seq uint64, tasks []Record) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if seq <= c.seq {
		return false
	}
	c.seq = seq
	c.tasks = append([]Record(nil), tasks...)
	return true
}

// ReplaceAll swaps the snapshot unconditionally, bumping the sequence.
func (c *Cache) ReplaceAll(tasks []Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	c.tasks = append([]Record(nil), tasks...)
}

// All returns the current snapshot in server-provided order. The list
// display order equals the last poll's server order; the cache never
// re-sorts.
func (c *Cache) All() []Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Record(nil), c.tasks...)
}

// Len returns the number of tasks in the snapshot.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tasks)
}

// Seq returns the sequence number of the applied snapshot.
func (c *Cache) Seq() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.seq
}

// FindByID looks a task up in the latest snapshot. Not found is a normal
// outcome: the id may be stale from a previous snapshot or the task may have
// been dropped by the server.
func (c *Cache) FindByID(id string) (Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, rec := range c.tasks {
		if rec.ID() == id {
			return rec, true
		}
	}
	return Record{}, false
}
