package game

const feedMaxEntries = 40

// FeedEntry is one line of the on-screen battle feed.
type FeedEntry struct {
	Tick    int
	Side    Side
	Global  bool
	Message string
}

// BattleFeed is a ring buffer of recent duel events for the HUD.
type BattleFeed struct {
	entries []FeedEntry
	head    int
	count   int
}

// NewBattleFeed creates a feed with a fixed capacity.
func NewBattleFeed() *BattleFeed {
	return &BattleFeed{
		entries: make([]FeedEntry, feedMaxEntries),
	}
}

// Add appends an entry, overwriting the oldest when full.
func (bf *BattleFeed) Add(tick int, side Side, global bool, msg string) {
	bf.entries[bf.head] = FeedEntry{
		Tick:    tick,
		Side:    side,
		Global:  global,
		Message: msg,
	}
	bf.head = (bf.head + 1) % feedMaxEntries
	if bf.count < feedMaxEntries {
		bf.count++
	}
}

// Recent returns up to n entries in chronological order (oldest first).
// n <= 0 returns everything held.
func (bf *BattleFeed) Recent(n int) []FeedEntry {
	if n <= 0 || n > bf.count {
		n = bf.count
	}
	result := make([]FeedEntry, n)
	for i := 0; i < n; i++ {
		idx := (bf.head - n + i + feedMaxEntries) % feedMaxEntries
		result[i] = bf.entries[idx]
	}
	return result
}

// Len returns the number of held entries.
func (bf *BattleFeed) Len() int { return bf.count }
