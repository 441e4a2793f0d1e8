package insights

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Entry is one bucket of a Counts table.
type Entry struct {
	Label string
	Count int
}

// Counts maps labels to occurrence counts and remembers the order in which
// labels first appeared. The zero value is ready to use.
type Counts struct {
	labels []string
	counts map[string]int
}

func (c *Counts) Add(label string) {
	if c.counts == nil {
		c.counts = make(map[string]int)
	}
	if _, seen := c.counts[label]; !seen {
		c.labels = append(c.labels, label)
	}
	c.counts[label]++
}

func (c *Counts) Get(label string) int {
	return c.counts[label]
}

// Len returns the number of distinct labels.
func (c *Counts) Len() int {
	return len(c.labels)
}

// Total returns the sum of all buckets.
func (c *Counts) Total() int {
	total := 0
	for _, n := range c.counts {
		total += n
	}
	return total
}

// Max returns the largest bucket, or 0 when empty.
func (c *Counts) Max() int {
	max := 0
	for _, n := range c.counts {
		if n > max {
			max = n
		}
	}
	return max
}

// Entries returns buckets in first-occurrence order.
func (c *Counts) Entries() []Entry {
	entries := make([]Entry, len(c.labels))
	for i, l := range c.labels {
		entries[i] = Entry{Label: l, Count: c.counts[l]}
	}
	return entries
}

// Sorted returns buckets ordered by label. Date buckets use YYYY-MM-DD
// labels, so this is chronological for them.
func (c *Counts) Sorted() []Entry {
	entries := c.Entries()
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Label < entries[j].Label
	})
	return entries
}

// ByCount returns buckets with the largest first; ties keep first-occurrence
// order.
func (c *Counts) ByCount() []Entry {
	entries := c.Entries()
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	return entries
}

// MarshalJSON encodes the table as an object whose keys keep first-occurrence
// order.
func (c *Counts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, l := range c.labels {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(l)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		fmt.Fprintf(&buf, "%d", c.counts[l])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object, keeping its key order.
func (c *Counts) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("counts: expected object, got %v", tok)
	}

	*c = Counts{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		label, ok := tok.(string)
		if !ok {
			return fmt.Errorf("counts: expected string key, got %v", tok)
		}
		var n int
		if err := dec.Decode(&n); err != nil {
			return fmt.Errorf("counts: value for %q: %w", label, err)
		}
		if c.counts == nil {
			c.counts = make(map[string]int)
		}
		if _, seen := c.counts[label]; !seen {
			c.labels = append(c.labels, label)
		}
		c.counts[label] += n
	}

	_, err = dec.Token()
	return err
}
