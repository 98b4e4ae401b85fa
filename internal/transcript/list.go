package transcript

// List is an ordered transcription list, most recent first.
type List []Record

// Prepend returns a new list with r at the front. An existing record with
// the same id is replaced.
func (l List) Prepend(r Record) List {
	out := make(List, 0, len(l)+1)
	out = append(out, r)
	for _, v := range l {
		if v.ID != r.ID {
			out = append(out, v)
		}
	}
	return out
}

// Remove returns a new list without the record with id.
func (l List) Remove(id int64) List {
	out := make(List, 0, len(l))
	for _, v := range l {
		if v.ID != id {
			out = append(out, v)
		}
	}
	return out
}

// Find returns the record with id.
func (l List) Find(id int64) (Record, bool) {
	for _, v := range l {
		if v.ID == id {
			return v, true
		}
	}
	return Record{}, false
}

// AnyProcessing reports whether any record is still processing.
func (l List) AnyProcessing() bool {
	for _, v := range l {
		if v.Status == StatusProcessing {
			return true
		}
	}
	return false
}

// Limit returns at most n records. n <= 0 returns the list unchanged.
func (l List) Limit(n int) List {
	if n <= 0 || len(l) <= n {
		return l
	}
	return l[:n]
}

// Reconcile applies an authoritative fetch. The fetched list wholly replaces
// the local one, so unconfirmed records the backend does not know about are
// dropped and confirmed ones take the backend's values.
func (l List) Reconcile(fetched []Record) List {
	out := make(List, len(fetched))
	copy(out, fetched)
	for i := range out {
		out[i].Unconfirmed = false
	}
	return out
}

// Counts tallies records per status. Unknown statuses are counted under "".
func (l List) Counts() map[Status]int {
	counts := make(map[Status]int)
	for _, v := range l {
		if v.Status.Known() {
			counts[v.Status]++
		} else {
			counts[""]++
		}
	}
	return counts
}
