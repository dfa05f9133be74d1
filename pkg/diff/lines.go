package diff

// LineChange is one run of differing lines: Deleted lines of the old
// text replaced by Added lines of the new, starting at Line (counted
// from zero, in the new text).
type LineChange struct {
	Line    int
	Deleted []string
	Added   []string
}

// DiffLines returns the changes that turn the lines a into the lines
// b. A deletion immediately followed by an insertion is reported as a
// single change.
func DiffLines(a, b []string) []LineChange {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}

	chunks := lineChunks(a, b)
	var changes []LineChange

	line := 0
	for i := 0; i < len(chunks); {
		chunk := chunks[i]
		i++

		if len(chunk.deleted) == 0 && len(chunk.added) == 0 {
			line += len(chunk.equal)
			continue
		}

		change := LineChange{
			Line:    line,
			Added:   chunk.added,
			Deleted: chunk.deleted,
		}
		line += len(chunk.added) + len(chunk.equal)

		// coalesce a deletion with the insertion right after it
		if i < len(chunks) {
			next := chunks[i]
			if len(chunk.deleted) > 0 && len(chunk.equal) == 0 && len(next.added) > 0 {
				change.Added = next.added
				line += len(next.added) + len(next.equal)
				i++
			}
		}

		changes = append(changes, change)
	}
	return changes
}

type lineChunk struct {
	added   []string
	deleted []string
	equal   []string
}

// lineChunks is Myers' O(ND) difference algorithm; see
// http://www.xmailserver.org/diff2.pdf. Each chunk holds at most one
// added or deleted line, followed by the lines in common after it.
func lineChunks(a, b []string) []lineChunk {
	n, m := len(a), len(b)
	max := n + m
	v := make([]int, 2*max+1)
	trace := make([][]int, 0, 8)

	var d int
search:
	for d = 0; d <= max; d++ {
		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && v[max+k-1] < v[max+k+1]) {
				x = v[max+k+1]
			} else {
				x = v[max+k-1] + 1
			}
			y := x - k
			for x < n && y < m && a[x] == b[y] {
				x++
				y++
			}
			v[max+k] = x
			if x >= n && y >= m {
				trace = append(trace, append([]int(nil), v...))
				break search
			}
		}
		trace = append(trace, append([]int(nil), v...))
	}
	if d == 0 {
		return nil
	}

	chunks := make([]lineChunk, d+1)
	x, y := n, m
	for step := d; step > 0; step-- {
		v := trace[step]
		k := x - y
		insert := k == -step || (k != step && v[max+k-1] < v[max+k+1])

		x1 := v[max+k]
		var x0, xm, prevK int
		if insert {
			prevK = k + 1
			x0 = v[max+prevK]
			xm = x0
		} else {
			prevK = k - 1
			x0 = v[max+prevK]
			xm = x0 + 1
		}
		y0 := x0 - prevK

		var c lineChunk
		if insert {
			c.added = b[y0 : y0+1]
		} else {
			c.deleted = a[x0 : x0+1]
		}
		if xm < x1 {
			c.equal = a[xm:x1]
		}

		x, y = x0, y0
		chunks[step] = c
	}
	if x > 0 {
		chunks[0].equal = a[:x]
	}
	return chunks
}
