package storage

// lineCounter counts non-empty lines across arbitrary chunk boundaries.
// A line holding nothing but a carriage return counts as empty.
type lineCounter struct {
	count  int64
	length int
	lastCR bool
}

func (c *lineCounter) Write(p []byte) (int, error) {
	for _, b := range p {
		if b == '\n' {
			c.endLine()
			continue
		}
		c.length++
		c.lastCR = b == '\r'
	}
	return len(p), nil
}

func (c *lineCounter) endLine() {
	n := c.length
	if c.lastCR {
		n--
	}
	if n > 0 {
		c.count++
	}
	c.length = 0
	c.lastCR = false
}

// Total returns the count including an unterminated final line.
func (c *lineCounter) Total() int64 {
	total := c.count
	n := c.length
	if c.lastCR {
		n--
	}
	if n > 0 {
		total++
	}
	return total
}

// CountLines returns the number of non-empty lines in data.
func CountLines(data []byte) int64 {
	var c lineCounter
	c.Write(data)
	return c.Total()
}
