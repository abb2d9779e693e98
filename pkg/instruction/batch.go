package instruction

// Entry is one instruction of a batch with its position in the input.
type Entry struct {
	Index       int
	Instruction string
	Edit        Edit
	Err         error
}

// Batch is the outcome of ParseAll. Both slices keep input order.
type Batch struct {
	Edits   []Entry
	Skipped []Entry
}

// ParseAll parses every instruction independently. A rejected instruction
// lands in Skipped and never affects its neighbours.
func ParseAll(instructions []string) Batch {
	var b Batch
	for i, s := range instructions {
		e, err := Parse(s)
		entry := Entry{Index: i, Instruction: s, Edit: e, Err: err}
		if err != nil {
			b.Skipped = append(b.Skipped, entry)
			continue
		}
		b.Edits = append(b.Edits, entry)
	}
	return b
}
