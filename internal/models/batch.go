package models

// BatchFile is the decoded content of a batch file: three independent
// sections, each in any Entries shape.
type BatchFile struct {
	Metrics Entries
	Params  Entries
	Tags    Entries
}

// Empty reports whether the file carries no entries at all.
func (b *BatchFile) Empty() bool {
	return Len(b.Metrics) == 0 && Len(b.Params) == 0 && Len(b.Tags) == 0
}
