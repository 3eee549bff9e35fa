package dataset

// Snapshot is a read-only view of a dataset. The zero value is an empty dataset.
type Snapshot struct {
	ds *Dataset
}

// NewSnapshot wraps ds without copying it. The owner must not mutate ds while
// the snapshot is in use; mutations are made on a Clone and handed back.
func NewSnapshot(ds *Dataset) Snapshot {
	return Snapshot{ds: ds}
}

// InterfaceType returns interface.type, or "" for an empty snapshot.
func (s Snapshot) InterfaceType() string {
	if s.ds == nil {
		return ""
	}
	return s.ds.Interface.Type
}

// Name returns the dataset name.
func (s Snapshot) Name() string {
	if s.ds == nil {
		return ""
	}
	return s.ds.Name
}

// Len returns the number of samples.
func (s Snapshot) Len() int {
	if s.ds == nil {
		return 0
	}
	return len(s.ds.Samples)
}

// Sample returns a copy of the i-th sample.
func (s Snapshot) Sample(i int) Sample {
	return s.ds.Samples[i].clone()
}

// Clone returns a mutable deep copy for deriving a new dataset.
func (s Snapshot) Clone() *Dataset {
	if s.ds == nil {
		return &Dataset{}
	}
	return s.ds.Clone()
}
