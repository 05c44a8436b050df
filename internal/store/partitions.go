package store

// AddPartition registers a new partition name. Empty names and duplicates
// are no-ops.
func (s *Store) AddPartition(name string) error {
	if name == "" {
		return nil
	}
	return s.mutate(func(st *AppState) bool {
		if containsString(st.Partitions, name) {
			return false
		}
		st.Partitions = append(st.Partitions, name)
		return true
	})
}

// DeletePartition removes a partition and reassigns its todos to the default
// partition. The default partition cannot be deleted.
func (s *Store) DeletePartition(name string) error {
	if name == DefaultPartition {
		return nil
	}
	return s.mutate(func(st *AppState) bool {
		found := false
		for i, p := range st.Partitions {
			if p == name {
				st.Partitions = append(st.Partitions[:i], st.Partitions[i+1:]...)
				found = true
				break
			}
		}
		if !found {
			return false
		}
		for i := range st.Todos {
			if st.Todos[i].Partition == name {
				st.Todos[i].Partition = DefaultPartition
			}
		}
		return true
	})
}

// PartitionOf resolves a todo's partition with fallback to default when the
// referenced name no longer exists (weak reference, not ownership).
func PartitionOf(t Todo, partitions []string) string {
	if t.Partition != "" && containsString(partitions, t.Partition) {
		return t.Partition
	}
	return DefaultPartition
}
