package verbiage

// StalenessDetector decides whether the remote data moved past the stored
// baseline.
type StalenessDetector struct {
	repo *Repository
}

// NewStalenessDetector creates a detector over repo.
func NewStalenessDetector(repo *Repository) *StalenessDetector {
	return &StalenessDetector{repo: repo}
}

// IsNewer compares remote with the stored baseline.
//
// Without a baseline, remote is adopted and true is returned. Otherwise it
// returns true when either field of remote is later than the stored one, in
// which case remote replaces the baseline. Any newer field triggers a full
// refetch; there is no per-category refresh.
//
// The error only reports a failed baseline write.
func (d *StalenessDetector) IsNewer(remote UpdateTimestamps) (bool, error) {
	local, ok := d.repo.LastUpdate()
	if !ok {
		return true, d.repo.SetLastUpdate(remote)
	}

	if !remote.NewerThan(local) {
		return false, nil
	}
	return true, d.repo.SetLastUpdate(remote)
}
