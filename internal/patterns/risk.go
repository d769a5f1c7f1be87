package patterns

// HourDistance is the gap between two hours of day. With wrap set the
// clock is treated as circular, so 23 and 0 are one hour apart.
func HourDistance(a, b int, wrap bool) int {
	d := a - b
	if d < 0 {
		d = -d
	}
	if wrap && 24-d < d {
		d = 24 - d
	}
	return d
}

// HighRisk reports whether hour lies within one hour of the snapshot's peak.
func HighRisk(s *Snapshot, hour int, wrap bool) bool {
	if s == nil || s.TotalEvents < MinEvents {
		return false
	}
	return HourDistance(hour, s.PeakDistractionHour, wrap) <= 1
}
