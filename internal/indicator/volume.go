package indicator

// VolumeCheck is the result of the volume-confirmation filter.
type VolumeCheck struct {
	AvgVolume   float64
	VolumeRatio float64
	Confirmed   bool
}

// volumeSpikeRatio is the multiple of average volume treated as a spike.
const volumeSpikeRatio = 1.5

// VolumeRatio compares the current volume against the mean of the trailing
// `period` volumes. With fewer than `period` historical volumes it returns
// the zero check (ratio 0, not confirmed): early-series bars never count as
// volume confirmation.
func VolumeRatio(volumes []float64, currentVolume float64, period int) VolumeCheck {
	if period <= 0 || len(volumes) < period {
		return VolumeCheck{}
	}
	sum := 0.0
	for i := len(volumes) - period; i < len(volumes); i++ {
		sum += volumes[i]
	}
	avg := sum / float64(period)
	if avg == 0 {
		return VolumeCheck{}
	}
	ratio := currentVolume / avg
	return VolumeCheck{
		AvgVolume:   avg,
		VolumeRatio: ratio,
		Confirmed:   ratio >= volumeSpikeRatio,
	}
}
