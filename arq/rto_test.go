package arq

import "testing"

func TestRTTEstimatorFirstSampleSeedsSRTT(t *testing.T) {
	e := newRTTEstimator()
	e.sample(100, defaultIntervalMs)

	if !e.hasSRTT {
		t.Fatalf("hasSRTT should be true after first sample")
	}
	if e.srtt != 100 {
		t.Fatalf("srtt = %d, want 100", e.srtt)
	}
	if e.rto < e.minRTO {
		t.Fatalf("rto = %d must not be below floor %d", e.rto, e.minRTO)
	}
}

func TestRTTEstimatorStableSamplesConverge(t *testing.T) {
	e := newRTTEstimator()
	for i := 0; i < 20; i++ {
		e.sample(100, defaultIntervalMs)
	}
	if e.srtt < 95 || e.srtt > 105 {
		t.Fatalf("srtt = %d, want close to 100 after repeated identical samples", e.srtt)
	}
}

func TestRTTEstimatorRTOHonorsConfiguredFloor(t *testing.T) {
	e := newRTTEstimator()
	e.minRTO = noDelayRTOFloorMs
	e.sample(1, 0)
	if e.rto < noDelayRTOFloorMs {
		t.Fatalf("rto = %d, must not be below configured floor %d", e.rto, noDelayRTOFloorMs)
	}
}

func TestRTTEstimatorRTOCapsAtMax(t *testing.T) {
	e := newRTTEstimator()
	e.sample(int32(maxRTOMs)*10, defaultIntervalMs)
	if e.rto > maxRTOMs {
		t.Fatalf("rto = %d, must not exceed %d", e.rto, maxRTOMs)
	}
}
