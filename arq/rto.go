package arq

// rttEstimator implements the classical Jacobson/Karels RTT/RTO
// estimator (RFC 6298), with the coefficients the reference ARQ core
// tunes: a 1/4-weighted variance update and a 1/8-weighted smoothed RTT
// update, and an RTO floor that is configurable (lower in no-delay mode).
// All quantities are milliseconds, matching the wire ts field and the
// caller-supplied clock.
type rttEstimator struct {
	srtt    int32 // smoothed RTT
	rttvar  int32 // RTT variance estimate
	rto     uint32
	minRTO  uint32 // RTO floor
	hasSRTT bool
}

func newRTTEstimator() *rttEstimator {
	return &rttEstimator{
		rto:    defaultRTOMs,
		minRTO: minRTOFloorMs,
	}
}

// sample feeds one RTT observation (milliseconds) into the estimator and
// recomputes rto. interval is the session's flush interval, used as the
// minimum deviation term per the reference formula.
func (e *rttEstimator) sample(rtt int32, interval uint32) {
	if !e.hasSRTT {
		e.srtt = rtt
		e.rttvar = rtt / 2
		e.hasSRTT = true
	} else {
		delta := rtt - e.srtt
		if delta < 0 {
			delta = -delta
		}
		e.rttvar = (3*e.rttvar + delta) / 4
		e.srtt = (7*e.srtt + rtt) / 8
		if e.srtt < 1 {
			e.srtt = 1
		}
	}
	rto := uint32(e.srtt) + maxU32(interval, uint32(e.rttvar)*4)
	e.rto = boundU32(e.minRTO, rto, maxRTOMs)
}
