package gpsd

// Package gpsd is a minimal client for gpsd's JSON line-streaming protocol.
//
// It is intentionally small and geared toward one-shot reads:
// - Dial, send ?WATCH, scan newline-delimited JSON reports
// - Decode TPV (position fix) and DEVICES (receiver enumeration)
// - Bounded dial and read deadlines so a silent daemon cannot hang a caller
