package hub

import "fmt"

// SensorAlgorithmSample is a sensor + algorithm record of the HR/SpO2
// profile.
type SensorAlgorithmSample struct {
	IR              uint32
	Red             uint32
	HeartRate       uint16
	HRConfidence    uint8
	SpO2            uint16
	AlgorithmState  uint8
	AlgorithmStatus uint8
	IBI             uint16
}

// BPTSample is a record of the blood-pressure profile. Raw records only carry
// IR and Red.
type BPTSample struct {
	IR          uint32
	Red         uint32
	BPStatus    uint8
	Progress    uint8
	HeartRate   uint16
	Systolic    uint8
	Diastolic   uint8
	SpO2        uint16
	RValue      uint16
	RestingFlag uint8
}

func u24(b []byte) uint32 {
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}

func u16(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])
}

// record copies b into a zeroed buffer of n bytes so a short read decodes
// as zeros instead of failing.
func record(b []byte, n int) []byte {
	r := make([]byte, n)
	copy(r, b)
	return r
}

// DecodeSensorAlgorithm decodes a 21-byte sensor + algorithm record.
func DecodeSensorAlgorithm(b []byte) SensorAlgorithmSample {
	r := record(b, SensorAlgorithmRecordSize)
	return SensorAlgorithmSample{
		IR:              u24(r[0:3]) / 10,
		Red:             u24(r[3:6]) / 10,
		HeartRate:       u16(r[12:14]) / 10,
		HRConfidence:    r[14],
		SpO2:            u16(r[15:17]) / 10,
		AlgorithmState:  r[17],
		AlgorithmStatus: r[18],
		IBI:             u16(r[19:21]) / 1000,
	}
}

// DecodeBPT decodes a 23-byte blood-pressure record.
func DecodeBPT(b []byte) BPTSample {
	r := record(b, BPTRecordSize)
	return BPTSample{
		IR:          u24(r[0:3]) / 10,
		Red:         u24(r[3:6]) / 10,
		BPStatus:    r[12],
		Progress:    r[13],
		HeartRate:   u16(r[14:16]) / 10,
		Systolic:    r[16],
		Diastolic:   r[17],
		SpO2:        u16(r[18:20]) / 10,
		RValue:      u16(r[20:22]) / 1000,
		RestingFlag: r[22],
	}
}

// DecodeBPTRaw decodes a 12-byte sensor-only record.
func DecodeBPTRaw(b []byte) BPTSample {
	r := record(b, BPTRawRecordSize)
	return BPTSample{
		IR:  u24(r[0:3]) / 10,
		Red: u24(r[3:6]) / 10,
	}
}

// readRecords reads every sample available in the output FIFO, one record
// of size bytes at a time.
func (d *Device) readRecords(size int) ([][]byte, error) {
	n, err := d.ReadAvailableSamples()
	if err != nil {
		return nil, err
	}

	records := make([][]byte, 0, n)
	for i := 0; i < n; i++ {
		b, err := d.ReadOutputFIFO(size)
		if err != nil {
			return records, fmt.Errorf("max32664: could not read sample %d of %d: %w", i+1, n, err)
		}
		records = append(records, b)
	}

	return records, nil
}

// ReadSensorAlgorithmSamples drains the output FIFO of the HR/SpO2 profile.
// On error the samples read so far are returned.
func (d *Device) ReadSensorAlgorithmSamples() ([]SensorAlgorithmSample, error) {
	records, err := d.readRecords(SensorAlgorithmRecordSize)
	samples := make([]SensorAlgorithmSample, len(records))
	for i, r := range records {
		samples[i] = DecodeSensorAlgorithm(r)
	}
	return samples, err
}

// ReadBPTSamples drains the output FIFO of the blood-pressure profile.
func (d *Device) ReadBPTSamples() ([]BPTSample, error) {
	records, err := d.readRecords(BPTRecordSize)
	samples := make([]BPTSample, len(records))
	for i, r := range records {
		samples[i] = DecodeBPT(r)
	}
	return samples, err
}

// ReadBPTRawSamples drains the output FIFO of the raw optical profile.
func (d *Device) ReadBPTRawSamples() ([]BPTSample, error) {
	records, err := d.readRecords(BPTRawRecordSize)
	samples := make([]BPTSample, len(records))
	for i, r := range records {
		samples[i] = DecodeBPTRaw(r)
	}
	return samples, err
}
